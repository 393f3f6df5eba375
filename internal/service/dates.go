package service

import (
	"strings"
	"time"

	"hotelsearch/internal/clock"
	"hotelsearch/internal/errs"
	"hotelsearch/internal/model"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// DateParser turns natural-language date expressions into calendar dates
type DateParser struct {
	parser *when.Parser
	clock  clock.Clock
}

// NewDateParser creates a parser with English and common rules, relative to clk
func NewDateParser(clk clock.Clock) *DateParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &DateParser{parser: w, clock: clk}
}

// Today returns the current date at midnight UTC
func (p *DateParser) Today() time.Time {
	return truncateToDate(p.clock.Now())
}

// Parse resolves expressions such as "tomorrow" or "next friday". ISO dates pass through.
func (p *DateParser) Parse(expression string) (time.Time, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return time.Time{}, errs.Validation("empty date expression")
	}
	if d, err := time.Parse(model.DateLayout, expression); err == nil {
		return d, nil
	}

	result, err := p.parser.Parse(expression, p.clock.Now())
	if err != nil {
		return time.Time{}, errs.Mark(errs.Wrapf(err, "parse date %q", expression), errs.ErrValidation)
	}
	if result == nil {
		return time.Time{}, errs.Validation("could not understand the date %q", expression)
	}
	return truncateToDate(result.Time), nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
