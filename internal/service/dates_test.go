package service

import (
	"testing"
	"time"

	"hotelsearch/internal/clock"
	"hotelsearch/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateParser(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC))
	p := NewDateParser(clk)

	assert.Equal(t, date("2025-03-10"), p.Today())

	tests := []struct {
		expr string
		want string
	}{
		{"2025-04-01", "2025-04-01"},
		{"today", "2025-03-10"},
		{"tomorrow", "2025-03-11"},
		{"in 3 days", "2025-03-13"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := p.Parse(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, date(tt.want), got)
		})
	}
}

func TestDateParser_FollowsClock(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2025, 12, 31, 8, 0, 0, 0, time.UTC))
	p := NewDateParser(clk)

	got, err := p.Parse("tomorrow")
	require.NoError(t, err)
	assert.Equal(t, date("2026-01-01"), got)

	clk.Add(24 * time.Hour)
	assert.Equal(t, date("2026-01-01"), p.Today())
}

func TestDateParser_Rejects(t *testing.T) {
	p := NewDateParser(clock.NewMockClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)))

	for _, expr := range []string{"", "   ", "qwerty zxcv"} {
		_, err := p.Parse(expr)
		require.Error(t, err, expr)
		assert.True(t, errs.Is(err, errs.ErrValidation))
	}
}
