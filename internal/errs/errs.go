package errs

import (
	stderrors "errors"
	"fmt"
	"net/http"

	cr "github.com/cockroachdb/errors"
)

// Error kinds shared by every layer. Concrete errors are marked with one of
// these so callers can branch with Is regardless of wrapping.
var (
	ErrNotFound      = cr.New("not found")
	ErrTransport     = cr.New("transport error")
	ErrValidation    = cr.New("validation error")
	ErrToolExecution = cr.New("tool execution error")
)

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return cr.Wrapf(err, format, args...)
}

func New(msg string) error {
	return cr.New(msg)
}

func Newf(format string, args ...interface{}) error {
	return cr.Newf(format, args...)
}

func Mark(err error, kind error) error {
	if err == nil {
		return kind
	}
	return cr.Mark(err, kind)
}

// Is also consults Is methods of wrapped errors, which SearchError relies on.
func Is(err, kind error) bool {
	return cr.Is(err, kind) || stderrors.Is(err, kind)
}

// Validation builds a ValidationError with a formatted message.
func Validation(format string, args ...interface{}) error {
	return cr.Mark(cr.Newf(format, args...), ErrValidation)
}

// NotFound builds a NotFound error with a formatted message.
func NotFound(format string, args ...interface{}) error {
	return cr.Mark(cr.Newf(format, args...), ErrNotFound)
}

// SearchError reports a non-2xx answer from the hotel-search provider.
type SearchError struct {
	StatusCode int
	Message    string
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("hotel search failed with status %d: %s", e.StatusCode, e.Message)
}

// Is lets SearchError match ErrTransport.
func (e *SearchError) Is(target error) bool {
	return target == ErrTransport
}

// HTTPStatus maps an error kind to the status code a handler should answer with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case Is(err, ErrValidation):
		return http.StatusBadRequest
	case Is(err, ErrNotFound):
		return http.StatusNotFound
	case Is(err, ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
