package errs

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   error
		status int
	}{
		{"validation", Validation("adults must be at least %d", 1), ErrValidation, http.StatusBadRequest},
		{"not found", NotFound("session %s", "abc"), ErrNotFound, http.StatusNotFound},
		{"wrapped validation", Wrap(Validation("bad"), "decode"), ErrValidation, http.StatusBadRequest},
		{"marked transport", Mark(New("dial tcp"), ErrTransport), ErrTransport, http.StatusBadGateway},
		{"search error", &SearchError{StatusCode: 500, Message: "boom"}, ErrTransport, http.StatusBadGateway},
		{"wrapped search error", Wrapf(&SearchError{StatusCode: 429}, "hotel %s", "search"), ErrTransport, http.StatusBadGateway},
		{"tool execution", Mark(New("panic"), ErrToolExecution), ErrToolExecution, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Is(tt.err, tt.kind))
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatus_Plain(t *testing.T) {
	assert.Equal(t, http.StatusOK, HTTPStatus(nil))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(New("unexpected")))
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "noop"))
	assert.NoError(t, Wrapf(nil, "noop %d", 1))
}

func TestSearchErrorMessage(t *testing.T) {
	err := &SearchError{StatusCode: 503, Message: "unavailable"}
	assert.Equal(t, "hotel search failed with status 503: unavailable", err.Error())
	assert.False(t, Is(err, ErrValidation))
}
