package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotelsearch/internal/config"
	"hotelsearch/internal/errs"
	"hotelsearch/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGeocoder(url string) *NominatimGeocoder {
	return NewNominatimGeocoder(&config.GeocoderConfig{
		BaseURL:   url,
		UserAgent: "hotelsearch-test/1.0",
		Language:  "en",
		Timeout:   5 * time.Second,
	}, zap.NewNop())
}

func TestNominatimGeocoder_Resolve(t *testing.T) {
	var gotReq *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		_, _ = w.Write([]byte(`[{"lat": "48.8588897", "lon": "2.3200410", "display_name": "Paris, France"}]`))
	}))
	defer srv.Close()

	coords, err := newTestGeocoder(srv.URL).Resolve(context.Background(), " Paris ")
	require.NoError(t, err)
	assert.Equal(t, model.Coordinates{Latitude: 48.8588897, Longitude: 2.3200410}, coords)

	require.NotNil(t, gotReq)
	assert.Equal(t, "/search", gotReq.URL.Path)
	assert.Equal(t, "Paris", gotReq.URL.Query().Get("q"))
	assert.Equal(t, "1", gotReq.URL.Query().Get("limit"))
	assert.Equal(t, "json", gotReq.URL.Query().Get("format"))
	assert.Equal(t, "hotelsearch-test/1.0", gotReq.Header.Get("User-Agent"))
}

func TestNominatimGeocoder_NotFound(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"no match", http.StatusOK, `[]`},
		{"server error", http.StatusServiceUnavailable, `busy`},
		{"bad latitude", http.StatusOK, `[{"lat": "north", "lon": "2.3"}]`},
		{"out of range", http.StatusOK, `[{"lat": "123", "lon": "2.3"}]`},
		{"not json", http.StatusOK, `<html></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestGeocoder(srv.URL).Resolve(context.Background(), "Atlantis")
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.ErrNotFound))
		})
	}

	_, err := newTestGeocoder("http://127.0.0.1:1").Resolve(context.Background(), "")
	assert.True(t, errs.Is(err, errs.ErrNotFound))
}
