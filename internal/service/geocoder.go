package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hotelsearch/internal/config"
	"hotelsearch/internal/errs"
	"hotelsearch/internal/metrics"
	"hotelsearch/internal/model"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Geocoder resolves a free-text place name to coordinates.
// Every failure is reported as errs.ErrNotFound.
type Geocoder interface {
	Resolve(ctx context.Context, place string) (model.Coordinates, error)
}

// nominatimPlace is one item of a Nominatim /search answer
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NominatimGeocoder queries an OpenStreetMap Nominatim endpoint
type NominatimGeocoder struct {
	config     *config.GeocoderConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewNominatimGeocoder creates a geocoder with a traced HTTP client
func NewNominatimGeocoder(cfg *config.GeocoderConfig, logger *zap.Logger) *NominatimGeocoder {
	return &NominatimGeocoder{
		config: cfg,
		logger: logger,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		},
	}
}

var _ Geocoder = (*NominatimGeocoder)(nil)

// Resolve returns the coordinates of the single best match for place
func (g *NominatimGeocoder) Resolve(ctx context.Context, place string) (model.Coordinates, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return model.Coordinates{}, errs.NotFound("empty place name")
	}

	coords, err := g.lookup(ctx, place)
	if err != nil {
		g.logger.Warn("geocoding failed", zap.String("place", place), zap.Error(err))
		return model.Coordinates{}, errs.Mark(errs.Wrapf(err, "resolve %q", place), errs.ErrNotFound)
	}

	g.logger.Debug("geocoded place", zap.String("place", place), zap.Stringer("coordinates", coords))
	return coords, nil
}

func (g *NominatimGeocoder) lookup(ctx context.Context, place string) (model.Coordinates, error) {
	params := url.Values{}
	params.Set("q", place)
	params.Set("format", "json")
	params.Set("limit", "1")
	if g.config.Language != "" {
		params.Set("accept-language", g.config.Language)
	}

	endpoint := fmt.Sprintf("%s/search?%s", strings.TrimRight(g.config.BaseURL, "/"), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", g.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	metrics.UpstreamDuration.WithLabelValues("geocoder").Observe(time.Since(start).Seconds())
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Coordinates{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return model.Coordinates{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(places) == 0 {
		return model.Coordinates{}, fmt.Errorf("no match")
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("invalid latitude %q", places[0].Lat)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("invalid longitude %q", places[0].Lon)
	}

	coords := model.Coordinates{Latitude: lat, Longitude: lon}
	if !coords.Valid() {
		return model.Coordinates{}, fmt.Errorf("coordinates out of range: %s", coords)
	}
	return coords, nil
}
