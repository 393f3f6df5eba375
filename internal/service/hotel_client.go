package service

import (
	"context"
	"encoding/json"
	"io"
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

// HotelSearchClient queries the external hotel-search provider
type HotelSearchClient interface {
	SearchHotels(ctx context.Context, criteria model.SearchCriteria) ([]model.HotelRecord, error)
}

// RapidAPIHotelClient talks to the booking-com15 searchHotelsByCoordinates endpoint
type RapidAPIHotelClient struct {
	config     *config.RapidAPIConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRapidAPIHotelClient creates a new hotel-search client
func NewRapidAPIHotelClient(cfg *config.RapidAPIConfig, logger *zap.Logger) *RapidAPIHotelClient {
	return &RapidAPIHotelClient{
		config: cfg,
		logger: logger,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		},
	}
}

var _ HotelSearchClient = (*RapidAPIHotelClient)(nil)

// SearchHotels runs one provider query. A non-2xx answer returns *errs.SearchError;
// a falsy status or a malformed envelope yields zero records and no error.
func (c *RapidAPIHotelClient) SearchHotels(ctx context.Context, criteria model.SearchCriteria) ([]model.HotelRecord, error) {
	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/searchHotelsByCoordinates?" + buildSearchQuery(criteria).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to create request"), errs.ErrTransport)
	}
	req.Header.Set("X-RapidAPI-Key", c.config.APIKey)
	req.Header.Set("X-RapidAPI-Host", c.config.Host)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamDuration.WithLabelValues("rapidapi").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to send request"), errs.ErrTransport)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to read response"), errs.ErrTransport)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &errs.SearchError{StatusCode: resp.StatusCode, Message: truncate(string(body), 200)}
	}

	var envelope model.UpstreamEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.logger.Warn("malformed search envelope", zap.Error(err))
		return []model.HotelRecord{}, nil
	}
	if envelope.Status == nil || !*envelope.Status || envelope.Data == nil {
		c.logger.Info("provider returned no usable data", zap.String("message", envelope.Message))
		return []model.HotelRecord{}, nil
	}

	records := make([]model.HotelRecord, 0, len(envelope.Data.Result))
	for i, raw := range envelope.Data.Result {
		record, err := mapHotel(raw, criteria.Currency)
		if err != nil {
			metrics.SkippedRecords.Inc()
			c.logger.Debug("skipping hotel record", zap.Int("index", i), zap.Error(err))
			continue
		}
		records = append(records, record)
	}

	c.logger.Info("hotel search completed",
		zap.Int("received", len(envelope.Data.Result)),
		zap.Int("valid", len(records)),
	)
	return records, nil
}

// buildSearchQuery maps criteria onto the provider's query parameters
func buildSearchQuery(criteria model.SearchCriteria) url.Values {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(criteria.Coordinates.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(criteria.Coordinates.Longitude, 'f', -1, 64))
	q.Set("arrival_date", criteria.Arrival.Format(model.DateLayout))
	q.Set("departure_date", criteria.Departure.Format(model.DateLayout))
	q.Set("adults", strconv.Itoa(criteria.Adults))
	q.Set("room_qty", strconv.Itoa(criteria.Rooms))
	if len(criteria.ChildrenAges) > 0 {
		ages := make([]string, len(criteria.ChildrenAges))
		for i, age := range criteria.ChildrenAges {
			ages[i] = strconv.Itoa(age)
		}
		q.Set("children_age", strings.Join(ages, ","))
	}
	q.Set("units", "metric")
	q.Set("page_number", "1")
	q.Set("temperature_unit", "c")
	q.Set("languagecode", "en-us")
	q.Set("currency_code", criteria.Currency)
	return q
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
