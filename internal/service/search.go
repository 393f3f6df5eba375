package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"hotelsearch/internal/config"
	"hotelsearch/internal/errs"
	"hotelsearch/internal/metrics"
	"hotelsearch/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SearchLogger records search outcomes. Implemented by the Postgres repository.
type SearchLogger interface {
	LogSearch(ctx context.Context, entry *model.SearchLog) error
}

// SearchService runs the geocode, search, filter and rank pipeline
type SearchService struct {
	hotels   HotelSearchClient
	geocoder Geocoder
	ranker   *Ranker
	audit    SearchLogger
	cfg      config.SearchConfig
	logger   *zap.Logger
}

// NewSearchService creates a new search service. audit may be nil.
func NewSearchService(
	hotels HotelSearchClient,
	geocoder Geocoder,
	ranker *Ranker,
	audit SearchLogger,
	cfg config.SearchConfig,
	logger *zap.Logger,
) *SearchService {
	return &SearchService{
		hotels:   hotels,
		geocoder: geocoder,
		ranker:   ranker,
		audit:    audit,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run searches around criteria.Coordinates and returns hotels within maxKm,
// nearest first. Provider failures are logged and yield an empty list.
func (s *SearchService) Run(ctx context.Context, criteria model.SearchCriteria, maxKm float64) []model.RankedHotelRecord {
	results, _ := s.run(ctx, criteria, maxKm)
	return results
}

func (s *SearchService) run(ctx context.Context, criteria model.SearchCriteria, maxKm float64) ([]model.RankedHotelRecord, string) {
	if maxKm <= 0 {
		maxKm = s.cfg.DefaultMaxDistanceKm
	}

	hotels, err := s.hotels.SearchHotels(ctx, criteria)
	if err != nil {
		metrics.SearchOutcomes.WithLabelValues(metrics.OutcomeUpstreamError).Inc()
		s.logger.Error("hotel search failed, returning no results",
			zap.String("outcome", metrics.OutcomeUpstreamError),
			zap.Stringer("center", criteria.Coordinates),
			zap.Error(err),
		)
		return []model.RankedHotelRecord{}, metrics.OutcomeUpstreamError
	}

	results := s.ranker.RankResults(criteria.Coordinates, hotels, maxKm)

	outcome := metrics.OutcomeOK
	if len(results) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.SearchOutcomes.WithLabelValues(outcome).Inc()
	s.logger.Info("hotel search ranked",
		zap.String("outcome", outcome),
		zap.Int("provider_results", len(hotels)),
		zap.Int("within_distance", len(results)),
		zap.Float64("max_distance_km", maxKm),
	)
	return results, outcome
}

// Search serves the inbound search operation: resolve the location, validate
// the criteria, run the pipeline and record the outcome.
func (s *SearchService) Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResponse, error) {
	startTime := time.Now()

	center, err := s.resolveCenter(ctx, req)
	if err != nil {
		return nil, err
	}

	criteria, err := s.criteriaFromRequest(center, req)
	if err != nil {
		return nil, err
	}

	maxKm := req.MaxDistanceKm
	if maxKm <= 0 {
		maxKm = s.cfg.DefaultMaxDistanceKm
	}

	results, outcome := s.run(ctx, criteria, maxKm)
	took := time.Since(startTime).Milliseconds()

	entry := &model.SearchLog{
		ID:             uuid.NewString(),
		Source:         "api",
		Location:       req.Location,
		Latitude:       center.Latitude,
		Longitude:      center.Longitude,
		ArrivalDate:    criteria.Arrival.Format(model.DateLayout),
		DepartureDate:  criteria.Departure.Format(model.DateLayout),
		Adults:         criteria.Adults,
		Rooms:          criteria.Rooms,
		Currency:       criteria.Currency,
		MaxDistanceKm:  maxKm,
		Outcome:        outcome,
		ResultCount:    len(results),
		HotelIDs:       hotelIDs(results),
		ResponseTimeMs: int(took),
	}
	s.logSearch(entry)

	return &model.SearchResponse{
		SearchID:      entry.ID,
		Location:      req.Location,
		Center:        center,
		MaxDistanceKm: maxKm,
		Count:         len(results),
		Outcome:       outcome,
		Hotels:        results,
		Took:          took,
	}, nil
}

// logSearch writes the audit row without blocking the caller
func (s *SearchService) logSearch(entry *model.SearchLog) {
	if s.audit == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.audit.LogSearch(ctx, entry); err != nil {
			s.logger.Warn("failed to log search", zap.String("search_id", entry.ID), zap.Error(err))
		}
	}()
}

func (s *SearchService) resolveCenter(ctx context.Context, req *model.SearchRequest) (model.Coordinates, error) {
	if req.Latitude != nil && req.Longitude != nil {
		c := model.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
		if !c.Valid() {
			return model.Coordinates{}, errs.Validation("coordinates out of range: %s", c)
		}
		return c, nil
	}
	if strings.TrimSpace(req.Location) == "" {
		return model.Coordinates{}, errs.Validation("either location or latitude and longitude is required")
	}
	return s.geocoder.Resolve(ctx, req.Location)
}

func (s *SearchService) criteriaFromRequest(center model.Coordinates, req *model.SearchRequest) (model.SearchCriteria, error) {
	arrival, err := time.Parse(model.DateLayout, req.ArrivalDate)
	if err != nil {
		return model.SearchCriteria{}, errs.Validation("invalid arrival_date %q, expected YYYY-MM-DD", req.ArrivalDate)
	}
	departure, err := time.Parse(model.DateLayout, req.DepartureDate)
	if err != nil {
		return model.SearchCriteria{}, errs.Validation("invalid departure_date %q, expected YYYY-MM-DD", req.DepartureDate)
	}
	ages, err := ParseChildrenAges(req.ChildrenAge)
	if err != nil {
		return model.SearchCriteria{}, err
	}

	adults := req.Adults
	if adults == 0 {
		adults = 1
	}
	rooms := req.Rooms
	if rooms == 0 {
		rooms = 1
	}
	currency := req.CurrencyCode
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	return model.NewSearchCriteria(center, arrival, departure, adults, rooms, ages, currency)
}

// ParseChildrenAges parses a comma-separated age list such as "4,9"
func ParseChildrenAges(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ages := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		age, err := strconv.Atoi(p)
		if err != nil {
			return nil, errs.Validation("invalid child age %q", p)
		}
		ages = append(ages, age)
	}
	return ages, nil
}

func hotelIDs(results []model.RankedHotelRecord) []int64 {
	ids := make([]int64, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	return ids
}
