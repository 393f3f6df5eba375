package service

import (
	"sort"

	"hotelsearch/internal/model"
)

// Ranker orders hotels by distance from a search point
type Ranker struct {
	distance func(a, b model.Coordinates) float64
}

// NewRanker creates a ranker using the haversine distance
func NewRanker() *Ranker {
	return &Ranker{distance: DistanceKm}
}

// RankResults attaches distances, drops hotels farther than maxKm and sorts the
// rest ascending. Ties keep the provider's order.
func (r *Ranker) RankResults(center model.Coordinates, hotels []model.HotelRecord, maxKm float64) []model.RankedHotelRecord {
	results := make([]model.RankedHotelRecord, 0, len(hotels))

	for _, hotel := range hotels {
		km := roundKm(r.distance(center, hotel.Coordinates))
		if km > maxKm {
			continue
		}
		results = append(results, model.RankedHotelRecord{
			HotelRecord: hotel,
			DistanceKm:  km,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})

	return results
}
