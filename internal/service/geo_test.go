package service

import (
	"testing"

	"hotelsearch/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	paris := model.Coordinates{Latitude: 48.8566, Longitude: 2.3522}
	london := model.Coordinates{Latitude: 51.5074, Longitude: -0.1278}

	t.Run("same point is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, DistanceKm(paris, paris))
	})

	t.Run("symmetric", func(t *testing.T) {
		assert.InDelta(t, DistanceKm(paris, london), DistanceKm(london, paris), 1e-9)
	})

	t.Run("paris to london", func(t *testing.T) {
		assert.InDelta(t, 343.5, DistanceKm(paris, london), 1.0)
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		a := model.Coordinates{Latitude: 0, Longitude: 0}
		b := model.Coordinates{Latitude: 1, Longitude: 0}
		assert.InDelta(t, 111.19, DistanceKm(a, b), 0.01)
	})

	t.Run("antipodal points", func(t *testing.T) {
		a := model.Coordinates{Latitude: 0, Longitude: 0}
		b := model.Coordinates{Latitude: 0, Longitude: 180}
		assert.InDelta(t, 20015.09, DistanceKm(a, b), 0.01)
	})
}

func TestRoundKm(t *testing.T) {
	assert.Equal(t, 2.13, roundKm(2.1349))
	assert.Equal(t, 2.14, roundKm(2.1351))
	assert.Equal(t, 0.0, roundKm(0.001))
}
