package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	// Izmir Konak to Istanbul Sultanahmet, roughly 330 km
	d := DistanceKm(38.4189, 27.1287, 41.0054, 28.9768)
	assert.InDelta(t, 330, d, 10)

	assert.Zero(t, DistanceKm(38.4, 27.1, 38.4, 27.1))
}

func TestBoundingBox(t *testing.T) {
	minLat, maxLat, minLng, maxLng := BoundingBox(38.4189, 27.1287, 10)
	assert.Less(t, minLat, 38.4189)
	assert.Greater(t, maxLat, 38.4189)
	assert.InDelta(t, 0.09, maxLat-38.4189, 0.001)
	assert.Greater(t, maxLng-27.1287, maxLat-38.4189, "longitude degrees are shorter away from the equator")

	// a point just inside the radius lies inside the box
	lat, lng := 38.4189+0.08, 27.1287
	assert.Less(t, DistanceKm(38.4189, 27.1287, lat, lng), 10.0)
	assert.True(t, lat >= minLat && lat <= maxLat && lng >= minLng && lng <= maxLng)

	_, _, minLng, maxLng = BoundingBox(89.99, 0, 50)
	assert.Equal(t, -180.0, minLng)
	assert.Equal(t, 180.0, maxLng)
}
