package util

import (
	"math"
)

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points given in
// degrees, using the Haversine formula.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degToRad(lat2 - lat1)
	dLng := degToRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degToRad(lat1))*math.Cos(degToRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// BoundingBox returns a lat/lng rectangle containing every point within
// radiusKm of the centre. It is a coarse prefilter for DistanceKm; near the
// poles the longitude span widens to the full range.
func BoundingBox(lat, lng, radiusKm float64) (minLat, maxLat, minLng, maxLng float64) {
	dLat := radToDeg(radiusKm / earthRadiusKm)
	minLat, maxLat = math.Max(lat-dLat, -90), math.Min(lat+dLat, 90)

	cosLat := math.Cos(degToRad(lat))
	if cosLat < 1e-6 || maxLat >= 90 || minLat <= -90 {
		return minLat, maxLat, -180, 180
	}
	dLng := radToDeg(radiusKm / (earthRadiusKm * cosLat))
	if dLng >= 180 {
		return minLat, maxLat, -180, 180
	}
	return minLat, maxLat, lng - dLng, lng + dLng
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

func radToDeg(rad float64) float64 {
	return rad * (180.0 / math.Pi)
}
