package service

import (
	"math"

	"github.com/forgo/missions/api/internal/model"
)

// EarthRadiusKm is the Earth's radius in kilometers
const EarthRadiusKm = 6371.0

// HaversineDistance calculates the distance between two points in kilometers
// using the Haversine formula (accounts for Earth's curvature)
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Origin is an optional caller position attached to a listing request
type Origin struct {
	Lat float64
	Lng float64
}

// ParseOrigin returns an origin when both coordinates are present and in range
func ParseOrigin(lat, lng *float64) *Origin {
	if lat == nil || lng == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 || *lng < -180 || *lng > 180 {
		return nil
	}
	return &Origin{Lat: *lat, Lng: *lng}
}

// displayDistanceMeters returns the distance shown for m. The stored distance
// wins unless the caller sent a position and the mission has coordinates.
func displayDistanceMeters(m *model.Mission, origin *Origin) float64 {
	if origin == nil || m.Coordinates == nil {
		return m.DistanceMeters
	}
	return HaversineDistance(origin.Lat, origin.Lng, m.Coordinates.Lat, m.Coordinates.Lng) * 1000
}
