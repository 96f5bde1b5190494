package service

import (
	"math"
	"testing"

	"github.com/forgo/missions/api/internal/model"
)

func TestHaversineDistance(t *testing.T) {
	tests := []struct {
		name     string
		lat1     float64
		lng1     float64
		lat2     float64
		lng2     float64
		expected float64
		delta    float64
	}{
		{"same point", 37.5665, 126.9780, 37.5665, 126.9780, 0, 0.001},
		{"seoul to busan", 37.5665, 126.9780, 35.1796, 129.0756, 325, 5},
		{"one degree latitude", 0, 0, 1, 0, 111.19, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineDistance(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("HaversineDistance() = %v, want %v ± %v", got, tt.expected, tt.delta)
			}
		})
	}
}

func TestParseOrigin(t *testing.T) {
	lat, lng, bad := 37.5, 127.0, 200.0

	if ParseOrigin(nil, &lng) != nil {
		t.Error("expected nil origin without latitude")
	}
	if ParseOrigin(&lat, &bad) != nil {
		t.Error("expected nil origin for out of range longitude")
	}
	o := ParseOrigin(&lat, &lng)
	if o == nil || o.Lat != lat || o.Lng != lng {
		t.Errorf("ParseOrigin() = %+v", o)
	}
}

func TestDisplayDistanceMeters(t *testing.T) {
	m := &model.Mission{DistanceMeters: 1500}
	if got := displayDistanceMeters(m, &Origin{Lat: 1, Lng: 1}); got != 1500 {
		t.Errorf("mission without coordinates should keep stored distance, got %v", got)
	}

	m.Coordinates = &model.Coordinates{Lat: 1, Lng: 0}
	if got := displayDistanceMeters(m, nil); got != 1500 {
		t.Errorf("request without origin should keep stored distance, got %v", got)
	}

	got := displayDistanceMeters(m, &Origin{Lat: 0, Lng: 0})
	if math.Abs(got-111195) > 100 {
		t.Errorf("displayDistanceMeters() = %v, want about 111195", got)
	}
	if m.DistanceMeters != 1500 {
		t.Error("stored distance must not change")
	}
}
