package spatial

import (
	"github.com/golang/geo/s2"

	"github.com/heatscape/heat-backend-go/internal/models"
)

// EarthRadiusMeters is the mean Earth radius
const EarthRadiusMeters = 6371000.0

// HaversineDistance calculates the great-circle distance between two
// points in meters
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// RouteLengthMeters sums the great-circle length of a polyline
func RouteLengthMeters(route []models.RoutePoint) float64 {
	var total float64
	for i := 0; i+1 < len(route); i++ {
		total += HaversineDistance(route[i].Lat, route[i].Lng, route[i+1].Lat, route[i+1].Lng)
	}
	return total
}

// Envelope returns the tight bounding box of a point set. Empty input
// yields the zero box.
func Envelope(points []models.RoutePoint) models.BoundingBox {
	if len(points) == 0 {
		return models.BoundingBox{}
	}
	b := models.BoundingBox{
		MinLng: points[0].Lng, MinLat: points[0].Lat,
		MaxLng: points[0].Lng, MaxLat: points[0].Lat,
	}
	for _, p := range points[1:] {
		if p.Lng < b.MinLng {
			b.MinLng = p.Lng
		}
		if p.Lng > b.MaxLng {
			b.MaxLng = p.Lng
		}
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
	}
	return b
}
