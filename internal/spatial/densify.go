package spatial

import (
	"math"

	"github.com/heatscape/heat-backend-go/internal/models"
)

// MaxStepDegrees caps the gap between interpolated route points so that
// no tile along a route can slip between consecutive samples, even when
// tiles are small relative to the raw vertex spacing.
const MaxStepDegrees = 0.0003

// Densify resamples a polyline so no two consecutive points are more
// than MaxStepDegrees apart on either axis. Each segment emits its
// interpolated points without its own endpoint; the following segment's
// start supplies it, and the final route point is appended last.
func Densify(route []models.RoutePoint) []models.RoutePoint {
	if len(route) == 0 {
		return nil
	}

	out := make([]models.RoutePoint, 0, len(route))
	for i := 0; i+1 < len(route); i++ {
		a, b := route[i], route[i+1]
		span := math.Max(math.Abs(b.Lng-a.Lng), math.Abs(b.Lat-a.Lat))
		steps := int(math.Ceil(span / MaxStepDegrees))
		if steps < 1 {
			steps = 1
		}
		for s := 0; s < steps; s++ {
			t := float64(s) / float64(steps)
			out = append(out, models.RoutePoint{
				Lng: a.Lng + (b.Lng-a.Lng)*t,
				Lat: a.Lat + (b.Lat-a.Lat)*t,
			})
		}
	}
	return append(out, route[len(route)-1])
}
