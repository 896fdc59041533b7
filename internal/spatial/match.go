package spatial

import (
	"sort"

	"github.com/heatscape/heat-backend-go/internal/models"
)

// MatchTiles returns the deduplicated set of grid tiles the densified
// route passes through, in ascending (row, col) order. Containment is
// inclusive on all four edges, so a point on a shared boundary matches
// every adjacent tile. O(points x tiles); both counts stay small.
func MatchTiles(route []models.RoutePoint, tiles []models.Tile) []models.Tile {
	seen := make(map[[2]int]models.Tile)
	for _, p := range Densify(route) {
		for _, t := range tiles {
			if t.Bounds.Contains(p) {
				seen[[2]int{t.Row, t.Col}] = t
			}
		}
	}

	out := make([]models.Tile, 0, len(seen))
	for _, t := range seen {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}
