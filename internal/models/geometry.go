package models

import "fmt"

// BoundingBox is an axis-aligned rectangle in lng/lat space
type BoundingBox struct {
	MinLng float64 `json:"min_lng"`
	MinLat float64 `json:"min_lat"`
	MaxLng float64 `json:"max_lng"`
	MaxLat float64 `json:"max_lat"`
}

// Valid reports whether min < max on both axes
func (b BoundingBox) Valid() bool {
	return b.MinLng < b.MaxLng && b.MinLat < b.MaxLat
}

// Contains reports whether the point lies inside the box, all four edges inclusive
func (b BoundingBox) Contains(p RoutePoint) bool {
	return p.Lng >= b.MinLng && p.Lng <= b.MaxLng &&
		p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}

// Expand grows the box by frac of its span on every side. A degenerate
// axis (zero span) is widened by a fixed minimum so the result is
// always a valid box.
func (b BoundingBox) Expand(frac float64) BoundingBox {
	const minSpan = 0.0005

	spanLng := b.MaxLng - b.MinLng
	if spanLng <= 0 {
		spanLng = minSpan
	}
	spanLat := b.MaxLat - b.MinLat
	if spanLat <= 0 {
		spanLat = minSpan
	}

	return BoundingBox{
		MinLng: b.MinLng - spanLng*frac,
		MinLat: b.MinLat - spanLat*frac,
		MaxLng: b.MaxLng + spanLng*frac,
		MaxLat: b.MaxLat + spanLat*frac,
	}
}

// Key is the canonical identity string of the box: six decimal places,
// components joined with semicolons. Used in seed derivation, so the
// format must stay stable across releases.
func (b BoundingBox) Key() string {
	return fmt.Sprintf("%.6f;%.6f;%.6f;%.6f", b.MinLng, b.MinLat, b.MaxLng, b.MaxLat)
}

// Array returns the box as [minLng, minLat, maxLng, maxLat]
func (b BoundingBox) Array() [4]float64 {
	return [4]float64{b.MinLng, b.MinLat, b.MaxLng, b.MaxLat}
}

// RoutePoint is a single lng/lat vertex of a route polyline
type RoutePoint struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Key is the canonical identity string of the point, six decimal places
func (p RoutePoint) Key() string {
	return fmt.Sprintf("%.6f;%.6f", p.Lng, p.Lat)
}
