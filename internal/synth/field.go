// Package synth produces deterministic mock heat fields. The values
// are synthetic stand-ins for a real heat-exposure model: identical
// inputs yield bit-identical output across processes and runs.
package synth

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"

	"github.com/golang/geo/r2"

	"github.com/heatscape/heat-backend-go/internal/models"
)

// FieldSize is the edge length of every generated field
const FieldSize = 256

const (
	// routeSampleCap bounds the per-cell nearest-point scan
	routeSampleCap = 180
	// decayRate converts normalized distance-to-route into closeness
	decayRate = 14.0
	// noiseStdDev is the sigma of the Gaussian noise in route mode
	noiseStdDev = 0.55
)

// Field is a square scalar heat field, row-major with row 0 at the top
// (north edge of the bounding box).
type Field struct {
	Size   int
	Values []float32
}

// At returns the value at column x, row y
func (f *Field) At(x, y int) float32 {
	return f.Values[y*f.Size+x]
}

// Seed derives a 32-bit seed from a composite identity key: the first
// four bytes of SHA-256(key), big-endian. The key carries only stable,
// human-meaningful identity, never wall-clock time.
func Seed(key string) uint32 {
	sum := sha256.Sum256([]byte(key))
	return binary.BigEndian.Uint32(sum[:4])
}

// BBoxKey is the seed identity for a plain bounding-box run:
// "<date>-<hour>-<minLng;minLat;maxLng;maxLat>" with six decimals.
func BBoxKey(date string, hour int, bbox models.BoundingBox) string {
	return fmt.Sprintf("%s-%d-%s", date, hour, bbox.Key())
}

// TileKey extends the identity with tile coordinates and the route
// endpoints, so different routes through the same tile diverge.
func TileKey(date string, hour, row, col int, start, end models.RoutePoint) string {
	return fmt.Sprintf("%s-%d-r%d_c%d-%s-%s", date, hour, row, col, start.Key(), end.Key())
}

// Generic synthesizes the normalized field for a bare bounding box: a
// linear gradient, a fixed-frequency sinusoidal ridge and seeded
// uniform noise, clipped to [0, 1].
func Generic(seed uint32, size int) *Field {
	rng := rand.New(rand.NewSource(int64(seed)))
	f := &Field{Size: size, Values: make([]float32, size*size)}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			gradient := (float64(x)*0.6 + float64(y)*0.4) / float64(size)
			ridge := math.Sin(float64(x)/17.0)*0.1 + math.Cos(float64(y)/29.0)*0.08
			noise := rng.Float64() * 0.22
			f.Values[y*size+x] = float32(clip(gradient+ridge+noise, 0, 1))
		}
	}
	return f
}

// RouteWeighted synthesizes a UTCI-like field where cells near the
// route run hotter. Route points are normalized into bbox-relative grid
// space; each cell's closeness to the nearest sampled route point
// decays exponentially with distance. Output is clipped to [0, 40].
func RouteWeighted(seed uint32, size int, bbox models.BoundingBox, route []models.RoutePoint) *Field {
	rng := rand.New(rand.NewSource(int64(seed)))
	samples := normalizeRoute(bbox, route)
	f := &Field{Size: size, Values: make([]float32, size*size)}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			u := (float64(x) + 0.5) / float64(size)
			v := (float64(y) + 0.5) / float64(size)

			closeness := math.Exp(-decayRate * nearestDistance(u, v, samples))
			gradient := u*0.6 + v*0.4
			value := 16.0 + 8.0*gradient + 14.0*closeness + rng.NormFloat64()*noiseStdDev
			f.Values[y*size+x] = float32(clip(value, 0, 40))
		}
	}
	return f
}

// normalizeRoute maps route points into [0,1] grid space (v grows
// southward to match row order) and subsamples to at most
// routeSampleCap points with a uniform stride, always keeping the
// final point.
func normalizeRoute(bbox models.BoundingBox, route []models.RoutePoint) []r2.Point {
	if len(route) == 0 {
		return nil
	}

	spanLng := bbox.MaxLng - bbox.MinLng
	if spanLng <= 0 {
		spanLng = 1
	}
	spanLat := bbox.MaxLat - bbox.MinLat
	if spanLat <= 0 {
		spanLat = 1
	}

	norm := func(p models.RoutePoint) r2.Point {
		return r2.Point{
			X: (p.Lng - bbox.MinLng) / spanLng,
			Y: (bbox.MaxLat - p.Lat) / spanLat,
		}
	}

	stride := 1
	if len(route) > routeSampleCap {
		stride = (len(route) + routeSampleCap - 1) / routeSampleCap
	}

	out := make([]r2.Point, 0, routeSampleCap+1)
	for i := 0; i < len(route); i += stride {
		out = append(out, norm(route[i]))
	}
	if (len(route)-1)%stride != 0 {
		out = append(out, norm(route[len(route)-1]))
	}
	return out
}

func nearestDistance(u, v float64, samples []r2.Point) float64 {
	best := math.MaxFloat64
	p := r2.Point{X: u, Y: v}
	for _, s := range samples {
		if d := p.Sub(s).Norm(); d < best {
			best = d
		}
	}
	return best
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
