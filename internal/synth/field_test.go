package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heatscape/heat-backend-go/internal/models"
)

var testBBox = models.BoundingBox{MinLng: 114.10, MinLat: 22.28, MaxLng: 114.12, MaxLat: 22.30}

func TestBBoxKeyFormat(t *testing.T) {
	key := BBoxKey("2024-06-01", 14, testBBox)
	assert.Equal(t, "2024-06-01-14-114.100000;22.280000;114.120000;22.300000", key)
}

func TestSeedStability(t *testing.T) {
	key := BBoxKey("2024-06-01", 14, testBBox)
	assert.Equal(t, Seed(key), Seed(key))
}

func TestSeedAvalanche(t *testing.T) {
	base := Seed(BBoxKey("2024-06-01", 14, testBBox))
	assert.NotEqual(t, base, Seed(BBoxKey("2024-06-02", 14, testBBox)), "date change")
	assert.NotEqual(t, base, Seed(BBoxKey("2024-06-01", 15, testBBox)), "hour change")

	shifted := testBBox
	shifted.MinLng += 0.000001
	assert.NotEqual(t, base, Seed(BBoxKey("2024-06-01", 14, shifted)), "bbox change")
}

func TestTileKeyIncludesIdentity(t *testing.T) {
	start := models.RoutePoint{Lng: 114.10, Lat: 22.28}
	end := models.RoutePoint{Lng: 114.12, Lat: 22.30}

	base := TileKey("2024-06-01", 14, 3, 7, start, end)
	assert.NotEqual(t, base, TileKey("2024-06-01", 14, 3, 8, start, end))
	assert.NotEqual(t, base, TileKey("2024-06-01", 14, 4, 7, start, end))

	otherEnd := models.RoutePoint{Lng: 114.13, Lat: 22.30}
	assert.NotEqual(t, base, TileKey("2024-06-01", 14, 3, 7, start, otherEnd))
}

func TestGenericDeterminism(t *testing.T) {
	seed := Seed(BBoxKey("2024-06-01", 14, testBBox))
	a := Generic(seed, FieldSize)
	b := Generic(seed, FieldSize)
	assert.Equal(t, a.Values, b.Values)
}

func TestGenericValueRange(t *testing.T) {
	f := Generic(12345, FieldSize)
	require.Len(t, f.Values, FieldSize*FieldSize)
	for _, v := range f.Values {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestGenericSeedChangesField(t *testing.T) {
	a := Generic(1, FieldSize)
	b := Generic(2, FieldSize)
	assert.NotEqual(t, a.Values, b.Values)
}

func TestRouteWeightedDeterminism(t *testing.T) {
	route := []models.RoutePoint{
		{Lng: 114.10, Lat: 22.28},
		{Lng: 114.12, Lat: 22.30},
	}
	seed := Seed(TileKey("2024-06-01", 14, 0, 0, route[0], route[1]))

	a := RouteWeighted(seed, FieldSize, testBBox, route)
	b := RouteWeighted(seed, FieldSize, testBBox, route)
	assert.Equal(t, a.Values, b.Values)
}

func TestRouteWeightedValueRange(t *testing.T) {
	route := []models.RoutePoint{
		{Lng: 114.10, Lat: 22.28},
		{Lng: 114.12, Lat: 22.30},
	}
	f := RouteWeighted(999, FieldSize, testBBox, route)
	for _, v := range f.Values {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(40))
	}
}

func TestRouteWeightedHotterNearRoute(t *testing.T) {
	// dense horizontal route through the vertical middle of the box
	route := make([]models.RoutePoint, 101)
	for i := range route {
		route[i] = models.RoutePoint{Lng: 114.10 + float64(i)*0.0002, Lat: 22.29}
	}
	f := RouteWeighted(42, FieldSize, testBBox, route)

	// on-route cell gets the full closeness boost, the far edge none;
	// the ~14 unit gap dwarfs gradient and noise
	onRoute := f.At(FieldSize/2, FieldSize/2)
	farEdge := f.At(FieldSize/2, 2)
	assert.Greater(t, onRoute, farEdge)
}

func TestNormalizeRouteSubsampling(t *testing.T) {
	route := make([]models.RoutePoint, 1000)
	for i := range route {
		route[i] = models.RoutePoint{Lng: 114.10 + float64(i)*0.00002, Lat: 22.28}
	}

	samples := normalizeRoute(testBBox, route)
	assert.LessOrEqual(t, len(samples), routeSampleCap+1)

	// final point is always present
	last := samples[len(samples)-1]
	wantX := (route[999].Lng - testBBox.MinLng) / (testBBox.MaxLng - testBBox.MinLng)
	assert.InDelta(t, wantX, last.X, 1e-12)
}

func TestNormalizeRouteShortRouteKeepsAll(t *testing.T) {
	route := []models.RoutePoint{
		{Lng: 114.10, Lat: 22.28},
		{Lng: 114.11, Lat: 22.29},
		{Lng: 114.12, Lat: 22.30},
	}
	samples := normalizeRoute(testBBox, route)
	assert.Len(t, samples, 3)
}
