// Package tileindex parses the predefined spatial grid from a
// loosely-structured JSON export. The index format is not controlled by
// this service, so the loader tolerates several GIS export conventions
// and degrades to an empty index instead of failing.
package tileindex

import (
	"encoding/json"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/heatscape/heat-backend-go/internal/models"
)

// listKeys are the alternate object keys a tile list may hide under
var listKeys = []string{"tiles", "features", "items", "index"}

var (
	rowKeys = []string{"row", "r", "tile_row", "y"}
	colKeys = []string{"col", "c", "tile_col", "x"}
)

// Load reads the index file and returns every entry that yields a row,
// a col and a valid bounding box. A missing or unreadable file loads as
// an empty index; malformed entries are dropped individually.
func Load(path string) []models.Tile {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return Parse(data)
}

// Parse normalizes raw index content. Never returns an error: anything
// that cannot be interpreted is skipped.
func Parse(data []byte) []models.Tile {
	var root interface{}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil
	}

	entries := entryList(root)
	tiles := make([]models.Tile, 0, len(entries))
	for _, raw := range entries {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		tile, ok := normalize(entry)
		if !ok {
			continue
		}
		tiles = append(tiles, tile)
	}
	return tiles
}

// entryList accepts either a bare list or an object holding the list
// under one of the known alternate keys.
func entryList(root interface{}) []interface{} {
	switch v := root.(type) {
	case []interface{}:
		return v
	case map[string]interface{}:
		for _, key := range listKeys {
			if list, ok := v[key].([]interface{}); ok {
				return list
			}
		}
	}
	return nil
}

func normalize(entry map[string]interface{}) (models.Tile, bool) {
	row, okRow := intField(entry, rowKeys)
	col, okCol := intField(entry, colKeys)
	bounds, okBounds := extractBounds(entry)
	if !okRow || !okCol || !okBounds || !bounds.Valid() {
		return models.Tile{}, false
	}
	return models.Tile{Row: row, Col: col, Bounds: bounds}, true
}

// lookup finds a field on the entry itself or nested under its
// properties mapping, GeoJSON-feature style.
func lookup(entry map[string]interface{}, key string) (interface{}, bool) {
	if v, ok := entry[key]; ok {
		return v, true
	}
	if props, ok := entry["properties"].(map[string]interface{}); ok {
		if v, ok := props[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// intField returns the first of the named fields that parses as a
// non-boolean integer.
func intField(entry map[string]interface{}, keys []string) (int, bool) {
	for _, key := range keys {
		v, ok := lookup(entry, key)
		if !ok {
			continue
		}
		if n, ok := asInt(v); ok {
			return n, true
		}
	}
	return 0, false
}

// asInt accepts plain ints, floats with integral value and numeric
// strings. Booleans are rejected even though JSON decoders sometimes
// coerce them.
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case bool:
		return 0, false
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// boundsExtractor tries one bounds convention and reports whether it applied
type boundsExtractor func(map[string]interface{}) (models.BoundingBox, bool)

// extractBounds runs the extractor chain in order and stops at the
// first convention that applies.
func extractBounds(entry map[string]interface{}) (models.BoundingBox, bool) {
	extractors := []boundsExtractor{
		arrayBounds("bounds"),
		arrayBounds("bbox"),
		namedBounds("min_lng", "min_lat", "max_lng", "max_lat"),
		namedBounds("left", "bottom", "right", "top"),
		arrayBounds("extent"),
		geometryBounds,
	}
	for _, extract := range extractors {
		if b, ok := extract(entry); ok {
			return b, true
		}
	}
	return models.BoundingBox{}, false
}

// arrayBounds reads a 4-element [minLng, minLat, maxLng, maxLat] array
func arrayBounds(key string) boundsExtractor {
	return func(entry map[string]interface{}) (models.BoundingBox, bool) {
		v, ok := lookup(entry, key)
		if !ok {
			return models.BoundingBox{}, false
		}
		list, ok := v.([]interface{})
		if !ok || len(list) != 4 {
			return models.BoundingBox{}, false
		}
		var vals [4]float64
		for i, item := range list {
			f, ok := asFloat(item)
			if !ok {
				return models.BoundingBox{}, false
			}
			vals[i] = f
		}
		return models.BoundingBox{MinLng: vals[0], MinLat: vals[1], MaxLng: vals[2], MaxLat: vals[3]}, true
	}
}

// namedBounds reads four separately named scalar fields
func namedBounds(minLngKey, minLatKey, maxLngKey, maxLatKey string) boundsExtractor {
	return func(entry map[string]interface{}) (models.BoundingBox, bool) {
		var b models.BoundingBox
		fields := []struct {
			key string
			dst *float64
		}{
			{minLngKey, &b.MinLng},
			{minLatKey, &b.MinLat},
			{maxLngKey, &b.MaxLng},
			{maxLatKey, &b.MaxLat},
		}
		for _, f := range fields {
			v, ok := lookup(entry, f.key)
			if !ok {
				return models.BoundingBox{}, false
			}
			val, ok := asFloat(v)
			if !ok {
				return models.BoundingBox{}, false
			}
			*f.dst = val
		}
		return b, true
	}
}

// geometryBounds is the last resort: flatten whatever nesting a
// GeoJSON-style geometry.coordinates structure has and take the min/max
// lng/lat across all leaf positions.
func geometryBounds(entry map[string]interface{}) (models.BoundingBox, bool) {
	geom, ok := lookup(entry, "geometry")
	if !ok {
		return models.BoundingBox{}, false
	}
	geomMap, ok := geom.(map[string]interface{})
	if !ok {
		return models.BoundingBox{}, false
	}
	coords, ok := geomMap["coordinates"]
	if !ok {
		return models.BoundingBox{}, false
	}

	var pts []models.RoutePoint
	flattenCoords(coords, &pts)
	if len(pts) == 0 {
		return models.BoundingBox{}, false
	}

	b := models.BoundingBox{
		MinLng: pts[0].Lng, MinLat: pts[0].Lat,
		MaxLng: pts[0].Lng, MaxLat: pts[0].Lat,
	}
	for _, p := range pts[1:] {
		b.MinLng = math.Min(b.MinLng, p.Lng)
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLng = math.Max(b.MaxLng, p.Lng)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
	}
	return b, true
}

// flattenCoords walks arbitrarily nested coordinate arrays. A list
// whose first two elements are numeric is treated as one [lng, lat]
// position; anything else recurses.
func flattenCoords(v interface{}, pts *[]models.RoutePoint) {
	list, ok := v.([]interface{})
	if !ok {
		return
	}
	if len(list) >= 2 {
		lng, okLng := asFloat(list[0])
		lat, okLat := asFloat(list[1])
		if okLng && okLat {
			*pts = append(*pts, models.RoutePoint{Lng: lng, Lat: lat})
			return
		}
	}
	for _, item := range list {
		flattenCoords(item, pts)
	}
}
