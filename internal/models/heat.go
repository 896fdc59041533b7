package models

// RouteRequest carries already-validated inputs for a route-mode
// generation run.
type RouteRequest struct {
	Date    string
	Start   RoutePoint
	End     RoutePoint
	Profile string
	Hours   []int
}

// HeatMockResult describes the artifact pair produced for one
// (date, hour, bbox) generic raster.
type HeatMockResult struct {
	Date    string        `json:"date"`
	Hour    int           `json:"hour"`
	BBox    [4]float64    `json:"bbox"`
	TifPath string        `json:"tif_path"`
	PngPath string        `json:"png_path"`
	Bounds  [2][2]float64 `json:"bounds"` // [[minLng,minLat],[maxLng,maxLat]]
	Cached  bool          `json:"cached"`
}

// TileArtifact describes the artifact pair produced for one route tile
type TileArtifact struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	TifPath string `json:"tif_path"`
	PngPath string `json:"png_path"`
	Cached  bool   `json:"cached"`
}

// RouteHourResult groups everything generated for a single hour of a
// route run: the full-extent raster pair, the per-tile pairs and the
// manifest location.
type RouteHourResult struct {
	Hour         int            `json:"hour"`
	TifPath      string         `json:"tif_path"`
	PngPath      string         `json:"png_path"`
	Cached       bool           `json:"cached"`
	Tiles        []TileArtifact `json:"tiles"`
	ManifestPath string         `json:"manifest_path"`
}

// HeatRouteResult is the response payload for a route-mode run
type HeatRouteResult struct {
	Date              string            `json:"date"`
	Profile           string            `json:"profile"`
	Fallback          bool              `json:"fallback"` // straight-line geometry was substituted
	RouteLengthMeters float64           `json:"route_length_meters"`
	RoutePointCount   int               `json:"route_point_count"`
	BBox              [4]float64        `json:"bbox"`
	Hours             []RouteHourResult `json:"hours"`
}
