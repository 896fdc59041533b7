package models

// Tile represents one cell of the predefined spatial grid, uniquely
// identified by (row, col). Tiles are immutable once loaded.
type Tile struct {
	Row    int         `json:"row"`
	Col    int         `json:"col"`
	Bounds BoundingBox `json:"bounds"`
}

// ComputeManifest records which tiles were considered part of a route
// computation for one (date, hour), for downstream auditing. It is
// overwritten each time the hour is recomputed.
type ComputeManifest struct {
	Date       string   `json:"date"`
	Hour       int      `json:"hour"`
	RouteTiles [][2]int `json:"route_tiles"`
}
