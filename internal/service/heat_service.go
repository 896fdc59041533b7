package service

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/heatscape/heat-backend-go/internal/config"
	"github.com/heatscape/heat-backend-go/internal/models"
	"github.com/heatscape/heat-backend-go/internal/raster"
	"github.com/heatscape/heat-backend-go/internal/routing"
	"github.com/heatscape/heat-backend-go/internal/spatial"
	"github.com/heatscape/heat-backend-go/internal/store"
	"github.com/heatscape/heat-backend-go/internal/synth"
	"github.com/heatscape/heat-backend-go/internal/tileindex"
)

// routeBBoxPadding expands the route envelope for the full-extent raster
const routeBBoxPadding = 0.05

// HeatService orchestrates heat layer generation for bbox and route requests
type HeatService struct {
	cfg     *config.Config
	results *store.Results
	routes  routing.Provider
}

// NewHeatService creates a new heat service
func NewHeatService(cfg *config.Config, results *store.Results, routes routing.Provider) *HeatService {
	return &HeatService{cfg: cfg, results: results, routes: routes}
}

// HourWindow expands a contiguous (start, count) hour window with
// mod-24 wraparound, e.g. (22, 4) yields [22 23 0 1].
func HourWindow(start, count int) []int {
	hours := make([]int, 0, count)
	for i := 0; i < count; i++ {
		hours = append(hours, (start+i)%24)
	}
	return hours
}

// GenerateBBox produces, or reuses from cache, the generic raster pair
// for one (date, hour, bbox).
func (s *HeatService) GenerateBBox(date string, hour int, bbox models.BoundingBox) (*models.HeatMockResult, error) {
	pair := s.results.BBoxPair(date, hour)
	seed := synth.Seed(synth.BBoxKey(date, hour, bbox))

	cached, err := s.results.Materialize(pair, func(tmpTif, tmpPng string) error {
		field := synth.Generic(seed, synth.FieldSize)
		if err := raster.WriteGeoTIFF(tmpTif, field, bbox); err != nil {
			return err
		}
		return raster.WriteOverlayPNG(tmpPng, field, raster.NormalizedBounds, raster.GenericAlpha)
	})
	if err != nil {
		return nil, err
	}

	return &models.HeatMockResult{
		Date:    date,
		Hour:    hour,
		BBox:    bbox.Array(),
		TifPath: s.results.URLPath(pair.Tif),
		PngPath: s.results.URLPath(pair.Png),
		Bounds:  [2][2]float64{{bbox.MinLng, bbox.MinLat}, {bbox.MaxLng, bbox.MaxLat}},
		Cached:  cached,
	}, nil
}

// GenerateRoute resolves the route geometry, matches it against the
// tile grid and produces rasters for every requested hour. The routing
// service is optional: on any failure the straight start-end line is
// used instead. Pending writes always run to completion, so the route
// fetch deliberately ignores caller cancellation.
func (s *HeatService) GenerateRoute(req models.RouteRequest) (*models.HeatRouteResult, error) {
	route, err := s.routes.Route(context.Background(), req.Start, req.End, req.Profile)
	fallback := false
	if err != nil {
		log.Printf("route %s -> %s: falling back to straight line", req.Start.Key(), req.End.Key())
		route = routing.Fallback(req.Start, req.End)
		fallback = true
	}

	bbox := spatial.Envelope(route).Expand(routeBBoxPadding)
	tiles := spatial.MatchTiles(route, tileindex.Load(s.cfg.TileIndexPath))

	result := &models.HeatRouteResult{
		Date:              req.Date,
		Profile:           req.Profile,
		Fallback:          fallback,
		RouteLengthMeters: spatial.RouteLengthMeters(route),
		RoutePointCount:   len(route),
		BBox:              bbox.Array(),
		Hours:             make([]models.RouteHourResult, 0, len(req.Hours)),
	}

	for _, hour := range req.Hours {
		hourResult, err := s.generateRouteHour(req, hour, bbox, route, tiles)
		if err != nil {
			return nil, fmt.Errorf("hour %02d: %w", hour, err)
		}
		result.Hours = append(result.Hours, hourResult)
	}
	return result, nil
}

// generateRouteHour produces one hour of a route run: the full-extent
// route-weighted raster, one raster per matched tile and the manifest.
// Independent tile units run in parallel; each unit's output depends
// only on its own seed, so the parallelism cannot affect determinism.
func (s *HeatService) generateRouteHour(req models.RouteRequest, hour int, bbox models.BoundingBox, route []models.RoutePoint, tiles []models.Tile) (models.RouteHourResult, error) {
	pair := s.results.BBoxPair(req.Date, hour)
	seed := synth.Seed(synth.BBoxKey(req.Date, hour, bbox))

	cached, err := s.results.Materialize(pair, func(tmpTif, tmpPng string) error {
		field := synth.RouteWeighted(seed, synth.FieldSize, bbox, route)
		if err := raster.WriteGeoTIFF(tmpTif, field, bbox); err != nil {
			return err
		}
		return raster.WriteOverlayPNG(tmpPng, field, raster.UTCIBounds, raster.RouteAlpha)
	})
	if err != nil {
		return models.RouteHourResult{}, err
	}

	tileArtifacts := make([]models.TileArtifact, len(tiles))
	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for i, tile := range tiles {
		i, tile := i, tile
		g.Go(func() error {
			tilePair := s.results.TilePair(req.Date, hour, tile.Row, tile.Col)
			tileSeed := synth.Seed(synth.TileKey(req.Date, hour, tile.Row, tile.Col, req.Start, req.End))

			tileCached, err := s.results.Materialize(tilePair, func(tmpTif, tmpPng string) error {
				field := synth.RouteWeighted(tileSeed, synth.FieldSize, tile.Bounds, route)
				if err := raster.WriteGeoTIFF(tmpTif, field, tile.Bounds); err != nil {
					return err
				}
				return raster.WriteOverlayPNG(tmpPng, field, raster.UTCIBounds, raster.RouteAlpha)
			})
			if err != nil {
				return fmt.Errorf("tile r%d_c%d: %w", tile.Row, tile.Col, err)
			}

			tileArtifacts[i] = models.TileArtifact{
				Row:     tile.Row,
				Col:     tile.Col,
				TifPath: s.results.URLPath(tilePair.Tif),
				PngPath: s.results.URLPath(tilePair.Png),
				Cached:  tileCached,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.RouteHourResult{}, err
	}

	coords := make([][2]int, 0, len(tiles))
	for _, t := range tiles {
		coords = append(coords, [2]int{t.Row, t.Col})
	}
	manifestPath, err := s.results.WriteManifest(models.ComputeManifest{
		Date:       req.Date,
		Hour:       hour,
		RouteTiles: coords,
	})
	if err != nil {
		return models.RouteHourResult{}, err
	}

	return models.RouteHourResult{
		Hour:         hour,
		TifPath:      s.results.URLPath(pair.Tif),
		PngPath:      s.results.URLPath(pair.Png),
		Cached:       cached,
		Tiles:        tileArtifacts,
		ManifestPath: s.results.URLPath(manifestPath),
	}, nil
}
