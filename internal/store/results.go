// Package store lays out generated raster artifacts on disk and
// implements the result cache: the existence of both files of a pair is
// the cache hit, with no separate index, checksum or expiry.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/heatscape/heat-backend-go/internal/models"
)

// Results resolves output paths under a single results root
type Results struct {
	root   string
	flight singleflight.Group
}

// NewResults creates a store rooted at dir
func NewResults(dir string) *Results {
	return &Results{root: dir}
}

// Root returns the results root directory
func (r *Results) Root() string {
	return r.root
}

// ArtifactPair is the raster/overlay file pair addressed by one cache key
type ArtifactPair struct {
	Tif string
	Png string
}

// Exists reports a cache hit: both artifact files are on disk
func (p ArtifactPair) Exists() bool {
	for _, path := range []string{p.Tif, p.Png} {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return false
		}
	}
	return true
}

// HourDir returns <root>/<YYYYMMDD>/<HH>
func (r *Results) HourDir(date string, hour int) string {
	return filepath.Join(r.root, strings.ReplaceAll(date, "-", ""), fmt.Sprintf("%02d", hour))
}

// BBoxPair addresses the full-extent raster pair of one (date, hour)
func (r *Results) BBoxPair(date string, hour int) ArtifactPair {
	dir := r.HourDir(date, hour)
	return ArtifactPair{
		Tif: filepath.Join(dir, "heat_exposure.tif"),
		Png: filepath.Join(dir, "heat_exposure.png"),
	}
}

// TilePair addresses the per-tile raster pair of one (date, hour, row, col)
func (r *Results) TilePair(date string, hour, row, col int) ArtifactPair {
	dir := filepath.Join(r.HourDir(date, hour), "tiles")
	name := fmt.Sprintf("r%d_c%d", row, col)
	return ArtifactPair{
		Tif: filepath.Join(dir, name+".tif"),
		Png: filepath.Join(dir, name+".png"),
	}
}

// Materialize is the idempotent-write primitive: if the pair already
// exists the computation is skipped entirely; otherwise produce writes
// the two temp paths it is given and both are moved into place with
// atomic renames, so readers never observe partial files. Concurrent
// calls for the same pair within this process share one computation.
func (r *Results) Materialize(pair ArtifactPair, produce func(tmpTif, tmpPng string) error) (cached bool, err error) {
	if pair.Exists() {
		return true, nil
	}

	_, err, _ = r.flight.Do(pair.Tif, func() (interface{}, error) {
		if pair.Exists() {
			return nil, nil
		}
		if err := os.MkdirAll(filepath.Dir(pair.Tif), 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}

		tmpTif := pair.Tif + ".tmp"
		tmpPng := pair.Png + ".tmp"
		if err := produce(tmpTif, tmpPng); err != nil {
			os.Remove(tmpTif)
			os.Remove(tmpPng)
			return nil, err
		}
		if err := os.Rename(tmpTif, pair.Tif); err != nil {
			return nil, fmt.Errorf("finalize %s: %w", pair.Tif, err)
		}
		if err := os.Rename(tmpPng, pair.Png); err != nil {
			return nil, fmt.Errorf("finalize %s: %w", pair.Png, err)
		}
		return nil, nil
	})
	return false, err
}

// WriteManifest persists compute_manifest.json for one (date, hour),
// replacing any previous run's record. Returns the manifest path.
func (r *Results) WriteManifest(m models.ComputeManifest) (string, error) {
	if m.RouteTiles == nil {
		m.RouteTiles = [][2]int{}
	}

	dir := r.HourDir(m.Date, m.Hour)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, "compute_manifest.json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("finalize manifest: %w", err)
	}
	return path, nil
}

// URLPath converts an absolute artifact path into its public /results URL
func (r *Results) URLPath(path string) string {
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return path
	}
	return "/results/" + filepath.ToSlash(rel)
}
