package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir is a stand-in for testing.T.Chdir, which requires Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir()) // away from any real config.yml

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "https://router.project-osrm.org", cfg.OSRMBaseURL)
	assert.Equal(t, 8*time.Second, cfg.RouteTimeout())
	assert.GreaterOrEqual(t, cfg.Workers, 1)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", ":9000")
	t.Setenv("TILE_INDEX_PATH", "/tmp/tiles.json")
	t.Setenv("RESULTS_DIR", "/tmp/results")
	t.Setenv("OSRM_BASE_URL", "http://localhost:5000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Port)
	assert.Equal(t, "/tmp/tiles.json", cfg.TileIndexPath)
	assert.Equal(t, "/tmp/results", cfg.ResultsDir)
	assert.Equal(t, "http://localhost:5000", cfg.OSRMBaseURL)
}

func TestLoadRejectsBadOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OSRM_BASE_URL", "not a url")

	_, err := Load()
	assert.Error(t, err)
}
