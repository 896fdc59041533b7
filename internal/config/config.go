package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds everything the service needs. It is built once in main
// and passed down by parameter so tests can substitute fixtures without
// touching the process environment.
type Config struct {
	Port           string `yaml:"port"`
	TileIndexPath  string `yaml:"tileIndexPath" validate:"required"`
	ResultsDir     string `yaml:"resultsDir" validate:"required"`
	OSRMBaseURL    string `yaml:"osrmBaseURL" validate:"required,url"`
	RouteTimeoutMS int    `yaml:"routeTimeoutMS" validate:"gt=0"`
	Workers        int    `yaml:"workers" validate:"gte=1"`
}

// RouteTimeout bounds the single outbound routing request
func (c *Config) RouteTimeout() time.Duration {
	return time.Duration(c.RouteTimeoutMS) * time.Millisecond
}

// Load builds the configuration from defaults, an optional config.yml
// and environment overrides, then validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           ":8080",
		TileIndexPath:  "./data/tile_index.json",
		ResultsDir:     "./results",
		OSRMBaseURL:    "https://router.project-osrm.org",
		RouteTimeoutMS: 8000,
		Workers:        4,
	}

	for _, p := range []string{"config.yml", "./config/config.yml"} {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		break
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("TILE_INDEX_PATH"); v != "" {
		cfg.TileIndexPath = v
	}
	if v := os.Getenv("RESULTS_DIR"); v != "" {
		cfg.ResultsDir = v
	}
	if v := os.Getenv("OSRM_BASE_URL"); v != "" {
		cfg.OSRMBaseURL = v
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
