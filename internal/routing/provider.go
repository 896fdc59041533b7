// Package routing resolves route geometry from an external
// OSRM-compatible service. The service is an optional collaborator:
// every failure mode degrades to ErrUnavailable and callers substitute
// a straight line.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/heatscape/heat-backend-go/internal/models"
)

// ErrUnavailable reports that no usable geometry could be fetched. It
// is a degradation signal, not a request failure.
var ErrUnavailable = errors.New("routing: geometry unavailable")

// profiles maps the client-facing travel profiles to OSRM profile
// names. Anything not listed falls back to walking.
var profiles = map[string]string{
	"walking": "foot",
	"running": "foot",
	"driving": "car",
}

// Provider resolves an ordered lng/lat point sequence for a start/end pair
type Provider interface {
	Route(ctx context.Context, start, end models.RoutePoint, profile string) ([]models.RoutePoint, error)
}

// OSRMProvider queries an OSRM HTTP API with a bounded timeout
type OSRMProvider struct {
	baseURL string
	client  *http.Client
}

// NewOSRMProvider creates a provider against the given base URL. The
// timeout covers the whole request including body transfer.
func NewOSRMProvider(baseURL string, timeout time.Duration) *OSRMProvider {
	return &OSRMProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Route fetches the route geometry between start and end. Network
// errors, timeouts, non-200 statuses, malformed bodies and responses
// with fewer than 2 coordinates all yield ErrUnavailable.
func (p *OSRMProvider) Route(ctx context.Context, start, end models.RoutePoint, profile string) ([]models.RoutePoint, error) {
	osrmProfile, ok := profiles[profile]
	if !ok {
		osrmProfile = profiles["walking"]
	}

	reqURL := fmt.Sprintf(
		"%s/route/v1/%s/%f,%f;%f,%f?overview=full&geometries=geojson",
		p.baseURL, osrmProfile, start.Lng, start.Lat, end.Lng, end.Lat,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, ErrUnavailable
	}
	resp, err := p.client.Do(req)
	if err != nil {
		log.Printf("routing: request failed: %v", err)
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("routing: status %d for profile %s", resp.StatusCode, osrmProfile)
		return nil, ErrUnavailable
	}

	var body struct {
		Routes []struct {
			Geometry struct {
				Coordinates [][]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"routes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("routing: decode error: %v", err)
		return nil, ErrUnavailable
	}
	if len(body.Routes) == 0 {
		return nil, ErrUnavailable
	}

	coords := body.Routes[0].Geometry.Coordinates
	if len(coords) < 2 {
		return nil, ErrUnavailable
	}

	pts := make([]models.RoutePoint, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			return nil, ErrUnavailable
		}
		pts = append(pts, models.RoutePoint{Lng: c[0], Lat: c[1]})
	}
	return pts, nil
}

// Fallback is the straight two-point line between start and end. The
// matcher and synthesizer handle this minimal route like any other.
func Fallback(start, end models.RoutePoint) []models.RoutePoint {
	return []models.RoutePoint{start, end}
}
