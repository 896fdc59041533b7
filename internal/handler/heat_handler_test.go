package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heatscape/heat-backend-go/internal/api"
	"github.com/heatscape/heat-backend-go/internal/config"
	"github.com/heatscape/heat-backend-go/internal/handler"
	"github.com/heatscape/heat-backend-go/internal/models"
	"github.com/heatscape/heat-backend-go/internal/routing"
	"github.com/heatscape/heat-backend-go/internal/service"
	"github.com/heatscape/heat-backend-go/internal/store"
	"github.com/heatscape/heat-backend-go/pkg/response"
)

// unavailableProvider always fails, forcing the straight-line fallback
type unavailableProvider struct{}

func (unavailableProvider) Route(ctx context.Context, start, end models.RoutePoint, profile string) ([]models.RoutePoint, error) {
	return nil, routing.ErrUnavailable
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := &config.Config{
		TileIndexPath:  filepath.Join(dir, "tile_index.json"),
		ResultsDir:     filepath.Join(dir, "results"),
		OSRMBaseURL:    "http://127.0.0.1:1",
		RouteTimeoutMS: 100,
		Workers:        2,
	}
	results := store.NewResults(cfg.ResultsDir)
	svc := service.NewHeatService(cfg, results, unavailableProvider{})
	return api.SetupRouter(cfg, handler.NewHeatHandler(svc))
}

func doRequest(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestGetMockHeatSuccess(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(r, "/api/heat/mock?date=2024-06-01&hour=14&bbox=114.10,22.28,114.12,22.30")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Code)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result models.HeatMockResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, "2024-06-01", result.Date)
	assert.Equal(t, 14, result.Hour)
	assert.Equal(t, "/results/20240601/14/heat_exposure.tif", result.TifPath)
}

func TestGetMockHeatValidation(t *testing.T) {
	cases := map[string]string{
		"missing date":  "/api/heat/mock?hour=14&bbox=114.10,22.28,114.12,22.30",
		"bad date":      "/api/heat/mock?date=01-06-2024&hour=14&bbox=114.10,22.28,114.12,22.30",
		"missing hour":  "/api/heat/mock?date=2024-06-01&bbox=114.10,22.28,114.12,22.30",
		"hour too big":  "/api/heat/mock?date=2024-06-01&hour=24&bbox=114.10,22.28,114.12,22.30",
		"negative hour": "/api/heat/mock?date=2024-06-01&hour=-1&bbox=114.10,22.28,114.12,22.30",
		"three values":  "/api/heat/mock?date=2024-06-01&hour=14&bbox=114.10,22.28,114.12",
		"not floats":    "/api/heat/mock?date=2024-06-01&hour=14&bbox=a,b,c,d",
		"inverted bbox": "/api/heat/mock?date=2024-06-01&hour=14&bbox=114.12,22.28,114.10,22.30",
	}
	r := newTestRouter(t)
	for name, target := range cases {
		w := doRequest(r, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestGetRouteHeatSuccess(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(r, "/api/heat/route?date=2024-06-01&start=114.10,22.28&end=114.12,22.30&profile=driving&start_hour=22&n_hours=4")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result models.HeatRouteResult
	require.NoError(t, json.Unmarshal(data, &result))

	assert.True(t, result.Fallback)
	require.Len(t, result.Hours, 4)
	assert.Equal(t, 22, result.Hours[0].Hour)
	assert.Equal(t, 23, result.Hours[1].Hour)
	assert.Equal(t, 0, result.Hours[2].Hour)
	assert.Equal(t, 1, result.Hours[3].Hour)
}

func TestGetRouteHeatExplicitHourList(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(r, "/api/heat/route?date=2024-06-01&start=114.10,22.28&end=114.12,22.30&hours=6,18")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var result models.HeatRouteResult
	require.NoError(t, json.Unmarshal(data, &result))

	require.Len(t, result.Hours, 2)
	assert.Equal(t, 6, result.Hours[0].Hour)
	assert.Equal(t, 18, result.Hours[1].Hour)
}

func TestGetRouteHeatValidation(t *testing.T) {
	cases := map[string]string{
		"bad start":      "/api/heat/route?date=2024-06-01&start=114.10&end=114.12,22.30&start_hour=14",
		"bad end":        "/api/heat/route?date=2024-06-01&start=114.10,22.28&end=x,y&start_hour=14",
		"no hours":       "/api/heat/route?date=2024-06-01&start=114.10,22.28&end=114.12,22.30",
		"bad hour list":  "/api/heat/route?date=2024-06-01&start=114.10,22.28&end=114.12,22.30&hours=6,25",
		"n_hours zero":   "/api/heat/route?date=2024-06-01&start=114.10,22.28&end=114.12,22.30&start_hour=6&n_hours=0",
		"n_hours excess": "/api/heat/route?date=2024-06-01&start=114.10,22.28&end=114.12,22.30&start_hour=6&n_hours=25",
	}
	r := newTestRouter(t)
	for name, target := range cases {
		w := doRequest(r, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := doRequest(r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
}
