package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/heatscape/heat-backend-go/internal/models"
	"github.com/heatscape/heat-backend-go/internal/service"
	"github.com/heatscape/heat-backend-go/pkg/response"
)

// HeatHandler handles HTTP requests for heat layer generation
type HeatHandler struct {
	service *service.HeatService
}

// NewHeatHandler creates a new heat handler
func NewHeatHandler(service *service.HeatService) *HeatHandler {
	return &HeatHandler{service: service}
}

// GetMockHeat handles GET /api/heat/mock?date=&hour=&bbox=
func (h *HeatHandler) GetMockHeat(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	hour, err := parseHour(c.Query("hour"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	bbox, err := parseBBox(c.Query("bbox"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, err := h.service.GenerateBBox(date, hour, bbox)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to generate heat layer", err)
		return
	}
	response.Success(c, result)
}

// GetRouteHeat handles GET /api/heat/route?date=&start=&end=&profile=
// with hours given either as start_hour/n_hours or an explicit list.
func (h *HeatHandler) GetRouteHeat(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	start, err := parsePoint(c.Query("start"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "start: "+err.Error(), nil)
		return
	}
	end, err := parsePoint(c.Query("end"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "end: "+err.Error(), nil)
		return
	}

	hours, err := parseHours(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	req := models.RouteRequest{
		Date:    date,
		Start:   start,
		End:     end,
		Profile: c.DefaultQuery("profile", "walking"),
		Hours:   hours,
	}

	result, err := h.service.GenerateRoute(req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to generate route heat layers", err)
		return
	}
	response.Success(c, result)
}

func parseDate(raw string) (string, error) {
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return "", errors.New("date must match YYYY-MM-DD")
	}
	return raw, nil
}

func parseHour(raw string) (int, error) {
	hour, err := strconv.Atoi(raw)
	if err != nil || hour < 0 || hour > 23 {
		return 0, errors.New("hour must be an integer 0-23")
	}
	return hour, nil
}

func parseBBox(raw string) (models.BoundingBox, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return models.BoundingBox{}, errors.New("bbox format: minLng,minLat,maxLng,maxLat")
	}
	var vals [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return models.BoundingBox{}, errors.New("bbox must be four comma-separated floats")
		}
		vals[i] = f
	}
	bbox := models.BoundingBox{MinLng: vals[0], MinLat: vals[1], MaxLng: vals[2], MaxLat: vals[3]}
	if !bbox.Valid() {
		return models.BoundingBox{}, errors.New("bbox is invalid: min must be smaller than max")
	}
	return bbox, nil
}

func parsePoint(raw string) (models.RoutePoint, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return models.RoutePoint{}, errors.New("expected lng,lat")
	}
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLng != nil || errLat != nil {
		return models.RoutePoint{}, errors.New("lng and lat must be floats")
	}
	return models.RoutePoint{Lng: lng, Lat: lat}, nil
}

// parseHours reads either an explicit hours=22,23,0 list or a
// contiguous start_hour/n_hours window expanded with mod-24 wraparound.
func parseHours(c *gin.Context) ([]int, error) {
	if raw := c.Query("hours"); raw != "" {
		parts := strings.Split(raw, ",")
		hours := make([]int, 0, len(parts))
		for _, p := range parts {
			hour, err := parseHour(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("hours: %q is not an hour 0-23", p)
			}
			hours = append(hours, hour)
		}
		return hours, nil
	}

	startHour, err := parseHour(c.Query("start_hour"))
	if err != nil {
		return nil, errors.New("start_hour must be an integer 0-23 (or pass hours=...)")
	}
	count, err := strconv.Atoi(c.DefaultQuery("n_hours", "1"))
	if err != nil || count < 1 || count > 24 {
		return nil, errors.New("n_hours must be an integer 1-24")
	}
	return service.HourWindow(startHour, count), nil
}
