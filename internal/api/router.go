package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/heatscape/heat-backend-go/internal/config"
	"github.com/heatscape/heat-backend-go/internal/handler"
	"github.com/heatscape/heat-backend-go/internal/middleware"
)

// SetupRouter wires middleware and routes
func SetupRouter(cfg *config.Config, heat *handler.HeatHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Heat Exposure API is running",
		})
	})

	// generated artifacts are served straight from the results tree
	r.Static("/results", cfg.ResultsDir)

	api := r.Group("/api")
	{
		heatGroup := api.Group("/heat")
		{
			heatGroup.GET("/mock", heat.GetMockHeat)
			heatGroup.GET("/route", heat.GetRouteHeat)
		}
	}

	return r
}
