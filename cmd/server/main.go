package main

import (
	"log"
	"os"

	"github.com/heatscape/heat-backend-go/internal/api"
	"github.com/heatscape/heat-backend-go/internal/config"
	"github.com/heatscape/heat-backend-go/internal/handler"
	"github.com/heatscape/heat-backend-go/internal/routing"
	"github.com/heatscape/heat-backend-go/internal/service"
	"github.com/heatscape/heat-backend-go/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := os.MkdirAll(cfg.ResultsDir, 0o755); err != nil {
		log.Fatal("Failed to create results directory:", err)
	}

	results := store.NewResults(cfg.ResultsDir)
	routes := routing.NewOSRMProvider(cfg.OSRMBaseURL, cfg.RouteTimeout())
	heatService := service.NewHeatService(cfg, results, routes)
	heatHandler := handler.NewHeatHandler(heatService)

	router := api.SetupRouter(cfg, heatHandler)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
