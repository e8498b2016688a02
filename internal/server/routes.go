package server

import (
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trendsync/internal/handlers/api"
	"trendsync/internal/middleware"
)

// Store is the storage the HTTP API reads from.
type Store interface {
	api.TrendReader
	api.Pinger
}

// RegisterRoutes registers all application routes. A nil syncer leaves the
// sync endpoint answering 503.
func (s *Server) RegisterRoutes(store Store, syncer api.RegionSyncer) {
	trendHandler := api.NewTrendHandler(store, syncer)
	healthHandler := api.NewHealthHandler(store)

	s.App.Get("/healthz", healthHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := s.App.Group("/api/v1")
	v1.Get("/home/dashboard", trendHandler.Dashboard)
	v1.Get("/trends", trendHandler.List)

	if s.Cfg.SyncAPIToken == "" {
		log.Println("SYNC_API_TOKEN is not set; POST /api/v1/trends/sync is unauthenticated")
	}
	v1.Post("/trends/sync", middleware.RequireToken(s.Cfg.SyncAPIToken), trendHandler.Sync)
}
