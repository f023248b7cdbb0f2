package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/config"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/importer"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/metrics"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/mw"
	"github.com/muhammad-arief-rahman/proyek-akhir-unit-service/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.ServerConfig, s store.Store, imp *importer.Importer) *gin.Engine {
	r := gin.Default()

	db := s.DB()
	handler := NewHandler(s, imp)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// POST /api/imports
		api.POST("/imports", handler.StoreImport)

		// GET /api/summary
		api.GET("/summary", caching, GetSummary(db))
	}

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	return r
}
