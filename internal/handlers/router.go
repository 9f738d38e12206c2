package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/trafficguard/trafficguard/internal/config"
	"github.com/trafficguard/trafficguard/internal/metrics"
)

// SetupRouter builds the gin engine with middleware, operational
// endpoints, and the API routes.
func SetupRouter(
	cfg *config.Config,
	handler *Handler,
	collector *metrics.Collector,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware(logger))
	router.Use(MetricsMiddleware(collector))
	if cfg.Server.EnableCORS {
		router.Use(CORSMiddleware())
	}

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.RegisterRoutes(router)

	return router
}
