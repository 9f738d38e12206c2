package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/trafficguard/trafficguard/internal/cache"
	"github.com/trafficguard/trafficguard/internal/collector"
	"github.com/trafficguard/trafficguard/internal/config"
	"github.com/trafficguard/trafficguard/internal/database"
	"github.com/trafficguard/trafficguard/internal/handlers"
	"github.com/trafficguard/trafficguard/internal/metrics"
	"github.com/trafficguard/trafficguard/internal/reputation"
	"github.com/trafficguard/trafficguard/internal/scoring"
)

// Version information
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("trafficguard %s (commit %s, built %s)\n", Version, GitCommit, BuildTime)
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := initLogger(cfg)
	defer logger.Sync()

	logger.Info("Starting TrafficGuard scoring service",
		zap.String("version", Version),
		zap.String("environment", cfg.Environment))

	// Reputation stack. The lookup opens whatever databases exist and runs
	// degraded past the missing ones.
	classifier := reputation.NewClassifier(
		cfg.Scoring.MaliciousIPs,
		cfg.Scoring.ProxyOverrides,
		cfg.Scoring.HighRiskCountries,
	)
	lookup := reputation.NewLookup(
		cfg.GeoIP.ASNDatabase,
		cfg.GeoIP.CountryDatabase,
		cfg.GeoIP.AnonymousIPDatabase,
		classifier,
		logger,
	)
	defer lookup.Close()
	if lookup.Degraded() {
		logger.Warn("All reputation databases unavailable, scoring in degraded mode")
	}

	metricsCollector := metrics.NewCollector()

	// Persistence is optional. A down database means records are dropped,
	// never a refused start.
	var store scoring.RecordStore
	var querier handlers.RecordQuerier
	if cfg.Database.Enabled {
		db, err := database.NewDatabase(&cfg.Database)
		if err != nil {
			logger.Warn("Database unavailable, score records will not be persisted", zap.Error(err))
		} else {
			defer db.Close()
			if err := db.AutoMigrate(); err != nil {
				logger.Warn("Database migration failed, score records will not be persisted", zap.Error(err))
			} else {
				repo := database.NewScoreRepository(db)
				store = repo
				querier = repo
			}
		}
	}

	queryCache := cache.New(&cfg.Redis, logger)
	defer queryCache.Close()

	eventCollector := collector.New(cfg.Collector.MaxEvents, logger)

	engine := scoring.NewEngine(lookup, classifier, store, metricsCollector, logger)

	handler := handlers.NewHandler(engine, querier, eventCollector, queryCache, logger)
	router := handlers.SetupRouter(cfg, handler, metricsCollector, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Periodic collector cleanup keeps stale sessions from lingering
	// between traffic bursts.
	stopCleanup := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.Collector.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				eventCollector.Cleanup()
			case <-stopCleanup:
				return
			}
		}
	}()

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	close(stopCleanup)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// initLogger initializes the application logger
func initLogger(cfg *config.Config) *zap.Logger {
	var zapCfg zap.Config
	if cfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Logging.Level)
	if err == nil {
		zapCfg.Level = level
	}

	logger, err := zapCfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return logger
}
