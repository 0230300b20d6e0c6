package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"jobportal-web/internal/api/handlers"
	"jobportal-web/internal/api/routes"
	"jobportal-web/internal/config"
	"jobportal-web/internal/logging"
	"jobportal-web/internal/metrics"
	"jobportal-web/internal/portalapi"
	"jobportal-web/internal/session"
	"jobportal-web/internal/views"
	"jobportal-web/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting job portal web server", map[string]interface{}{
		"api_base_url":  cfg.API.BaseURL,
		"session_store": cfg.Session.Store,
	})

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.Default()
	}

	// Token store
	var (
		store       session.TokenStore
		redisClient *redis.Client
	)
	switch cfg.Session.Store {
	case "redis":
		redisClient = utils.NewRedisClient(cfg)
		if err := utils.PingRedis(context.Background(), redisClient, cfg.Redis.Timeout); err != nil {
			logger.Fatal("Redis token store unavailable", map[string]interface{}{"error": err.Error()})
		}
		store = session.NewRedisTokenStore(redisClient)
		logger.Info("Using redis token store", map[string]interface{}{"url": cfg.Redis.URL})
	case "memory", "":
		store = session.NewMemoryTokenStore()
	default:
		logger.Fatal("Unknown session store", map[string]interface{}{"store": cfg.Session.Store})
	}

	api := portalapi.NewClient(cfg, logger.WithField("component", "portalapi"), portalapi.WithMetrics(collector))

	// Per-session list views, swept when idle
	registry := views.NewRegistry(cfg.Session.ViewIdleTimeout, cfg.Session.ViewSweepInterval, logger, collector)
	if err := registry.Start(context.Background()); err != nil {
		logger.Fatal("Failed to start view registry", map[string]interface{}{"error": err.Error()})
	}
	portal := views.NewPortal(registry, api, cfg, logger, collector)

	deps := &handlers.Deps{
		Config:  cfg,
		API:     api,
		Portal:  portal,
		Redis:   redisClient,
		Logger:  logger,
		Metrics: collector,
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	if err := routes.SetupRoutes(e, deps, store); err != nil {
		logger.Fatal("Failed to set up routes", map[string]interface{}{"error": err.Error()})
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Info("Stopping HTTP server...")
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
		}

		// Closes every list view and cancels in-flight fetches
		logger.Info("Stopping view registry...")
		if err := registry.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping view registry", map[string]interface{}{"error": err.Error()})
		}

		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Error("Error closing redis client", map[string]interface{}{"error": err.Error()})
			}
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed to start", map[string]interface{}{"error": err.Error()})
	}
	<-done
}
