package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/cwa-station-overlay/internal/api/http"
	"github.com/i474232898/cwa-station-overlay/internal/config"
	"github.com/i474232898/cwa-station-overlay/internal/logging"
	"github.com/i474232898/cwa-station-overlay/internal/observability"
	"github.com/i474232898/cwa-station-overlay/internal/overlay"
	"github.com/i474232898/cwa-station-overlay/internal/scheduler"
	"github.com/i474232898/cwa-station-overlay/internal/search"
	"github.com/i474232898/cwa-station-overlay/internal/store"
	"github.com/i474232898/cwa-station-overlay/internal/views"
	"github.com/i474232898/cwa-station-overlay/internal/weather"
	"github.com/i474232898/cwa-station-overlay/internal/weather/feeds"
)

const appName = "cwa-station-overlay"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr := logging.New(cfg, appName)

	if err := views.LoadTemplates(); err != nil {
		logr.Error("failed to load templates", "error", err)
		os.Exit(1)
	}
	if err := overlay.LoadTemplates(); err != nil {
		logr.Error("failed to load overlay templates", "error", err)
		os.Exit(1)
	}

	// Shared HTTP client for outbound feed calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	endpoint := feeds.Endpoint{BaseURL: cfg.CWA.BaseURL, APIKey: cfg.CWA.APIKey}

	// Rainfall runs last so it merges into stations the weather feeds registered.
	stages := []weather.Feed{
		feeds.NewAutomaticFeed(httpClient, endpoint, logr),
		feeds.NewMesoscaleFeed(httpClient, endpoint, logr),
		feeds.NewRainfallFeed(httpClient, endpoint, logr),
	}

	registry := store.NewRegistry()
	canvas := overlay.NewCanvas(weather.Position{Lat: cfg.Map.CenterLat, Lon: cfg.Map.CenterLon}, cfg.Map.Zoom)
	markers := overlay.NewSynchronizer(canvas, logr)
	labels := overlay.NewLabelController(markers, registry, cfg.LabelsVisible)
	metrics := observability.NewMetrics()

	service := weather.NewService(registry, markers, labels, stages, logr, metrics)

	sched := scheduler.New(cfg.FetchInterval, service, logr)
	if err := sched.Start(); err != nil {
		logr.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterOps(app, service, appName)
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Service:        service,
		Resolver:       search.NewResolver(registry),
		Canvas:         canvas,
		Labels:         labels,
		Navigator:      overlay.NewNavigator(canvas, markers, cfg.Map.SearchZoom),
		Logger:         logr,
		RefreshTimeout: cfg.FetchInterval,
	})

	go func() {
		logr.Info("http server listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logr.Error("fiber server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logr.Error("error during shutdown", "error", err)
	}
}
