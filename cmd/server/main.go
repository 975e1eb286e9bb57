// Command server runs the Baidu geocoding HTTP service. Each configured API
// version is exposed under its own route prefix, with results cached in
// memory; health, readiness, and Prometheus metrics endpoints come along.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/AdamsLee/baidu-geocode/internal/adapter/baidu"
	httpadapter "github.com/AdamsLee/baidu-geocode/internal/adapter/http"
	"github.com/AdamsLee/baidu-geocode/internal/config"
	"github.com/AdamsLee/baidu-geocode/internal/domain"
	"github.com/AdamsLee/baidu-geocode/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	opts := baidu.Options{
		Scheme:   cfg.Scheme,
		Format:   cfg.Format,
		Timeout:  cfg.Timeout,
		ProxyURL: cfg.ProxyURL,
		Logger:   logger,
		Metrics:  metrics,
	}

	// Version adapters are feature-flagged by credential presence.
	geocoders := make(map[string]domain.Geocoder)

	if cfg.V1Enabled() {
		v1, err := baidu.NewV1(cfg.V1Key, opts)
		if err != nil {
			logger.Error("failed to build v1 geocoder", "error", err)
			os.Exit(1)
		}
		geocoders["v1"] = baidu.NewCachedGeocoder(v1, cfg.CacheSize, cfg.CacheTTL, metrics)
		metrics.VersionEnabled.WithLabelValues("v1").Set(1)
		logger.Info("v1 geocoder enabled")
	} else {
		metrics.VersionEnabled.WithLabelValues("v1").Set(0)
		logger.Info("v1 geocoder disabled")
	}

	if cfg.V2Enabled() {
		v2, err := baidu.NewV2(cfg.AK, opts)
		if err != nil {
			logger.Error("failed to build v2 geocoder", "error", err)
			os.Exit(1)
		}
		geocoders["v2"] = baidu.NewCachedGeocoder(v2, cfg.CacheSize, cfg.CacheTTL, metrics)
		metrics.VersionEnabled.WithLabelValues("v2").Set(1)
		logger.Info("v2 geocoder enabled", "cache_size", cfg.CacheSize, "cache_ttl", cfg.CacheTTL)
	} else {
		metrics.VersionEnabled.WithLabelValues("v2").Set(0)
		logger.Info("v2 geocoder disabled")
	}

	if len(geocoders) == 0 {
		logger.Error("no Baidu credentials configured; set BAIDU_V1_KEY or BAIDU_AK")
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, geocoders, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
