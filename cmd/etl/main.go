package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/pluscode-etl/internal/adapter/gazetteer"
	httpadapter "github.com/couchcryptid/pluscode-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/pluscode-etl/internal/adapter/kafka"
	"github.com/couchcryptid/pluscode-etl/internal/adapter/mapbox"
	"github.com/couchcryptid/pluscode-etl/internal/adapter/pebblecache"
	"github.com/couchcryptid/pluscode-etl/internal/config"
	"github.com/couchcryptid/pluscode-etl/internal/domain"
	"github.com/couchcryptid/pluscode-etl/internal/observability"
	"github.com/couchcryptid/pluscode-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	geocoder, closeGeocoder, err := buildGeocoder(cfg, metrics, logger)
	if err != nil {
		logger.Error("failed to set up geocoding", "error", err)
		os.Exit(1)
	}
	if geocoder != nil {
		metrics.GeocodeEnabled.Set(1)
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(geocoder, cfg.CodeLength, metrics, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if err := closeGeocoder.Close(); err != nil {
		logger.Error("geocode cache close error", "error", err)
	}

	logger.Info("shutdown complete")
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// buildGeocoder picks Mapbox when a token is configured, otherwise the offline
// gazetteer. Results are persisted in pebble when GEOCODE_CACHE_DIR is set,
// and Mapbox lookups are fronted by an in-memory LRU.
func buildGeocoder(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (domain.Geocoder, io.Closer, error) {
	var geocoder domain.Geocoder
	switch {
	case cfg.MapboxEnabled:
		geocoder = mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	case cfg.GazetteerPath != "":
		g, err := gazetteer.Load(cfg.GazetteerPath, cfg.GazetteerMaxDistanceKm)
		if err != nil {
			return nil, nil, err
		}
		geocoder = g
		logger.Info("gazetteer geocoding enabled",
			"path", cfg.GazetteerPath,
			"localities", g.Len(),
			"max_distance_km", cfg.GazetteerMaxDistanceKm,
		)
	default:
		logger.Info("geocoding disabled")
		return nil, nopCloser{}, nil
	}

	var closer io.Closer = nopCloser{}
	if cfg.GeocodeCacheDir != "" {
		store, err := pebblecache.Open(cfg.GeocodeCacheDir, geocoder, metrics, logger)
		if err != nil {
			return nil, nil, err
		}
		geocoder, closer = store, store
		logger.Info("geocode cache enabled", "dir", cfg.GeocodeCacheDir)
	}
	if cfg.MapboxEnabled {
		geocoder = mapbox.NewCachedGeocoder(geocoder, cfg.MapboxCacheSize, metrics)
	}
	return geocoder, closer, nil
}
