// Package pebblecache persists geocoding results in a Pebble store so they
// survive restarts. It decorates any domain.Geocoder.
package pebblecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cockroachdb/pebble"
	"github.com/couchcryptid/pluscode-etl/internal/domain"
	"github.com/couchcryptid/pluscode-etl/internal/observability"
)

// Store is a disk-backed geocoding cache.
type Store struct {
	db      *pebble.DB
	inner   domain.Geocoder
	metrics *observability.Metrics
	logger  *slog.Logger
}

// Open opens or creates the store in dir.
func Open(dir string, inner domain.Geocoder, metrics *observability.Metrics, logger *slog.Logger) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open geocode cache %s: %w", dir, err)
	}
	return &Store{db: db, inner: inner, metrics: metrics, logger: logger}, nil
}

// Close flushes and closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// ForwardGeocode serves a stored forward result or fetches and stores one.
func (s *Store) ForwardGeocode(ctx context.Context, name, region string) (domain.GeocodingResult, error) {
	key := "fwd:" + strings.ToUpper(strings.TrimSpace(name)) + "|" + strings.ToUpper(strings.TrimSpace(region))
	return s.lookup("forward", key, func() (domain.GeocodingResult, error) {
		return s.inner.ForwardGeocode(ctx, name, region)
	})
}

// ReverseGeocode keys stored results on coordinates rounded to six decimals.
func (s *Store) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	key := fmt.Sprintf("rev:%.6f,%.6f", lat, lon)
	return s.lookup("reverse", key, func() (domain.GeocodingResult, error) {
		return s.inner.ReverseGeocode(ctx, lat, lon)
	})
}

func (s *Store) lookup(method, key string, fetch func() (domain.GeocodingResult, error)) (domain.GeocodingResult, error) {
	if result, ok := s.get(key); ok {
		s.count(method, "disk_hit")
		return result, nil
	}
	s.count(method, "disk_miss")

	result, err := fetch()
	if err != nil || !result.Found() {
		return result, err
	}
	if err := s.put(key, result); err != nil {
		s.logger.Warn("geocode cache write failed", "key", key, "error", err)
	}
	return result, nil
}

func (s *Store) get(key string) (domain.GeocodingResult, bool) {
	val, closer, err := s.db.Get([]byte(key))
	if err != nil {
		if !errors.Is(err, pebble.ErrNotFound) {
			s.logger.Warn("geocode cache read failed", "key", key, "error", err)
		}
		return domain.GeocodingResult{}, false
	}
	defer closer.Close()

	// val is only valid until closer.Close, Unmarshal copies out of it.
	var result domain.GeocodingResult
	if err := json.Unmarshal(val, &result); err != nil {
		s.logger.Warn("geocode cache entry corrupt", "key", key, "error", err)
		return domain.GeocodingResult{}, false
	}
	return result, true
}

func (s *Store) put(key string, result domain.GeocodingResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.db.Set([]byte(key), data, pebble.NoSync)
}

func (s *Store) count(method, result string) {
	if s.metrics != nil {
		s.metrics.GeocodeCache.WithLabelValues(method, result).Inc()
	}
}
