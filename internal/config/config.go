package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/pluscode-etl/pkg/olc"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// CodeLength is the plus code length used when a record does not ask
	// for one.
	CodeLength int

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Offline gazetteer. Empty path disables it.
	GazetteerPath          string
	GazetteerMaxDistanceKm float64

	// GeocodeCacheDir is a pebble directory for persisting geocoder results
	// across restarts. Empty disables it.
	GeocodeCacheDir string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("MAPBOX_TIMEOUT", "5s"))
	if err != nil || mapboxTimeout <= 0 {
		return nil, errors.New("invalid MAPBOX_TIMEOUT")
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	codeLength, err := parseCodeLength()
	if err != nil {
		return nil, err
	}

	maxDistance, err := parseMaxDistance()
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-location-reports"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "pluscode-locations"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "pluscode-etl"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		CodeLength:         codeLength,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),

		GazetteerPath:          os.Getenv("GAZETTEER_PATH"),
		GazetteerMaxDistanceKm: maxDistance,
		GeocodeCacheDir:        os.Getenv("GEOCODE_CACHE_DIR"),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

// GeocodingEnabled reports whether any geocoder is configured.
func (c *Config) GeocodingEnabled() bool {
	return c.MapboxEnabled || c.GazetteerPath != ""
}

func parseCodeLength() (int, error) {
	s := sharedcfg.EnvOrDefault("OLC_CODE_LENGTH", strconv.Itoa(olc.DefaultCodeLength))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid OLC_CODE_LENGTH %q: %w", s, err)
	}
	if n > olc.MaxCodeLength {
		return 0, fmt.Errorf("invalid OLC_CODE_LENGTH %d: above %d", n, olc.MaxCodeLength)
	}
	if err := olc.CheckCodeLength(n); err != nil {
		return 0, fmt.Errorf("invalid OLC_CODE_LENGTH: %w", err)
	}
	return n, nil
}

func parseMaxDistance() (float64, error) {
	s := sharedcfg.EnvOrDefault("GAZETTEER_MAX_DISTANCE_KM", "50")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid GAZETTEER_MAX_DISTANCE_KM %q", s)
	}
	return v, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
