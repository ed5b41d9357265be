package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultQuakeFeedURL  = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson"
	DefaultPlatesFeedURL = "https://raw.githubusercontent.com/fraxen/tectonicplates/master/GeoJSON/PB2002_plates.json"
)

// Config holds all service settings, populated from environment variables.
// The env tag names the variable and is used in validation errors.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" validate:"required"`
	LogLevel        string        `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat       string        `env:"LOG_FORMAT" validate:"oneof=json text"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// Map layout.
	MapVariant string  `env:"MAP_VARIANT" validate:"oneof=basic tectonic"`
	CenterLat  float64 `env:"MAP_CENTER_LAT" validate:"gte=-90,lte=90"`
	CenterLon  float64 `env:"MAP_CENTER_LON" validate:"gte=-180,lte=180"`
	Zoom       int     `env:"MAP_ZOOM" validate:"gte=0,lte=20"`

	// Feed fetching.
	QuakeFeedURL    string        `env:"QUAKE_FEED_URL" validate:"required,url"`
	PlatesFeedURL   string        `env:"PLATES_FEED_URL" validate:"required,url"`
	FeedTimeout     time.Duration `env:"FEED_TIMEOUT" validate:"gt=0"`
	FeedCacheTTL    time.Duration `env:"FEED_CACHE_TTL" validate:"gt=0"`
	RefreshSchedule string        `env:"FEED_REFRESH_SCHEDULE" validate:"required"`

	// Optional shared cache. Empty address keeps the cache in memory.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" validate:"gte=0"`

	// Optional event publishing. Enabled when brokers are set.
	KafkaBrokers []string `env:"KAFKA_BROKERS"`
	KafkaTopic   string   `env:"KAFKA_TOPIC" validate:"required"`
	KafkaEnabled bool     `env:"KAFKA_ENABLED"`
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is read first if present;
// variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}
	feedTimeout, err := parseDuration("FEED_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("FEED_CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}
	centerLat, err := parseFloat("MAP_CENTER_LAT", "37.09")
	if err != nil {
		return nil, err
	}
	centerLon, err := parseFloat("MAP_CENTER_LON", "-95.71")
	if err != nil {
		return nil, err
	}
	zoom, err := parseInt("MAP_ZOOM", "5")
	if err != nil {
		return nil, err
	}
	redisDB, err := parseInt("REDIS_DB", "0")
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		MapVariant: sharedcfg.EnvOrDefault("MAP_VARIANT", "tectonic"),
		CenterLat:  centerLat,
		CenterLon:  centerLon,
		Zoom:       zoom,

		QuakeFeedURL:    sharedcfg.EnvOrDefault("QUAKE_FEED_URL", DefaultQuakeFeedURL),
		PlatesFeedURL:   sharedcfg.EnvOrDefault("PLATES_FEED_URL", DefaultPlatesFeedURL),
		FeedTimeout:     feedTimeout,
		FeedCacheTTL:    cacheTTL,
		RefreshSchedule: sharedcfg.EnvOrDefault("FEED_REFRESH_SCHEDULE", "@every 5m"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "earthquake-events"),
		KafkaEnabled: len(brokers) > 0,
	}
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		cfg.KafkaEnabled = v == "true"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

var validate = newValidator()

func newValidator() func(*Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("env")
	})

	return func(cfg *Config) error {
		err := v.Struct(cfg)
		if err == nil {
			return nil
		}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: %v (rule %s)", fe.Field(), fe.Value(), fe.Tag())
		}
		return fmt.Errorf("validate config: %w", err)
	}
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseInt(key, def string) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key, def string) (float64, error) {
	f, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
