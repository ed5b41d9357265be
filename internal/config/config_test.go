package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "tectonic", cfg.MapVariant)
	assert.Equal(t, 37.09, cfg.CenterLat)
	assert.Equal(t, -95.71, cfg.CenterLon)
	assert.Equal(t, 5, cfg.Zoom)
	assert.Equal(t, DefaultQuakeFeedURL, cfg.QuakeFeedURL)
	assert.Equal(t, DefaultPlatesFeedURL, cfg.PlatesFeedURL)
	assert.Equal(t, 10*time.Second, cfg.FeedTimeout)
	assert.Equal(t, 5*time.Minute, cfg.FeedCacheTTL)
	assert.Equal(t, "@every 5m", cfg.RefreshSchedule)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "earthquake-events", cfg.KafkaTopic)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("MAP_VARIANT", "basic")
	t.Setenv("MAP_CENTER_LAT", "35.5")
	t.Setenv("MAP_CENTER_LON", "139.7")
	t.Setenv("MAP_ZOOM", "6")
	t.Setenv("QUAKE_FEED_URL", "https://example.com/quakes.geojson")
	t.Setenv("PLATES_FEED_URL", "https://example.com/plates.json")
	t.Setenv("FEED_TIMEOUT", "3s")
	t.Setenv("FEED_CACHE_TTL", "1m")
	t.Setenv("FEED_REFRESH_SCHEDULE", "*/10 * * * *")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "quakes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "basic", cfg.MapVariant)
	assert.Equal(t, 35.5, cfg.CenterLat)
	assert.Equal(t, 139.7, cfg.CenterLon)
	assert.Equal(t, 6, cfg.Zoom)
	assert.Equal(t, "https://example.com/quakes.geojson", cfg.QuakeFeedURL)
	assert.Equal(t, "https://example.com/plates.json", cfg.PlatesFeedURL)
	assert.Equal(t, 3*time.Second, cfg.FeedTimeout)
	assert.Equal(t, time.Minute, cfg.FeedCacheTTL)
	assert.Equal(t, "*/10 * * * *", cfg.RefreshSchedule)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "quakes", cfg.KafkaTopic)
	assert.True(t, cfg.KafkaEnabled)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidFeedTimeout(t *testing.T) {
	t.Setenv("FEED_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FEED_TIMEOUT")
}

func TestLoad_NegativeFeedTimeout(t *testing.T) {
	t.Setenv("FEED_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FEED_TIMEOUT")
}

func TestLoad_InvalidVariant(t *testing.T) {
	t.Setenv("MAP_VARIANT", "satellite-only")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAP_VARIANT")
}

func TestLoad_InvalidFeedURL(t *testing.T) {
	t.Setenv("QUAKE_FEED_URL", "not a url")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUAKE_FEED_URL")
}

func TestLoad_CenterOutOfRange(t *testing.T) {
	t.Setenv("MAP_CENTER_LAT", "91")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAP_CENTER_LAT")
}

func TestLoad_ZeroCacheTTL(t *testing.T) {
	t.Setenv("FEED_CACHE_TTL", "0s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FEED_CACHE_TTL")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}
