package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/quake-map-service/internal/adapter/feed"
	httpadapter "github.com/couchcryptid/quake-map-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-map-service/internal/adapter/kafka"
	"github.com/couchcryptid/quake-map-service/internal/config"
	"github.com/couchcryptid/quake-map-service/internal/domain"
	"github.com/couchcryptid/quake-map-service/internal/mapview"
	"github.com/couchcryptid/quake-map-service/internal/observability"
	"github.com/couchcryptid/quake-map-service/internal/refresh"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	variant, err := mapview.ParseVariant(cfg.MapVariant)
	if err != nil {
		logger.Error("invalid map variant", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Feed cache: Redis when configured, otherwise in-process.
	var store feed.Store
	if cfg.RedisAddr != "" {
		rdb, err := feed.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Error("redis unavailable", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		store = feed.NewRedisStore(rdb, "quake-map:")
		logger.Info("feed cache backed by redis", "addr", cfg.RedisAddr)
	} else {
		store = feed.NewMemoryStore(nil)
		logger.Info("feed cache in memory", "ttl", cfg.FeedCacheTTL)
	}

	client := feed.NewClient(cfg.QuakeFeedURL, cfg.PlatesFeedURL, cfg.FeedTimeout, metrics, logger)
	source := feed.NewCachedSource(client, store, cfg.FeedCacheTTL, metrics, logger)

	// Event publishing (feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS).
	var publisher refresh.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("event publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("event publishing disabled")
	}

	assembler := mapview.NewAssembler(source, source, mapview.Options{
		Variant: variant,
		Center:  domain.Geo{Lat: cfg.CenterLat, Lon: cfg.CenterLon},
		Zoom:    cfg.Zoom,
	}, logger, metrics)

	refresher, err := refresh.New(source, publisher, refresh.Options{
		Schedule: cfg.RefreshSchedule,
		Plates:   variant == mapview.VariantTectonic,
		Timeout:  cfg.FeedTimeout * 2,
	}, logger, metrics)
	if err != nil {
		logger.Error("failed to create refresher", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, assembler, refresher, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Warm the cache, then keep it warm.
	go refresher.Start(ctx)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	refresher.Stop()
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
