package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/insurance-crm/internal/app"
	"github.com/jwalitptl/insurance-crm/internal/config"
	"github.com/jwalitptl/insurance-crm/internal/handler/health"
	"github.com/jwalitptl/insurance-crm/internal/repository/memory"
	"github.com/jwalitptl/insurance-crm/internal/repository/postgres"
	"github.com/jwalitptl/insurance-crm/pkg/cache"
	"github.com/jwalitptl/insurance-crm/pkg/logger"
	"github.com/jwalitptl/insurance-crm/pkg/metrics"
)

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level := logger.ParseLevel(cfg.Log.Level)
	zerolog.SetGlobalLevel(level)
	appLog := logger.NewLogger(&logger.Config{Level: level})
	if level > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry, app.MetricsNamespace)

	stores, closeStores, err := openStores(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer closeStores()

	snapshotCache, cacheCheck, closeCache, err := openCache(ctx, cfg, m)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up cache")
	}
	defer closeCache()
	if cacheCheck != nil {
		stores.Checks["redis"] = cacheCheck
	}

	a := app.New(cfg, app.Deps{
		Stores:   stores,
		Cache:    snapshotCache,
		Registry: registry,
		Metrics:  m,
		Logger:   appLog,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Int("port", cfg.Server.Port).
			Str("database", cfg.Database.Driver).
			Str("cache", snapshotCache.Name()).
			Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func openStores(ctx context.Context, cfg config.DatabaseConfig) (app.Stores, func(), error) {
	if cfg.Driver == "memory" {
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return app.Stores{
			Insurance: memory.NewInsuranceRepository(),
			Inbound:   memory.NewInboundRepository(),
			Calls:     memory.NewCallRepository(),
			Checks:    map[string]health.Pinger{},
		}, func() {}, nil
	}

	db, err := postgres.NewDB(ctx, cfg)
	if err != nil {
		return app.Stores{}, nil, err
	}
	return app.Stores{
		Insurance: postgres.NewInsuranceRepository(db),
		Inbound:   postgres.NewInboundRepository(db),
		Calls:     postgres.NewCallRepository(db),
		Checks:    map[string]health.Pinger{"database": db},
	}, closeDB(db), nil
}

func closeDB(db *sqlx.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}
}

func openCache(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (cache.Cache, health.Pinger, func(), error) {
	switch cfg.Cache.Driver {
	case "redis":
		client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			URL:          cfg.Redis.URL,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close redis client")
			}
		}
		return cache.NewRedis(client, cfg.Cache.Prefix, cfg.Cache.TTL, m), redisPinger{client: client}, closeFn, nil
	case "none":
		return cache.Noop{}, nil, func() {}, nil
	default:
		return cache.NewMemory(cfg.Cache.TTL, m), nil, func() {}, nil
	}
}
