package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/statute-core/internal/adapters/driven/fixture"
	"github.com/custodia-labs/statute-core/internal/adapters/driven/memory"
	"github.com/custodia-labs/statute-core/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/statute-core/internal/adapters/driven/redis"
	"github.com/custodia-labs/statute-core/internal/core/ports/driven"
	"github.com/custodia-labs/statute-core/internal/core/ports/driving"
	"github.com/custodia-labs/statute-core/internal/core/services"
)

// runtime holds the wired adapters of one command invocation
type runtime struct {
	service driving.VersionService
	store   driven.StatuteStore
	cache   driven.VersionCache
	db      *postgres.DB

	closers []func() error
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			slog.Warn("close failed", "error", err)
		}
	}
}

// connectPostgres opens the database and applies the schema
func connectPostgres(ctx context.Context, cfg *config) (*postgres.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	log.Println("Connecting to PostgreSQL...")
	dbConfig := postgres.DefaultConfig(cfg.DatabaseURL)
	dbConfig.MaxOpenConns = cfg.DBMaxOpenConns
	dbConfig.MaxIdleConns = cfg.DBMaxIdleConns
	dbConfig.ConnMaxLifetime = cfg.DBConnMaxLifetime
	dbConfig.ConnMaxIdleTime = cfg.DBConnMaxIdleTime
	dbConfig.Logger = slog.Default()

	db, err := postgres.Connect(ctx, dbConfig)
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.Println("PostgreSQL connected and schema initialized")
	return db, nil
}

// wire builds the version service. Bundles take precedence over PostgreSQL;
// Redis, when configured, backs the cache and the prewarm lock.
func wire(ctx context.Context, cfg *config) (*runtime, error) {
	loc, err := time.LoadLocation(cfg.ReferenceTimezone)
	if err != nil {
		return nil, fmt.Errorf("reference timezone: %w", err)
	}

	rt := &runtime{}
	var lock driven.DistributedLock

	switch {
	case len(cfg.Bundles) > 0:
		store, err := fixture.LoadStore(cfg.Bundles...)
		if err != nil {
			return nil, err
		}
		log.Printf("Serving %d bundle(s): %v", len(cfg.Bundles), store.Documents())
		rt.store = store
	default:
		db, err := connectPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		rt.db = db
		rt.closers = append(rt.closers, db.Close)
		rt.store = postgres.NewStatuteStore(db)
		lock = postgres.NewAdvisoryLock(db)
	}

	if cfg.RedisURL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		rt.closers = append(rt.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			rt.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		log.Println("Redis connected")
		rt.cache = redisadapter.NewVersionCache(client, redisadapter.DefaultVersionCacheConfig())
		lock = redisadapter.NewLock(client)
	} else {
		cache := memory.NewVersionCache(memory.VersionCacheConfig{MaxEntries: cfg.CacheMaxEntries})
		if err := prometheus.Register(cache); err != nil {
			slog.Warn("memory cache metrics not registered", "error", err)
		}
		rt.cache = cache
	}

	rt.service = services.NewVersionService(services.VersionServiceConfig{
		Store:              rt.store,
		Cache:              rt.cache,
		Lock:               lock,
		Location:           loc,
		VersionTTL:         cfg.VersionTTL,
		DiffTTL:            cfg.DiffTTL,
		TimelineTTL:        cfg.TimelineTTL,
		PrewarmConcurrency: cfg.PrewarmConcurrency,
		Logger:             slog.Default(),
	})
	return rt, nil
}
