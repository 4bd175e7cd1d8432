// Package bootstrap assembles the process-level dependencies shared by the binaries.
package bootstrap

import (
	"context"
	"fmt"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SkipSchema leaves the schema untouched, for tools that manage it themselves.
	SkipSchema bool
}

// Runtime is the set of connections a binary needs.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client
	Store storage.FileStore
}

// InitRuntime connects the database, applies the schema policy, connects
// Redis (nil when unreachable) and opens the configured file store.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if !opts.SkipSchema {
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	cache.InitRedis(cfg.RedisURL)
	rdb := cache.GetClient()
	if rdb == nil {
		middleware.Logger.Warn("redis unavailable; caching, rate limits and realtime fan-out are disabled")
	}

	store, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}

	return &Runtime{DB: db, Redis: rdb, Store: store}, nil
}

// Close releases the database and Redis connections.
func (r *Runtime) Close() {
	if r.Redis != nil {
		_ = r.Redis.Close()
	}
	if sqlDB, err := r.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
