// Package bootstrap wires up the runtime dependencies shared by the
// application binaries.
package bootstrap

import (
	"fmt"

	"chirp/internal/cache"
	"chirp/internal/config"
	"chirp/internal/database"
	"chirp/internal/middleware"
	"chirp/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options controls optional bootstrap behavior.
type Options struct {
	// SeedDemoData populates the database with fake users and posts.
	// Ignored in production.
	SeedDemoData bool
	SeedOptions  seed.Options
}

// InitRuntime connects to the database and Redis and optionally seeds demo
// data. Redis failures are tolerated; the returned client is nil when the
// cache is unavailable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	isProduction := cfg.Env == "production" || cfg.Env == "prod"
	if opts.SeedDemoData && !isProduction {
		if err := seed.Run(db, opts.SeedOptions); err != nil {
			return nil, nil, fmt.Errorf("seeding failed: %w", err)
		}
		middleware.Logger.Info("Demo data seeded")
	}

	return db, cache.GetClient(), nil
}
