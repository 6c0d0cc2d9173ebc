package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"abs-store/internal/config"
	"abs-store/internal/database"
	"abs-store/internal/store"
)

// Backend holds the connections the server runs on
type Backend struct {
	KV    store.KV
	DB    database.Service // set for the postgres backend
	Redis *redis.Client    // set whenever REDIS_HOST is configured
}

// OpenBackend connects the document store selected by STORE_BACKEND, plus
// Redis for rate limiting when it is configured
func OpenBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	b := &Backend{}

	if cfg.Redis.Enabled() {
		b.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := b.Redis.Ping(ctx).Err(); err != nil {
			_ = b.Redis.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr()))
	}

	switch cfg.Store.Backend {
	case config.BackendMemory, "":
		logger.Warn("Using in-memory store; data is lost on restart")
		b.KV = store.NewMemoryKV()

	case config.BackendPostgres:
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			b.Close()
			return nil, err
		}
		if err := database.RunMigrations(db.DB(), logger); err != nil {
			_ = db.Close()
			b.Close()
			return nil, err
		}
		b.DB = db
		b.KV = store.NewPostgresKV(db.DB())

	case config.BackendRedis:
		if b.Redis == nil {
			return nil, errors.New("redis store backend requires REDIS_HOST")
		}
		b.KV = store.NewRedisKV(b.Redis, cfg.Redis.KeyPrefix)

	case config.BackendMongo:
		kv, err := store.NewMongoKV(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.KV = kv

	default:
		b.Close()
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	logger.Info("Document store ready", zap.String("backend", cfg.Store.Backend))
	return b, nil
}

// Close releases every connection; errors are joined
func (b *Backend) Close() error {
	var errs []error
	if b.KV != nil {
		errs = append(errs, b.KV.Close())
	}
	if b.DB != nil {
		errs = append(errs, b.DB.Close())
	}
	if b.Redis != nil {
		errs = append(errs, b.Redis.Close())
	}
	return errors.Join(errs...)
}
