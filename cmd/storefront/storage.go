package main

import (
	"context"
	"fmt"

	"github.com/fjod/storefront/internal/cache"
	"github.com/fjod/storefront/internal/config"
	"github.com/fjod/storefront/internal/repository"
	"github.com/fjod/storefront/pkg/circuitbreaker"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// openStore connects the configured backend. Remote backends sit behind a
// circuit breaker; sql and mongo backends can get a redis read-through cache.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, []func() error, error) {
	var (
		store   repository.Store
		closers []func() error
		remote  bool
	)

	switch cfg.Backend {
	case config.BackendMemory:
		return repository.NewMemoryStore(), nil, nil

	case config.BackendSQLite:
		s, err := repository.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := s.RunMigrations(); err != nil {
			_ = s.Close()
			return nil, nil, err
		}
		log.Debug("sqlite storage ready", zap.String("path", cfg.SQLitePath))
		store = s

	case config.BackendPostgres:
		s, err := repository.NewPostgresStore(&cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if err := s.RunMigrations(); err != nil {
			_ = s.Close()
			return nil, nil, err
		}
		log.Debug("postgres storage ready", zap.String("host", cfg.Postgres.Host))
		store, remote = s, true

	case config.BackendMongo:
		db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("mongo storage ready", zap.String("database", cfg.MongoDB))
		store, remote = repository.NewMongoStore(db), true

	case config.BackendRedis:
		client, err := connectRedis(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		store, remote = cache.NewRedisStore(client), true

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	closers = append(closers, store.Close)

	if cfg.RedisCache && cfg.Backend != config.BackendRedis {
		client, err := connectRedis(ctx, cfg)
		if err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		closers = append(closers, client.Close)
		store = cache.NewCachedStore(store, client, log)
		remote = true
	}

	if remote {
		store = repository.NewBreakerStore(store, circuitbreaker.DefaultConfig("storage-"+cfg.Backend), log)
	}
	return store, closers, nil
}

func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}
