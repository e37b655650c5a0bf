package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/whiskystock/internal/migrations"
	"github.com/abgdnv/whiskystock/internal/store"
	"github.com/abgdnv/whiskystock/pkg/bootstrap"
	"github.com/abgdnv/whiskystock/pkg/config"
	"github.com/abgdnv/whiskystock/pkg/messaging"
	"github.com/abgdnv/whiskystock/pkg/nats"
)

type closeFunc func(context.Context) error

func noopClose(context.Context) error { return nil }

// openStore connects to the configured backend and returns the matching WhiskyStore.
func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (store.WhiskyStore, closeFunc, error) {
	switch cfg.Backend {
	case config.StoreBackendMemory:
		logger.Warn("Using the in-memory store, data is lost on restart")
		return store.NewInMemoryStore(), noopClose, nil

	case config.StoreBackendPostgres:
		if cfg.Database.Migrate {
			if err := migrations.Up(cfg.Database.URL); err != nil {
				return nil, nil, fmt.Errorf("failed to apply database migrations: %w", err)
			}
			logger.Info("Database migrations applied")
		}
		dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Successfully connected to the database!")
		return store.NewPgStore(dbPool), func(context.Context) error {
			dbPool.Close()
			return nil
		}, nil

	case config.StoreBackendRedis:
		client, err := bootstrap.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Successfully connected to redis", "addr", cfg.Redis.Addr)
		return store.NewRedisStore(client, cfg.Redis.KeyPrefix), func(context.Context) error {
			return client.Close()
		}, nil

	case config.StoreBackendMongo:
		client, err := bootstrap.NewMongoClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		mongoStore, err := store.NewMongoStore(ctx, client.Database(cfg.Mongo.Database))
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		logger.Info("Successfully connected to mongo", "database", cfg.Mongo.Database)
		return mongoStore, client.Disconnect, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// openPublisher connects to NATS and makes sure the whisky stream exists.
// With NATS disabled events are dropped.
func openPublisher(ctx context.Context, natsCfg config.NATSConfig, resilience config.ResilienceConfig, logger *slog.Logger) (messaging.Publisher, closeFunc, error) {
	if !natsCfg.Enabled {
		logger.Info("NATS is disabled, whisky events are not published")
		return messaging.NoopPublisher{}, noopClose, nil
	}
	nc, err := nats.NewClient(natsCfg.Url, natsCfg.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := nats.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	if _, err := nats.EnsureStream(ctx, js, natsCfg.Stream, messaging.WhiskySubjects); err != nil {
		nc.Close()
		return nil, nil, err
	}
	logger.Info("Connected to NATS", "url", natsCfg.Url, "stream", natsCfg.Stream)
	publisher := messaging.NewBreakerPublisher(nats.NewNatsPublisher(js), resilience.CircuitBreaker)
	return publisher, func(context.Context) error {
		return nc.Drain()
	}, nil
}
