package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/w-udagawa/vlingual-cards/internal/adapter/file"
	"github.com/w-udagawa/vlingual-cards/internal/adapter/memory"
	"github.com/w-udagawa/vlingual-cards/internal/adapter/postgres"
	"github.com/w-udagawa/vlingual-cards/internal/adapter/postgres/kv"
	"github.com/w-udagawa/vlingual-cards/internal/adapter/redis"
	"github.com/w-udagawa/vlingual-cards/internal/adapter/sqlite"
	"github.com/w-udagawa/vlingual-cards/internal/config"
)

// Store is the key/value persistence shared by preferences and progress.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Ping(ctx context.Context) error
}

// OpenStore opens the store selected by cfg.Driver. The returned func
// releases it.
func OpenStore(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (Store, func() error, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		s := memory.New()
		return s, s.Close, nil

	case config.DriverFile:
		s, err := file.Open(cfg.FilePath, log)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}
		log.Info("storage opened", slog.String("driver", cfg.Driver), slog.String("path", s.Path()))
		return s, s.Close, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		log.Info("storage opened", slog.String("driver", cfg.Driver), slog.String("path", s.Path()))
		return s, s.Close, nil

	case config.DriverPostgres:
		if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		log.Info("storage opened",
			slog.String("driver", cfg.Driver),
			slog.Int("max_conns", int(cfg.Database.MaxConns)),
		)
		return kv.New(pool), func() error { pool.Close(); return nil }, nil

	case config.DriverRedis:
		s, err := redis.Open(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis store: %w", err)
		}
		log.Info("storage opened", slog.String("driver", cfg.Driver), slog.String("addr", cfg.Redis.Addr))
		return s, s.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
