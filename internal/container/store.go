package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do"
	"github.com/serroba/tinylink/internal/health"
	"github.com/serroba/tinylink/internal/shortener"
	"github.com/serroba/tinylink/internal/store"
	"go.uber.org/zap"
)

// LinkStore is the configured primary store, before any cache.
type LinkStore struct {
	shortener.Repository
	health.Checker

	Name string
}

// PostgresPackage provides the migrated PostgreSQL store.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*store.PostgresStore, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if err := store.MigratePostgres(opts.DatabaseURL, logger); err != nil {
			return nil, err
		}

		cfg, err := pgxpool.ParseConfig(opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse database url: %w", err)
		}

		if opts.DBMaxConns > 0 {
			cfg.MaxConns = int32(opts.DBMaxConns) //nolint:gosec // bounded by configuration
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		logger.Info("connected to postgres", zap.Int32("max_conns", cfg.MaxConns))

		return store.NewPostgresStore(pool), nil
	})
}

// SQLitePackage provides the migrated SQLite store.
func SQLitePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*store.SQLiteStore, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		s, err := store.OpenSQLite(opts.SQLitePath, logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", opts.SQLitePath, err)
		}

		logger.Info("opened sqlite", zap.String("path", opts.SQLitePath))

		return s, nil
	})
}

// RepositoryPackage provides the primary LinkStore selected by Options.Store.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*LinkStore, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Store {
		case StoreMemory:
			s := store.NewMemoryStore()

			return &LinkStore{Repository: s, Checker: s, Name: StoreMemory}, nil
		case StorePostgres:
			s, err := do.Invoke[*store.PostgresStore](i)
			if err != nil {
				return nil, err
			}

			return &LinkStore{Repository: s, Checker: s, Name: StorePostgres}, nil
		case StoreSQLite:
			s, err := do.Invoke[*store.SQLiteStore](i)
			if err != nil {
				return nil, err
			}

			return &LinkStore{Repository: s, Checker: s, Name: StoreSQLite}, nil
		case StoreRedis:
			conn, err := do.Invoke[*RedisConn](i)
			if err != nil {
				return nil, err
			}

			s := store.NewRedisStore(conn.Client)

			return &LinkStore{Repository: s, Checker: s, Name: StoreRedis}, nil
		default:
			return nil, fmt.Errorf("unknown store %q", opts.Store)
		}
	})
}

// CachePackage provides the shortener.Repository used by the service: the
// primary store, wrapped in a Redis target cache when Options.CacheTTL > 0.
func CachePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		opts := do.MustInvoke[*Options](i)
		primary := do.MustInvoke[*LinkStore](i)

		if opts.CacheTTL <= 0 {
			return primary.Repository, nil
		}

		conn, err := do.Invoke[*RedisConn](i)
		if err != nil {
			return nil, err
		}

		ttl := time.Duration(opts.CacheTTL) * time.Second

		do.MustInvoke[*zap.Logger](i).Info("caching redirect targets", zap.Duration("ttl", ttl))

		return store.NewRedisCacheRepository(primary.Repository, conn.Client, ttl), nil
	})
}
