package core

import (
	"context"
	"fmt"

	"annexvii/internal/config"
	"annexvii/internal/infra/persistence/memory"
	"annexvii/internal/infra/persistence/postgres"
	"annexvii/internal/infra/persistence/redis"
	"annexvii/internal/infra/persistence/sqlite"
	"annexvii/pkg/domain"
)

// StorageDriver identifies a concrete repository implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
	StorageRedis    StorageDriver = "redis"    // Redis key/value documents
)

// OpenRepository builds the repository selected by cfg.Driver. An empty
// driver means memory.
func OpenRepository(ctx context.Context, cfg config.Storage) (domain.Repository, error) {
	switch StorageDriver(cfg.Driver) {
	case "", StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		return repository(sqlite.NewStore(ctx, cfg.SQLitePath))
	case StoragePostgres:
		return repository(postgres.NewStore(ctx, cfg.PostgresDSN))
	case StorageRedis:
		return repository(redis.NewStore(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.KeyPrefix,
		}))
	default:
		return nil, fmt.Errorf("unknown storage driver %s", cfg.Driver)
	}
}

// repository drops typed nil stores so a failed open returns a nil interface.
func repository(repo domain.Repository, err error) (domain.Repository, error) {
	if err != nil {
		return nil, err
	}
	return repo, nil
}
