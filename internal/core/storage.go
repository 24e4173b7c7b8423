package core

import (
	"context"
	"fmt"

	"gameframework/internal/blob"
	"gameframework/internal/codec"
	"gameframework/internal/config"
	"gameframework/internal/infra/persistence/blobstore"
	"gameframework/internal/infra/persistence/bolt"
	"gameframework/internal/infra/persistence/memory"
	"gameframework/internal/infra/persistence/postgres"
	"gameframework/internal/infra/persistence/sqlite"
	"gameframework/pkg/domain"
)

// OpenDataAdapter builds the adapter selected by cfg.StorageDriver for
// namespace. Adapters holding a connection or file implement io.Closer.
//
//	memory   in-process only
//	sqlite   embedded file at cfg.SQLitePath
//	postgres server at cfg.PostgresDSN
//	bolt     bbolt file at cfg.BoltPath
//	blob     one object per namespace in the store selected by cfg.Blob
func OpenDataAdapter(ctx context.Context, cfg config.Config, namespace string) (domain.DataAdapter, error) {
	c, err := codec.ByName(cfg.Codec)
	if err != nil {
		return nil, err
	}
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return memory.NewAdapter(namespace), nil
	case config.DriverSQLite, "":
		return sqlite.NewAdapter(ctx, cfg.SQLitePath, namespace, c)
	case config.DriverPostgres:
		return postgres.NewAdapter(ctx, cfg.PostgresDSN, namespace, c)
	case config.DriverBolt:
		return bolt.Open(cfg.BoltPath, namespace, c)
	case config.DriverBlob:
		store, err := blob.Open(ctx, cfg.Blob)
		if err != nil {
			return nil, fmt.Errorf("open blob store: %w", err)
		}
		return blobstore.NewAdapter(store, namespace, c)
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", config.ErrInvalidConfig, cfg.StorageDriver)
	}
}
