package core

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"gameframework/internal/codec"
	"gameframework/internal/config"
	"gameframework/internal/infra/persistence/postgres"
	"gameframework/internal/infra/persistence/postgres/testutil"
)

func TestOpenDataAdapterDrivers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	base := config.Default()
	base.SQLitePath = filepath.Join(dir, "game.db")
	base.BoltPath = filepath.Join(dir, "game.bolt")
	base.Blob.Driver = config.BlobDriverMemory

	stub, _ := testutil.NewStubDB()
	restore := postgres.OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return stub, nil })
	defer restore()

	for _, driver := range []string{config.DriverMemory, config.DriverSQLite, config.DriverPostgres, config.DriverBolt, config.DriverBlob} {
		t.Run(driver, func(t *testing.T) {
			cfg := base
			cfg.StorageDriver = driver
			cfg.Codec = codec.NameMessagePack
			adapter, err := OpenDataAdapter(ctx, cfg, "settings")
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			if closer, ok := adapter.(io.Closer); ok {
				defer func() { _ = closer.Close() }()
			}
			if got := adapterName(adapter); got != driver {
				t.Fatalf("adapter name = %s, want %s", got, driver)
			}

			source, _ := settingsDatabase(0.3, 0.6)
			source.SetDataAdapter(adapter)
			if _, err := source.Save(ctx); err != nil {
				t.Fatalf("save: %v", err)
			}
			dest, recs := settingsDatabase(0, 0)
			dest.SetDataAdapter(adapter)
			if err := dest.Load(ctx); err != nil {
				t.Fatalf("load: %v", err)
			}
			if recs[0].level != 0.3 || recs[1].level != 0.6 {
				t.Fatalf("round trip through %s: %v %v", driver, recs[0].level, recs[1].level)
			}
		})
	}
}

func TestOpenDataAdapterRejectsBadConfig(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Codec = "yaml"
	if _, err := OpenDataAdapter(ctx, cfg, "settings"); !errors.Is(err, codec.ErrUnknownCodec) {
		t.Fatalf("expected ErrUnknownCodec, got %v", err)
	}
	cfg = config.Default()
	cfg.StorageDriver = "tape"
	if _, err := OpenDataAdapter(ctx, cfg, "settings"); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	cfg = config.Default()
	cfg.StorageDriver = config.DriverBlob
	cfg.Blob.Driver = "tape"
	if _, err := OpenDataAdapter(ctx, cfg, "settings"); err == nil {
		t.Fatalf("expected blob driver error")
	}
}
