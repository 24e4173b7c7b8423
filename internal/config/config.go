// Package config loads runtime configuration from GAMEFRAMEWORK_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Storage drivers understood by core.OpenDataAdapter.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
	DriverBlob     = "blob"
)

// Blob drivers understood by blob.Open.
const (
	BlobDriverFS     = "fs"
	BlobDriverS3     = "s3"
	BlobDriverMemory = "memory"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete runtime configuration.
type Config struct {
	StorageDriver string `env:"GAMEFRAMEWORK_STORAGE_DRIVER" envDefault:"sqlite"`
	SQLitePath    string `env:"GAMEFRAMEWORK_SQLITE_PATH" envDefault:"gameframework.db"`
	PostgresDSN   string `env:"GAMEFRAMEWORK_POSTGRES_DSN" envDefault:"postgres://localhost/gameframework?sslmode=disable"`
	BoltPath      string `env:"GAMEFRAMEWORK_BOLT_PATH" envDefault:"gameframework.bolt"`
	Codec         string `env:"GAMEFRAMEWORK_CODEC" envDefault:"json"`
	LogLevel      string `env:"GAMEFRAMEWORK_LOG_LEVEL" envDefault:"info"`
	Blob          Blob
}

// Blob configures the blob store backing the blob storage driver.
type Blob struct {
	Driver     string `env:"GAMEFRAMEWORK_BLOB_DRIVER" envDefault:"fs"`
	FSRoot     string `env:"GAMEFRAMEWORK_BLOB_FS_ROOT" envDefault:"./blobdata"`
	S3Bucket   string `env:"GAMEFRAMEWORK_BLOB_S3_BUCKET"`
	S3Region   string `env:"GAMEFRAMEWORK_BLOB_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint string `env:"GAMEFRAMEWORK_BLOB_S3_ENDPOINT"`
	PathStyle  bool   `env:"GAMEFRAMEWORK_BLOB_S3_PATH_STYLE" envDefault:"false"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration an empty environment produces.
func Default() Config {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: map[string]string{}})
	if err != nil {
		panic(fmt.Errorf("default config: %w", err))
	}
	return cfg
}

func (c *Config) normalize() {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	c.Codec = strings.ToLower(strings.TrimSpace(c.Codec))
	c.Blob.Driver = strings.ToLower(strings.TrimSpace(c.Blob.Driver))
}

// Validate rejects unknown drivers and codecs and missing driver settings.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverMemory, DriverSQLite, DriverPostgres, DriverBolt:
	case DriverBlob:
		if err := c.Blob.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.StorageDriver)
	}
	switch c.Codec {
	case "json", "msgpack", "cbor":
	default:
		return fmt.Errorf("%w: unknown codec %q", ErrInvalidConfig, c.Codec)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func (b Blob) validate() error {
	switch b.Driver {
	case BlobDriverFS, BlobDriverMemory:
	case BlobDriverS3:
		if b.S3Bucket == "" {
			return fmt.Errorf("%w: GAMEFRAMEWORK_BLOB_S3_BUCKET required for s3 driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown blob driver %q", ErrInvalidConfig, b.Driver)
	}
	return nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, name)
	}
	return level, nil
}
