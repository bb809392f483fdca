// Package config loads process configuration from environment variables,
// optionally layered over a YAML profile.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage selects and configures the document repository.
type Storage struct {
	Driver      string `yaml:"driver"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
	Redis       Redis  `yaml:"redis"`
}

// Redis configures the redis-backed repository.
type Redis struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// Blob selects and configures the submission archive store.
type Blob struct {
	Driver string `yaml:"driver"`
	FSRoot string `yaml:"fs_root"`
	S3     S3     `yaml:"s3"`
}

// S3 configures the S3 compatible archive backend.
type S3 struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyle       bool   `yaml:"path_style"`
}

// Log configures the slog handler built by the CLI.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config holds the full process configuration.
type Config struct {
	Storage           Storage `yaml:"storage"`
	Blob              Blob    `yaml:"blob"`
	ReferenceDataPath string  `yaml:"reference_data"`
	Log               Log     `yaml:"log"`
	Metrics           string  `yaml:"metrics"` // none | expvar | prometheus
	Tracing           string  `yaml:"tracing"` // none | jsonl | otel
	TracePath         string  `yaml:"trace_path"`
	ValidationWorkers int     `yaml:"validation_workers"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Storage: Storage{
			Driver:     "memory",
			SQLitePath: "annexvii.db",
			Redis:      Redis{Addr: "localhost:6379", KeyPrefix: "annexvii"},
		},
		Blob:              Blob{Driver: "memory", FSRoot: "./blobdata"},
		Log:               Log{Level: "info", Format: "text"},
		Metrics:           "none",
		Tracing:           "none",
		ValidationWorkers: 4,
	}
}

// Load reads configuration from the environment. When ANNEXVII_CONFIG_FILE
// names a YAML profile it is applied first; variables that are set always win.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("ANNEXVII_CONFIG_FILE"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return nil, err
		}
	}

	setString(&cfg.Storage.Driver, "ANNEXVII_STORAGE_DRIVER")
	setString(&cfg.Storage.SQLitePath, "ANNEXVII_SQLITE_PATH")
	setString(&cfg.Storage.PostgresDSN, "ANNEXVII_POSTGRES_DSN")
	setString(&cfg.Storage.Redis.Addr, "ANNEXVII_REDIS_ADDR")
	setString(&cfg.Storage.Redis.Password, "ANNEXVII_REDIS_PASSWORD")
	setString(&cfg.Storage.Redis.KeyPrefix, "ANNEXVII_REDIS_PREFIX")
	if err := setInt(&cfg.Storage.Redis.DB, "ANNEXVII_REDIS_DB"); err != nil {
		return nil, err
	}

	setString(&cfg.Blob.Driver, "ANNEXVII_BLOB_DRIVER")
	setString(&cfg.Blob.FSRoot, "ANNEXVII_BLOB_FS_ROOT")
	setString(&cfg.Blob.S3.Bucket, "ANNEXVII_BLOB_S3_BUCKET")
	setString(&cfg.Blob.S3.Region, "ANNEXVII_BLOB_S3_REGION")
	setString(&cfg.Blob.S3.Endpoint, "ANNEXVII_BLOB_S3_ENDPOINT")
	setString(&cfg.Blob.S3.AccessKeyID, "ANNEXVII_BLOB_S3_ACCESS_KEY_ID")
	setString(&cfg.Blob.S3.SecretAccessKey, "ANNEXVII_BLOB_S3_SECRET_ACCESS_KEY")
	if v := os.Getenv("ANNEXVII_BLOB_S3_PATH_STYLE"); v != "" {
		cfg.Blob.S3.PathStyle = v == "1" || strings.EqualFold(v, "true")
	}

	setString(&cfg.ReferenceDataPath, "ANNEXVII_REFERENCE_DATA")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setString(&cfg.Metrics, "ANNEXVII_METRICS")
	setString(&cfg.Tracing, "ANNEXVII_TRACING")
	setString(&cfg.TracePath, "ANNEXVII_TRACE_PATH")
	if err := setInt(&cfg.ValidationWorkers, "ANNEXVII_VALIDATION_WORKERS"); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown drivers and missing driver settings.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "sqlite", "redis":
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("config: ANNEXVII_POSTGRES_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Blob.Driver {
	case "memory", "fs":
	case "s3":
		if c.Blob.S3.Bucket == "" {
			return fmt.Errorf("config: ANNEXVII_BLOB_S3_BUCKET is required for the s3 driver")
		}
	default:
		return fmt.Errorf("config: unknown blob driver %q", c.Blob.Driver)
	}
	if c.ValidationWorkers < 1 {
		return fmt.Errorf("config: validation workers must be positive, got %d", c.ValidationWorkers)
	}
	return nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}
