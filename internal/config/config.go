// Package config loads process configuration from RESTAURANTCORE_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"restaurantcore/internal/blob"
	"restaurantcore/internal/core"
)

// Prefix is prepended to every variable name.
const Prefix = "RESTAURANTCORE_"

// Config is the full process configuration.
type Config struct {
	StorageDriver     string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	SQLitePath        string `env:"SQLITE_PATH"`
	PostgresDSN       string `env:"POSTGRES_DSN"`
	ManagerPositionID int    `env:"MANAGER_POSITION_ID" envDefault:"1"`

	Blob  BlobConfig  `envPrefix:"BLOB_"`
	Kafka KafkaConfig `envPrefix:"KAFKA_"`
	HTTP  HTTPConfig  `envPrefix:"HTTP_"`
	Log   LogConfig   `envPrefix:"LOG_"`
	Query QueryConfig `envPrefix:"QUERY_"`
}

// BlobConfig selects where snapshot archives live.
type BlobConfig struct {
	Driver string        `env:"DRIVER" envDefault:"fs"`
	FSRoot string        `env:"FS_ROOT"`
	S3     blob.S3Config `envPrefix:"S3_"`
}

// KafkaConfig enables change-event publishing when Brokers is set.
type KafkaConfig struct {
	Brokers []string `env:"BROKERS"`
	Topic   string   `env:"TOPIC" envDefault:"restaurantcore.changes"`
}

// Enabled reports whether a Kafka publisher should be built.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level     string `env:"LEVEL" envDefault:"info"`
	Format    string `env:"FORMAT" envDefault:"text"`
	AddSource bool   `env:"ADD_SOURCE"`
	// Trace writes one JSON line per service operation span to the log output.
	Trace bool `env:"TRACE"`
}

// QueryConfig bounds list paging. DefaultPageSize applies when a page index is
// given without a size; MaxPageSize of zero means unbounded.
type QueryConfig struct {
	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE" envDefault:"20"`
	MaxPageSize     int `env:"MAX_PAGE_SIZE" envDefault:"0"`
}

// Load reads the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom reads the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the parser cannot.
func (c Config) Validate() error {
	var errs []error
	switch core.StorageDriver(c.StorageDriver) {
	case core.StorageMemory, core.StorageSQLite, core.StoragePostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.StorageDriver))
	}
	switch blob.Driver(c.Blob.Driver) {
	case blob.DriverFilesystem, blob.DriverMemory:
	case blob.DriverS3:
		if c.Blob.S3.Bucket == "" {
			errs = append(errs, errors.New("s3 blob driver requires a bucket"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown blob driver %q", c.Blob.Driver))
	}
	if c.ManagerPositionID < 1 {
		errs = append(errs, errors.New("manager position id must be positive"))
	}
	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		errs = append(errs, errors.New("kafka topic required when brokers are set"))
	}
	if c.Query.DefaultPageSize < 1 {
		errs = append(errs, errors.New("default page size must be at least 1"))
	}
	if c.Query.MaxPageSize < 0 {
		errs = append(errs, errors.New("max page size must not be negative"))
	}
	return errors.Join(errs...)
}

// Storage returns the persistence backend settings.
func (c Config) Storage() core.StorageConfig {
	return core.StorageConfig{
		Driver:      core.StorageDriver(c.StorageDriver),
		SQLitePath:  c.SQLitePath,
		PostgresDSN: c.PostgresDSN,
	}
}

// BlobStore returns the blob backend settings.
func (c Config) BlobStore() blob.Config {
	return blob.Config{Driver: blob.Driver(c.Blob.Driver), FSRoot: c.Blob.FSRoot, S3: c.Blob.S3}
}
