package opendata

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrMissingDatabaseURL = errors.New("DATABASE_URL environment variable is required")

// DefaultFetchTimeout bounds one dataset download. The exports are tens of
// megabytes.
const DefaultFetchTimeout = 5 * time.Minute

// Config holds importer settings.
type Config struct {
	DatabaseURL string

	// Entities per committed batch.
	BatchSize int

	FetchTimeout  time.Duration
	FetchInterval time.Duration

	// Optional YAML file overriding dataset URLs.
	SourcesFile string

	// Log every SQL statement instead of warnings only.
	LogSQL bool
}

// LoadFromEnv loads importer configuration from environment variables.
//
// Environment variables:
//   - DATABASE_URL: Postgres DSN (required)
//   - OPENDATA_BATCH_SIZE: entities per flush (default: 500)
//   - OPENDATA_FETCH_TIMEOUT: per-download timeout, Go duration (default: 5m)
//   - OPENDATA_FETCH_INTERVAL: minimum delay between downloads (default: none)
//   - OPENDATA_SOURCES: path to a YAML file overriding dataset URLs
//   - OPENDATA_LOG_SQL: "1" or "true" to log every statement
func LoadFromEnv() (Config, error) {
	cfg := Config{
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		BatchSize:    DefaultBatchSize,
		FetchTimeout: DefaultFetchTimeout,
		SourcesFile:  strings.TrimSpace(os.Getenv("OPENDATA_SOURCES")),
	}

	if v := strings.TrimSpace(os.Getenv("OPENDATA_BATCH_SIZE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("OPENDATA_BATCH_SIZE: %w", err)
		}
		cfg.BatchSize = n
	}
	if v := strings.TrimSpace(os.Getenv("OPENDATA_FETCH_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("OPENDATA_FETCH_TIMEOUT: %w", err)
		}
		cfg.FetchTimeout = d
	}
	if v := strings.TrimSpace(os.Getenv("OPENDATA_FETCH_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("OPENDATA_FETCH_INTERVAL: %w", err)
		}
		cfg.FetchInterval = d
	}
	if v := strings.TrimSpace(os.Getenv("OPENDATA_LOG_SQL")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("OPENDATA_LOG_SQL: %w", err)
		}
		cfg.LogSQL = b
	}
	return cfg, nil
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.BatchSize <= 0 || c.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch size must be between 1 and %d, got %d", MaxBatchSize, c.BatchSize)
	}
	if c.FetchTimeout < 0 || c.FetchInterval < 0 {
		return errors.New("fetch timeout and interval must not be negative")
	}
	return nil
}
