// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers a YAML file and environment on top.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"runtime"
	"time"
)

// DefaultTimeZone is the reference zone every pitch timestamp is localized to.
const DefaultTimeZone = "America/New_York"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr is the listen address for /healthz, /metrics and /stats.
	// Empty disables the ops server.
	Addr string `koanf:"addr"`

	// FeedDir holds one JSON game feed per file, named <gameId>.json.
	FeedDir string `koanf:"feed_dir"`

	// OutputPath receives a JSON dump of every converted game. Empty disables it.
	OutputPath string `koanf:"output_path"`

	// WorkerCount sets the number of conversion workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize bounds the set of game ids remembered for idempotency.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the result store.
	ShardCount int `koanf:"shard_count"`

	// TimeZone is the IANA zone used for game-start and pitch-thrown times.
	TimeZone string `koanf:"time_zone"`

	// MetricsEnabled turns Prometheus recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsRefreshInterval paces the sampled runtime gauges.
	MetricsRefreshInterval time.Duration `koanf:"metrics_refresh_interval"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		LogFormat:   "text",
		Addr:        "",
		FeedDir:     "./feeds",
		OutputPath:  "",
		WorkerCount: runtime.NumCPU(),
		QueueSize:   1_000,
		DedupeSize:  10_000,
		ShardCount:  8,
		TimeZone:    DefaultTimeZone,

		MetricsEnabled:         true,
		MetricsRefreshInterval: 10 * time.Second,
	}
}
