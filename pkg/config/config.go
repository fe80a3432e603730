package config

import (
	"time"

	"sentinel/policyrtd/pkg/catalog"
)

// Config is the root configuration structure for the session server.
type Config struct {
	// Catalog contains configuration for the policy/asset catalog: backend
	// selection, the watched directory, and the SQLite backend's connection
	// settings.
	Catalog CatalogConfig `yaml:"catalog"`

	// Controller contains configuration for the pipeline Controller that
	// backs every built RuntimePolicy: worker pool size, queue depth,
	// per-rule timeout, and fail-safe mode.
	Controller ControllerConfig `yaml:"controller"`

	// Session contains configuration for the HTTP session server: listen
	// address, session TTL, and eviction schedule.
	Session SessionConfig `yaml:"session"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CatalogConfig configures the policy/asset catalog.
type CatalogConfig struct {
	// Backend selects the catalog's storage backend.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// Dir is the directory of *.yaml/*.yml asset-language policy documents
	// to load and, if Watch is true, hot-reload on change.
	// Default: "./policies"
	Dir string `yaml:"dir"`

	// Watch enables the directory watcher for hot reload.
	// Default: true
	Watch bool `yaml:"watch"`

	// SQLite contains SQLite-specific configuration, used when Backend is
	// "sqlite".
	SQLite catalog.SQLiteConfig `yaml:"sqlite"`
}

// ControllerConfig configures the pipeline Controller.
type ControllerConfig struct {
	// WorkerCount is the number of goroutines draining a Controller's
	// ingest queue.
	// Default: 4
	WorkerCount int `yaml:"worker_count"`

	// QueueSize is the capacity of a Controller's ingest channel.
	// Default: 256
	QueueSize int `yaml:"queue_size"`

	// RuleTimeout bounds how long a single rule's conditions may take to
	// evaluate against one asset.
	// Default: 50ms
	RuleTimeout time.Duration `yaml:"rule_timeout"`

	// FailSafeMode determines an asset's fate when a rule errors.
	// Options: "fail-open", "fail-closed"
	// Default: "fail-closed"
	FailSafeMode string `yaml:"fail_safe_mode"`
}

// SessionConfig configures the HTTP session server.
type SessionConfig struct {
	// ListenAddress is the address and port the session server listens on.
	// Default: "127.0.0.1:8090"
	ListenAddress string `yaml:"listen_address"`

	// SessionTTL is how long a session may sit idle (no Ingest/Render
	// calls) before the eviction sweep tears it down.
	// Default: 30m
	SessionTTL time.Duration `yaml:"session_ttl"`

	// EvictionInterval is how often the eviction sweep runs.
	// Default: 1m
	EvictionInterval time.Duration `yaml:"eviction_interval"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown before the server force-closes in-flight connections.
	// Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "policyrtd"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "runtime"
	Subsystem string `yaml:"subsystem"`
}
