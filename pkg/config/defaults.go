package config

import (
	"time"

	"sentinel/policyrtd/pkg/catalog"
)

// Default values for configuration fields.
const (
	DefaultCatalogBackend = "memory"
	DefaultCatalogDir     = "./policies"
	DefaultCatalogWatch   = true

	DefaultControllerWorkerCount  = 4
	DefaultControllerQueueSize    = 256
	DefaultControllerRuleTimeout  = 50 * time.Millisecond
	DefaultControllerFailSafeMode = "fail-closed"

	DefaultSessionListenAddress    = "127.0.0.1:8090"
	DefaultSessionTTL              = 30 * time.Minute
	DefaultSessionEvictionInterval = time.Minute
	DefaultSessionShutdownTimeout  = 10 * time.Second

	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "json"

	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "policyrtd"
	DefaultMetricsSubsystem = "runtime"
)

// ApplyDefaults applies default values to a Config struct. It sets
// defaults for any fields that have zero values, and is idempotent.
func ApplyDefaults(cfg *Config) {
	if cfg.Catalog.Backend == "" {
		cfg.Catalog.Backend = DefaultCatalogBackend
	}
	if cfg.Catalog.Dir == "" {
		cfg.Catalog.Dir = DefaultCatalogDir
	}
	if !cfg.Catalog.Watch {
		cfg.Catalog.Watch = DefaultCatalogWatch
	}
	applySQLiteDefaults(&cfg.Catalog.SQLite)

	if cfg.Controller.WorkerCount == 0 {
		cfg.Controller.WorkerCount = DefaultControllerWorkerCount
	}
	if cfg.Controller.QueueSize == 0 {
		cfg.Controller.QueueSize = DefaultControllerQueueSize
	}
	if cfg.Controller.RuleTimeout == 0 {
		cfg.Controller.RuleTimeout = DefaultControllerRuleTimeout
	}
	if cfg.Controller.FailSafeMode == "" {
		cfg.Controller.FailSafeMode = DefaultControllerFailSafeMode
	}

	if cfg.Session.ListenAddress == "" {
		cfg.Session.ListenAddress = DefaultSessionListenAddress
	}
	if cfg.Session.SessionTTL == 0 {
		cfg.Session.SessionTTL = DefaultSessionTTL
	}
	if cfg.Session.EvictionInterval == 0 {
		cfg.Session.EvictionInterval = DefaultSessionEvictionInterval
	}
	if cfg.Session.ShutdownTimeout == 0 {
		cfg.Session.ShutdownTimeout = DefaultSessionShutdownTimeout
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if !cfg.Telemetry.Metrics.Enabled {
		cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	}
}

func applySQLiteDefaults(cfg *catalog.SQLiteConfig) {
	defaults := catalog.DefaultSQLiteConfig()
	if cfg.Path == "" {
		cfg.Path = defaults.Path
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = defaults.MaxOpenConns
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = defaults.MaxIdleConns
	}
	if !cfg.WALMode {
		cfg.WALMode = defaults.WALMode
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = defaults.BusyTimeout
	}
}
