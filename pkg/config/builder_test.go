package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances in tests.
// It starts with default values and allows selective overrides.
type ConfigBuilder struct {
	cfg Config
}

// NewTestConfig creates a new ConfigBuilder with sensible defaults for testing.
// The resulting configuration is valid and can be used immediately.
func NewTestConfig() *ConfigBuilder {
	cfg := Config{}
	ApplyDefaults(&cfg)
	return &ConfigBuilder{cfg: cfg}
}

// Build returns the built Config instance.
func (b *ConfigBuilder) Build() *Config {
	return &b.cfg
}

// WithCatalogBackend sets the catalog backend.
func (b *ConfigBuilder) WithCatalogBackend(backend string) *ConfigBuilder {
	b.cfg.Catalog.Backend = backend
	return b
}

// WithCatalogDir sets the catalog directory.
func (b *ConfigBuilder) WithCatalogDir(dir string) *ConfigBuilder {
	b.cfg.Catalog.Dir = dir
	return b
}

// WithCatalogWatch sets whether the catalog watches its directory for changes.
func (b *ConfigBuilder) WithCatalogWatch(watch bool) *ConfigBuilder {
	b.cfg.Catalog.Watch = watch
	return b
}

// WithSQLitePath sets the SQLite database path and switches the backend to sqlite.
func (b *ConfigBuilder) WithSQLitePath(path string) *ConfigBuilder {
	b.cfg.Catalog.Backend = "sqlite"
	b.cfg.Catalog.SQLite.Path = path
	return b
}

// WithWorkerCount sets the controller worker count.
func (b *ConfigBuilder) WithWorkerCount(n int) *ConfigBuilder {
	b.cfg.Controller.WorkerCount = n
	return b
}

// WithQueueSize sets the controller queue size.
func (b *ConfigBuilder) WithQueueSize(n int) *ConfigBuilder {
	b.cfg.Controller.QueueSize = n
	return b
}

// WithRuleTimeout sets the controller's per-rule evaluation timeout.
func (b *ConfigBuilder) WithRuleTimeout(d time.Duration) *ConfigBuilder {
	b.cfg.Controller.RuleTimeout = d
	return b
}

// WithFailSafeMode sets the controller's fail-safe mode.
func (b *ConfigBuilder) WithFailSafeMode(mode string) *ConfigBuilder {
	b.cfg.Controller.FailSafeMode = mode
	return b
}

// WithListenAddress sets the session server listen address.
func (b *ConfigBuilder) WithListenAddress(addr string) *ConfigBuilder {
	b.cfg.Session.ListenAddress = addr
	return b
}

// WithSessionTTL sets the session idle TTL.
func (b *ConfigBuilder) WithSessionTTL(d time.Duration) *ConfigBuilder {
	b.cfg.Session.SessionTTL = d
	return b
}

// WithEvictionInterval sets the session eviction sweep interval.
func (b *ConfigBuilder) WithEvictionInterval(d time.Duration) *ConfigBuilder {
	b.cfg.Session.EvictionInterval = d
	return b
}

// WithLoggingLevel sets the logging level.
func (b *ConfigBuilder) WithLoggingLevel(level string) *ConfigBuilder {
	b.cfg.Telemetry.Logging.Level = level
	return b
}

// WithLoggingFormat sets the logging format.
func (b *ConfigBuilder) WithLoggingFormat(format string) *ConfigBuilder {
	b.cfg.Telemetry.Logging.Format = format
	return b
}

// WithMetricsEnabled sets whether metrics are enabled.
func (b *ConfigBuilder) WithMetricsEnabled(enabled bool) *ConfigBuilder {
	b.cfg.Telemetry.Metrics.Enabled = enabled
	return b
}

// MinimalConfig returns a minimal valid configuration for testing.
// This is useful for tests that don't care about most configuration values.
func MinimalConfig() *Config {
	return NewTestConfig().Build()
}
