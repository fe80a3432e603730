package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention POLICYRTD_SECTION_FIELD (e.g., POLICYRTD_SESSION_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format POLICYRTD_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("POLICYRTD_CATALOG_BACKEND"); val != "" {
		cfg.Catalog.Backend = val
	}
	if val := os.Getenv("POLICYRTD_CATALOG_DIR"); val != "" {
		cfg.Catalog.Dir = val
	}
	if val := os.Getenv("POLICYRTD_CATALOG_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Catalog.Watch = b
		}
	}
	if val := os.Getenv("POLICYRTD_CATALOG_SQLITE_PATH"); val != "" {
		cfg.Catalog.SQLite.Path = val
	}
	if val := os.Getenv("POLICYRTD_CATALOG_SQLITE_MAX_OPEN_CONNS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Catalog.SQLite.MaxOpenConns = i
		}
	}
	if val := os.Getenv("POLICYRTD_CATALOG_SQLITE_MAX_IDLE_CONNS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Catalog.SQLite.MaxIdleConns = i
		}
	}
	if val := os.Getenv("POLICYRTD_CATALOG_SQLITE_WAL_MODE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Catalog.SQLite.WALMode = b
		}
	}
	if val := os.Getenv("POLICYRTD_CATALOG_SQLITE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Catalog.SQLite.BusyTimeout = d
		}
	}

	if val := os.Getenv("POLICYRTD_CONTROLLER_WORKER_COUNT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Controller.WorkerCount = i
		}
	}
	if val := os.Getenv("POLICYRTD_CONTROLLER_QUEUE_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Controller.QueueSize = i
		}
	}
	if val := os.Getenv("POLICYRTD_CONTROLLER_RULE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Controller.RuleTimeout = d
		}
	}
	if val := os.Getenv("POLICYRTD_CONTROLLER_FAIL_SAFE_MODE"); val != "" {
		cfg.Controller.FailSafeMode = val
	}

	if val := os.Getenv("POLICYRTD_SESSION_LISTEN_ADDRESS"); val != "" {
		cfg.Session.ListenAddress = val
	}
	if val := os.Getenv("POLICYRTD_SESSION_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Session.SessionTTL = d
		}
	}
	if val := os.Getenv("POLICYRTD_SESSION_EVICTION_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Session.EvictionInterval = d
		}
	}
	if val := os.Getenv("POLICYRTD_SESSION_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Session.ShutdownTimeout = d
		}
	}

	if val := os.Getenv("POLICYRTD_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("POLICYRTD_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("POLICYRTD_TELEMETRY_LOGGING_ADD_SOURCE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Logging.AddSource = b
		}
	}
	if val := os.Getenv("POLICYRTD_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("POLICYRTD_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
	if val := os.Getenv("POLICYRTD_TELEMETRY_METRICS_NAMESPACE"); val != "" {
		cfg.Telemetry.Metrics.Namespace = val
	}
	if val := os.Getenv("POLICYRTD_TELEMETRY_METRICS_SUBSYSTEM"); val != "" {
		cfg.Telemetry.Metrics.Subsystem = val
	}
}
