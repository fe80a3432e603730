// Package config provides configuration management for the policy runtime
// session server.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with comprehensive validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention POLICYRTD_SECTION_FIELD.
// For example:
//
//   - POLICYRTD_CATALOG_DIR overrides catalog.dir
//   - POLICYRTD_CONTROLLER_FAIL_SAFE_MODE overrides controller.fail_safe_mode
//   - POLICYRTD_SESSION_LISTEN_ADDRESS overrides session.listen_address
//   - POLICYRTD_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Passing Configuration
//
// There is no package-level config instance: `policyrtd run` loads a
// *Config once at startup and passes it explicitly to server.New and every
// collaborator that needs a section of it (see pkg/server). Tests build a
// *Config the same way, directly, with NewTestConfig or MinimalConfig
// rather than mutating shared global state.
//
// # Validation
//
// All configuration is validated automatically during loading. Validation includes:
//
//   - Enum checks (e.g., catalog.backend must be memory or sqlite)
//   - Positive-duration checks (e.g., controller.rule_timeout, session.session_ttl)
//   - Required field checks (e.g., session.listen_address)
//
// Validation errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - controller.fail_safe_mode: must be one of fail-open, fail-closed; got "strict"
//	  - session.listen_address: must not be empty
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	catalog:
//	  backend: "memory"
//	  dir: "./policies"
//	  watch: true
//
//	controller:
//	  worker_count: 4
//	  queue_size: 256
//	  rule_timeout: 50ms
//	  fail_safe_mode: "fail-closed"
//
//	session:
//	  listen_address: "127.0.0.1:8090"
//	  session_ttl: 30m
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//	  metrics:
//	    enabled: true
//
// # Thread Safety
//
// *Config, once loaded, is treated as immutable by its owner (server.Server
// keeps its own pointer for the process lifetime); nothing in this package
// mutates a *Config after LoadConfig/LoadConfigWithEnvOverrides returns it.
package config
