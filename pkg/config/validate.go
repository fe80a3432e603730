package config

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "controller.worker_count").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateCatalog(&cfg.Catalog)...)
	errs = append(errs, validateController(&cfg.Controller)...)
	errs = append(errs, validateSession(&cfg.Session)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateCatalog(cfg *CatalogConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "memory", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "catalog.backend",
			Message: fmt.Sprintf("must be one of memory, sqlite; got %q", cfg.Backend),
		})
	}

	if strings.TrimSpace(cfg.Dir) == "" {
		errs = append(errs, FieldError{
			Field:   "catalog.dir",
			Message: "must not be empty",
		})
	}

	if cfg.Backend == "sqlite" {
		if strings.TrimSpace(cfg.SQLite.Path) == "" {
			errs = append(errs, FieldError{
				Field:   "catalog.sqlite.path",
				Message: "must not be empty when backend is sqlite",
			})
		}
		if cfg.SQLite.MaxOpenConns <= 0 {
			errs = append(errs, FieldError{
				Field:   "catalog.sqlite.max_open_conns",
				Message: "must be positive",
			})
		}
		if cfg.SQLite.MaxIdleConns < 0 {
			errs = append(errs, FieldError{
				Field:   "catalog.sqlite.max_idle_conns",
				Message: "must not be negative",
			})
		}
		if cfg.SQLite.MaxIdleConns > cfg.SQLite.MaxOpenConns {
			errs = append(errs, FieldError{
				Field:   "catalog.sqlite.max_idle_conns",
				Message: "must not exceed max_open_conns",
			})
		}
		if cfg.SQLite.BusyTimeout <= 0 {
			errs = append(errs, FieldError{
				Field:   "catalog.sqlite.busy_timeout",
				Message: "must be positive",
			})
		}
	}

	return errs
}

func validateController(cfg *ControllerConfig) []FieldError {
	var errs []FieldError

	if cfg.WorkerCount <= 0 {
		errs = append(errs, FieldError{
			Field:   "controller.worker_count",
			Message: "must be positive",
		})
	}

	if cfg.QueueSize <= 0 {
		errs = append(errs, FieldError{
			Field:   "controller.queue_size",
			Message: "must be positive",
		})
	}

	if cfg.RuleTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "controller.rule_timeout",
			Message: "must be positive",
		})
	}

	switch cfg.FailSafeMode {
	case "fail-open", "fail-closed":
	default:
		errs = append(errs, FieldError{
			Field:   "controller.fail_safe_mode",
			Message: fmt.Sprintf("must be one of fail-open, fail-closed; got %q", cfg.FailSafeMode),
		})
	}

	return errs
}

func validateSession(cfg *SessionConfig) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(cfg.ListenAddress) == "" {
		errs = append(errs, FieldError{
			Field:   "session.listen_address",
			Message: "must not be empty",
		})
	}

	if cfg.SessionTTL <= 0 {
		errs = append(errs, FieldError{
			Field:   "session.session_ttl",
			Message: "must be positive",
		})
	}

	if cfg.EvictionInterval <= 0 {
		errs = append(errs, FieldError{
			Field:   "session.eviction_interval",
			Message: "must be positive",
		})
	}

	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "session.shutdown_timeout",
			Message: "must be positive",
		})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error; got %q", cfg.Logging.Level),
		})
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be one of json, text, console; got %q", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if strings.TrimSpace(cfg.Metrics.Path) == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "must not be empty when metrics are enabled",
			})
		}
		if strings.TrimSpace(cfg.Metrics.Namespace) == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.namespace",
				Message: "must not be empty when metrics are enabled",
			})
		}
	}

	return errs
}
