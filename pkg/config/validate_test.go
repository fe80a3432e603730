package config

import (
	"strings"
	"testing"
	"time"

	"sentinel/policyrtd/pkg/catalog"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := MinimalConfig()

	err := Validate(cfg)
	if err != nil {
		t.Errorf("expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := &Config{
		Catalog:    CatalogConfig{Backend: "invalid"},
		Controller: ControllerConfig{FailSafeMode: "strict"},
	}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	validationErr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	if len(validationErr.Errors) < 2 {
		t.Errorf("expected multiple errors, got %d", len(validationErr.Errors))
	}

	errMsg := validationErr.Error()
	if !strings.Contains(errMsg, "validation failed with") {
		t.Errorf("error message should mention multiple errors: %s", errMsg)
	}
}

func assertFieldError(t *testing.T, errs []FieldError, wantError bool, field string) {
	if wantError && len(errs) == 0 {
		t.Error("expected validation error, got none")
	}
	if !wantError && len(errs) > 0 {
		t.Errorf("expected no validation error, got: %v", errs)
	}
	if wantError && len(errs) > 0 {
		found := false
		for _, err := range errs {
			if err.Field == field {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected error for field %q, got errors: %v", field, errs)
		}
	}
}

func TestValidate_Catalog(t *testing.T) {
	tests := []struct {
		name       string
		catalog    CatalogConfig
		wantError  bool
		errorField string
	}{
		{
			name:      "valid memory backend",
			catalog:   CatalogConfig{Backend: "memory", Dir: "./policies"},
			wantError: false,
		},
		{
			name: "valid sqlite backend",
			catalog: CatalogConfig{
				Backend: "sqlite",
				Dir:     "./policies",
				SQLite: catalog.SQLiteConfig{
					Path:         "./catalog.db",
					MaxOpenConns: 10,
					MaxIdleConns: 5,
					WALMode:      true,
					BusyTimeout:  5 * time.Second,
				},
			},
			wantError: false,
		},
		{
			name:       "invalid backend",
			catalog:    CatalogConfig{Backend: "redis", Dir: "./policies"},
			wantError:  true,
			errorField: "catalog.backend",
		},
		{
			name:       "empty dir",
			catalog:    CatalogConfig{Backend: "memory", Dir: ""},
			wantError:  true,
			errorField: "catalog.dir",
		},
		{
			name:       "sqlite backend missing path",
			catalog:    CatalogConfig{Backend: "sqlite", Dir: "./policies"},
			wantError:  true,
			errorField: "catalog.sqlite.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validateCatalog(&tt.catalog)
			assertFieldError(t, errs, tt.wantError, tt.errorField)
		})
	}
}

func TestValidate_Controller(t *testing.T) {
	tests := []struct {
		name       string
		controller ControllerConfig
		wantError  bool
		errorField string
	}{
		{
			name: "valid config",
			controller: ControllerConfig{
				WorkerCount:  4,
				QueueSize:    256,
				RuleTimeout:  50 * time.Millisecond,
				FailSafeMode: "fail-closed",
			},
			wantError: false,
		},
		{
			name:       "zero worker count",
			controller: ControllerConfig{WorkerCount: 0, QueueSize: 1, RuleTimeout: time.Second, FailSafeMode: "fail-open"},
			wantError:  true,
			errorField: "controller.worker_count",
		},
		{
			name:       "negative queue size",
			controller: ControllerConfig{WorkerCount: 1, QueueSize: -1, RuleTimeout: time.Second, FailSafeMode: "fail-open"},
			wantError:  true,
			errorField: "controller.queue_size",
		},
		{
			name:       "zero rule timeout",
			controller: ControllerConfig{WorkerCount: 1, QueueSize: 1, RuleTimeout: 0, FailSafeMode: "fail-open"},
			wantError:  true,
			errorField: "controller.rule_timeout",
		},
		{
			name:       "invalid fail safe mode",
			controller: ControllerConfig{WorkerCount: 1, QueueSize: 1, RuleTimeout: time.Second, FailSafeMode: "strict"},
			wantError:  true,
			errorField: "controller.fail_safe_mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validateController(&tt.controller)
			assertFieldError(t, errs, tt.wantError, tt.errorField)
		})
	}
}

func TestValidate_Session(t *testing.T) {
	tests := []struct {
		name       string
		session    SessionConfig
		wantError  bool
		errorField string
	}{
		{
			name: "valid config",
			session: SessionConfig{
				ListenAddress:    "127.0.0.1:8090",
				SessionTTL:       time.Minute,
				EvictionInterval: time.Second,
				ShutdownTimeout:  time.Second,
			},
			wantError: false,
		},
		{
			name:       "empty listen address",
			session:    SessionConfig{ListenAddress: "", SessionTTL: time.Minute, EvictionInterval: time.Second, ShutdownTimeout: time.Second},
			wantError:  true,
			errorField: "session.listen_address",
		},
		{
			name:       "zero session TTL",
			session:    SessionConfig{ListenAddress: "x", SessionTTL: 0, EvictionInterval: time.Second, ShutdownTimeout: time.Second},
			wantError:  true,
			errorField: "session.session_ttl",
		},
		{
			name:       "zero eviction interval",
			session:    SessionConfig{ListenAddress: "x", SessionTTL: time.Minute, EvictionInterval: 0, ShutdownTimeout: time.Second},
			wantError:  true,
			errorField: "session.eviction_interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validateSession(&tt.session)
			assertFieldError(t, errs, tt.wantError, tt.errorField)
		})
	}
}

func TestValidate_Telemetry(t *testing.T) {
	tests := []struct {
		name       string
		telemetry  TelemetryConfig
		wantError  bool
		errorField string
	}{
		{
			name: "valid telemetry config",
			telemetry: TelemetryConfig{
				Logging: LoggingConfig{Level: "info", Format: "json"},
				Metrics: MetricsConfig{Enabled: true, Path: "/metrics", Namespace: "policyrtd"},
			},
			wantError: false,
		},
		{
			name: "invalid logging level",
			telemetry: TelemetryConfig{
				Logging: LoggingConfig{Level: "invalid", Format: "json"},
			},
			wantError:  true,
			errorField: "telemetry.logging.level",
		},
		{
			name: "invalid logging format",
			telemetry: TelemetryConfig{
				Logging: LoggingConfig{Level: "info", Format: "invalid"},
			},
			wantError:  true,
			errorField: "telemetry.logging.format",
		},
		{
			name: "metrics enabled without path",
			telemetry: TelemetryConfig{
				Logging: LoggingConfig{Level: "info", Format: "json"},
				Metrics: MetricsConfig{Enabled: true, Path: "", Namespace: "policyrtd"},
			},
			wantError:  true,
			errorField: "telemetry.metrics.path",
		},
		{
			name: "metrics enabled without namespace",
			telemetry: TelemetryConfig{
				Logging: LoggingConfig{Level: "info", Format: "json"},
				Metrics: MetricsConfig{Enabled: true, Path: "/metrics", Namespace: ""},
			},
			wantError:  true,
			errorField: "telemetry.metrics.namespace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validateTelemetry(&tt.telemetry)
			assertFieldError(t, errs, tt.wantError, tt.errorField)
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		contains string
	}{
		{
			name:     "empty errors",
			err:      ValidationError{Errors: []FieldError{}},
			contains: "configuration validation failed",
		},
		{
			name: "single error",
			err: ValidationError{
				Errors: []FieldError{
					{Field: "session.listen_address", Message: "required"},
				},
			},
			contains: "session.listen_address",
		},
		{
			name: "multiple errors",
			err: ValidationError{
				Errors: []FieldError{
					{Field: "session.listen_address", Message: "required"},
					{Field: "catalog.backend", Message: "invalid"},
				},
			},
			contains: "2 errors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errMsg := tt.err.Error()
			if !strings.Contains(errMsg, tt.contains) {
				t.Errorf("expected error message to contain %q, got: %s", tt.contains, errMsg)
			}
		})
	}
}
