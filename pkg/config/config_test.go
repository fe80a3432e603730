package config

import (
	"testing"
	"time"
)

func TestNewTestConfig(t *testing.T) {
	cfg := NewTestConfig().Build()

	if cfg.Session.ListenAddress != DefaultSessionListenAddress {
		t.Errorf("expected listen address %q, got %q", DefaultSessionListenAddress, cfg.Session.ListenAddress)
	}

	if cfg.Controller.RuleTimeout != DefaultControllerRuleTimeout {
		t.Errorf("expected rule timeout %v, got %v", DefaultControllerRuleTimeout, cfg.Controller.RuleTimeout)
	}

	if cfg.Catalog.Backend != DefaultCatalogBackend {
		t.Errorf("expected catalog backend %q, got %q", DefaultCatalogBackend, cfg.Catalog.Backend)
	}
}

func TestConfigBuilder_WithListenAddress(t *testing.T) {
	cfg := NewTestConfig().
		WithListenAddress("0.0.0.0:9090").
		Build()

	if cfg.Session.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:9090", cfg.Session.ListenAddress)
	}
}

func TestConfigBuilder_WithSQLitePath(t *testing.T) {
	cfg := NewTestConfig().
		WithSQLitePath("/tmp/catalog.db").
		Build()

	if cfg.Catalog.Backend != "sqlite" {
		t.Errorf("expected backend %q, got %q", "sqlite", cfg.Catalog.Backend)
	}
	if cfg.Catalog.SQLite.Path != "/tmp/catalog.db" {
		t.Errorf("expected path %q, got %q", "/tmp/catalog.db", cfg.Catalog.SQLite.Path)
	}
}

func TestConfigBuilder_WithFailSafeMode(t *testing.T) {
	cfg := NewTestConfig().
		WithFailSafeMode("fail-open").
		Build()

	if cfg.Controller.FailSafeMode != "fail-open" {
		t.Errorf("expected fail_safe_mode %q, got %q", "fail-open", cfg.Controller.FailSafeMode)
	}
}

func TestConfigBuilder_ChainedCalls(t *testing.T) {
	cfg := NewTestConfig().
		WithListenAddress("0.0.0.0:8080").
		WithCatalogDir("/etc/policyrtd/policies").
		WithLoggingLevel("debug").
		WithMetricsEnabled(true).
		WithRuleTimeout(100 * time.Millisecond).
		Build()

	if cfg.Session.ListenAddress != "0.0.0.0:8080" {
		t.Error("chained WithListenAddress failed")
	}
	if cfg.Catalog.Dir != "/etc/policyrtd/policies" {
		t.Error("chained WithCatalogDir failed")
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Error("chained WithLoggingLevel failed")
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("chained WithMetricsEnabled failed")
	}
	if cfg.Controller.RuleTimeout != 100*time.Millisecond {
		t.Error("chained WithRuleTimeout failed")
	}
}

func TestMinimalConfig(t *testing.T) {
	cfg := MinimalConfig()

	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("minimal config should be valid, got error: %v", err)
	}
}
