// Package telemetry groups the observability subpackages used by the
// session server: structured logging and Prometheus metrics.
//
// # Components
//
//   - logging: structured logging built on log/slog, with request-scoped
//     context propagation
//   - metrics: Prometheus metrics collection exposed over promhttp
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	collector := metrics.NewCollector(cfg, nil)
package telemetry
