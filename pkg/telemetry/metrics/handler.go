package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the HTTP handler the session server mounts at
// cfg.Telemetry.Metrics.Path (see server.Server.setupRoutes). It exposes
// every metric this Collector registered — ingest and render counters,
// the trace-buffer depth gauge, catalog reload counters — in Prometheus
// exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			// Zero disables promhttp's own scrape timeout; the session
			// server's http.Server sets no timeouts either, so a scrape
			// is not time-limited.
			Timeout:       0,
			ErrorHandling: promhttp.ContinueOnError,
		},
	)
}
