// Package metrics provides Prometheus metrics for the session server.
//
// # Overview
//
// The collector tracks four things: how often each policy id is ingested
// against and how long submission takes, how often render is called per
// debug mode, how many verbose trace lines are buffered per policy id at
// render time, and how the catalog's directory watcher's reloads go.
//
// # Usage
//
//	collector := metrics.NewCollector(metrics.DefaultConfig(), nil)
//	collector.RecordIngest("policy/block-exfil/1", time.Since(start))
//	collector.RecordRender("output_and_traces")
//	collector.SetTraceDepth("policy/block-exfil/1", 3)
//	http.Handle("/metrics", collector.Handler())
package metrics
