// Package server provides the session server: the HTTP surface a debug or
// test client uses to drive a RuntimePolicy end to end without writing Go
// code.
//
// # Architecture
//
// The server package ties together the policy Catalog, the pipeline
// Builder/ControllerFactory pair, and the RuntimePolicy state machine
// behind a small session concept: one session pairs a policy id with one
// built RuntimePolicy instance, addressed by a server-issued session id.
//
// # Basic Usage
//
//	import (
//	    "context"
//	    "sentinel/policyrtd/pkg/config"
//	    "sentinel/policyrtd/pkg/server"
//	)
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv, err := server.New(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Routes
//
//	POST   /sessions                 - allocate a session, build it against a policy id
//	POST   /sessions/{id}/events     - ingest one JSON-encoded asset event
//	GET    /sessions/{id}/render     - render the session's output and trace at ?mode=output|traces|details
//	DELETE /sessions/{id}            - tear down a session
//	GET    /metrics                  - Prometheus exposition (path configurable)
//
// # Session Lifecycle
//
// A session's RuntimePolicy is built once, at creation, against the
// server's Catalog. Sessions idle past the configured TTL (no Ingest or
// Render call) are torn down by a scheduled sweep; this never touches
// sessions with recent activity. Deleting a session, or the server
// shutting down, closes its RuntimePolicy and detaches its Controller.
//
// # Middleware Chain
//
// Requests pass through, outermost to innermost: panic recovery, request
// id assignment, structured request/response logging.
//
// # Thread Safety
//
// The session registry, Catalog, and Server lifecycle methods are safe
// for concurrent use.
package server
