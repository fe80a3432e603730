package pipeline

import "errors"

// ErrInvalidConfig is wrapped by Config.Validate's errors.
var ErrInvalidConfig = errors.New("invalid pipeline config")

// ErrClosed is returned by Ingest once the Controller has been closed.
var ErrClosed = errors.New("pipeline controller closed")

// ErrQueueFull is returned by Ingest when the ingest queue is saturated.
var ErrQueueFull = errors.New("pipeline ingest queue full")
