// Package catalog stores and serves asset-language policy documents by
// policy ID.
//
// Two interchangeable Store backends are provided: MemoryStore for tests
// and ephemeral sessions, and SQLiteStore for durable catalogs that
// survive process restarts. A Catalog wraps a Store with an optional
// directory watcher: a directory of YAML policy documents is loaded once
// at startup and re-loaded, debounced and atomically swapped, whenever a
// file under it changes.
//
// Catalog implements pipeline.PolicySource, so it is what a
// pipeline.Builder resolves a policy ID against. It is never consulted by
// a built runtimepolicy.RuntimePolicy directly: swapping a Catalog's
// contents only changes what future Build calls see, not any policy
// already built.
package catalog
