package catalog

import (
	"context"
	"errors"
	"log/slog"

	"sentinel/policyrtd/pkg/policylang/ast"
	policyerrors "sentinel/policyrtd/pkg/policylang/errors"
	"sentinel/policyrtd/pkg/policylang/parser"
	"sentinel/policyrtd/pkg/policylang/validator"
)

var errEmptyPolicyName = errors.New("policy name is empty")

// Catalog wraps a Store with an optional directory watcher. It is what a
// pipeline.Builder resolves a policy id against; swapping a Catalog's
// contents only ever changes what future Build calls see, never a
// runtimepolicy.RuntimePolicy that has already been built.
type Catalog struct {
	store    Store
	parser   *parser.Parser
	validate *validator.Validator
	logger   *slog.Logger

	watcher *DirWatcher

	onReload func(success bool, assetCount int)
}

// New wraps store in a Catalog. logger may be nil.
func New(store Store, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		store:    store,
		parser:   parser.NewParser(),
		validate: validator.NewValidator(),
		logger:   logger.With("component", "catalog"),
	}
}

// SetReloadObserver registers a callback invoked after every directory-watch
// reload attempt with whether it succeeded. Used by the session server to
// feed catalog reload counts into its metrics collector; nil disables it.
func (c *Catalog) SetReloadObserver(fn func(success bool, assetCount int)) {
	c.onReload = fn
}

// GetPolicy implements pipeline.PolicySource.
func (c *Catalog) GetPolicy(ctx context.Context, policyID string) (*ast.Policy, error) {
	return c.store.Get(ctx, policyID)
}

// Put parses and validates raw policy YAML and registers it under its own
// name. Returns the parsed policy so callers (the directory watcher) can
// report what was loaded.
func (c *Catalog) Put(ctx context.Context, sourcePath string, document []byte) (*ast.Policy, error) {
	policy, err := c.parser.ParseBytes(document, sourcePath)
	if err != nil {
		return nil, err
	}
	if err := c.validate.Validate(policy); err != nil {
		return nil, err
	}
	if err := c.store.Put(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

// PutPolicy registers an already-parsed, already-validated policy
// directly, bypassing the parse/validate step. Used by tests and by
// callers that built the AST themselves.
func (c *Catalog) PutPolicy(ctx context.Context, policy *ast.Policy) error {
	return c.store.Put(ctx, policy)
}

func (c *Catalog) Delete(ctx context.Context, policyID string) error {
	return c.store.Delete(ctx, policyID)
}

func (c *Catalog) List(ctx context.Context) ([]string, error) {
	return c.store.List(ctx)
}

// WatchDirectory loads every *.yaml/*.yml file under dir into the
// catalog's store and starts watching dir itself for changes: on a create
// or write of a policy file directly in dir, that file is re-parsed,
// re-validated, and swapped into the store, debounced so a burst of saves
// triggers one reload. Subdirectories are not watched, and removing a file
// leaves its policy in the store. Malformed files are logged and skipped; they do not interrupt
// the watch loop or roll back policies already loaded.
func (c *Catalog) WatchDirectory(ctx context.Context, dir string) error {
	w, err := NewDirWatcher(dir, c.reloadFile, c.logger)
	if err != nil {
		return err
	}
	if err := w.LoadAll(ctx); err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	c.watcher = w
	return nil
}

func (c *Catalog) reloadFile(ctx context.Context, path string) error {
	document, err := readFile(path)
	if err != nil {
		return err
	}
	policy, err := c.Put(ctx, path, document)
	if err != nil {
		var errList *policyerrors.ErrorList
		if errors.As(err, &errList) {
			c.logger.Warn("skipping malformed policy", "path", path, "errors", errList.Count())
		} else {
			c.logger.Warn("skipping malformed policy", "path", path, "error", err)
		}
		if c.onReload != nil {
			c.onReload(false, 0)
		}
		return nil
	}
	c.logger.Info("loaded policy", "path", path, "policy_id", policy.Name)
	if c.onReload != nil {
		c.onReload(true, len(policy.Rules))
	}
	return nil
}

// Close stops the directory watcher, if one is running, and closes the
// underlying store.
func (c *Catalog) Close() error {
	if c.watcher != nil {
		c.watcher.Stop()
	}
	return c.store.Close()
}
