package catalog

import (
	"context"

	"sentinel/policyrtd/pkg/policylang/ast"
)

// Store is a backend that persists asset-language policy documents keyed
// by policy ID (the policy's Name). Catalog is built on top of a Store;
// Store implementations never know about file watching or hot reload.
type Store interface {
	// Get returns the policy registered under id, or a *NotFoundError if
	// none exists.
	Get(ctx context.Context, id string) (*ast.Policy, error)

	// Put registers or replaces the policy under its own Name.
	Put(ctx context.Context, policy *ast.Policy) error

	// Delete removes the policy registered under id. Deleting an id that
	// does not exist is not an error.
	Delete(ctx context.Context, id string) error

	// List returns every registered policy ID, in no particular order.
	List(ctx context.Context) ([]string, error)

	Close() error
}
