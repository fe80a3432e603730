package catalog

import (
	"context"
	"sync"

	"sentinel/policyrtd/pkg/policylang/ast"
)

// MemoryStore implements Store over an in-memory map. Intended for tests
// and ephemeral sessions; nothing here survives a process restart.
type MemoryStore struct {
	mu       sync.RWMutex
	policies map[string]*ast.Policy
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{policies: make(map[string]*ast.Policy)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*ast.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	policy, ok := s.policies[id]
	if !ok {
		return nil, &NotFoundError{PolicyID: id}
	}
	return policy, nil
}

func (s *MemoryStore) Put(ctx context.Context, policy *ast.Policy) error {
	if policy.Name == "" {
		return &StoreError{Backend: "memory", Operation: "put", Cause: errEmptyPolicyName}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies[policy.Name] = policy
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.policies, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.policies))
	for id := range s.policies {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies = make(map[string]*ast.Policy)
	return nil
}
