package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"sentinel/policyrtd/pkg/runtimepolicy"
	"sentinel/policyrtd/pkg/telemetry/logging"
)

// session wraps one RuntimePolicy instance and the bookkeeping the session
// server needs on top of it: which policy it was built from and when it
// last saw activity, for idle eviction.
type session struct {
	id       string
	policyID string
	policy   *runtimepolicy.RuntimePolicy

	mu           sync.Mutex
	lastActivity time.Time
}

func newSession(id, policyID string, policy *runtimepolicy.RuntimePolicy) *session {
	return &session{
		id:           id,
		policyID:     policyID,
		policy:       policy,
		lastActivity: time.Now(),
	}
}

func (s *session) touch() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

func (s *session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastActivity)
}

// sessionRegistry is the session server's in-memory table of live sessions.
// It is the only place that knows how a session id maps to a
// RuntimePolicy; the HTTP handlers never touch RuntimePolicy instances
// directly.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*session

	builder       runtimepolicy.Builder
	newController runtimepolicy.ControllerFactory
	logger        *logging.Logger
}

func newSessionRegistry(builder runtimepolicy.Builder, newController runtimepolicy.ControllerFactory, logger *logging.Logger) *sessionRegistry {
	return &sessionRegistry{
		sessions:      make(map[string]*session),
		builder:       builder,
		newController: newController,
		logger:        logger,
	}
}

// Create allocates a session id, builds a RuntimePolicy against policyID,
// and registers it. On build failure the RuntimePolicy is discarded and
// never registered.
func (r *sessionRegistry) Create(ctx context.Context, policyID string) (*session, error) {
	id := uuid.NewString()
	policy := runtimepolicy.New(policyID, r.newController, r.logger.Slog())

	if err := policy.Build(ctx, r.builder); err != nil {
		return nil, err
	}

	sess := newSession(id, policyID, policy)

	r.mu.Lock()
	r.sessions[id] = sess
	r.mu.Unlock()

	return sess, nil
}

// Get returns the session for id, or false if it does not exist.
func (r *sessionRegistry) Get(id string) (*session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	return sess, ok
}

// Delete tears down and removes the session for id. It is a no-op if the
// session does not exist.
func (r *sessionRegistry) Delete(id string) error {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if !ok {
		return nil
	}
	return sess.policy.Close()
}

// Len reports the number of live sessions.
func (r *sessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// EvictIdle tears down every session that has been idle at least ttl,
// measured from now. It returns the number of sessions evicted.
func (r *sessionRegistry) EvictIdle(now time.Time, ttl time.Duration) int {
	var stale []*session

	r.mu.Lock()
	for id, sess := range r.sessions {
		if sess.idleSince(now) >= ttl {
			stale = append(stale, sess)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, sess := range stale {
		if err := sess.policy.Close(); err != nil {
			r.logger.Error("failed to close evicted session", "session_id", sess.id, "policy_id", sess.policyID, "error", err)
		}
	}
	return len(stale)
}

// CloseAll tears down every live session, for use during server shutdown.
func (r *sessionRegistry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*session)
	r.mu.Unlock()

	for id, sess := range sessions {
		if err := sess.policy.Close(); err != nil {
			r.logger.Error("failed to close session during shutdown", "session_id", id, "policy_id", sess.policyID, "error", err)
		}
	}
}

// ErrSessionNotFound is returned by handlers when a session id does not
// resolve to a live session.
var ErrSessionNotFound = fmt.Errorf("session not found")
