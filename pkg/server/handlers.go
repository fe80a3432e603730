package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"sentinel/policyrtd/pkg/pipeline"
	"sentinel/policyrtd/pkg/runtimepolicy"
	"sentinel/policyrtd/pkg/telemetry/logging"
)

// createSessionRequest is the body of POST /sessions.
type createSessionRequest struct {
	PolicyID string `json:"policy_id"`
}

// createSessionResponse is the body of a successful POST /sessions.
type createSessionResponse struct {
	SessionID string `json:"session_id"`
	PolicyID  string `json:"policy_id"`
}

// eventRequest is the body of POST /sessions/{id}/events: an asset
// identifier plus an arbitrary field bag, matching pipeline.Asset.
type eventRequest struct {
	AssetID string                 `json:"asset_id"`
	Fields  map[string]interface{} `json:"fields"`
}

// renderResponse is the body of GET /sessions/{id}/render.
type renderResponse struct {
	Output string          `json:"output"`
	Trace  json.RawMessage `json:"trace"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"error": message})
}

// handleHealth implements GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.Health(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.SessionCount(),
	})
}

// handleCreateSession implements POST /sessions.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if strings.TrimSpace(req.PolicyID) == "" {
		writeError(w, http.StatusBadRequest, "policy_id is required")
		return
	}

	sess, err := s.registry.Create(r.Context(), req.PolicyID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to build session",
			"policy_id", req.PolicyID, "error", err)
		var buildErr *runtimepolicy.BuildFailureError
		if errors.As(err, &buildErr) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to build session")
		return
	}

	s.logger.InfoContext(r.Context(), "session created", "session_id", sess.id, "policy_id", sess.policyID)

	writeJSON(w, http.StatusCreated, createSessionResponse{
		SessionID: sess.id,
		PolicyID:  sess.policyID,
	})
}

// handleSessionEvents implements POST /sessions/{id}/events.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess, ok := s.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if strings.TrimSpace(req.AssetID) == "" {
		writeError(w, http.StatusBadRequest, "asset_id is required")
		return
	}

	asset := pipeline.Asset{ID: req.AssetID, Fields: req.Fields}

	start := time.Now()
	if err := sess.policy.Ingest(r.Context(), asset); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to ingest event",
			"session_id", id, "asset_id", req.AssetID, "error", err)
		writeError(w, http.StatusServiceUnavailable, "failed to ingest event")
		return
	}
	sess.touch()
	s.metrics.RecordIngest(sess.policyID, time.Since(start))

	writeJSON(w, http.StatusAccepted, map[string]interface{}{"accepted": true})
}

// handleSessionRender implements GET /sessions/{id}/render.
func (s *Server) handleSessionRender(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess, ok := s.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	modeParam := r.URL.Query().Get("mode")
	mode, err := parseDebugMode(modeParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess.touch()
	output, traceJSON := sess.policy.Render(mode)
	s.metrics.RecordRender(mode.String())
	s.metrics.SetTraceDepth(sess.policyID, sess.policy.TraceDepth())

	writeJSON(w, http.StatusOK, renderResponse{
		Output: output,
		Trace:  json.RawMessage(traceJSON),
	})
}

// handleDeleteSession implements DELETE /sessions/{id}.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if _, ok := s.registry.Get(id); !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	if err := s.registry.Delete(id); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to close session", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to close session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseDebugMode maps the wire query-param values from
// GET /sessions/{id}/render?mode=... to a runtimepolicy.DebugMode. These
// short names are the public API surface; DebugMode.String() is only used
// internally in logs and metric labels.
func parseDebugMode(mode string) (runtimepolicy.DebugMode, error) {
	switch mode {
	case "", "output":
		return runtimepolicy.OutputOnly, nil
	case "traces":
		return runtimepolicy.OutputAndTraces, nil
	case "details":
		return runtimepolicy.OutputAndTracesWithDetails, nil
	default:
		return 0, errUnknownDebugMode(mode)
	}
}

type unknownDebugModeError string

func (e unknownDebugModeError) Error() string {
	return "unknown render mode " + string(e) + ": expected output, traces, or details"
}

func errUnknownDebugMode(mode string) error {
	return unknownDebugModeError(mode)
}

// handleSessionRoutes dispatches /sessions/{id}[/events|/render] requests
// to the right handler based on path shape, since Go's net/http mux
// (pre-1.22 patterns aside) does not do path-parameter extraction on its
// own for a single registered prefix.
func (s *Server) handleSessionRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if path == "" || path == r.URL.Path {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	ctx := logging.WithSessionID(r.Context(), id)
	r = r.WithContext(ctx)

	if len(parts) == 1 {
		s.handleDeleteSession(w, r, id)
		return
	}

	switch parts[1] {
	case "events":
		s.handleSessionEvents(w, r, id)
	case "render":
		s.handleSessionRender(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}
