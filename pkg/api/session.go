package api

import (
	"net/http"
	"strings"

	"github.com/matzehuels/tickergrid/pkg/workspace"
)

const (
	// SessionHeader carries the session id.
	SessionHeader = "X-Session-ID"
	// SessionCookie carries the session id for browsers.
	SessionCookie = "session_id"

	sessionMaxAge = 365 * 24 * 60 * 60
)

// sessionID returns the session named by the request, or "" for the global
// session.
func sessionID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(SessionHeader)); id != "" {
		return id
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// session resolves the request's workspace, writing an error response
// when it cannot.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {
	ws, err := s.mgr.Get(r.Context(), sessionID(r))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return ws, true
}
