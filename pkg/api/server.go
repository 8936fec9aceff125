// Package api serves workspace state and layouts over HTTP.
//
// Routes are mounted on a chi router by [Server.Routes]. Every request is
// bound to a session: the X-Session-ID header, then the session_id cookie,
// then the shared global session. Errors are returned as
//
//	{"error": "unknown section \"tool\" (did you mean \"tools\"?)", "code": "INVALID_SECTION"}
//
// with a status derived from the error code.
package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apperr "github.com/matzehuels/tickergrid/pkg/errors"
	"github.com/matzehuels/tickergrid/pkg/workspace"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// Server handles API requests against a workspace manager.
type Server struct {
	mgr     *workspace.Manager
	logger  *log.Logger
	timeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTimeout bounds each request. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// NewServer creates a server for mgr.
func NewServer(mgr *workspace.Manager, opts ...Option) *Server {
	s := &Server{
		mgr:     mgr,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the HTTP handler for the API.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
			Error: fmt.Sprintf("%s not allowed on %s", r.Method, r.URL.Path),
			Code:  apperr.ErrCodeUnsupported,
		})
	})

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/session", s.handleNewSession)

		r.Get("/state", s.handleGetState)
		r.Put("/state", s.handlePutState)

		r.Patch("/settings", s.handlePatchSettings)
		r.Post("/watchlist", s.handleAddTicker)
		r.Delete("/watchlist/{ticker}", s.handleRemoveTicker)

		r.Route("/layout", func(r chi.Router) {
			r.Get("/", s.handleGetLayout)
			r.Put("/", s.handlePutLayout)
			r.Post("/reset", s.handleResetLayout)
			r.Get("/sections", s.handleListSections)
			r.Get("/sections/{section}", s.handleGetSection)
			r.Put("/sections/{section}", s.handlePutSection)
		})
	})
	return r
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
