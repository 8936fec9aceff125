package workspace

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	apperr "github.com/matzehuels/tickergrid/pkg/errors"
	"github.com/matzehuels/tickergrid/pkg/persist"
	"github.com/matzehuels/tickergrid/pkg/state"
)

// ErrClosed is returned by a Manager used after Close.
var ErrClosed = errors.New("workspace manager closed")

// Manager keeps one hydrated workspace per session.
type Manager struct {
	backend state.Backend
	keyer   state.Keyer
	opts    []Option
	logger  *log.Logger
	timeout time.Duration

	mu      sync.Mutex
	entries map[string]*entry
	closed  bool
}

type entry struct {
	ws *Workspace
	mu sync.Mutex // serializes hydration attempts
}

// NewManager creates a manager storing workspaces in backend. A nil keyer
// uses [state.NewDefaultKeyer].
func NewManager(backend state.Backend, keyer state.Keyer, opts ...Option) *Manager {
	if keyer == nil {
		keyer = state.NewDefaultKeyer()
	}
	o := buildOptions(opts)
	if o.timeout <= 0 {
		o.timeout = persist.DefaultTimeout
	}
	return &Manager{
		backend: backend,
		keyer:   keyer,
		opts:    opts,
		logger:  o.logger,
		timeout: o.timeout,
		entries: make(map[string]*entry),
	}
}

// Get returns the workspace of session, creating it on first use and
// hydrating it until a load succeeds. An empty session means
// [state.GlobalSession]. Hydration is detached from ctx's cancellation and
// bounded by the save timeout. A failed load is logged; the workspace then
// serves defaults without saving them, and the next Get retries.
func (m *Manager) Get(ctx context.Context, session string) (*Workspace, error) {
	if session == "" {
		session = state.GlobalSession
	}
	if !state.ValidSessionID(session) {
		return nil, apperr.New(apperr.ErrCodeInvalidSession, "invalid session id %q", session)
	}
	key := m.keyer.StateKey(session)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	e, ok := m.entries[key]
	if !ok {
		e = &entry{ws: New(key, m.backend, m.opts...)}
		m.entries[key] = e
	}
	m.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ws.Hydrated() {
		hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
		err := e.ws.Hydrate(hctx)
		cancel()
		if err != nil {
			m.logger.Warn("hydrate failed, will retry", "session", session, "error", err)
		}
	}
	return e.ws, nil
}

// Sessions returns the storage keys of the open workspaces, sorted.
func (m *Manager) Sessions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Delete closes the workspace of session, if open, and removes its stored
// state.
func (m *Manager) Delete(ctx context.Context, session string) error {
	if session == "" {
		session = state.GlobalSession
	}
	if !state.ValidSessionID(session) {
		return apperr.New(apperr.ErrCodeInvalidSession, "invalid session id %q", session)
	}
	key := m.keyer.StateKey(session)

	m.mu.Lock()
	e, ok := m.entries[key]
	delete(m.entries, key)
	m.mu.Unlock()

	if ok {
		e.ws.saver.Stop()
		e.ws.unsubscribe()
	}
	if err := m.backend.Delete(ctx, key); err != nil {
		return apperr.Wrap(apperr.ErrCodeStorage, err, "delete %s", key)
	}
	return nil
}

// Close flushes every workspace. The manager cannot be used afterwards; the
// backend is left open.
func (m *Manager) Close(ctx context.Context) {
	m.mu.Lock()
	m.closed = true
	entries := make([]*entry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	m.entries = make(map[string]*entry)
	m.mu.Unlock()

	for _, e := range entries {
		e.ws.Close(ctx)
	}
	m.logger.Debug("workspaces flushed", "count", len(entries))
}
