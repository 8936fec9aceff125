// Package observability reports layout, persistence and HTTP events to
// hooks registered at startup.
//
// Three event families exist:
//   - [LayoutHooks]: panels merged into a layout, health-check resets and
//     schema migrations
//   - [PersistHooks]: state loads and saves per backend, and debounced writes
//   - [HTTPHooks]: API requests, responses and handler errors
//
// Every family defaults to a no-op. The tickergrid binary installs hooks
// that log through charmbracelet/log; other programs embedding the packages
// can forward the same events to a metrics system instead:
//
//	observability.SetPersistHooks(&saveLatency{hist: h})
//
// Libraries fetch the current hooks at the call site:
//
//	start := time.Now()
//	err := backend.Save(ctx, key, snapshot)
//	observability.Persist().OnSave(ctx, backend.Name(), key, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout reconciliation.
type LayoutHooks interface {
	// OnMerge records panels inserted into, or dropped from, a layout.
	OnMerge(ctx context.Context, inserted, dropped int)

	// OnStabilize records a health check. reason is nil unless reset is true.
	OnStabilize(ctx context.Context, reset bool, reason error)

	// OnMigrate records a stored layout brought up to the current schema.
	OnMigrate(ctx context.Context, from, to int, reset bool)
}

// =============================================================================
// Persist Hooks
// =============================================================================

// PersistHooks receives events from durable state storage.
type PersistHooks interface {
	// OnLoad records a state read.
	OnLoad(ctx context.Context, backend, key string, duration time.Duration, err error)

	// OnSave records a state write. A non-nil err means the write was lost.
	OnSave(ctx context.Context, backend, key string, duration time.Duration, err error)

	// OnDebounce records a write coalesced into a pending one.
	OnDebounce(ctx context.Context, key string)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnError records a handler error before it is written to the client.
	OnError(ctx context.Context, method, route string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnMerge(context.Context, int, int)         {}
func (NoopLayoutHooks) OnStabilize(context.Context, bool, error)  {}
func (NoopLayoutHooks) OnMigrate(context.Context, int, int, bool) {}

// NoopPersistHooks is a no-op implementation of PersistHooks.
type NoopPersistHooks struct{}

func (NoopPersistHooks) OnLoad(context.Context, string, string, time.Duration, error) {}
func (NoopPersistHooks) OnSave(context.Context, string, string, time.Duration, error) {}
func (NoopPersistHooks) OnDebounce(context.Context, string)                           {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks  LayoutHooks  = NoopLayoutHooks{}
	persistHooks PersistHooks = NoopPersistHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetLayoutHooks replaces the layout hooks. A nil h is ignored.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetPersistHooks replaces the persistence hooks. Backends opened through
// state.Open look them up on every call, so the order relative to opening
// does not matter.
func SetPersistHooks(h PersistHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		persistHooks = h
	}
}

// SetHTTPHooks replaces the HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Persist returns the registered persistence hooks.
func Persist() PersistHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return persistHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores the no-op hooks. Tests that install hooks call it on
// cleanup.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	persistHooks = NoopPersistHooks{}
	httpHooks = NoopHTTPHooks{}
}
