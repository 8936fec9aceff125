// Package store holds the canonical dashboard layout for one workspace.
//
// A [Store] starts uninitialized, serving the default template, and becomes
// ready on the first [Store.Hydrate] or mutation. Every mutation routes the
// proposed layout through [layout.Stabilize], so the held layout always
// contains every template panel and passes the anchor health check.
//
// Operations never fail: broken input is absorbed by merging or by falling
// back to the defaults. Subscribers are notified with a copy of the current
// layout after the store's lock is released, one notification at a time.
package store

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tickergrid/pkg/layout"
	"github.com/matzehuels/tickergrid/pkg/panel"
)

// Status is the lifecycle state of a Store.
type Status int

const (
	// Uninitialized means nothing has been hydrated or set yet.
	Uninitialized Status = iota
	// Ready means the store holds a hydrated or user-set layout.
	Ready
)

// String implements fmt.Stringer.
func (s Status) String() string {
	if s == Ready {
		return "ready"
	}
	return "uninitialized"
}

// Store is a concurrency-safe holder for the canonical layout.
type Store struct {
	mu       sync.RWMutex
	defaults layout.Layout
	current  layout.Layout
	status   Status

	subsMu    sync.Mutex
	subs      map[int]func(layout.Layout)
	nextSub   int
	pending   bool
	notifying bool

	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report resets and migrations.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a store serving defaults until hydrated. A nil defaults uses
// [layout.Defaults].
func New(defaults layout.Layout, opts ...Option) *Store {
	if len(defaults) == 0 {
		defaults = layout.Defaults()
	}
	s := &Store{
		defaults: defaults.Clone(),
		current:  defaults.Clone(),
		subs:     make(map[int]func(layout.Layout)),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns a copy of the template the store stabilizes against.
func (s *Store) Defaults() layout.Layout {
	return s.defaults.Clone()
}

// Layouts returns a copy of the current canonical layout.
func (s *Store) Layouts() layout.Layout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Status returns the lifecycle state.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Ready reports whether the store has been hydrated or mutated.
func (s *Store) Ready() bool {
	return s.Status() == Ready
}

// Hydrate loads a persisted layout saved under schema version. The layout is
// migrated to the current template before it replaces the held one.
func (s *Store) Hydrate(stored layout.Layout, version int) layout.Migration {
	next, m := layout.MigrateTo(stored, version, s.defaults)
	switch {
	case m.Reset && m.Reason != nil:
		s.logger.Warn("stored layout unusable, using defaults", "from", m.From, "reason", m.Reason)
	case m.Downgrade:
		s.logger.Warn("stored layout is newer than this build", "from", m.From, "to", m.To)
	case m.Changed():
		s.logger.Info("migrated stored layout", "from", m.From, "to", m.To,
			"inserted", len(m.Inserted), "dropped", len(m.Dropped))
	}
	s.update(func(layout.Layout) layout.Layout { return next })
	return m
}

// SetLayouts replaces the canonical layout with next after stabilizing it.
func (s *Store) SetLayouts(next layout.Layout) layout.Result {
	var res layout.Result
	s.update(func(layout.Layout) layout.Layout {
		var out layout.Layout
		out, res = layout.StabilizeReport(next, s.defaults)
		return out
	})
	s.logReset(res)
	return res
}

// ResetLayouts restores the default template.
func (s *Store) ResetLayouts() {
	s.update(func(layout.Layout) layout.Layout { return s.defaults.Clone() })
}

// PersistSection merges a changed section back into the canonical layout.
// ids names the panels of the section and patch holds their new placements
// in section-local coordinates.
func (s *Store) PersistSection(ids []panel.ID, patch layout.Layout) layout.Result {
	var res layout.Result
	s.update(func(cur layout.Layout) layout.Layout {
		var out layout.Layout
		out, res = layout.StabilizeReport(layout.Reassemble(cur, ids, patch), s.defaults)
		return out
	})
	s.logReset(res)
	return res
}

func (s *Store) logReset(res layout.Result) {
	if res.Reset {
		s.logger.Warn("layout failed health check, using defaults", "reason", res.Reason)
	}
}

// Subscribe registers fn to be called after every mutation. The returned
// function removes the subscription.
//
// Notifications never overlap and always carry the layout current at delivery
// time, so the last one fn sees matches [Store.Layouts]. Mutations that land
// while a notification is running are coalesced into a single follow-up. fn
// may read or mutate the store.
func (s *Store) Subscribe(fn func(layout.Layout)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

// update applies fn to the current layout under the write lock, then
// notifies subscribers outside it.
func (s *Store) update(fn func(cur layout.Layout) layout.Layout) {
	s.mu.Lock()
	s.current = fn(s.current)
	s.status = Ready
	s.mu.Unlock()

	s.notify()
}

// notify delivers the current layout to every subscriber. If another call is
// already delivering, it records the change and returns; the running call
// loops until no change is pending.
func (s *Store) notify() {
	s.subsMu.Lock()
	s.pending = true
	if s.notifying {
		s.subsMu.Unlock()
		return
	}
	s.notifying = true
	for s.pending {
		s.pending = false
		subs := make([]func(layout.Layout), 0, len(s.subs))
		for _, sub := range s.subs {
			subs = append(subs, sub)
		}
		s.subsMu.Unlock()

		cur := s.Layouts()
		for _, sub := range subs {
			sub(cur.Clone())
		}

		s.subsMu.Lock()
	}
	s.notifying = false
	s.subsMu.Unlock()
}
