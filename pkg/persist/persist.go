// Package persist writes workspace state to a backend without making callers
// wait for it.
//
// A [Debouncer] coalesces bursts of changes into a single write: each call to
// [Debouncer.Schedule] cancels the pending timer and starts a new quiet
// period. When the period elapses, the most recent snapshot is saved. Writes
// are fire-and-forget; a failed write is logged and dropped, and the next
// change retries with fresher data.
package persist

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tickergrid/pkg/observability"
	"github.com/matzehuels/tickergrid/pkg/state"
)

// Defaults for a Debouncer.
const (
	DefaultDelay   = 1500 * time.Millisecond
	DefaultTimeout = 5 * time.Second
)

// Snapshot produces the document to save. It is called when the timer
// fires, not when the change is scheduled.
type Snapshot func() *state.State

// Debouncer saves snapshots for one key after a quiet period.
type Debouncer struct {
	backend state.Backend
	key     string
	delay   time.Duration
	timeout time.Duration
	logger  *log.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending Snapshot
	stopped bool

	// saveMu serializes writes so an older snapshot never lands after a
	// newer one.
	saveMu sync.Mutex
}

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithDelay sets the quiet period. Non-positive values are ignored.
func WithDelay(d time.Duration) Option {
	return func(db *Debouncer) {
		if d > 0 {
			db.delay = d
		}
	}
}

// WithTimeout bounds each write. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(db *Debouncer) {
		if d > 0 {
			db.timeout = d
		}
	}
}

// WithLogger sets the logger used to report failed writes.
func WithLogger(l *log.Logger) Option {
	return func(db *Debouncer) {
		if l != nil {
			db.logger = l
		}
	}
}

// New creates a Debouncer that saves to key in backend.
func New(backend state.Backend, key string, opts ...Option) *Debouncer {
	db := &Debouncer{
		backend: backend,
		key:     key,
		delay:   DefaultDelay,
		timeout: DefaultTimeout,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Key returns the storage key the debouncer writes to.
func (db *Debouncer) Key() string { return db.key }

// Schedule (re)starts the quiet period. When it elapses without another
// call, snap is invoked and its result saved. Schedule never blocks on I/O.
func (db *Debouncer) Schedule(snap Snapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.stopped || snap == nil {
		return
	}
	if db.timer != nil && db.timer.Stop() {
		observability.Persist().OnDebounce(context.Background(), db.key)
	}
	db.pending = snap
	db.timer = time.AfterFunc(db.delay, db.fire)
}

// Pending reports whether a write is waiting for its quiet period.
func (db *Debouncer) Pending() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.pending != nil
}

func (db *Debouncer) fire() {
	snap := db.take()
	if snap == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), db.timeout)
	defer cancel()
	db.save(ctx, snap)
}

// take claims the pending snapshot, if any.
func (db *Debouncer) take() Snapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	snap := db.pending
	db.pending = nil
	if db.timer != nil {
		db.timer.Stop()
		db.timer = nil
	}
	return snap
}

func (db *Debouncer) save(ctx context.Context, snap Snapshot) {
	db.saveMu.Lock()
	defer db.saveMu.Unlock()

	start := time.Now()
	if err := db.backend.Save(ctx, db.key, snap()); err != nil {
		db.logger.Warn("state save failed", "key", db.key, "backend", db.backend.Name(), "error", err)
		return
	}
	db.logger.Debug("state saved", "key", db.key, "duration", time.Since(start))
}

// Flush writes a pending snapshot now instead of waiting for the timer.
// It is a no-op when nothing is pending. Failures are logged and swallowed
// like any other write.
func (db *Debouncer) Flush(ctx context.Context) {
	snap := db.take()
	if snap == nil {
		return
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, db.timeout)
		defer cancel()
	}
	db.save(ctx, snap)
}

// Stop discards pending work. Later calls to Schedule are ignored.
func (db *Debouncer) Stop() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.stopped = true
	db.pending = nil
	if db.timer != nil {
		db.timer.Stop()
		db.timer = nil
	}
}
