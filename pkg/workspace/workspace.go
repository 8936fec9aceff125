// Package workspace ties a layout store, the dashboard settings and the
// watchlist of one session to durable storage.
//
// A [Workspace] is the explicit context object the HTTP handlers and the CLI
// work against. It hydrates once from a [state.Backend], after which every
// change schedules a debounced save of [Workspace.Snapshot]. Reads never
// touch the backend.
//
// A [Manager] keeps one workspace per session.
package workspace

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	apperr "github.com/matzehuels/tickergrid/pkg/errors"
	"github.com/matzehuels/tickergrid/pkg/layout"
	"github.com/matzehuels/tickergrid/pkg/observability"
	"github.com/matzehuels/tickergrid/pkg/panel"
	"github.com/matzehuels/tickergrid/pkg/persist"
	"github.com/matzehuels/tickergrid/pkg/state"
	"github.com/matzehuels/tickergrid/pkg/store"
)

// Workspace is the state of one dashboard session.
type Workspace struct {
	key     string
	backend state.Backend
	store   *store.Store
	saver   *persist.Debouncer
	logger  *log.Logger

	mu       sync.RWMutex
	settings state.State // everything but the layout
	hydrated bool

	unsubscribe func()
}

// New creates a workspace stored under key. It serves defaults until
// [Workspace.Hydrate] is called; nothing is saved before that.
func New(key string, backend state.Backend, opts ...Option) *Workspace {
	o := buildOptions(opts)
	w := &Workspace{
		key:     key,
		backend: backend,
		store:   store.New(o.defaults, store.WithLogger(o.logger)),
		saver: persist.New(backend, key,
			persist.WithDelay(o.delay),
			persist.WithTimeout(o.timeout),
			persist.WithLogger(o.logger)),
		logger: o.logger.With("key", key),
	}
	w.settings.Normalize()
	w.unsubscribe = w.store.Subscribe(func(layout.Layout) { w.changed() })
	return w
}

// Key returns the storage key of the workspace.
func (w *Workspace) Key() string { return w.key }

// Hydrated reports whether the persisted state has been loaded.
func (w *Workspace) Hydrated() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.hydrated
}

// Hydrate loads the persisted state. On a load failure the workspace stays
// unhydrated: it keeps serving defaults, saves nothing, and a later Hydrate
// may try again. A layout that migration changed is saved back. Hydrating an
// already hydrated workspace is a no-op.
func (w *Workspace) Hydrate(ctx context.Context) error {
	if w.Hydrated() {
		return nil
	}
	stored, err := w.backend.Load(ctx, w.key)
	if err != nil {
		w.logger.Warn("could not load state, serving defaults unsaved", "error", err)
		return err
	}

	settings := stored.Clone()
	settings.Layouts = nil
	settings.LayoutVersion = 0
	settings.Tickers = validTickers(settings.Tickers, w.logger)
	settings.Normalize()

	m := w.store.Hydrate(stored.Layouts, stored.LayoutVersion)
	hooks := observability.Layout()
	hooks.OnMigrate(ctx, m.From, m.To, m.Reset)
	if len(m.Inserted) > 0 || len(m.Dropped) > 0 {
		hooks.OnMerge(ctx, len(m.Inserted), len(m.Dropped))
	}
	if m.Reason != nil {
		hooks.OnStabilize(ctx, true, m.Reason)
	}

	w.mu.Lock()
	w.settings = *settings
	w.hydrated = true
	w.mu.Unlock()

	w.logger.Debug("hydrated workspace", "from", m.From, "reset", m.Reset,
		"inserted", len(m.Inserted), "dropped", len(m.Dropped))
	if !stored.Empty() && (m.Changed() || m.From != layout.SchemaVersion) {
		w.changed()
	}
	return nil
}

// changed schedules a save once the workspace is hydrated.
func (w *Workspace) changed() {
	w.mu.RLock()
	hydrated := w.hydrated
	w.mu.RUnlock()
	if hydrated {
		w.saver.Schedule(w.Snapshot)
	}
}

// Snapshot returns the document to persist. It always carries the current
// layout schema version.
func (w *Workspace) Snapshot() *state.State {
	w.mu.RLock()
	s := w.settings.Clone()
	w.mu.RUnlock()
	s.Layouts = w.store.Layouts()
	s.LayoutVersion = layout.SchemaVersion
	return s
}

// Layouts returns the canonical layout.
func (w *Workspace) Layouts() layout.Layout { return w.store.Layouts() }

// Defaults returns the layout template.
func (w *Workspace) Defaults() layout.Layout { return w.store.Defaults() }

// SetLayouts replaces the canonical layout.
func (w *Workspace) SetLayouts(ctx context.Context, next layout.Layout) layout.Result {
	res := w.store.SetLayouts(next)
	reportResult(ctx, res)
	return res
}

// ResetLayouts restores the layout template.
func (w *Workspace) ResetLayouts() {
	w.store.ResetLayouts()
	w.logger.Info("layout reset to defaults")
}

// PersistSection merges a changed section into the canonical layout. patch
// holds the section's placements in section-local coordinates; items of
// other sections are ignored.
func (w *Workspace) PersistSection(ctx context.Context, section panel.Section, patch layout.Layout) (layout.Result, error) {
	if _, ok := panel.ParseSection(string(section)); !ok {
		return layout.Result{}, UnknownSection(string(section))
	}
	res := w.store.PersistSection(section.IDs(), patch)
	reportResult(ctx, res)
	return res, nil
}

func reportResult(ctx context.Context, res layout.Result) {
	hooks := observability.Layout()
	if n, d := len(res.Merge.Inserted), len(res.Merge.Dropped); n > 0 || d > 0 {
		hooks.OnMerge(ctx, n, d)
	}
	hooks.OnStabilize(ctx, res.Reset, res.Reason)
}

// ReplaceState replaces the whole document, as a client pushing its local
// state does. Settings are normalized and invalid tickers dropped; the
// layout is stabilized.
func (w *Workspace) ReplaceState(ctx context.Context, s *state.State) layout.Result {
	next := s.Clone()
	if next == nil {
		next = &state.State{}
	}
	next.Tickers = validTickers(next.Tickers, w.logger)
	next.Normalize()
	layouts := next.Layouts
	next.Layouts = nil
	next.LayoutVersion = 0

	w.mu.Lock()
	w.settings = *next
	w.mu.Unlock()

	// SetLayouts notifies the store subscription, which schedules the save.
	return w.SetLayouts(ctx, layouts)
}

func validTickers(tickers []string, logger *log.Logger) []string {
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if err := apperr.ValidateTicker(t); err != nil {
			logger.Debug("dropping invalid ticker", "ticker", t)
			continue
		}
		out = append(out, t)
	}
	return out
}

// Settings returns the document without its layout.
func (w *Workspace) Settings() state.State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s := w.settings.Clone()
	return *s
}

// updateSettings applies fn under the lock and schedules a save when it
// returns nil.
func (w *Workspace) updateSettings(fn func(s *state.State) error) error {
	w.mu.Lock()
	err := fn(&w.settings)
	w.mu.Unlock()
	if err != nil {
		return err
	}
	w.changed()
	return nil
}

// SetSelectedTicker selects the ticker shown by the per-symbol panels.
func (w *Workspace) SetSelectedTicker(ticker string) error {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if err := apperr.ValidateTicker(ticker); err != nil {
		return err
	}
	return w.updateSettings(func(s *state.State) error {
		s.SelectedTicker = ticker
		return nil
	})
}

// SetTimeRange sets the chart range.
func (w *Workspace) SetTimeRange(r string) error {
	r = strings.ToUpper(strings.TrimSpace(r))
	if !state.ValidTimeRange(r) {
		return apperr.New(apperr.ErrCodeInvalidInput, "invalid time range %q (want one of %s)",
			r, strings.Join(state.TimeRanges, ", "))
	}
	return w.updateSettings(func(s *state.State) error {
		s.TimeRange = r
		return nil
	})
}

// SetTheme sets the color theme.
func (w *Workspace) SetTheme(theme string) error {
	if theme != state.ThemeDark && theme != state.ThemeLight {
		return apperr.New(apperr.ErrCodeInvalidInput, "invalid theme %q (want dark or light)", theme)
	}
	return w.updateSettings(func(s *state.State) error {
		s.Theme = theme
		return nil
	})
}

// ToggleTheme switches between the dark and light themes and returns the
// new theme.
func (w *Workspace) ToggleTheme() string {
	var theme string
	_ = w.updateSettings(func(s *state.State) error {
		if s.Theme == state.ThemeDark {
			s.Theme = state.ThemeLight
		} else {
			s.Theme = state.ThemeDark
		}
		theme = s.Theme
		return nil
	})
	return theme
}

// AddTicker appends a ticker to the watchlist. Adding a ticker already on
// the list is a no-op.
func (w *Workspace) AddTicker(ticker string) error {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if err := apperr.ValidateTicker(ticker); err != nil {
		return err
	}
	return w.updateSettings(func(s *state.State) error {
		s.Tickers = state.MergeTickers(s.Tickers, []string{ticker})
		return nil
	})
}

// RemoveTicker removes a ticker from the watchlist. When the selected ticker
// is removed, the first remaining ticker is selected.
func (w *Workspace) RemoveTicker(ticker string) error {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	return w.updateSettings(func(s *state.State) error {
		i := slices.Index(s.Tickers, ticker)
		if i < 0 {
			return apperr.New(apperr.ErrCodeNotFound, "ticker %s is not on the watchlist", ticker)
		}
		s.Tickers = slices.Delete(s.Tickers, i, i+1)
		if s.SelectedTicker == ticker {
			s.SelectedTicker = state.DefaultTicker
			if len(s.Tickers) > 0 {
				s.SelectedTicker = s.Tickers[0]
			}
		}
		return nil
	})
}

// Flush writes a pending save now.
func (w *Workspace) Flush(ctx context.Context) {
	w.saver.Flush(ctx)
}

// Close flushes pending work and detaches the workspace from its store.
// Later changes are not saved.
func (w *Workspace) Close(ctx context.Context) {
	w.saver.Flush(ctx)
	w.saver.Stop()
	w.unsubscribe()
}
