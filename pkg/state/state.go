// Package state provides the durable application state document and the
// backends that store it.
//
// The document ([State]) holds everything the dashboard persists between
// visits: the watchlist, the selected ticker and time range, the theme and the
// canonical layout with its schema version. Backends store one document per
// key:
//   - [MemoryBackend]: in-process storage for tests and ephemeral servers
//   - [FileBackend]: JSON files in a config directory, for the CLI
//   - [RedisBackend]: a JSON value per key, for shared deployments
//   - [MongoBackend]: one document per key
//   - [SQLiteBackend]: a single-file database for one host
//   - [NullBackend]: persistence disabled
//
// Backends never apply defaults: a missing document loads as an empty
// [State]. Defaulting happens once, at hydrate time, through [State.Normalize].
package state

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/matzehuels/tickergrid/pkg/layout"
)

// Sentinel errors for state operations.
var (
	// ErrCorrupt is returned when a stored document cannot be decoded.
	ErrCorrupt = errors.New("corrupt state")

	// ErrClosed is returned by backends used after Close.
	ErrClosed = errors.New("backend closed")
)

// Settings defaults.
const (
	DefaultTicker    = "AAPL"
	DefaultTimeRange = "1M"
	DefaultTheme     = ThemeDark
)

// Themes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// TimeRanges lists the chart ranges a client may select, shortest first.
var TimeRanges = []string{"1D", "1W", "1M", "3M", "1Y", "5Y"}

// DefaultWatchlist is the watchlist every workspace starts with. Persisted
// tickers are added to it, never substituted for it.
var DefaultWatchlist = []string{
	// Indices
	"^DJI", "^GSPC", "^IXIC", "^NYA",
	// Tech & Software
	"AAPL", "AMZN", "ARM", "BILL", "BKNG", "CRM", "CRWD", "DDOG", "DOCU",
	"ESTC", "GOOG", "GTLB", "IBM", "INTC", "INTU", "META", "MSFT", "NFLX",
	"NVDA", "OKTA", "ORCL", "PANW", "PLTR", "RBLX", "SHOP", "SNOW", "TDOC",
	"TMUS",
	// Finance & Payments
	"BAH", "COIN", "PYPL",
	// Other
	"EA", "EBAY", "LYFT", "RIVN", "SBUX", "TSLA", "UBER", "WMT",
	// Crypto
	"BTC-USD", "ETH-USD",
}

// State is the persisted application state of one workspace.
type State struct {
	Tickers        []string      `json:"tickers,omitempty" bson:"tickers,omitempty"`
	SelectedTicker string        `json:"selectedTicker,omitempty" bson:"selectedTicker,omitempty"`
	TimeRange      string        `json:"timeRange,omitempty" bson:"timeRange,omitempty"`
	Theme          string        `json:"theme,omitempty" bson:"theme,omitempty"`
	Layouts        layout.Layout `json:"layouts,omitempty" bson:"layouts,omitempty"`
	LayoutVersion  int           `json:"layoutVersion,omitempty" bson:"layoutVersion,omitempty"`
}

// Empty reports whether nothing has been stored in s.
func (s *State) Empty() bool {
	return s == nil || (len(s.Tickers) == 0 && s.SelectedTicker == "" &&
		s.TimeRange == "" && s.Theme == "" && len(s.Layouts) == 0)
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Tickers = slices.Clone(s.Tickers)
	out.Layouts = s.Layouts.Clone()
	return &out
}

// Normalize fills in settings defaults and canonicalizes tickers. The
// watchlist becomes [DefaultWatchlist] followed by the persisted tickers not
// already in it, all upper-cased. Layouts are left alone; they are migrated
// by the layout store.
func (s *State) Normalize() {
	s.Tickers = MergeTickers(DefaultWatchlist, s.Tickers)

	s.SelectedTicker = strings.ToUpper(strings.TrimSpace(s.SelectedTicker))
	if s.SelectedTicker == "" {
		s.SelectedTicker = DefaultTicker
	}
	if !ValidTimeRange(s.TimeRange) {
		s.TimeRange = DefaultTimeRange
	}
	if s.Theme != ThemeDark && s.Theme != ThemeLight {
		s.Theme = DefaultTheme
	}
}

// MergeTickers returns the union of base and extra, upper-cased, in first
// seen order. Blank entries are skipped.
func MergeTickers(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]bool, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, t := range list {
			t = strings.ToUpper(strings.TrimSpace(t))
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// ValidTimeRange reports whether r is one of [TimeRanges].
func ValidTimeRange(r string) bool {
	return slices.Contains(TimeRanges, r)
}

// Backend is the interface for state storage.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Load retrieves the document stored under key.
	// Returns an empty State, not an error, if nothing is stored.
	Load(ctx context.Context, key string) (*State, error)

	// Save stores s under key, replacing any previous document.
	Save(ctx context.Context, key string, s *State) error

	// Delete removes the document stored under key.
	// Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}
