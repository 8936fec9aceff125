package layout

import "github.com/matzehuels/tickergrid/pkg/panel"

// SchemaVersion is the version of the default template. Bump it whenever a
// panel is added to defaultTemplate; stored layouts carrying an older version
// are re-merged at load time by [Migrate].
//
// History:
//   - v3: market, watchlist, chart, detail, fundamentals, analysts, news,
//     earnings, movers, sector, portfolio, compare, alerts, screener
//   - v4: earnings replaced by calendar in the anchor row
//   - v5: market intelligence bar
const SchemaVersion = 5

// StorageKey names the persisted layout for the current schema version.
const StorageKey = "layout-storage-v5"

// GridCols is the column count of the canonical (lg) layout.
const GridCols = 12

var defaultTemplate = Layout{
	// Market context
	{ID: panel.Market, X: 0, Y: 0, W: 12, H: 4, MinW: 8, MinH: 3},
	{ID: panel.Intelligence, X: 0, Y: 4, W: 12, H: 6, MinW: 6, MinH: 4},
	// Anchor row
	{ID: panel.Watchlist, X: 0, Y: 10, W: 3, H: 10, MinW: 2, MinH: 4},
	{ID: panel.Chart, X: 3, Y: 10, W: 6, H: 10, MinW: 4, MinH: 5},
	{ID: panel.Calendar, X: 9, Y: 10, W: 3, H: 10, MinW: 2, MinH: 4},
	// Symbol workbench
	{ID: panel.Detail, X: 0, Y: 20, W: 3, H: 8, MinW: 2, MinH: 4},
	{ID: panel.Fundamentals, X: 3, Y: 20, W: 5, H: 8, MinW: 3, MinH: 5},
	{ID: panel.Analysts, X: 8, Y: 20, W: 4, H: 8, MinW: 3, MinH: 5},
	{ID: panel.News, X: 0, Y: 28, W: 6, H: 8, MinW: 3, MinH: 4},
	{ID: panel.Compare, X: 6, Y: 28, W: 6, H: 8, MinW: 4, MinH: 6},
	// Tools
	{ID: panel.Movers, X: 0, Y: 36, W: 4, H: 8, MinW: 3, MinH: 4},
	{ID: panel.Portfolio, X: 4, Y: 36, W: 8, H: 8, MinW: 4, MinH: 6},
	{ID: panel.Sector, X: 0, Y: 44, W: 12, H: 8, MinW: 6, MinH: 5},
	{ID: panel.Alerts, X: 0, Y: 52, W: 5, H: 9, MinW: 4, MinH: 6},
	{ID: panel.Screener, X: 5, Y: 52, W: 7, H: 9, MinW: 5, MinH: 6},
}

// Defaults returns a fresh copy of the current default template.
func Defaults() Layout {
	return defaultTemplate.Clone()
}
