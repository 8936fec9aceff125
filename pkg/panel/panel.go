// Package panel defines the catalog of dashboard panels.
//
// The catalog is closed: every panel the dashboard can render has an [ID]
// constant here, and every ID belongs to exactly one [Section]. Ids read from
// persisted state that are not part of the catalog are inert; callers filter
// them with [Known] at the rendering boundary instead of treating them as
// errors.
//
// # Sections
//
// Panels are grouped into vertically contiguous sections, each of which is an
// independent drag/resize surface in the grid widget:
//
//   - [SectionMarket]: macro bar and market intelligence
//   - [SectionWatchlist]: watchlist, chart and calendar (the core workflow)
//   - [SectionWorkbench]: per-symbol research panels
//   - [SectionTools]: portfolio, alerts, screener and friends
//
// # Anchors
//
// The watchlist, chart and calendar panels are the anchors used by the layout
// health check. A layout that loses any of them, or squeezes them, is treated
// as broken.
package panel

// ID identifies a dashboard panel.
type ID string

// Panel ids, in catalog order.
const (
	Market       ID = "market"
	Intelligence ID = "intelligence"
	Watchlist    ID = "watchlist"
	Chart        ID = "chart"
	Calendar     ID = "calendar"
	Detail       ID = "detail"
	Fundamentals ID = "fundamentals"
	Analysts     ID = "analysts"
	News         ID = "news"
	Compare      ID = "compare"
	Movers       ID = "movers"
	Portfolio    ID = "portfolio"
	Sector       ID = "sector"
	Alerts       ID = "alerts"
	Screener     ID = "screener"
)

// Section is a named vertical grouping of panels.
type Section string

// Sections, in render order.
const (
	SectionMarket    Section = "market"
	SectionWatchlist Section = "watchlist"
	SectionWorkbench Section = "workbench"
	SectionTools     Section = "tools"
)

// info describes a catalog entry.
type info struct {
	title     string
	section   Section
	fullWidth bool
}

var catalog = map[ID]info{
	Market:       {"Market Overview", SectionMarket, true},
	Intelligence: {"Market Intelligence", SectionMarket, true},
	Watchlist:    {"Watchlist", SectionWatchlist, false},
	Chart:        {"Chart", SectionWatchlist, false},
	Calendar:     {"Event Calendar", SectionWatchlist, false},
	Detail:       {"Ticker Detail", SectionWorkbench, false},
	Fundamentals: {"Fundamentals", SectionWorkbench, false},
	Analysts:     {"Analyst Ratings", SectionWorkbench, false},
	News:         {"News", SectionWorkbench, false},
	Compare:      {"Compare", SectionWorkbench, false},
	Movers:       {"Top Movers", SectionTools, false},
	Portfolio:    {"Portfolio", SectionTools, false},
	Sector:       {"Sector Heatmap", SectionTools, true},
	Alerts:       {"Alerts", SectionTools, false},
	Screener:     {"Screener", SectionTools, false},
}

var order = []ID{
	Market, Intelligence,
	Watchlist, Chart, Calendar,
	Detail, Fundamentals, Analysts, News, Compare,
	Movers, Portfolio, Sector, Alerts, Screener,
}

var sections = []Section{SectionMarket, SectionWatchlist, SectionWorkbench, SectionTools}

var sectionTitles = map[Section]string{
	SectionMarket:    "Market Context",
	SectionWatchlist: "Watchlist",
	SectionWorkbench: "Symbol Workbench",
	SectionTools:     "Tools",
}

// All returns every catalog id in catalog order.
func All() []ID {
	out := make([]ID, len(order))
	copy(out, order)
	return out
}

// Known reports whether id is part of the catalog.
func Known(id ID) bool {
	_, ok := catalog[id]
	return ok
}

// Parse converts s to an ID, reporting whether it is a catalog id.
func Parse(s string) (ID, bool) {
	id := ID(s)
	return id, Known(id)
}

// Title returns a display title for id, or the raw id if it is unknown.
func (id ID) Title() string {
	if inf, ok := catalog[id]; ok {
		return inf.title
	}
	return string(id)
}

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }

// FullWidth reports whether id always spans an entire grid row.
func FullWidth(id ID) bool {
	return catalog[id].fullWidth
}

// FullWidthIDs returns the set of full-width panel ids.
func FullWidthIDs() map[ID]bool {
	out := make(map[ID]bool)
	for id, inf := range catalog {
		if inf.fullWidth {
			out[id] = true
		}
	}
	return out
}

// Anchors returns the panels that must stay usable for the core workflow.
func Anchors() [3]ID {
	return [3]ID{Watchlist, Chart, Calendar}
}

// SectionOf returns the section id belongs to. Unknown ids report false.
func SectionOf(id ID) (Section, bool) {
	inf, ok := catalog[id]
	return inf.section, ok
}

// Sections returns all sections in render order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// ParseSection converts s to a Section.
func ParseSection(s string) (Section, bool) {
	sec := Section(s)
	_, ok := sectionTitles[sec]
	return sec, ok
}

// Title returns the display title of the section.
func (s Section) Title() string {
	if t, ok := sectionTitles[s]; ok {
		return t
	}
	return string(s)
}

// String implements fmt.Stringer.
func (s Section) String() string { return string(s) }

// IDs returns the catalog ids assigned to s, in catalog order.
func (s Section) IDs() []ID {
	var out []ID
	for _, id := range order {
		if catalog[id].section == s {
			out = append(out, id)
		}
	}
	return out
}
