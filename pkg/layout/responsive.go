package layout

import (
	"sort"

	"github.com/matzehuels/tickergrid/pkg/panel"
)

// Breakpoint is a responsive layout target.
type Breakpoint int

const (
	// LG is the canonical 12-column layout for wide screens.
	LG Breakpoint = iota
	// MD is the 10-column layout for medium screens.
	MD
	// SM is the single-column stack for narrow screens.
	SM
)

const (
	// MediumCols is the column count of the md breakpoint.
	MediumCols = 10
	// MediumMaxW caps the width of non-full-width panels at md.
	MediumMaxW = 5
	// SmallCols is the column count of the sm breakpoint.
	SmallCols = 6
	// SmallRowHeight is the default height of a panel at sm.
	SmallRowHeight = 6
	// RowHeightPx is the pixel height of one grid row.
	RowHeightPx = 40
	// MarginPx is the pixel gap between panels.
	MarginPx = 8
)

// smallHeights overrides SmallRowHeight for panels that need more, or less,
// room when stacked.
var smallHeights = map[panel.ID]int{
	panel.Market:       3,
	panel.Intelligence: 8,
	panel.Chart:        8,
	panel.Sector:       9,
}

// AllBreakpoints returns all breakpoints from widest to narrowest.
func AllBreakpoints() []Breakpoint {
	return []Breakpoint{LG, MD, SM}
}

// ParseBreakpoint converts "lg", "md" or "sm" to a Breakpoint.
func ParseBreakpoint(s string) (Breakpoint, bool) {
	switch s {
	case "lg":
		return LG, true
	case "md":
		return MD, true
	case "sm":
		return SM, true
	}
	return LG, false
}

// String returns the grid widget key of the breakpoint.
func (b Breakpoint) String() string {
	switch b {
	case LG:
		return "lg"
	case MD:
		return "md"
	case SM:
		return "sm"
	default:
		return "unknown"
	}
}

// Cols returns the column count of the breakpoint.
func (b Breakpoint) Cols() int {
	switch b {
	case MD:
		return MediumCols
	case SM:
		return SmallCols
	default:
		return GridCols
	}
}

// MinWidthPx returns the container width at which the breakpoint applies.
func (b Breakpoint) MinWidthPx() int {
	switch b {
	case LG:
		return 1200
	case MD:
		return 800
	default:
		return 0
	}
}

// Views holds the breakpoint variants of one section.
type Views struct {
	LG Layout `json:"lg"`
	MD Layout `json:"md"`
	SM Layout `json:"sm"`
}

// For returns the variant for b.
func (v Views) For(b Breakpoint) Layout {
	switch b {
	case MD:
		return v.MD
	case SM:
		return v.SM
	default:
		return v.LG
	}
}

// Derive builds every breakpoint variant of a section's canonical layout.
// The lg variant is the section compacted to GridCols.
func Derive(section Layout) Views {
	return Views{
		LG: CompactRows(section, panel.FullWidthIDs(), GridCols),
		MD: DeriveMedium(section),
		SM: DeriveSmall(section),
	}
}

// DeriveMedium builds the md variant of a section. Full-width panels span
// the medium grid; other panels are capped at MediumMaxW columns and keep
// their column modulo MediumCols. Rows that no longer fit are wrapped onto
// new rows, pushing later rows down, and the result is compacted.
func DeriveMedium(section Layout) Layout {
	fullWidth := panel.FullWidthIDs()
	scaled := section.Clone()
	for i := range scaled {
		it := &scaled[i]
		if fullWidth[it.ID] {
			it.X, it.W = 0, MediumCols
			continue
		}
		it.W = max(1, min(it.W, MediumMaxW))
		it.X = it.X % MediumCols
	}
	return clampMins(CompactRows(wrapRows(scaled, MediumCols), fullWidth, MediumCols))
}

// wrapRows splits rows wider than cols into several rows, filling each
// greedily left to right, and restacks all rows from 0.
func wrapRows(items Layout, cols int) Layout {
	out := items.Clone()
	cursor := 0
	for _, r := range groupRows(out) {
		width, height := 0, 0
		for _, i := range r.idx {
			w := out[i].W
			if width > 0 && width+w > cols {
				cursor += height
				width, height = 0, 0
			}
			out[i].Y = cursor
			width += w
			height = max(height, out[i].H)
		}
		cursor += height
	}
	return out
}

// DeriveSmall builds the sm variant of a section: a single-column stack in
// reading order (by row, then column). Every panel spans SmallCols and is
// SmallRowHeight tall unless it has a height override; each panel starts
// right below the previous one. Y is the running sum of the heights above it,
// not index*SmallRowHeight, so a panel taller than SmallRowHeight never
// overlaps the next one.
func DeriveSmall(section Layout) Layout {
	ordered := section.Clone()
	sort.SliceStable(ordered, func(a, b int) bool {
		if ordered[a].Y != ordered[b].Y {
			return ordered[a].Y < ordered[b].Y
		}
		return ordered[a].X < ordered[b].X
	})

	y := 0
	for i := range ordered {
		h := SmallRowHeight
		if override, ok := smallHeights[ordered[i].ID]; ok {
			h = override
		}
		ordered[i].X, ordered[i].Y = 0, y
		ordered[i].W, ordered[i].H = SmallCols, h
		y += h
	}
	return clampMins(ordered)
}

// clampMins keeps advisory minimums within the derived geometry so the grid
// widget does not grow panels past the narrower grid.
func clampMins(l Layout) Layout {
	for i := range l {
		l[i].MinW = min(l[i].MinW, l[i].W)
		l[i].MinH = min(l[i].MinH, l[i].H)
	}
	return l
}
