package workspace

import (
	"strings"

	apperr "github.com/matzehuels/tickergrid/pkg/errors"
	"github.com/matzehuels/tickergrid/pkg/layout"
	"github.com/matzehuels/tickergrid/pkg/panel"
)

// Summary describes one section of the canonical layout.
type Summary struct {
	Section panel.Section `json:"section"`
	Title   string        `json:"title"`
	IDs     []panel.ID    `json:"ids"`
	Offset  int           `json:"offset"`
	Height  int           `json:"height"`
}

// View is everything a grid widget needs to render one section.
type View struct {
	Section     panel.Section  `json:"section"`
	Title       string         `json:"title"`
	IDs         []panel.ID     `json:"ids"`
	Offset      int            `json:"offset"`
	Layouts     layout.Views   `json:"layouts"`
	Cols        map[string]int `json:"cols"`
	Breakpoints map[string]int `json:"breakpoints"`
	RowHeight   int            `json:"rowHeight"`
	Margin      [2]int         `json:"margin"`
}

// Sections summarizes the sections of the canonical layout in render order.
func (w *Workspace) Sections() []Summary {
	secs := layout.Partition(w.store.Layouts())
	out := make([]Summary, 0, len(secs))
	for _, sec := range secs {
		out = append(out, Summary{
			Section: sec.Name,
			Title:   sec.Name.Title(),
			IDs:     sec.Items.IDs(),
			Offset:  sec.Offset,
			Height:  sec.Height(),
		})
	}
	return out
}

// SectionView returns the breakpoint variants of one section. Ids that are
// not in the panel catalog are never included.
func (w *Workspace) SectionView(section panel.Section) (View, error) {
	if _, ok := panel.ParseSection(string(section)); !ok {
		return View{}, UnknownSection(string(section))
	}
	sec, ok := layout.FindSection(layout.Partition(w.store.Layouts()), section)
	if !ok {
		return View{}, apperr.New(apperr.ErrCodeSectionNotFound, "section %s has no panels", section)
	}

	items := sec.Items.Known()
	v := View{
		Section:     sec.Name,
		Title:       sec.Name.Title(),
		IDs:         items.IDs(),
		Offset:      sec.Offset,
		Layouts:     layout.Derive(items),
		Cols:        make(map[string]int),
		Breakpoints: make(map[string]int),
		RowHeight:   layout.RowHeightPx,
		Margin:      [2]int{layout.MarginPx, layout.MarginPx},
	}
	for _, bp := range layout.AllBreakpoints() {
		v.Cols[bp.String()] = bp.Cols()
		v.Breakpoints[bp.String()] = bp.MinWidthPx()
	}
	return v, nil
}

// ParseSection converts a section name from user input, suggesting the
// closest section on a typo.
func ParseSection(s string) (panel.Section, error) {
	if sec, ok := panel.ParseSection(strings.ToLower(strings.TrimSpace(s))); ok {
		return sec, nil
	}
	return "", UnknownSection(s)
}

// UnknownSection returns the error for a section name not in the catalog.
func UnknownSection(name string) error {
	if sec, ok := panel.SuggestSection(name); ok {
		return apperr.New(apperr.ErrCodeInvalidSection, "unknown section %q (did you mean %q?)", name, sec)
	}
	return apperr.New(apperr.ErrCodeInvalidSection, "unknown section %q", name)
}

// ParseBreakpoint converts "lg", "md" or "sm" from user input.
func ParseBreakpoint(s string) (layout.Breakpoint, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if bp, ok := layout.ParseBreakpoint(s); ok {
		return bp, nil
	}
	names := make([]string, 0, 3)
	for _, bp := range layout.AllBreakpoints() {
		names = append(names, bp.String())
	}
	if best, ok := panel.Closest(s, names); ok {
		return layout.LG, apperr.New(apperr.ErrCodeInvalidBreakpoint, "unknown breakpoint %q (did you mean %q?)", s, best)
	}
	return layout.LG, apperr.New(apperr.ErrCodeInvalidBreakpoint, "unknown breakpoint %q (want lg, md or sm)", s)
}

// ParsePanel converts a panel id from user input, suggesting the closest
// catalog id on a typo.
func ParsePanel(s string) (panel.ID, error) {
	if id, ok := panel.Parse(strings.ToLower(strings.TrimSpace(s))); ok {
		return id, nil
	}
	if id, ok := panel.Suggest(s); ok {
		return "", apperr.New(apperr.ErrCodeInvalidPanel, "unknown panel %q (did you mean %q?)", s, id)
	}
	return "", apperr.New(apperr.ErrCodeInvalidPanel, "unknown panel %q", s)
}
