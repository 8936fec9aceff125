package workspace

import (
	"slices"
	"testing"

	apperr "github.com/matzehuels/tickergrid/pkg/errors"
	"github.com/matzehuels/tickergrid/pkg/layout"
	"github.com/matzehuels/tickergrid/pkg/panel"
	"github.com/matzehuels/tickergrid/pkg/state"
)

func TestSections(t *testing.T) {
	w := newTestWorkspace(t, state.NewMemoryBackend())
	got := w.Sections()

	want := []struct {
		section panel.Section
		offset  int
		height  int
	}{
		{panel.SectionMarket, 0, 10},
		{panel.SectionWatchlist, 10, 10},
		{panel.SectionWorkbench, 20, 16},
		{panel.SectionTools, 36, 25},
	}
	if len(got) != len(want) {
		t.Fatalf("len(Sections()) = %d, want %d", len(got), len(want))
	}
	for i, exp := range want {
		if got[i].Section != exp.section || got[i].Offset != exp.offset || got[i].Height != exp.height {
			t.Errorf("Sections()[%d] = %+v, want %s offset %d height %d", i, got[i], exp.section, exp.offset, exp.height)
		}
	}
}

func TestSectionView(t *testing.T) {
	w := newTestWorkspace(t, state.NewMemoryBackend())
	v, err := w.SectionView(panel.SectionWatchlist)
	if err != nil {
		t.Fatalf("SectionView() error: %v", err)
	}

	if v.Title != "Watchlist" || v.Offset != 10 {
		t.Errorf("title/offset = %q/%d, want Watchlist/10", v.Title, v.Offset)
	}
	if want := []panel.ID{panel.Watchlist, panel.Chart, panel.Calendar}; !slices.Equal(v.IDs, want) {
		t.Errorf("IDs = %v, want %v", v.IDs, want)
	}
	if v.Cols["lg"] != 12 || v.Cols["md"] != 10 || v.Cols["sm"] != 6 {
		t.Errorf("Cols = %v", v.Cols)
	}
	if v.Breakpoints["lg"] != 1200 || v.Breakpoints["md"] != 800 || v.Breakpoints["sm"] != 0 {
		t.Errorf("Breakpoints = %v", v.Breakpoints)
	}
	if v.RowHeight != layout.RowHeightPx || v.Margin != [2]int{layout.MarginPx, layout.MarginPx} {
		t.Errorf("RowHeight/Margin = %d/%v", v.RowHeight, v.Margin)
	}

	chart, _ := v.Layouts.LG.Find(panel.Chart)
	if chart.Y != 0 || chart.X != 3 || chart.W != 6 {
		t.Errorf("lg chart = %v, want section-local 3,0 w6", chart)
	}
	cal, _ := v.Layouts.MD.Find(panel.Calendar)
	if cal.Y != 10 || cal.W != 10 {
		t.Errorf("md calendar = %v, want wrapped to y10 w10", cal)
	}
	for i, it := range v.Layouts.SM {
		if it.X != 0 || it.W != layout.SmallCols {
			t.Errorf("sm[%d] = %v, want full width", i, it)
		}
	}
}

func TestSectionView_Unknown(t *testing.T) {
	w := newTestWorkspace(t, state.NewMemoryBackend())
	if _, err := w.SectionView("sidebar"); !apperr.Is(err, apperr.ErrCodeInvalidSection) {
		t.Errorf("error = %v, want INVALID_SECTION", err)
	}
}

func TestParseHelpers(t *testing.T) {
	if sec, err := ParseSection(" Tools "); err != nil || sec != panel.SectionTools {
		t.Errorf("ParseSection(Tools) = %q, %v", sec, err)
	}
	if _, err := ParseSection("tool"); !apperr.Is(err, apperr.ErrCodeInvalidSection) {
		t.Errorf("ParseSection(tool) error = %v", err)
	}
	if bp, err := ParseBreakpoint("MD"); err != nil || bp != layout.MD {
		t.Errorf("ParseBreakpoint(MD) = %v, %v", bp, err)
	}
	if _, err := ParseBreakpoint("xl"); !apperr.Is(err, apperr.ErrCodeInvalidBreakpoint) {
		t.Errorf("ParseBreakpoint(xl) error = %v", err)
	}
	if id, err := ParsePanel("Chart"); err != nil || id != panel.Chart {
		t.Errorf("ParsePanel(Chart) = %q, %v", id, err)
	}
	if _, err := ParsePanel("chrat"); !apperr.Is(err, apperr.ErrCodeInvalidPanel) {
		t.Errorf("ParsePanel(chrat) error = %v", err)
	}
}
