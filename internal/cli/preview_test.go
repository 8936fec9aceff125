package cli

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/tickergrid/pkg/layout"
	"github.com/matzehuels/tickergrid/pkg/panel"
	"github.com/matzehuels/tickergrid/pkg/state"
	"github.com/matzehuels/tickergrid/pkg/workspace"
)

func TestDrawGrid(t *testing.T) {
	l := layout.Layout{
		{ID: panel.News, X: 0, Y: 0, W: 6, H: 3},
		{ID: panel.Compare, X: 6, Y: 0, W: 6, H: 3},
	}
	want := []string{
		"┌──────────┐┌──────────┐",
		"│news      ││compare   │",
		"└──────────┘└──────────┘",
	}

	got := drawGrid(l, 12, 24)
	if len(got) != len(want) {
		t.Fatalf("drawGrid() = %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDrawGrid_MarksAnchors(t *testing.T) {
	l := layout.Layout{{ID: panel.Chart, X: 0, Y: 0, W: 12, H: 3}}
	got := drawGrid(l, 12, 24)
	if !strings.HasPrefix(got[1], "│chart*") {
		t.Errorf("label line = %q, want chart*", got[1])
	}
}

func TestDrawGrid_TruncatesLabels(t *testing.T) {
	l := layout.Layout{{ID: panel.Fundamentals, X: 0, Y: 0, W: 1, H: 4}}
	got := drawGrid(l, 12, 48)

	if len(got) != 4 {
		t.Fatalf("drawGrid() = %d lines, want 4", len(got))
	}
	for i, line := range got {
		if n := utf8.RuneCountInString(line); n != 48 {
			t.Errorf("line %d width = %d, want 48", i, n)
		}
	}
	if strings.Contains(got[1], "fundamentals") {
		t.Errorf("label not truncated: %q", got[1])
	}
	if !strings.Contains(got[1], "…") {
		t.Errorf("label line = %q, want ellipsis", got[1])
	}
}

func TestDrawGrid_EveryBreakpointFitsWidth(t *testing.T) {
	ws := newPreviewWorkspace(t)
	for _, s := range ws.Sections() {
		view, err := ws.SectionView(s.Section)
		if err != nil {
			t.Fatalf("SectionView(%s) error = %v", s.Section, err)
		}
		for _, bp := range layout.AllBreakpoints() {
			l := view.Layouts.For(bp)
			lines := drawGrid(l, bp.Cols(), 80)
			if len(lines) != l.Height() {
				t.Errorf("%s/%s: %d lines, want %d", s.Section, bp, len(lines), l.Height())
			}
			for _, line := range lines {
				if utf8.RuneCountInString(line) > 80 {
					t.Errorf("%s/%s: line wider than 80: %q", s.Section, bp, line)
				}
			}
		}
	}
}

func TestDrawGrid_Empty(t *testing.T) {
	if got := drawGrid(nil, 12, 80); got != nil {
		t.Errorf("drawGrid(nil) = %v, want nil", got)
	}
	if got := drawGrid(layout.Defaults(), 0, 80); got != nil {
		t.Errorf("drawGrid(cols=0) = %v, want nil", got)
	}
}

func newPreviewWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	ws := workspace.New("state:global", state.NewMemoryBackend(), workspace.WithDebounce(time.Hour))
	if err := ws.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate() error = %v", err)
	}
	t.Cleanup(func() { ws.Close(context.Background()) })
	return ws
}

func press(m previewModel, msg tea.KeyMsg) (previewModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(previewModel), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPreviewModelNavigation(t *testing.T) {
	m := newPreviewModel(newPreviewWorkspace(t))
	if len(m.sections) != 4 {
		t.Fatalf("sections = %d, want 4", len(m.sections))
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.cursor != 1 {
		t.Errorf("cursor after tab = %d, want 1", m.cursor)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.cursor != 3 {
		t.Errorf("cursor after wrapping back = %d, want 3", m.cursor)
	}

	wantBps := []layout.Breakpoint{layout.MD, layout.SM, layout.LG}
	for _, want := range wantBps {
		m, _ = press(m, runes("b"))
		if m.bp != want {
			t.Errorf("breakpoint = %s, want %s", m.bp, want)
		}
	}
}

func TestPreviewModelActions(t *testing.T) {
	ws := newPreviewWorkspace(t)
	m := newPreviewModel(ws)

	m, _ = press(m, runes("t"))
	if got := ws.Settings().Theme; got != state.ThemeLight {
		t.Errorf("theme = %q, want %q", got, state.ThemeLight)
	}
	if m.status != "Theme: light" {
		t.Errorf("status = %q", m.status)
	}

	m, _ = press(m, runes("?"))
	if !m.help.ShowAll {
		t.Error("help not expanded after ?")
	}

	m, _ = press(m, runes("r"))
	if !layout.Equal(ws.Layouts(), layout.Defaults()) {
		t.Error("layout not reset")
	}

	_, cmd := press(m, runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestPreviewModelView(t *testing.T) {
	m := newPreviewModel(newPreviewWorkspace(t))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 40})
	m = next.(previewModel)

	view := m.View()
	for _, want := range []string{"Market", "Tools", "lg", "market"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
