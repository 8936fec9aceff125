package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tickergrid/pkg/layout"
	"github.com/matzehuels/tickergrid/pkg/panel"
	"github.com/matzehuels/tickergrid/pkg/workspace"
)

// previewCommand creates the interactive layout preview.
func (c *CLI) previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Browse the layout interactively",
		Long: `Browse the layout section by section in the terminal, at every breakpoint.

Resetting the layout or toggling the theme from the preview is saved to the
workspace like any other change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, _, closeFn, err := c.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			p := tea.NewProgram(newPreviewModel(ws), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}

// =============================================================================
// Key bindings
// =============================================================================

type previewKeys struct {
	Next       key.Binding
	Prev       key.Binding
	Breakpoint key.Binding
	Reset      key.Binding
	Theme      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newPreviewKeys() previewKeys {
	return previewKeys{
		Next: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next section"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("shift+tab", "previous section"),
		),
		Breakpoint: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "cycle breakpoint"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset layout"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k previewKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Breakpoint, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k previewKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Breakpoint},
		{k.Reset, k.Theme},
		{k.Help, k.Quit},
	}
}

// =============================================================================
// Model
// =============================================================================

// defaultPreviewWidth is used until the terminal reports its size.
const defaultPreviewWidth = 96

var (
	styleTab       = lipgloss.NewStyle().Padding(0, 1).Foreground(colorGray)
	styleActiveTab = lipgloss.NewStyle().Padding(0, 1).Bold(true)
)

// previewModel shows one section of a workspace at one breakpoint.
type previewModel struct {
	ws       *workspace.Workspace
	keys     previewKeys
	help     help.Model
	sections []workspace.Summary
	cursor   int
	bp       layout.Breakpoint
	width    int
	status   string
}

func newPreviewModel(ws *workspace.Workspace) previewModel {
	return previewModel{
		ws:       ws,
		keys:     newPreviewKeys(),
		help:     help.New(),
		sections: ws.Sections(),
		bp:       layout.LG,
		width:    defaultPreviewWidth,
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 24)
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			if len(m.sections) > 0 {
				m.cursor = (m.cursor + 1) % len(m.sections)
			}
		case key.Matches(msg, m.keys.Prev):
			if len(m.sections) > 0 {
				m.cursor = (m.cursor + len(m.sections) - 1) % len(m.sections)
			}
		case key.Matches(msg, m.keys.Breakpoint):
			bps := layout.AllBreakpoints()
			m.bp = bps[(int(m.bp)+1)%len(bps)]
		case key.Matches(msg, m.keys.Reset):
			m.ws.ResetLayouts()
			m.sections = m.ws.Sections()
			m.cursor = min(m.cursor, max(len(m.sections)-1, 0))
			m.status = "Layout reset to defaults"
		case key.Matches(msg, m.keys.Theme):
			m.status = "Theme: " + m.ws.ToggleTheme()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s · %d cols · theme %s", m.bp, m.bp.Cols(), m.ws.Settings().Theme)))
	b.WriteString("\n\n")
	b.WriteString(m.tabs())
	b.WriteString("\n\n")

	if len(m.sections) == 0 {
		b.WriteString(StyleDim.Render("No sections"))
	} else {
		view, err := m.ws.SectionView(m.sections[m.cursor].Section)
		if err != nil {
			b.WriteString(StyleWarning.Render(err.Error()))
		} else {
			color := sectionColors[view.Section]
			for _, line := range drawGrid(view.Layouts.For(m.bp), m.bp.Cols(), m.width) {
				b.WriteString(lipgloss.NewStyle().Foreground(color).Render(line))
				b.WriteString("\n")
			}
		}
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(StyleSuccess.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m previewModel) tabs() string {
	tabs := make([]string, len(m.sections))
	for i, s := range m.sections {
		if i == m.cursor {
			tabs[i] = styleActiveTab.Foreground(sectionColors[s.Section]).Render(s.Title)
		} else {
			tabs[i] = styleTab.Render(s.Title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// =============================================================================
// Grid drawing
// =============================================================================

// drawGrid draws l as boxes on a character canvas width columns wide. One
// grid row is one line; each grid column is width/cols characters, at least
// two. Boxes outside the canvas are clipped and later items draw over
// earlier ones.
func drawGrid(l layout.Layout, cols, width int) []string {
	if cols <= 0 || len(l) == 0 {
		return nil
	}
	cellW := max(2, width/cols)
	canvasW := cols * cellW
	height := l.Height()

	canvas := make([][]rune, height)
	for y := range canvas {
		canvas[y] = []rune(strings.Repeat(" ", canvasW))
	}
	set := func(x, y int, r rune) {
		if y >= 0 && y < height && x >= 0 && x < canvasW {
			canvas[y][x] = r
		}
	}

	for _, it := range l {
		x0, x1 := it.X*cellW, min(it.Right()*cellW, canvasW)-1
		y0, y1 := it.Y, it.Bottom()-1
		if x0 >= canvasW || x1 <= x0 || y1 < y0 {
			continue
		}

		for x := x0 + 1; x < x1; x++ {
			set(x, y0, '─')
			set(x, y1, '─')
		}
		for y := y0 + 1; y < y1; y++ {
			set(x0, y, '│')
			set(x1, y, '│')
			for x := x0 + 1; x < x1; x++ {
				set(x, y, ' ')
			}
		}
		set(x0, y0, '┌')
		set(x1, y0, '┐')
		set(x0, y1, '└')
		set(x1, y1, '┘')

		labelY := y0 + 1
		if y1 == y0 {
			labelY = y0
		}
		label := ansi.Truncate(boxLabel(it), x1-x0-1, "…")
		for i, r := range []rune(label) {
			set(x0+1+i, labelY, r)
		}
	}

	lines := make([]string, height)
	for y := range canvas {
		lines[y] = string(canvas[y])
	}
	return lines
}

// boxLabel names a box; anchors are marked with a star.
func boxLabel(it layout.Item) string {
	for _, a := range panel.Anchors() {
		if it.ID == a {
			return string(it.ID) + "*"
		}
	}
	return string(it.ID)
}
