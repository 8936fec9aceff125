package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	apperr "github.com/matzehuels/tickergrid/pkg/errors"
	"github.com/matzehuels/tickergrid/pkg/layout"
	"github.com/matzehuels/tickergrid/pkg/panel"
	"github.com/matzehuels/tickergrid/pkg/render/gridviz"
	"github.com/matzehuels/tickergrid/pkg/state"
	"github.com/matzehuels/tickergrid/pkg/workspace"
)

// Export formats.
const (
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPDF  = "pdf"
	formatPNG  = "png"
	formatJSON = "json"
	formatYAML = "yaml"
)

var exportFormats = []string{formatDOT, formatSVG, formatPDF, formatPNG, formatJSON, formatYAML}

// layoutCommand creates the layout command group.
func (c *CLI) layoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect and maintain the persisted layout",
	}

	cmd.AddCommand(c.layoutShowCommand())
	cmd.AddCommand(c.layoutCheckCommand())
	cmd.AddCommand(c.layoutResetCommand())
	cmd.AddCommand(c.layoutExportCommand())

	return cmd
}

// =============================================================================
// layout show
// =============================================================================

func (c *CLI) layoutShowCommand() *cobra.Command {
	var section, breakpoint string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the layout as a table",
		Long: `Print the canonical layout of the workspace, one row per panel.

With --section, print the section's items relative to the section's first
row, for the breakpoint selected by --breakpoint.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, _, closeFn, err := c.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if section == "" {
				fmt.Fprintln(cmd.OutOrStdout(), layoutTable(ws.Layouts()))
				return nil
			}
			view, bp, err := sectionView(ws, section, breakpoint)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), StyleTitle.Render(fmt.Sprintf("%s (%s, %d cols)", view.Title, bp, bp.Cols())))
			fmt.Fprintln(cmd.OutOrStdout(), layoutTable(view.Layouts.For(bp)))
			return nil
		},
	}

	cmd.Flags().StringVar(&section, "section", "", "section to show: market, watchlist, workbench, tools")
	cmd.Flags().StringVar(&breakpoint, "breakpoint", "lg", "breakpoint of the section view: lg, md, sm")
	_ = cmd.RegisterFlagCompletionFunc("section", completeSections)
	_ = cmd.RegisterFlagCompletionFunc("breakpoint", completeBreakpoints)

	return cmd
}

// sectionView resolves the section and breakpoint flags against ws.
func sectionView(ws *workspace.Workspace, section, breakpoint string) (workspace.View, layout.Breakpoint, error) {
	sec, err := workspace.ParseSection(section)
	if err != nil {
		return workspace.View{}, layout.LG, err
	}
	bp, err := workspace.ParseBreakpoint(breakpoint)
	if err != nil {
		return workspace.View{}, layout.LG, err
	}
	view, err := ws.SectionView(sec)
	return view, bp, err
}

// layoutTable renders one row per item with its section.
func layoutTable(l layout.Layout) string {
	rows := make([][]string, 0, len(l))
	for _, it := range l {
		sec := "-"
		if s, ok := panel.SectionOf(it.ID); ok {
			sec = string(s)
		}
		rows = append(rows, []string{
			string(it.ID), sec,
			strconv.Itoa(it.X), strconv.Itoa(it.Y), strconv.Itoa(it.W), strconv.Itoa(it.H),
		})
	}
	return renderTable([]string{"Panel", "Section", "X", "Y", "W", "H"}, rows)
}

// =============================================================================
// layout check
// =============================================================================

func (c *CLI) layoutCheckCommand() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report how the stored layout would be migrated",
		Long: `Load the stored layout without modifying it and report its schema version,
its health, and the panels a migration would insert or drop.

With --fix, the migrated layout is written back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayoutCheck(cmd.Context(), fix)
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "write the migrated layout back")

	return cmd
}

func (c *CLI) runLayoutCheck(ctx context.Context, fix bool) error {
	b, cfg, err := c.openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	key, err := c.stateKey(cfg)
	if err != nil {
		return err
	}
	stored, err := b.Load(ctx, key)
	if err != nil {
		return err
	}

	printKeyValue("Key", key)
	printKeyValue("Backend", b.Name())
	if len(stored.Layouts) == 0 {
		printInfo("No layout stored, defaults are used")
		return nil
	}

	printKeyValue("Version", fmt.Sprintf("%d (current %d)", stored.LayoutVersion, layout.SchemaVersion))
	printKeyValue("Panels", strconv.Itoa(len(stored.Layouts)))

	_, m := layout.Migrate(stored.Layouts, stored.LayoutVersion)
	reportMigration(m)

	if !m.Changed() && m.From == layout.SchemaVersion {
		printSuccess("Layout is up to date")
		return nil
	}
	if !fix {
		printNextStep("Apply", appName+" layout check --fix")
		return nil
	}

	mgr := workspace.NewManager(b, state.KeyerFor(cfg.Storage), c.managerOptions(cfg)...)
	if _, err := mgr.Get(ctx, c.session); err != nil {
		return err
	}
	mgr.Close(context.WithoutCancel(ctx))
	printSuccess("Layout migrated to version %d", layout.SchemaVersion)
	return nil
}

// reportMigration prints what a migration changes.
func reportMigration(m layout.Migration) {
	if m.Downgrade {
		printWarning("Stored version %d is newer than this build", m.From)
	}
	if m.Reset {
		printError("Layout fails the health check and would be reset")
		if m.Reason != nil {
			printDetail("Reason: %v", m.Reason)
		}
		return
	}
	if len(m.Inserted) > 0 {
		printInfo("Would insert %s", joinIDs(m.Inserted))
	}
	if len(m.Dropped) > 0 {
		printInfo("Would drop %s", joinIDs(m.Dropped))
	}
}

func joinIDs(ids []panel.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}

// =============================================================================
// layout reset
// =============================================================================

func (c *CLI) layoutResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, _, closeFn, err := c.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			ws.ResetLayouts()
			closeFn()
			printSuccess("Layout reset to defaults (version %d)", layout.SchemaVersion)
			return nil
		},
	}
}

// =============================================================================
// layout export
// =============================================================================

type exportOptions struct {
	format     string
	output     string
	section    string
	breakpoint string
	detailed   bool
	scale      float64
}

func (c *CLI) layoutExportCommand() *cobra.Command {
	opts := exportOptions{format: formatSVG, breakpoint: "lg", scale: 2}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the layout as a diagram or data file",
		Long: `Export the layout as a Graphviz diagram (dot, svg, pdf, png) or as data
(json, yaml).

Text formats are written to stdout unless -o is given. Binary formats default
to layout.<format>. PDF and PNG output requires rsvg-convert.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayoutExport(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(exportFormats, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().StringVar(&opts.section, "section", "", "export a single section")
	cmd.Flags().StringVar(&opts.breakpoint, "breakpoint", opts.breakpoint, "breakpoint of a section export: lg, md, sm")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label panels with title and geometry")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	_ = cmd.RegisterFlagCompletionFunc("section", completeSections)
	_ = cmd.RegisterFlagCompletionFunc("breakpoint", completeBreakpoints)
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(exportFormats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runLayoutExport(ctx context.Context, stdout io.Writer, opts exportOptions) error {
	if !validFormat(opts.format) {
		return apperr.New(apperr.ErrCodeInvalidInput, "unknown format %q (want one of %s)", opts.format, strings.Join(exportFormats, ", "))
	}

	ws, _, closeFn, err := c.openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	l := ws.Layouts()
	viz := gridviz.Options{Title: "Dashboard", Detailed: opts.detailed}
	if opts.section != "" {
		view, bp, err := sectionView(ws, opts.section, opts.breakpoint)
		if err != nil {
			return err
		}
		l = view.Layouts.For(bp)
		viz.Title = fmt.Sprintf("%s (%s)", view.Title, bp)
	}

	var data []byte
	if opts.format == formatPDF || opts.format == formatPNG {
		spin := startSpinner(ctx, c.status, fmt.Sprintf("Rendering %s...", opts.format))
		data, err = exportLayout(ctx, l, opts.format, viz, opts.scale)
		spin.stop()
	} else {
		data, err = exportLayout(ctx, l, opts.format, viz, opts.scale)
	}
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" && binaryFormat(opts.format) {
		out = "layout." + opts.format
	}
	if out == "" || out == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	printSuccess("Exported %d panels", len(l))
	printFile(out)
	return nil
}

// exportLayout encodes l in format.
func exportLayout(ctx context.Context, l layout.Layout, format string, viz gridviz.Options, scale float64) ([]byte, error) {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(l, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case formatYAML:
		return yaml.Marshal(l)
	case formatDOT:
		return []byte(gridviz.ToDOT(l, viz)), nil
	case formatSVG:
		return gridviz.RenderSVG(ctx, gridviz.ToDOT(l, viz))
	case formatPDF:
		return gridviz.RenderPDF(ctx, gridviz.ToDOT(l, viz))
	case formatPNG:
		return gridviz.RenderPNG(ctx, gridviz.ToDOT(l, viz), scale)
	}
	return nil, apperr.New(apperr.ErrCodeInvalidInput, "unknown format %q", format)
}

func validFormat(f string) bool {
	for _, known := range exportFormats {
		if f == known {
			return true
		}
	}
	return false
}

// binaryFormat reports whether f should not be written to a terminal.
func binaryFormat(f string) bool {
	return f == formatPDF || f == formatPNG
}
