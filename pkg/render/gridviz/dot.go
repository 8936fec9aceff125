package gridviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tickergrid/pkg/layout"
	"github.com/matzehuels/tickergrid/pkg/panel"
	"github.com/matzehuels/tickergrid/pkg/render"
)

// Options configures diagram generation.
type Options struct {
	// Title is drawn above the grid. Empty means no title.
	Title string
	// ColWidth and RowHeight size one grid cell in inches.
	// Zero values mean 1.0 and 0.25.
	ColWidth  float64
	RowHeight float64
	// Detailed adds the panel title and geometry to each label.
	Detailed bool
}

func (o Options) withDefaults() Options {
	if o.ColWidth <= 0 {
		o.ColWidth = 1.0
	}
	if o.RowHeight <= 0 {
		o.RowHeight = 0.25
	}
	return o
}

// gap is the inset between neighbouring boxes, in inches.
const gap = 0.08

// ToDOT converts a layout to Graphviz DOT with every panel pinned at its
// grid position. Graphviz y grows upwards, so rows are negated.
func ToDOT(l layout.Layout, opts Options) string {
	opts = opts.withDefaults()

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fixedsize=true, fontsize=12, fontname=\"Helvetica\"];\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=16;\n", opts.Title)
	}
	buf.WriteString("\n")

	anchors := panel.Anchors()
	for _, it := range l {
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(it, opts.Detailed)),
			fmt.Sprintf("pos=\"%s,%s!\"",
				num((float64(it.X)+float64(it.W)/2)*opts.ColWidth),
				num(-(float64(it.Y)+float64(it.H)/2)*opts.RowHeight)),
			fmt.Sprintf("width=%s", num(max(float64(it.W)*opts.ColWidth-gap, gap))),
			fmt.Sprintf("height=%s", num(max(float64(it.H)*opts.RowHeight-gap, gap))),
			"pin=true",
		}
		switch {
		case !panel.Known(it.ID):
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=grey40")
		case panel.FullWidth(it.ID):
			attrs = append(attrs, "fillcolor=lightsteelblue")
		case slices.Contains(anchors[:], it.ID):
			attrs = append(attrs, "penwidth=2.5")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", it.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(it layout.Item, detailed bool) string {
	if !detailed {
		return string(it.ID)
	}
	return fmt.Sprintf("%s\n%d,%d %dx%d", it.ID.Title(), it.X, it.Y, it.W, it.H)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's svg element with one whose viewBox
// starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
