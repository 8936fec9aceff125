// Package render turns dashboard layouts into pictures.
//
// The [gridviz] subpackage draws a layout as a Graphviz diagram with one box
// per panel pinned at its grid position. This package holds the format
// conversion shared by renderers: [ToPDF] and [ToPNG] convert SVG with the
// external rsvg-convert tool (from librsvg).
//
//	dot := gridviz.ToDOT(l, gridviz.Options{})
//	svg, err := gridviz.RenderSVG(ctx, dot)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// [gridviz]: github.com/matzehuels/tickergrid/pkg/render/gridviz
package render
