// Package gridviz renders dashboard layouts as Graphviz diagrams.
//
// # Overview
//
// Each panel becomes a fixed-size box pinned at its grid position, so the
// picture is a to-scale wireframe of the dashboard. The graph uses the neato
// engine with pinned positions; no edges are drawn and Graphviz never moves
// a box.
//
// # Usage
//
//	dot := gridviz.ToDOT(l, gridviz.Options{Title: "lg", Detailed: true})
//	svg, err := gridviz.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use [RenderPDF] and [RenderPNG], which convert the
// SVG with rsvg-convert.
//
// # Styling
//
// Full-width panels are shaded, anchor panels (watchlist, chart, calendar)
// get a bold outline, and ids outside the panel catalog are drawn dashed.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package gridviz
