package gridviz

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/tickergrid/pkg/layout"
	"github.com/matzehuels/tickergrid/pkg/panel"
)

func TestToDOT(t *testing.T) {
	l := layout.Layout{
		{ID: panel.Market, X: 0, Y: 0, W: 12, H: 4},
		{ID: panel.Chart, X: 3, Y: 10, W: 6, H: 10},
		{ID: "earnings", X: 0, Y: 20, W: 4, H: 8},
		{ID: panel.News, X: 4, Y: 20, W: 8, H: 8},
	}
	dot := ToDOT(l, Options{Title: "lg"})

	tests := []struct {
		name string
		want string
	}{
		{"engine", "layout=neato;"},
		{"title", `label="lg";`},
		{"pinned chart", `"chart" [label="chart", pos="6.00,-3.75!", width=5.92, height=2.42, pin=true, penwidth=2.5];`},
		{"full width shaded", `"market" [label="market", pos="6.00,-0.50!", width=11.92, height=0.92, pin=true, fillcolor=lightsteelblue];`},
		{"unknown dashed", `style="rounded,filled,dashed"`},
		{"plain panel", `"news" [label="news", pos="8.00,-6.00!", width=7.92, height=1.92, pin=true];`},
	}
	for _, tt := range tests {
		if !strings.Contains(dot, tt.want) {
			t.Errorf("%s: DOT missing %q\n%s", tt.name, tt.want, dot)
		}
	}
	if strings.Contains(dot, "->") || strings.Contains(dot, "--") {
		t.Error("DOT should not contain edges")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(layout.Layout{{ID: panel.Calendar, X: 9, Y: 10, W: 3, H: 10}}, Options{Detailed: true, ColWidth: 2, RowHeight: 0.5})
	if !strings.Contains(dot, `label="Event Calendar\n9,10 3x10"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `pos="21.00,-7.50!"`) {
		t.Errorf("scaled position missing:\n%s", dot)
	}
}

func TestToDOT_Empty(t *testing.T) {
	dot := ToDOT(nil, Options{})
	if !strings.HasPrefix(dot, "graph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("ToDOT(nil) = %q", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(layout.Defaults(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)) {
		t.Errorf("svg tag not normalized: %.200s", svg)
	}
	for _, id := range panel.All() {
		if !bytes.Contains(svg, []byte(">"+string(id)+"<")) {
			t.Errorf("svg missing label %q", id)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.40 200.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.40 200.00" width="100" height="200"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
	if plain := []byte("<svg><g/></svg>"); !bytes.Equal(normalizeViewBox(plain), plain) {
		t.Error("svg without viewBox changed")
	}
}
