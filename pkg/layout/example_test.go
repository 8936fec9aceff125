package layout_test

import (
	"fmt"

	"github.com/matzehuels/tickergrid/pkg/layout"
	"github.com/matzehuels/tickergrid/pkg/panel"
)

func ExampleStabilize() {
	stored := layout.Layout{
		{ID: panel.Watchlist, X: 0, Y: 0, W: 4, H: 8},
		{ID: panel.Chart, X: 4, Y: 0, W: 5, H: 8},
		{ID: panel.Calendar, X: 9, Y: 0, W: 3, H: 8},
	}
	out := layout.Stabilize(stored, layout.Defaults())
	for _, it := range out[:5] {
		fmt.Println(it)
	}
	// Output:
	// market(0,0 12x4)
	// intelligence(0,4 12x6)
	// watchlist(0,10 4x8)
	// chart(4,10 5x8)
	// calendar(9,10 3x8)
}

func ExampleDeriveSmall() {
	sec, _ := layout.FindSection(layout.Partition(layout.Defaults()), panel.SectionWatchlist)
	for _, it := range layout.DeriveSmall(sec.Items) {
		fmt.Println(it)
	}
	// Output:
	// watchlist(0,0 6x6)
	// chart(0,6 6x8)
	// calendar(0,14 6x6)
}

func ExampleMigrate() {
	_, m := layout.Migrate(nil, 0)
	fmt.Println(m.Reset, m.To)
	// Output: true 5
}
