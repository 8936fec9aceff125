package layout

import (
	"fmt"
	"sort"

	"github.com/matzehuels/tickergrid/pkg/panel"
)

// Item places one panel on the grid. Coordinates are in grid cells with a
// top-left origin.
type Item struct {
	ID panel.ID `json:"i" yaml:"i" bson:"i"`
	X  int      `json:"x" yaml:"x" bson:"x"`
	Y  int      `json:"y" yaml:"y" bson:"y"`
	W  int      `json:"w" yaml:"w" bson:"w"`
	H  int      `json:"h" yaml:"h" bson:"h"`

	// MinW and MinH are advisory bounds for the grid widget. Zero means unset.
	MinW int `json:"minW,omitempty" yaml:"minW,omitempty" bson:"minW,omitempty"`
	MinH int `json:"minH,omitempty" yaml:"minH,omitempty" bson:"minH,omitempty"`
}

// Bottom returns the first row below the item.
func (it Item) Bottom() int { return it.Y + it.H }

// Right returns the first column right of the item.
func (it Item) Right() int { return it.X + it.W }

// String implements fmt.Stringer.
func (it Item) String() string {
	return fmt.Sprintf("%s(%d,%d %dx%d)", it.ID, it.X, it.Y, it.W, it.H)
}

// Layout is an ordered list of placements. Ids are unique within a layout
// produced by this package.
type Layout []Item

// Clone returns an independent copy of l. A nil layout clones to nil.
func (l Layout) Clone() Layout {
	if l == nil {
		return nil
	}
	out := make(Layout, len(l))
	copy(out, l)
	return out
}

// IDs returns the panel ids of l in order.
func (l Layout) IDs() []panel.ID {
	out := make([]panel.ID, len(l))
	for i, it := range l {
		out[i] = it.ID
	}
	return out
}

// Find returns the first item with the given id.
func (l Layout) Find(id panel.ID) (Item, bool) {
	for _, it := range l {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Height returns the number of rows spanned by l, measured from row 0.
func (l Layout) Height() int {
	h := 0
	for _, it := range l {
		if b := it.Bottom(); b > h {
			h = b
		}
	}
	return h
}

// Known returns the items whose id is part of the panel catalog.
func (l Layout) Known() Layout {
	out := make(Layout, 0, len(l))
	for _, it := range l {
		if panel.Known(it.ID) {
			out = append(out, it)
		}
	}
	return out
}

// Equal reports whether a and b hold the same items in the same order.
func Equal(a, b Layout) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// row is a group of items sharing a Y coordinate. idx holds the positions of
// the items in the source layout.
type row struct {
	y   int
	idx []int
}

// groupRows groups l by Y, ordered by ascending Y. Within a row, indices are
// ordered by ascending X, ties broken by id.
func groupRows(l Layout) []row {
	byY := make(map[int]*row)
	var rows []*row
	for i, it := range l {
		r, ok := byY[it.Y]
		if !ok {
			r = &row{y: it.Y}
			byY[it.Y] = r
			rows = append(rows, r)
		}
		r.idx = append(r.idx, i)
	}
	sort.Slice(rows, func(a, b int) bool { return rows[a].y < rows[b].y })

	out := make([]row, len(rows))
	for i, r := range rows {
		sort.SliceStable(r.idx, func(a, b int) bool {
			ia, ib := l[r.idx[a]], l[r.idx[b]]
			if ia.X != ib.X {
				return ia.X < ib.X
			}
			return ia.ID < ib.ID
		})
		out[i] = *r
	}
	return out
}
