package layout

import "github.com/matzehuels/tickergrid/pkg/panel"

// CompactRows removes horizontal gaps row by row without changing which row
// an item belongs to.
//
// A row holding a single full-width item spans the whole grid. In any other
// row the rightmost item absorbs slack when the row is short; when the row is
// too wide, items are narrowed right to left (never below one column) until it
// fits. X positions are then reassigned left to right as a running sum, so
// items tile the row with no gap and no overlap. The result keeps the input
// order.
//
// A row with more items than totalCols cannot fit; its items end up one
// column wide and the row overflows.
func CompactRows(items Layout, fullWidth map[panel.ID]bool, totalCols int) Layout {
	out := items.Clone()
	if totalCols <= 0 {
		return out
	}

	for _, r := range groupRows(out) {
		if len(r.idx) == 1 && fullWidth[out[r.idx[0]].ID] {
			it := &out[r.idx[0]]
			it.X, it.W = 0, totalCols
			continue
		}

		total := 0
		for _, i := range r.idx {
			if out[i].W < 1 {
				out[i].W = 1
			}
			total += out[i].W
		}

		switch {
		case total < totalCols:
			out[r.idx[len(r.idx)-1]].W += totalCols - total
		case total > totalCols:
			excess := total - totalCols
			for k := len(r.idx) - 1; k >= 0 && excess > 0; k-- {
				it := &out[r.idx[k]]
				cut := min(it.W-1, excess)
				it.W -= cut
				excess -= cut
			}
		}

		x := 0
		for _, i := range r.idx {
			out[i].X = x
			x += out[i].W
		}
	}
	return out
}

// NormalizeRows closes vertical gaps: rows are renumbered from 0 and each row
// starts right below the previous one, whose height is that of its tallest
// item. Items sharing a Y stay together. The result keeps the input order.
func NormalizeRows(items Layout) Layout {
	out := items.Clone()
	cursor := 0
	for _, r := range groupRows(out) {
		height := 0
		for _, i := range r.idx {
			out[i].Y = cursor
			height = max(height, out[i].H)
		}
		cursor += height
	}
	return out
}
