package layout

import (
	"errors"
	"fmt"

	"github.com/matzehuels/tickergrid/pkg/panel"
)

const (
	// MinAnchorWidth is the narrowest an anchor panel may be.
	MinAnchorWidth = 2

	// MinAnchorRowCols is the minimum combined width of the anchor row.
	MinAnchorRowCols = 10
)

// Health check failures returned by [Diagnose].
var (
	ErrAnchorMissing   = errors.New("anchor panel missing")
	ErrAnchorTooNarrow = errors.New("anchor panel too narrow")
	ErrAnchorsSplit    = errors.New("anchor panels not on one row")
	ErrAnchorRowNarrow = errors.New("anchor row too narrow")
)

// Result describes the outcome of [StabilizeReport].
type Result struct {
	Merge MergeStats
	// Reset is true when the merged layout failed the health check and the
	// defaults were returned instead.
	Reset bool
	// Reason is the health check failure that caused a reset.
	Reason error
}

// Stabilize merges incoming with defaults and returns the merge if the core
// workspace is usable, or a fresh copy of defaults otherwise.
func Stabilize(incoming, defaults Layout) Layout {
	out, _ := StabilizeReport(incoming, defaults)
	return out
}

// StabilizeReport is [Stabilize] with a description of what happened.
func StabilizeReport(incoming, defaults Layout) (Layout, Result) {
	merged, stats := MergeReport(incoming, defaults)
	res := Result{Merge: stats}
	if err := Diagnose(merged); err != nil {
		res.Reset = true
		res.Reason = err
		return defaults.Clone(), res
	}
	return merged, res
}

// Healthy reports whether l passes the anchor health check.
func Healthy(l Layout) bool {
	return Diagnose(l) == nil
}

// Diagnose runs the anchor health check: every anchor present and at least
// MinAnchorWidth wide, all anchors on the same row, and the anchors together
// covering at least MinAnchorRowCols columns. It returns nil for a healthy
// layout.
func Diagnose(l Layout) error {
	anchors := panel.Anchors()
	y := -1
	total := 0
	for i, id := range anchors {
		it, ok := l.Find(id)
		if !ok {
			return fmt.Errorf("%w: %s", ErrAnchorMissing, id)
		}
		if it.W < MinAnchorWidth {
			return fmt.Errorf("%w: %s is %d wide", ErrAnchorTooNarrow, id, it.W)
		}
		if i == 0 {
			y = it.Y
		} else if it.Y != y {
			return fmt.Errorf("%w: %s at row %d, %s at row %d", ErrAnchorsSplit, anchors[0], y, id, it.Y)
		}
		total += it.W
	}
	if total < MinAnchorRowCols {
		return fmt.Errorf("%w: %d of %d columns", ErrAnchorRowNarrow, total, MinAnchorRowCols)
	}
	return nil
}
