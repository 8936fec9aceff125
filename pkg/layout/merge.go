package layout

import "github.com/matzehuels/tickergrid/pkg/panel"

// MergeStats records what [MergeReport] changed.
type MergeStats struct {
	// Inserted lists template ids that were missing from the input.
	Inserted []panel.ID
	// Dropped lists input ids that are not part of the template.
	Dropped []panel.ID
	// Duplicates counts input items discarded because their id repeated.
	Duplicates int
}

// Merge reconciles incoming with the defaults template. The result holds
// every default id exactly once, in template order, using incoming's geometry
// where available. See [MergeReport].
func Merge(incoming, defaults Layout) Layout {
	out, _ := MergeReport(incoming, defaults)
	return out
}

// MergeReport is [Merge] with statistics.
//
// Incoming items are de-duplicated by id, first occurrence wins. Each default
// item whose id is missing is inserted by displacement: every item already in
// the working set with Y >= fallback.Y moves down by fallback.H, then the
// fallback is added at its template position. The output follows template
// order, so ids no longer in the template are dropped.
//
// Displacement can leave vertical gaps when several panels are inserted at
// low rows. That is accepted; [Stabilize] is the safety net.
func MergeReport(incoming, defaults Layout) (Layout, MergeStats) {
	var stats MergeStats
	if len(incoming) == 0 {
		return defaults.Clone(), MergeStats{Inserted: defaults.IDs()}
	}

	work := make(Layout, 0, len(incoming)+len(defaults))
	pos := make(map[panel.ID]int, len(incoming)+len(defaults))
	for _, it := range incoming {
		if _, dup := pos[it.ID]; dup {
			stats.Duplicates++
			continue
		}
		pos[it.ID] = len(work)
		work = append(work, it)
	}

	inTemplate := make(map[panel.ID]bool, len(defaults))
	for _, fallback := range defaults {
		inTemplate[fallback.ID] = true
		if _, ok := pos[fallback.ID]; ok {
			continue
		}
		for i := range work {
			if work[i].Y >= fallback.Y {
				work[i].Y += fallback.H
			}
		}
		pos[fallback.ID] = len(work)
		work = append(work, fallback)
		stats.Inserted = append(stats.Inserted, fallback.ID)
	}

	for _, it := range work {
		if !inTemplate[it.ID] {
			stats.Dropped = append(stats.Dropped, it.ID)
		}
	}

	out := make(Layout, 0, len(defaults))
	for _, d := range defaults {
		if _, done := findIn(out, d.ID); done {
			continue
		}
		out = append(out, work[pos[d.ID]])
	}
	return out, stats
}

func findIn(l Layout, id panel.ID) (int, bool) {
	for i, it := range l {
		if it.ID == id {
			return i, true
		}
	}
	return -1, false
}
