// Package layout implements the dashboard layout engine.
//
// # Overview
//
// A [Layout] is a list of [Item] rectangles placed on a 12-column grid. The
// package owns the canonical [Defaults] template and the pure transformations
// that keep a user's saved arrangement usable as the template evolves:
//
//   - [Merge]: reconcile a saved layout with the current template, inserting
//     newly introduced panels by vertical displacement
//   - [Stabilize]: merge, then fall back to the template when the anchor row
//     (watchlist, chart, calendar) is broken
//   - [Partition] and [Reassemble]: split the canonical layout into sections
//     and patch one section back in
//   - [NormalizeRows]: close vertical gaps inside a section
//   - [CompactRows]: close horizontal gaps row by row
//   - [Derive]: build the lg, md and sm breakpoint variants of a section
//   - [Migrate]: bring a layout stored under an older schema version up to date
//
// # Purity
//
// Every function in this package is synchronous and allocation-based: inputs
// are never mutated, results are fresh slices. The functions are total over
// their inputs; malformed or stale data is absorbed (missing ids inserted,
// broken layouts reset) rather than reported as errors.
//
// # Example
//
//	saved := loadFromDisk()
//	canonical := layout.Stabilize(saved, layout.Defaults())
//	for _, sec := range layout.Partition(canonical) {
//	    views := layout.Derive(sec.Items)
//	    render(sec.Name, views.LG, views.MD, views.SM)
//	}
package layout
