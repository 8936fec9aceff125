// Package pkg provides the core libraries for tickergrid, the layout engine
// behind a stock market dashboard.
//
// # Overview
//
// A dashboard is a grid of panels (market summary, watchlist, chart, news and
// so on) arranged in a 12-column canonical layout. Users move and resize
// panels; tickergrid keeps what they saved, fills in panels added by newer
// releases, and falls back to the defaults when a saved layout leaves the
// core workspace unusable. The pkg directory is organized as:
//
//  1. [panel] - The panel catalog and its sections
//  2. [layout] - Merge, health check, compaction, sections and breakpoints
//  3. [store] - The in-memory canonical layout with change notification
//  4. [state], [persist] - Durable documents and debounced writes
//  5. [workspace] - Per-session settings and layouts over a backend
//  6. [api] - The HTTP surface
//  7. [render] - Graphviz diagrams of a layout
//
// # Architecture
//
// The data flow for a saved layout:
//
//	backend (file, redis, mongo, sqlite)
//	         ↓
//	    [state] document (layouts + layoutVersion + settings)
//	         ↓
//	    [layout.Migrate] (merge with the template, health check)
//	         ↓
//	    [store] canonical layout → [layout.Partition] → [layout.Derive]
//	         ↓
//	    section views for lg, md and sm grids
//
// Changes flow back through [store] subscribers into a [persist.Debouncer],
// which writes the latest snapshot after a quiet period.
//
// # Quick Start
//
// Serve workspaces from an in-memory backend:
//
//	mgr := workspace.NewManager(state.NewMemoryBackend(), nil)
//	defer mgr.Close(ctx)
//	http.ListenAndServe(":8080", api.NewServer(mgr).Routes())
//
// Reconcile a stored layout without any persistence:
//
//	current, m := layout.Migrate(stored, storedVersion)
//	if m.Reset {
//	    log.Printf("layout reset: %v", m.Reason)
//	}
//
// [panel]: https://pkg.go.dev/github.com/matzehuels/tickergrid/pkg/panel
// [layout]: https://pkg.go.dev/github.com/matzehuels/tickergrid/pkg/layout
// [layout.Migrate]: https://pkg.go.dev/github.com/matzehuels/tickergrid/pkg/layout#Migrate
// [layout.Partition]: https://pkg.go.dev/github.com/matzehuels/tickergrid/pkg/layout#Partition
// [layout.Derive]: https://pkg.go.dev/github.com/matzehuels/tickergrid/pkg/layout#Derive
// [store]: https://pkg.go.dev/github.com/matzehuels/tickergrid/pkg/store
// [state]: https://pkg.go.dev/github.com/matzehuels/tickergrid/pkg/state
// [persist]: https://pkg.go.dev/github.com/matzehuels/tickergrid/pkg/persist
// [persist.Debouncer]: https://pkg.go.dev/github.com/matzehuels/tickergrid/pkg/persist#Debouncer
// [workspace]: https://pkg.go.dev/github.com/matzehuels/tickergrid/pkg/workspace
// [api]: https://pkg.go.dev/github.com/matzehuels/tickergrid/pkg/api
// [render]: https://pkg.go.dev/github.com/matzehuels/tickergrid/pkg/render
package pkg
