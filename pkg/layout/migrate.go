package layout

import "github.com/matzehuels/tickergrid/pkg/panel"

// Migration describes how a stored layout was brought up to date.
type Migration struct {
	From int
	To   int
	// Inserted lists template ids added to the stored layout.
	Inserted []panel.ID
	// Dropped lists stored ids that are no longer in the template.
	Dropped []panel.ID
	// Reset is true when the stored layout was replaced by the defaults,
	// either because nothing was stored or because it failed the health
	// check after merging.
	Reset bool
	// Reason is the health check failure behind a reset, if any.
	Reason error
	// Downgrade is true when the stored version is newer than SchemaVersion.
	Downgrade bool
}

// Changed reports whether the migrated layout differs in content from what
// was stored.
func (m Migration) Changed() bool {
	return m.Reset || len(m.Inserted) > 0 || len(m.Dropped) > 0
}

// Migrate brings a stored layout up to the current template. It runs once at
// load time: the stored layout is stabilized against [Defaults], whatever
// its version. A missing layout yields the defaults.
func Migrate(stored Layout, fromVersion int) (Layout, Migration) {
	return MigrateTo(stored, fromVersion, Defaults())
}

// MigrateTo is [Migrate] against an explicit template.
func MigrateTo(stored Layout, fromVersion int, defaults Layout) (Layout, Migration) {
	m := Migration{From: fromVersion, To: SchemaVersion, Downgrade: fromVersion > SchemaVersion}
	if len(stored) == 0 {
		m.Reset = true
		return defaults.Clone(), m
	}

	out, res := StabilizeReport(stored, defaults)
	m.Reset = res.Reset
	m.Reason = res.Reason
	if !res.Reset {
		m.Inserted = res.Merge.Inserted
		m.Dropped = res.Merge.Dropped
	}
	return out, m
}
