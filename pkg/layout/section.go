package layout

import "github.com/matzehuels/tickergrid/pkg/panel"

// Section is the part of a canonical layout assigned to one panel section.
type Section struct {
	Name panel.Section
	// IDs lists the catalog ids assigned to the section, whether or not
	// they are present in the layout.
	IDs []panel.ID
	// Offset is the smallest canonical Y of the section's items.
	Offset int
	// Items holds the section's items with rows normalized to start at 0.
	Items Layout
}

// Height returns the number of rows the section occupies.
func (s Section) Height() int { return s.Items.Height() }

// SectionIDs returns the catalog ids assigned to name.
func SectionIDs(name panel.Section) []panel.ID {
	return name.IDs()
}

// Partition splits a canonical layout into sections, in section render
// order. Each section keeps the items' relative order from full and has its
// rows normalized with [NormalizeRows]. Sections without items and items whose
// id is not in the catalog are left out.
func Partition(full Layout) []Section {
	buckets := make(map[panel.Section]Layout)
	offsets := make(map[panel.Section]int)
	for _, it := range full {
		name, ok := panel.SectionOf(it.ID)
		if !ok {
			continue
		}
		if off, seen := offsets[name]; !seen || it.Y < off {
			offsets[name] = it.Y
		}
		buckets[name] = append(buckets[name], it)
	}

	var out []Section
	for _, name := range panel.Sections() {
		items, ok := buckets[name]
		if !ok {
			continue
		}
		out = append(out, Section{
			Name:   name,
			IDs:    name.IDs(),
			Offset: offsets[name],
			Items:  NormalizeRows(items),
		})
	}
	return out
}

// FindSection returns the section with the given name.
func FindSection(sections []Section, name panel.Section) (Section, bool) {
	for _, s := range sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// Replace returns a copy of full where every item whose id is in ids is
// replaced by the patch item with the same id. Patch items for ids outside
// ids, or absent from full, are ignored.
func Replace(full Layout, ids []panel.ID, patch Layout) Layout {
	allowed := make(map[panel.ID]bool, len(ids))
	for _, id := range ids {
		allowed[id] = true
	}
	byID := make(map[panel.ID]Item, len(patch))
	for _, it := range patch {
		if _, dup := byID[it.ID]; !dup && allowed[it.ID] {
			byID[it.ID] = it
		}
	}

	out := full.Clone()
	for i, it := range out {
		if p, ok := byID[it.ID]; ok {
			out[i] = p
		}
	}
	return out
}

// Reassemble merges a changed section back into the canonical layout.
//
// The patch is in section-local coordinates, as produced by [Partition] and
// edited by the grid widget. Items of full whose id is in ids are replaced by
// id; then every section is stacked in render order, each starting right
// below the one above it. Partitioning a section-stacked layout and
// reassembling an unmodified section reproduces it exactly.
//
// Items of full whose id is not in the catalog are kept after the stacked
// sections, unchanged.
func Reassemble(full Layout, ids []panel.ID, patch Layout) Layout {
	sections := Partition(full)

	placed := make(map[panel.ID]Item, len(full))
	cursor := 0
	for _, sec := range sections {
		items := NormalizeRows(Replace(sec.Items, ids, patch))
		for _, it := range items {
			it.Y += cursor
			placed[it.ID] = it
		}
		cursor += items.Height()
	}

	out := make(Layout, 0, len(full))
	var unknown Layout
	for _, it := range full {
		if p, ok := placed[it.ID]; ok {
			out = append(out, p)
			delete(placed, it.ID)
			continue
		}
		if !panel.Known(it.ID) {
			unknown = append(unknown, it)
		}
	}
	return append(out, unknown...)
}
