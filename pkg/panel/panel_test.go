package panel

import "testing"

func TestCatalogComplete(t *testing.T) {
	all := All()
	if got, want := len(all), len(catalog); got != want {
		t.Fatalf("len(All()) = %d, want %d", got, want)
	}
	seen := make(map[ID]bool)
	for _, id := range all {
		if seen[id] {
			t.Errorf("duplicate id %q in catalog order", id)
		}
		seen[id] = true
		if _, ok := SectionOf(id); !ok {
			t.Errorf("SectionOf(%q) not found", id)
		}
	}
}

func TestKnownAndParse(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"chart", true},
		{"market", true},
		{"earnings", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			id, ok := Parse(tt.in)
			if ok != tt.want {
				t.Errorf("Parse(%q) ok = %v, want %v", tt.in, ok, tt.want)
			}
			if string(id) != tt.in {
				t.Errorf("Parse(%q) id = %q", tt.in, id)
			}
			if Known(id) != tt.want {
				t.Errorf("Known(%q) = %v, want %v", tt.in, Known(id), tt.want)
			}
		})
	}
}

func TestSectionsPartitionCatalog(t *testing.T) {
	total := 0
	for _, s := range Sections() {
		ids := s.IDs()
		if len(ids) == 0 {
			t.Errorf("section %q has no panels", s)
		}
		for _, id := range ids {
			got, _ := SectionOf(id)
			if got != s {
				t.Errorf("SectionOf(%q) = %q, want %q", id, got, s)
			}
		}
		total += len(ids)
	}
	if total != len(All()) {
		t.Errorf("sections cover %d ids, want %d", total, len(All()))
	}
}

func TestAnchorsShareSection(t *testing.T) {
	for _, id := range Anchors() {
		s, _ := SectionOf(id)
		if s != SectionWatchlist {
			t.Errorf("anchor %q in section %q, want %q", id, s, SectionWatchlist)
		}
	}
}

func TestFullWidthIDs(t *testing.T) {
	fw := FullWidthIDs()
	for _, id := range []ID{Market, Intelligence, Sector} {
		if !fw[id] || !FullWidth(id) {
			t.Errorf("%q should be full width", id)
		}
	}
	if FullWidth(Chart) {
		t.Error("chart should not be full width")
	}
}

func TestParseSection(t *testing.T) {
	if s, ok := ParseSection("workbench"); !ok || s != SectionWorkbench {
		t.Errorf("ParseSection(workbench) = %q, %v", s, ok)
	}
	if _, ok := ParseSection("sidebar"); ok {
		t.Error("ParseSection(sidebar) should fail")
	}
	if got := SectionWorkbench.Title(); got != "Symbol Workbench" {
		t.Errorf("Title() = %q, want %q", got, "Symbol Workbench")
	}
}
