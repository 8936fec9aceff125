package panel

import "testing"

func TestSuggest(t *testing.T) {
	tests := []struct {
		in     string
		want   ID
		wantOK bool
	}{
		{"chrat", Chart, true},
		{"Watchlst", Watchlist, true},
		{"calender", Calendar, true},
		{"screner", Screener, true},
		{"chart", Chart, true},
		{"earnings", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Suggest(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Suggest(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSuggestSection(t *testing.T) {
	if got, ok := SuggestSection("workbnch"); !ok || got != SectionWorkbench {
		t.Errorf("SuggestSection(workbnch) = %q, %v, want workbench", got, ok)
	}
	if _, ok := SuggestSection("sidebar"); ok {
		t.Error("SuggestSection(sidebar) ok = true, want false")
	}
}

func TestClosest(t *testing.T) {
	candidates := []string{"lg", "md", "sm"}
	if got, ok := Closest("mdd", candidates); !ok || got != "md" {
		t.Errorf("Closest(mdd) = %q, %v, want md", got, ok)
	}
	if _, ok := Closest("xxxxxx", candidates); ok {
		t.Error("Closest(xxxxxx) ok = true, want false")
	}
}
