package store

import (
	"sync"
	"testing"

	"github.com/matzehuels/tickergrid/pkg/layout"
	"github.com/matzehuels/tickergrid/pkg/panel"
)

func find(t *testing.T, l layout.Layout, id panel.ID) layout.Item {
	t.Helper()
	it, ok := l.Find(id)
	if !ok {
		t.Fatalf("%s missing from %v", id, l)
	}
	return it
}

func TestNew_ServesDefaultsUntilReady(t *testing.T) {
	s := New(nil)
	if s.Ready() {
		t.Error("Ready() = true before hydrate")
	}
	if s.Status() != Uninitialized {
		t.Errorf("Status() = %v, want %v", s.Status(), Uninitialized)
	}
	if !layout.Equal(s.Layouts(), layout.Defaults()) {
		t.Errorf("Layouts() = %v, want defaults", s.Layouts())
	}
}

func TestLayouts_ReturnsCopy(t *testing.T) {
	s := New(nil)
	l := s.Layouts()
	l[0].W = 1
	if s.Layouts()[0].W == 1 {
		t.Error("Layouts() aliases the store")
	}
}

func TestHydrate(t *testing.T) {
	stored := layout.Layout{
		{ID: panel.Watchlist, X: 0, Y: 0, W: 4, H: 8},
		{ID: panel.Chart, X: 4, Y: 0, W: 5, H: 8},
		{ID: panel.Calendar, X: 9, Y: 0, W: 3, H: 8},
	}
	s := New(nil)
	m := s.Hydrate(stored, 4)

	if !s.Ready() {
		t.Error("Ready() = false after hydrate")
	}
	if m.Reset {
		t.Fatalf("unexpected reset: %v", m.Reason)
	}
	if got := len(m.Inserted); got != len(layout.Defaults())-3 {
		t.Errorf("inserted %d panels, want %d", got, len(layout.Defaults())-3)
	}
	if w := find(t, s.Layouts(), panel.Watchlist).W; w != 4 {
		t.Errorf("watchlist.W = %d, want 4", w)
	}
}

func TestHydrate_EmptyUsesDefaults(t *testing.T) {
	s := New(nil)
	m := s.Hydrate(nil, 0)
	if !m.Reset {
		t.Error("Reset = false, want true")
	}
	if !s.Ready() {
		t.Error("Ready() = false after hydrate")
	}
	if !layout.Equal(s.Layouts(), layout.Defaults()) {
		t.Errorf("Layouts() = %v, want defaults", s.Layouts())
	}
}

func TestSetLayouts_Stabilizes(t *testing.T) {
	s := New(nil)

	res := s.SetLayouts(layout.Layout{
		{ID: panel.Market, X: 0, Y: 0, W: 12, H: 4},
		{ID: panel.Watchlist, X: 0, Y: 10, W: 3, H: 10},
		{ID: panel.Calendar, X: 9, Y: 10, W: 3, H: 10},
	})
	if !res.Reset {
		t.Error("Reset = false, want true")
	}
	if !layout.Equal(s.Layouts(), layout.Defaults()) {
		t.Errorf("Layouts() = %v, want defaults", s.Layouts())
	}

	custom := s.Layouts()
	for i := range custom {
		if custom[i].ID == panel.Chart {
			custom[i].H = 14
		}
	}
	res = s.SetLayouts(custom)
	if res.Reset {
		t.Fatalf("unexpected reset: %v", res.Reason)
	}
	if h := find(t, s.Layouts(), panel.Chart).H; h != 14 {
		t.Errorf("chart.H = %d, want 14", h)
	}
}

func TestResetLayouts(t *testing.T) {
	s := New(nil)
	custom := layout.Defaults()
	custom[2].W = 4
	custom[3].X, custom[3].W = 4, 5
	s.SetLayouts(custom)

	s.ResetLayouts()
	if !layout.Equal(s.Layouts(), layout.Defaults()) {
		t.Errorf("Layouts() = %v, want defaults", s.Layouts())
	}
}

func TestPersistSection(t *testing.T) {
	s := New(nil)
	s.Hydrate(layout.Defaults(), layout.SchemaVersion)

	ids := layout.SectionIDs(panel.SectionWatchlist)
	patch := layout.Layout{
		{ID: panel.Watchlist, X: 0, Y: 0, W: 2, H: 12},
		{ID: panel.Chart, X: 2, Y: 0, W: 8, H: 12},
		{ID: panel.Calendar, X: 10, Y: 0, W: 2, H: 12},
	}
	res := s.PersistSection(ids, patch)
	if res.Reset {
		t.Fatalf("unexpected reset: %v", res.Reason)
	}

	got := s.Layouts()
	chart := find(t, got, panel.Chart)
	if chart.Y != 10 || chart.W != 8 || chart.H != 12 {
		t.Errorf("chart = %v, want y10 w8 h12", chart)
	}
	if y := find(t, got, panel.Detail).Y; y != 22 {
		t.Errorf("detail.Y = %d, want 22", y)
	}
}

func TestPersistSection_BrokenSectionResets(t *testing.T) {
	s := New(nil)
	patch := layout.Layout{
		{ID: panel.Watchlist, X: 0, Y: 0, W: 1, H: 10},
		{ID: panel.Chart, X: 1, Y: 0, W: 11, H: 10},
		{ID: panel.Calendar, X: 0, Y: 10, W: 12, H: 10},
	}
	res := s.PersistSection(layout.SectionIDs(panel.SectionWatchlist), patch)
	if !res.Reset {
		t.Error("Reset = false, want true")
	}
	if !layout.Equal(s.Layouts(), layout.Defaults()) {
		t.Errorf("Layouts() = %v, want defaults", s.Layouts())
	}
}

func TestSubscribe(t *testing.T) {
	s := New(nil)

	var calls int
	var last layout.Layout
	unsubscribe := s.Subscribe(func(l layout.Layout) {
		calls++
		last = l
	})

	s.ResetLayouts()
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if !layout.Equal(last, layout.Defaults()) {
		t.Errorf("notified %v, want defaults", last)
	}

	unsubscribe()
	unsubscribe()
	s.ResetLayouts()
	if calls != 1 {
		t.Errorf("calls = %d after unsubscribe, want 1", calls)
	}
}

func TestSubscriberMayReadStore(t *testing.T) {
	s := New(nil)
	done := make(chan layout.Layout, 1)
	s.Subscribe(func(layout.Layout) {
		done <- s.Layouts()
	})
	s.ResetLayouts()
	if got := <-done; len(got) != len(layout.Defaults()) {
		t.Errorf("subscriber read %d items", len(got))
	}
}

func TestConcurrentMutations(t *testing.T) {
	s := New(nil)
	ids := layout.SectionIDs(panel.SectionWatchlist)
	sec, _ := layout.FindSection(layout.Partition(layout.Defaults()), panel.SectionWatchlist)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 3 {
			case 0:
				s.SetLayouts(layout.Defaults())
			case 1:
				s.PersistSection(ids, sec.Items)
			default:
				_ = s.Layouts()
			}
		}(i)
	}
	wg.Wait()

	if !layout.Healthy(s.Layouts()) {
		t.Errorf("layout unhealthy after concurrent writes: %v", layout.Diagnose(s.Layouts()))
	}
}

func TestSubscriberMayMutateStore(t *testing.T) {
	s := New(nil)
	ids := layout.SectionIDs(panel.SectionWatchlist)
	sec, _ := layout.FindSection(layout.Partition(layout.Defaults()), panel.SectionWatchlist)

	var calls int
	s.Subscribe(func(layout.Layout) {
		calls++
		if calls == 1 {
			s.PersistSection(ids, sec.Items)
		}
	})

	s.ResetLayouts()
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (one per mutation)", calls)
	}
}

func TestNotificationsAreSerialized(t *testing.T) {
	s := New(nil)
	ids := layout.SectionIDs(panel.SectionWatchlist)
	sec, _ := layout.FindSection(layout.Partition(layout.Defaults()), panel.SectionWatchlist)

	var (
		mu       sync.Mutex
		inFlight int
		overlap  bool
		last     layout.Layout
	)
	s.Subscribe(func(l layout.Layout) {
		mu.Lock()
		inFlight++
		if inFlight > 1 {
			overlap = true
		}
		mu.Unlock()

		mu.Lock()
		last = l
		inFlight--
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				s.SetLayouts(layout.Defaults())
			} else {
				s.PersistSection(ids, sec.Items)
			}
		}(i)
	}
	wg.Wait()

	if overlap {
		t.Error("subscriber ran concurrently with itself")
	}
	if !layout.Equal(last, s.Layouts()) {
		t.Errorf("last notification %v, want current layout %v", last, s.Layouts())
	}
}
