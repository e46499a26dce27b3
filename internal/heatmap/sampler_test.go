package heatmap

import (
	"errors"
	"testing"
	"time"
)

type fakePointStore struct {
	saved   map[string][]Point
	loaded  map[string][]Point
	loadErr error
	saveErr error
}

func newFakePointStore() *fakePointStore {
	return &fakePointStore{saved: make(map[string][]Point)}
}

func (f *fakePointStore) SaveHeatmap(domain string, points []Point) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	// real backends delete the domain when saved with no points
	if len(points) == 0 {
		delete(f.saved, domain)
		return nil
	}
	f.saved[domain] = points
	return nil
}

func (f *fakePointStore) LoadHeatmap() (map[string][]Point, error) {
	return f.loaded, f.loadErr
}

func newTestSampler(t *testing.T, store *fakePointStore) (*Sampler, *time.Time) {
	t.Helper()
	s, err := NewSampler(store, Options{MaxPoints: 1000})
	if err != nil {
		t.Fatalf("NewSampler returned error: %v", err)
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestSampler_SampleUsesLastPosition(t *testing.T) {
	s, _ := newTestSampler(t, newFakePointStore())
	vp := Viewport{Width: 1600, Height: 900}

	s.sample() // no position yet, nothing recorded
	if len(s.Data()) != 0 {
		t.Fatalf("expected no points before any movement")
	}

	s.RecordMove(10, 20, "a.com", "https://a.com", vp)
	s.sample()
	s.sample()

	points := s.Data()["a.com"]
	if len(points) != 2 {
		t.Fatalf("expected 2 sampled points, got %d", len(points))
	}
	if points[0].X != 10 || points[0].Y != 20 {
		t.Errorf("sampled point = (%d,%d), want (10,20)", points[0].X, points[0].Y)
	}
	if points[0].Weight != MoveWeight {
		t.Errorf("sampled weight = %v, want %v", points[0].Weight, MoveWeight)
	}
}

func TestSampler_ClickRecordsImmediatelyWithWeight(t *testing.T) {
	s, _ := newTestSampler(t, newFakePointStore())
	vp := Viewport{Width: 1600, Height: 900}

	s.RecordClick(5, 5, "a.com", "https://a.com", vp)

	points := s.Data()["a.com"]
	if len(points) != 1 {
		t.Fatalf("expected click to record immediately, got %d points", len(points))
	}
	if points[0].Weight != ClickWeight {
		t.Errorf("click weight = %v, want %v", points[0].Weight, ClickWeight)
	}
}

func TestSampler_VisibilityPausesSamplingOnly(t *testing.T) {
	s, _ := newTestSampler(t, newFakePointStore())
	vp := Viewport{Width: 1600, Height: 900}

	s.RecordMove(1, 1, "a.com", "https://a.com", vp)
	s.SetVisible(false)
	s.sample()
	if len(s.Data()) != 0 {
		t.Errorf("hidden page must not sample")
	}

	// listeners stay live while hidden
	s.RecordMove(50, 60, "a.com", "https://a.com", vp)
	s.SetVisible(true)
	s.sample()

	points := s.Data()["a.com"]
	if len(points) != 1 {
		t.Fatalf("expected 1 point after resume, got %d", len(points))
	}
	if points[0].X != 50 || points[0].Y != 60 {
		t.Errorf("resume sampled stale position (%d,%d)", points[0].X, points[0].Y)
	}
}

func TestSampler_BufferNeverExceedsMax(t *testing.T) {
	store := newFakePointStore()
	s, err := NewSampler(store, Options{MaxPoints: 1000})
	if err != nil {
		t.Fatalf("NewSampler returned error: %v", err)
	}
	vp := Viewport{Width: 1600, Height: 900}

	s.RecordMove(1, 1, "a.com", "https://a.com", vp)
	for i := 0; i < 1500; i++ {
		s.sample()
	}

	if got := len(s.Data()["a.com"]); got != 1000 {
		t.Errorf("buffer length = %d, want capped at 1000", got)
	}
}

func TestNewSampler_PrunesOnLoad(t *testing.T) {
	now := time.Now()
	store := newFakePointStore()
	store.loaded = map[string][]Point{
		"a.com": {
			{X: 1, Y: 1, Timestamp: now.Add(-25 * time.Hour), Domain: "a.com"},
			{X: 2, Y: 2, Timestamp: now.Add(-time.Hour), Domain: "a.com"},
		},
		"stale.com": {
			{X: 1, Y: 1, Timestamp: now.Add(-48 * time.Hour), Domain: "stale.com"},
		},
	}

	s, err := NewSampler(store, Options{})
	if err != nil {
		t.Fatalf("NewSampler returned error: %v", err)
	}

	data := s.Data()
	if len(data["a.com"]) != 1 {
		t.Errorf("expected 1 retained point for a.com, got %d", len(data["a.com"]))
	}
	if _, ok := data["stale.com"]; ok {
		t.Errorf("fully stale domain should be dropped")
	}
}

func TestSampler_MergeAndFlush(t *testing.T) {
	store := newFakePointStore()
	s, now := newTestSampler(t, store)

	s.Merge(map[string][]Point{
		"b.com": {
			{X: 3, Y: 4, Timestamp: *now, Weight: 1, Domain: "b.com"},
		},
		"": {
			{X: 9, Y: 9, Timestamp: *now},
		},
	})

	data := s.Data()
	if len(data["b.com"]) != 1 {
		t.Fatalf("expected merged point for b.com")
	}
	if _, ok := data[""]; ok {
		t.Errorf("empty domain must not be merged")
	}

	s.Flush()
	if len(store.saved["b.com"]) != 1 {
		t.Errorf("flush should persist merged points")
	}
}

func TestSampler_FlushErrorKeepsPoints(t *testing.T) {
	store := newFakePointStore()
	store.saveErr = errors.New("storage gone")
	s, now := newTestSampler(t, store)

	s.Merge(map[string][]Point{"a.com": {{X: 1, Y: 1, Timestamp: *now, Domain: "a.com"}}})
	s.Flush()

	if len(s.Data()["a.com"]) != 1 {
		t.Errorf("points must stay buffered when the flush fails")
	}
}

func TestSampler_ClearDeletesPersistedDomains(t *testing.T) {
	now := time.Now()
	store := newFakePointStore()
	store.loaded = map[string][]Point{
		"a.com": {
			{X: 1, Y: 1, Timestamp: now.Add(-time.Hour), Domain: "a.com"},
		},
		"stale.com": {
			{X: 2, Y: 2, Timestamp: now.Add(-48 * time.Hour), Domain: "stale.com"},
		},
	}
	store.saved = map[string][]Point{
		"a.com":     store.loaded["a.com"],
		"stale.com": store.loaded["stale.com"],
	}

	s, err := NewSampler(store, Options{})
	if err != nil {
		t.Fatalf("NewSampler returned error: %v", err)
	}

	s.Clear()

	if len(s.Data()) != 0 {
		t.Errorf("buffer must be empty after Clear")
	}
	// the stored copies must go too, including domains the load-time prune
	// already dropped from the buffer
	if len(store.saved) != 0 {
		t.Fatalf("expected no persisted domains after Clear, got %d", len(store.saved))
	}

	// a flush after Clear must not resurrect anything
	s.Flush()
	if len(store.saved) != 0 {
		t.Errorf("flush after Clear re-persisted %d domains", len(store.saved))
	}
}

func TestPrune(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var points []Point
	for i := 0; i < 1200; i++ {
		points = append(points, Point{X: i, Timestamp: now.Add(-time.Minute)})
	}
	points = append([]Point{{X: -1, Timestamp: now.Add(-25 * time.Hour)}}, points...)

	pruned := Prune(points, 1000, 24*time.Hour, now)
	if len(pruned) != 1000 {
		t.Fatalf("pruned length = %d, want 1000", len(pruned))
	}
	// most recent entries survive: the tail of the input
	if pruned[len(pruned)-1].X != 1199 {
		t.Errorf("expected newest point retained, got X=%d", pruned[len(pruned)-1].X)
	}
	for _, p := range pruned {
		if p.X == -1 {
			t.Errorf("stale point survived pruning")
		}
	}
}
