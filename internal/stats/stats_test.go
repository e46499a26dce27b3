package stats

import (
	"testing"
	"time"

	"github.com/tabwarden/tabwarden/internal/tracker"
)

func makeTab(domain string, totalMS int64, slices int) *tracker.TabSession {
	tab := &tracker.TabSession{
		URL:       "https://" + domain,
		Domain:    domain,
		TotalTime: totalMS,
	}
	for i := 0; i < slices; i++ {
		tab.Sessions = append(tab.Sessions, tracker.SessionSlice{
			Start:    time.Date(2026, 3, 1, 10, i, 0, 0, time.UTC),
			End:      time.Date(2026, 3, 1, 10, i, 30, 0, time.UTC),
			Duration: totalMS / int64(slices),
		})
	}
	return tab
}

func TestAggregate_MergesSameDomain(t *testing.T) {
	tabs := tracker.TabData{
		1: makeTab("a.com", 4000, 2),
		2: makeTab("b.com", 1000, 1),
		3: makeTab("a.com", 6000, 1),
	}

	agg := Aggregate(tabs)
	if len(agg) != 2 {
		t.Fatalf("expected 2 domains, got %d", len(agg))
	}

	byDomain := map[string]DomainStat{}
	for _, d := range agg {
		byDomain[d.Domain] = d
	}
	if byDomain["a.com"].TotalTime != 10000 {
		t.Errorf("a.com total = %d, want 10000", byDomain["a.com"].TotalTime)
	}
	if byDomain["a.com"].Sessions != 3 {
		t.Errorf("a.com sessions = %d, want 3", byDomain["a.com"].Sessions)
	}
	if byDomain["b.com"].TotalTime != 1000 {
		t.Errorf("b.com total = %d, want 1000", byDomain["b.com"].TotalTime)
	}
}

func TestAggregate_SkipsEmptyDomain(t *testing.T) {
	tabs := tracker.TabData{
		1: {URL: "", Domain: "", TotalTime: 5000},
		2: makeTab("a.com", 1000, 1),
	}
	agg := Aggregate(tabs)
	if len(agg) != 1 || agg[0].Domain != "a.com" {
		t.Errorf("expected only a.com, got %+v", agg)
	}
}

func TestTopDomains_SortsDescending(t *testing.T) {
	tabs := tracker.TabData{
		1: makeTab("low.com", 100, 1),
		2: makeTab("high.com", 9000, 1),
		3: makeTab("mid.com", 500, 1),
	}

	top := TopDomains(tabs, 10)
	want := []string{"high.com", "mid.com", "low.com"}
	for i, domain := range want {
		if top[i].Domain != domain {
			t.Errorf("top[%d] = %s, want %s", i, top[i].Domain, domain)
		}
	}
	for i := 1; i < len(top); i++ {
		if top[i].TotalTime > top[i-1].TotalTime {
			t.Errorf("not sorted descending at %d", i)
		}
	}
}

func TestTopDomains_TiesKeepInputOrder(t *testing.T) {
	// Equal totals: first-seen order (ascending tab id) must survive the sort.
	tabs := tracker.TabData{
		1: makeTab("first.com", 1000, 1),
		2: makeTab("second.com", 1000, 1),
		3: makeTab("third.com", 1000, 1),
	}
	top := TopDomains(tabs, 10)
	want := []string{"first.com", "second.com", "third.com"}
	for i, domain := range want {
		if top[i].Domain != domain {
			t.Errorf("top[%d] = %s, want %s (stable tie order)", i, top[i].Domain, domain)
		}
	}
}

func TestTopDomains_Limit(t *testing.T) {
	tabs := tracker.TabData{}
	for i := 0; i < 15; i++ {
		tabs[i] = makeTab(string(rune('a'+i))+".com", int64(1000*(15-i)), 1)
	}

	if got := len(TopDomains(tabs, 10)); got != 10 {
		t.Errorf("len = %d, want 10", got)
	}
	// n <= 0 falls back to the default 10
	if got := len(TopDomains(tabs, 0)); got != 10 {
		t.Errorf("len with n=0 = %d, want 10", got)
	}
	if got := len(TopDomains(tabs, 3)); got != 3 {
		t.Errorf("len with n=3 = %d, want 3", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "0s"},
		{45_000, "45s"},
		{125_000, "2m 5s"},
		{3_725_000, "1h 2m"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.ms); got != c.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", c.ms, got, c.want)
		}
	}
}
