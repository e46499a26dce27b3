// Package stats holds pure aggregation over tracker snapshots plus the sqlite
// projection of per-domain totals.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/tabwarden/tabwarden/internal/tracker"
)

// DomainStat is one row of the popup's top-domains list.
type DomainStat struct {
	Domain    string    `json:"domain"`
	TotalTime int64     `json:"totalTime"` // milliseconds
	Sessions  int       `json:"sessions"`
	LastSeen  time.Time `json:"lastSeen,omitzero"`
}

// Aggregate folds tab sessions into per-domain totals. Domains are emitted in
// first-seen order so ties stay stable through sorting. Records without a
// domain (unparseable URLs) are skipped.
func Aggregate(tabs tracker.TabData) []DomainStat {
	index := make(map[string]int)
	var out []DomainStat

	// Iterate tabs in ascending id order for deterministic first-seen order.
	ids := make([]int, 0, len(tabs))
	for id := range tabs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		tab := tabs[id]
		if tab.Domain == "" {
			continue
		}
		i, ok := index[tab.Domain]
		if !ok {
			i = len(out)
			index[tab.Domain] = i
			out = append(out, DomainStat{Domain: tab.Domain})
		}
		out[i].TotalTime += tab.TotalTime
		out[i].Sessions += len(tab.Sessions)
		if last := tab.LastSeen(); last.After(out[i].LastSeen) {
			out[i].LastSeen = last
		}
	}
	return out
}

// TopDomains returns the n highest-total domains, sorted strictly descending
// by total time. Ties retain their input order. n <= 0 means the default 10.
func TopDomains(tabs tracker.TabData, n int) []DomainStat {
	if n <= 0 {
		n = 10
	}
	agg := Aggregate(tabs)
	sort.SliceStable(agg, func(i, j int) bool {
		return agg[i].TotalTime > agg[j].TotalTime
	})
	if len(agg) > n {
		agg = agg[:n]
	}
	return agg
}

// FormatDuration formats milliseconds into a human-readable string.
func FormatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
