// Package heatmap samples cursor positions reported by the extension into
// bounded per-domain buffers and renders them as colored grids.
package heatmap

import "time"

const (
	// MoveWeight and ClickWeight are the point weights for sampled movement
	// and recorded clicks.
	MoveWeight  = 1.0
	ClickWeight = 3.0

	// DefaultMaxPoints caps each domain's buffer.
	DefaultMaxPoints = 1000
	// DefaultRetention drops points older than this on load.
	DefaultRetention = 24 * time.Hour
)

// Viewport is the page viewport a point was sampled in. Coordinates are
// normalized against it when bucketing.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Point is one sampled cursor position.
type Point struct {
	X         int       `json:"x"`
	Y         int       `json:"y"`
	Timestamp time.Time `json:"timestamp"`
	Weight    float64   `json:"weight"`
	Domain    string    `json:"domain"`
	URL       string    `json:"url"`
	Viewport  Viewport  `json:"viewport"`
}

// PointStore is the slice of the storage gateway the sampler needs.
type PointStore interface {
	SaveHeatmap(domain string, points []Point) error
	LoadHeatmap() (map[string][]Point, error)
}

// Prune drops points older than the retention window and trims the slice to
// the most recent max entries. Input order (oldest first) is preserved.
func Prune(points []Point, max int, retention time.Duration, now time.Time) []Point {
	if max <= 0 {
		max = DefaultMaxPoints
	}
	cutoff := now.Add(-retention)
	kept := points[:0]
	for _, p := range points {
		if retention > 0 && p.Timestamp.Before(cutoff) {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) > max {
		kept = kept[len(kept)-max:]
	}
	return kept
}
