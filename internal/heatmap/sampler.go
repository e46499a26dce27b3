package heatmap

import (
	"context"
	"log"
	"sync"
	"time"
)

// Options tunes the sampler. Zero values fall back to sane defaults.
type Options struct {
	SampleInterval time.Duration
	FlushInterval  time.Duration
	MaxPoints      int
	Retention      time.Duration
}

func (o *Options) setDefault() {
	if o.SampleInterval <= 0 {
		o.SampleInterval = 250 * time.Millisecond
	}
	if o.FlushInterval <= 0 {
		o.FlushInterval = 10 * time.Second
	}
	if o.MaxPoints <= 0 {
		o.MaxPoints = DefaultMaxPoints
	}
	if o.Retention <= 0 {
		o.Retention = DefaultRetention
	}
}

// Sampler keeps the last-known pointer position updated by move/click/scroll
// events and samples it into a bounded per-domain buffer on a fixed interval.
// Visibility changes pause and resume the sampling tick, not the listeners.
type Sampler struct {
	mu      sync.Mutex
	store   PointStore
	opts    Options
	buf     map[string][]Point
	last    Point
	hasPos  bool
	visible bool
	now     func() time.Time
}

// NewSampler loads previously stored points, pruned to the retention window
// and buffer cap.
func NewSampler(store PointStore, opts Options) (*Sampler, error) {
	opts.setDefault()
	s := &Sampler{
		store:   store,
		opts:    opts,
		buf:     make(map[string][]Point),
		visible: true,
		now:     time.Now,
	}

	loaded, err := store.LoadHeatmap()
	if err != nil {
		return nil, err
	}
	now := s.now()
	for domain, points := range loaded {
		pruned := Prune(points, opts.MaxPoints, opts.Retention, now)
		if len(pruned) > 0 {
			s.buf[domain] = pruned
		}
	}
	return s, nil
}

// Run drives the sample and flush tickers until the context is cancelled,
// flushing one final time at teardown.
func (s *Sampler) Run(ctx context.Context) error {
	sample := time.NewTicker(s.opts.SampleInterval)
	defer sample.Stop()
	flush := time.NewTicker(s.opts.FlushInterval)
	defer flush.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Flush()
			return nil
		case <-sample.C:
			s.sample()
		case <-flush.C:
			s.Flush()
		}
	}
}

// RecordMove updates the last-known pointer position.
func (s *Sampler) RecordMove(x, y int, domain, url string, vp Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setPosLocked(x, y, domain, url, vp)
}

// RecordScroll behaves like a move: the pointer is where it was, but the event
// keeps the position fresh.
func (s *Sampler) RecordScroll(x, y int, domain, url string, vp Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setPosLocked(x, y, domain, url, vp)
}

// RecordClick records immediately with elevated weight, bypassing the sample
// tick.
func (s *Sampler) RecordClick(x, y int, domain, url string, vp Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setPosLocked(x, y, domain, url, vp)

	p := s.last
	p.Weight = ClickWeight
	p.Timestamp = s.now()
	s.appendLocked(p)
}

// SetVisible pauses or resumes sampling. Listeners keep running either way.
func (s *Sampler) SetVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = visible
}

// Merge folds externally captured points (SAVE_HEATMAP_DATA) into the buffer.
func (s *Sampler) Merge(data map[string][]Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for domain, points := range data {
		if domain == "" {
			continue
		}
		merged := append(s.buf[domain], points...)
		s.buf[domain] = Prune(merged, s.opts.MaxPoints, s.opts.Retention, s.now())
	}
}

// Data returns a deep copy of the buffered points.
func (s *Sampler) Data() map[string][]Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]Point, len(s.buf))
	for domain, points := range s.buf {
		cp := make([]Point, len(points))
		copy(cp, points)
		out[domain] = cp
	}
	return out
}

// Clear drops every buffered point and deletes the persisted copies, so a
// restart cannot resurrect cleared data.
func (s *Sampler) Clear() {
	s.mu.Lock()
	domains := make(map[string]struct{}, len(s.buf))
	for domain := range s.buf {
		domains[domain] = struct{}{}
	}
	s.buf = make(map[string][]Point)
	s.mu.Unlock()

	// stored domains the load-time prune dropped from the buffer still
	// hold stale points
	if stored, err := s.store.LoadHeatmap(); err == nil {
		for domain := range stored {
			domains[domain] = struct{}{}
		}
	} else {
		log.Println("Failed to list stored heatmap domains:", err)
	}

	for domain := range domains {
		if err := s.store.SaveHeatmap(domain, nil); err != nil {
			log.Printf("Failed to clear heatmap for %s: %v", domain, err)
		}
	}
}

// Flush persists each domain's buffer. Write failures are logged and the
// points stay buffered for the next attempt.
func (s *Sampler) Flush() {
	for domain, points := range s.Data() {
		if err := s.store.SaveHeatmap(domain, points); err != nil {
			log.Printf("Failed to flush heatmap for %s: %v", domain, err)
		}
	}
}

func (s *Sampler) sample() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.visible || !s.hasPos {
		return
	}
	p := s.last
	p.Weight = MoveWeight
	p.Timestamp = s.now()
	s.appendLocked(p)
}

func (s *Sampler) setPosLocked(x, y int, domain, url string, vp Viewport) {
	s.last = Point{X: x, Y: y, Domain: domain, URL: url, Viewport: vp}
	s.hasPos = domain != ""
}

func (s *Sampler) appendLocked(p Point) {
	if p.Domain == "" {
		return
	}
	buf := append(s.buf[p.Domain], p)
	if len(buf) > s.opts.MaxPoints {
		buf = buf[len(buf)-s.opts.MaxPoints:]
	}
	s.buf[p.Domain] = buf
}
