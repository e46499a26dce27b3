// Package engine drives the periodic flush: persist tracker state, flush the
// cursor sampler, project domain aggregates into sqlite and bump the storage
// heartbeat.
package engine

import (
	"context"
	"log"
	"time"

	"github.com/tabwarden/tabwarden/internal/stats"
	"github.com/tabwarden/tabwarden/internal/tracker"
)

// Flusher is anything with a periodic persistence step (the cursor sampler).
type Flusher interface {
	Flush()
}

// Heartbeater is the storage gateway's liveness marker.
type Heartbeater interface {
	Heartbeat()
}

// Engine owns the flush ticker.
type Engine struct {
	tracker   *tracker.Manager
	sampler   Flusher // nil when the heatmap variant is disabled
	projector *stats.Projector
	store     Heartbeater
	interval  time.Duration
}

func NewEngine(t *tracker.Manager, sampler Flusher, projector *stats.Projector, store Heartbeater, interval time.Duration) *Engine {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Engine{
		tracker:   t,
		sampler:   sampler,
		projector: projector,
		store:     store,
		interval:  interval,
	}
}

// Run flushes immediately, then on every tick until the context is cancelled.
// A final flush runs at shutdown.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	log.Println("Flush engine started, interval", e.interval)
	e.flush(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Flush engine shutting down")
			e.flush(context.Background())
			return nil
		case <-ticker.C:
			e.flush(ctx)
		}
	}
}

func (e *Engine) flush(ctx context.Context) {
	e.tracker.Flush()

	if e.sampler != nil {
		e.sampler.Flush()
	}

	if e.projector != nil {
		agg := stats.Aggregate(e.tracker.Snapshot())
		if len(agg) > 0 {
			if err := e.projector.UpsertDomains(ctx, agg); err != nil {
				log.Println("Failed to project domain stats:", err)
			}
		}
	}

	e.store.Heartbeat()
}
