// Package store is the storage gateway: it persists the tracker state under
// the tabData key and cursor points under the heatmapData key. Writes are
// last-write-wins; there is no ordering guarantee between concurrent flushes.
package store

import (
	"log"
	"time"

	"github.com/tabwarden/tabwarden/internal/config"
	"github.com/tabwarden/tabwarden/internal/heatmap"
	"github.com/tabwarden/tabwarden/internal/tracker"
)

const (
	EnvRedisHost     = "REDIS_HOST"
	EnvRedisPort     = "REDIS_PORT"
	EnvRedisUser     = "REDIS_USERNAME"
	EnvRedisPassword = "REDIS_PASSWORD"
)

// Store is the full storage gateway. It satisfies tracker.Persister and
// heatmap.PointStore.
type Store interface {
	SaveTracking(tracker.TrackingState) error
	LoadTracking() (tracker.TrackingState, time.Time, error)
	SaveHeatmap(domain string, points []heatmap.Point) error
	LoadHeatmap() (map[string][]heatmap.Point, error)
	Heartbeat()
	Close() error
}

// NewStore picks the backend: Redis when REDIS_HOST is set, otherwise the
// JSON state file. A failed Redis connection falls back to the file store.
func NewStore(cfg *config.Config) (Store, error) {
	redisHost := config.GetEnv(EnvRedisHost, "")
	if redisHost != "" {
		redisPort := config.GetEnv(EnvRedisPort, "6379")
		redisUser := config.GetEnv(EnvRedisUser, "")
		redisPassword := config.GetEnv(EnvRedisPassword, "")

		st, err := NewRedisStore(redisHost, redisPort, redisUser, redisPassword)
		if err != nil {
			log.Printf("Redis connection failed: %v", err)
			log.Println("Falling back to file store")
			return NewFileStore(cfg.Storage.StatePath)
		}
		log.Printf("Using Redis store: %s:%s", redisHost, redisPort)
		return st, nil
	}

	log.Println("Using file store at", cfg.Storage.StatePath)
	return NewFileStore(cfg.Storage.StatePath)
}
