package store

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tabwarden/tabwarden/internal/heatmap"
	"github.com/tabwarden/tabwarden/internal/tracker"
)

const (
	redisKeyTracking      = "tabwarden:tabData"
	redisKeyHeartbeat     = "tabwarden:heartbeat"
	redisKeyHeatmapPrefix = "tabwarden:heatmap:"
)

// RedisStore keeps the same keys as the file store but in Redis, for setups
// where stats should survive the local disk or be shared between machines.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
	cancel func()
}

func NewRedisStore(host, port, username, password string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Username: username,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithCancel(context.Background())
	st := &RedisStore{client: client, ctx: ctx, cancel: cancel}

	if err := st.client.Ping(ctx).Err(); err != nil {
		cancel()
		return nil, err
	}
	return st, nil
}

func (st *RedisStore) SaveTracking(state tracker.TrackingState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return st.client.Set(st.ctx, redisKeyTracking, data, 0).Err()
}

func (st *RedisStore) LoadTracking() (tracker.TrackingState, time.Time, error) {
	empty := tracker.TrackingState{
		Tabs:      make(tracker.TabData),
		ActiveTab: tracker.NoActiveTab,
	}

	heartbeat := time.Now()
	if raw, err := st.client.Get(st.ctx, redisKeyHeartbeat).Result(); err == nil {
		if ts, perr := time.Parse(time.RFC3339, raw); perr == nil {
			heartbeat = ts
		}
	}

	data, err := st.client.Get(st.ctx, redisKeyTracking).Result()
	if err == redis.Nil {
		return empty, heartbeat, nil
	}
	if err != nil {
		return empty, heartbeat, err
	}

	var state tracker.TrackingState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return empty, heartbeat, err
	}
	if state.Tabs == nil {
		state.Tabs = make(tracker.TabData)
	}
	return state, heartbeat, nil
}

func (st *RedisStore) SaveHeatmap(domain string, points []heatmap.Point) error {
	key := redisKeyHeatmapPrefix + domain
	if len(points) == 0 {
		return st.client.Del(st.ctx, key).Err()
	}
	data, err := json.Marshal(points)
	if err != nil {
		return err
	}
	return st.client.Set(st.ctx, key, data, 0).Err()
}

func (st *RedisStore) LoadHeatmap() (map[string][]heatmap.Point, error) {
	out := make(map[string][]heatmap.Point)

	iter := st.client.Scan(st.ctx, 0, redisKeyHeatmapPrefix+"*", 0).Iterator()
	for iter.Next(st.ctx) {
		key := iter.Val()
		data, err := st.client.Get(st.ctx, key).Result()
		if err != nil {
			log.Printf("Failed to read heatmap key %s: %v", key, err)
			continue
		}
		var points []heatmap.Point
		if err := json.Unmarshal([]byte(data), &points); err != nil {
			log.Printf("Failed to decode heatmap key %s: %v", key, err)
			continue
		}
		out[key[len(redisKeyHeatmapPrefix):]] = points
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (st *RedisStore) Heartbeat() {
	now := time.Now().UTC().Format(time.RFC3339)
	if err := st.client.Set(st.ctx, redisKeyHeartbeat, now, 0).Err(); err != nil {
		log.Println("Failed to update heartbeat:", err)
	}
}

func (st *RedisStore) Close() error {
	st.cancel()
	return st.client.Close()
}
