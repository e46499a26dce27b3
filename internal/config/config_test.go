package config

import (
	"testing"
	"time"
)

func TestLoadConfigFromBytes(t *testing.T) {
	tomlData := `
[tracker]
excluded_prefixes = ["chrome://", "about:"]
flush_interval = "1m"
top_n = 5

[bridge]
listen = "127.0.0.1:9900"

[heatmap]
enabled = false
sample_interval = "100ms"
max_points = 200
retention = "12h"

[storage]
state_path = "/tmp/tw/state.json"
`
	cfg, err := LoadConfigFromBytes([]byte(tomlData))
	if err != nil {
		t.Fatalf("LoadConfigFromBytes returned error: %v", err)
	}

	if len(cfg.Tracker.ExcludedPrefixes) != 2 {
		t.Errorf("expected 2 excluded prefixes, got %d", len(cfg.Tracker.ExcludedPrefixes))
	}
	if cfg.Tracker.FlushInterval.Std() != time.Minute {
		t.Errorf("flush_interval = %v, want 1m", cfg.Tracker.FlushInterval.Std())
	}
	if cfg.Tracker.TopN != 5 {
		t.Errorf("top_n = %d, want 5", cfg.Tracker.TopN)
	}
	if cfg.Bridge.Listen != "127.0.0.1:9900" {
		t.Errorf("listen = %s, want 127.0.0.1:9900", cfg.Bridge.Listen)
	}
	if cfg.Heatmap.Enabled == nil || *cfg.Heatmap.Enabled {
		t.Errorf("expected heatmap disabled")
	}
	if cfg.Heatmap.SampleInterval.Std() != 100*time.Millisecond {
		t.Errorf("sample_interval = %v, want 100ms", cfg.Heatmap.SampleInterval.Std())
	}
	if cfg.Heatmap.MaxPoints != 200 {
		t.Errorf("max_points = %d, want 200", cfg.Heatmap.MaxPoints)
	}
	if cfg.Heatmap.Retention.Std() != 12*time.Hour {
		t.Errorf("retention = %v, want 12h", cfg.Heatmap.Retention.Std())
	}
	if cfg.Storage.StatePath != "/tmp/tw/state.json" {
		t.Errorf("state_path = %s", cfg.Storage.StatePath)
	}
}

func TestSetDefault(t *testing.T) {
	cfg, err := LoadConfigFromBytes([]byte(""))
	if err != nil {
		t.Fatalf("LoadConfigFromBytes returned error: %v", err)
	}

	if len(cfg.Tracker.ExcludedPrefixes) == 0 {
		t.Errorf("expected default excluded prefixes")
	}
	if cfg.Tracker.FlushInterval.Std() != 30*time.Second {
		t.Errorf("default flush_interval = %v, want 30s", cfg.Tracker.FlushInterval.Std())
	}
	if cfg.Tracker.TopN != 10 {
		t.Errorf("default top_n = %d, want 10", cfg.Tracker.TopN)
	}
	if cfg.Bridge.Listen != "127.0.0.1:7797" {
		t.Errorf("default listen = %s", cfg.Bridge.Listen)
	}
	if cfg.Heatmap.Enabled == nil || !*cfg.Heatmap.Enabled {
		t.Errorf("expected heatmap enabled by default")
	}
	if cfg.Heatmap.MaxPoints != 1000 {
		t.Errorf("default max_points = %d, want 1000", cfg.Heatmap.MaxPoints)
	}
	if cfg.Heatmap.Retention.Std() != 24*time.Hour {
		t.Errorf("default retention = %v, want 24h", cfg.Heatmap.Retention.Std())
	}
	if cfg.Heatmap.GridCols != 16 || cfg.Heatmap.GridRows != 9 {
		t.Errorf("default grid = %dx%d, want 16x9", cfg.Heatmap.GridCols, cfg.Heatmap.GridRows)
	}
	if cfg.Storage.StatePath == "" || cfg.Storage.DBPath == "" {
		t.Errorf("expected default storage paths to be set")
	}
}

func TestDurationUnmarshalText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("90s")); err != nil {
		t.Fatalf("UnmarshalText returned error: %v", err)
	}
	if d.Std() != 90*time.Second {
		t.Errorf("duration = %v, want 90s", d.Std())
	}
	if err := d.UnmarshalText([]byte("not a duration")); err == nil {
		t.Errorf("expected error for invalid duration")
	}
}
