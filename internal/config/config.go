package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration that unmarshals from TOML strings like "30s" or "24h".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type TrackerConfig struct {
	ExcludedPrefixes []string `toml:"excluded_prefixes"`
	FlushInterval    Duration `toml:"flush_interval"`
	TopN             int      `toml:"top_n"`
}

type BridgeConfig struct {
	Listen string `toml:"listen"`
}

type HeatmapConfig struct {
	Enabled        *bool    `toml:"enabled"`
	SampleInterval Duration `toml:"sample_interval"`
	FlushInterval  Duration `toml:"flush_interval"`
	MaxPoints      int      `toml:"max_points"`
	Retention      Duration `toml:"retention"`
	GridCols       int      `toml:"grid_cols"`
	GridRows       int      `toml:"grid_rows"`
}

type StorageConfig struct {
	StatePath string `toml:"state_path"`
	DBPath    string `toml:"db_path"`
}

type Config struct {
	Tracker TrackerConfig `toml:"tracker"`
	Bridge  BridgeConfig  `toml:"bridge"`
	Heatmap HeatmapConfig `toml:"heatmap"`
	Storage StorageConfig `toml:"storage"`
}

// SetDefault fills in any values not present in the config file.
func (c *Config) SetDefault() {
	if c.Tracker.ExcludedPrefixes == nil {
		c.Tracker.ExcludedPrefixes = []string{
			"chrome://", "chrome-extension://", "devtools://",
			"about:", "edge://", "moz-extension://",
		}
	}
	if c.Tracker.FlushInterval == 0 {
		c.Tracker.FlushInterval = Duration(30 * time.Second)
	}
	if c.Tracker.TopN == 0 {
		c.Tracker.TopN = 10
	}
	if c.Bridge.Listen == "" {
		c.Bridge.Listen = "127.0.0.1:7797"
	}
	if c.Heatmap.Enabled == nil {
		defaultVal := true
		c.Heatmap.Enabled = &defaultVal
	}
	if c.Heatmap.SampleInterval == 0 {
		c.Heatmap.SampleInterval = Duration(250 * time.Millisecond)
	}
	if c.Heatmap.FlushInterval == 0 {
		c.Heatmap.FlushInterval = Duration(10 * time.Second)
	}
	if c.Heatmap.MaxPoints == 0 {
		c.Heatmap.MaxPoints = 1000
	}
	if c.Heatmap.Retention == 0 {
		c.Heatmap.Retention = Duration(24 * time.Hour)
	}
	if c.Heatmap.GridCols == 0 {
		c.Heatmap.GridCols = 16
	}
	if c.Heatmap.GridRows == 0 {
		c.Heatmap.GridRows = 9
	}
	if c.Storage.StatePath == "" {
		c.Storage.StatePath = filepath.Join(dataDir(), "state.json")
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = filepath.Join(dataDir(), "stats.db")
	}
}

func dataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tabwarden")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "tabwarden"
	}
	return filepath.Join(home, ".local", "share", "tabwarden")
}

func LoadConfigFromFile(path string) (*Config, error) {
	file, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	decoder := toml.NewDecoder(file)
	var config Config
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}
	config.SetDefault()
	return &config, nil
}

func LoadConfigFromBytes(data []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	config.SetDefault()
	return &config, nil
}

// GetEnv returns environment variable value or default if empty
func GetEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
