package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tabwarden/tabwarden/internal/heatmap"
	"github.com/tabwarden/tabwarden/internal/tracker"
)

// fileState is the on-disk layout of the state file.
type fileState struct {
	Version     int                        `json:"version"`
	Tabs        tracker.TabData            `json:"tabData"`
	ActiveTab   int                        `json:"activeTab"`
	ActiveStart time.Time                  `json:"activeStart,omitzero"`
	Heatmap     map[string][]heatmap.Point `json:"heatmapData,omitempty"`
}

// FileStore keeps the whole state in one JSON file, written atomically via a
// tmp file and rename. The file mtime doubles as the daemon heartbeat.
type FileStore struct {
	path      string
	mu        sync.Mutex
	state     fileState
	heartbeat time.Time
}

// NewFileStore loads or initializes the state file.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f := &FileStore{path: path}

	if err := f.load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.state = fileState{
				Version:   1,
				Tabs:      make(tracker.TabData),
				ActiveTab: tracker.NoActiveTab,
				Heatmap:   make(map[string][]heatmap.Point),
			}
			f.heartbeat = time.Now()
			if err := f.save(); err != nil {
				return nil, err
			}
			return f, nil
		}
		return nil, err
	}
	return f, nil
}

// load reads the state file into memory, taking the heartbeat from the mtime.
func (f *FileStore) load() error {
	info, err := os.Stat(f.path)
	if err != nil {
		return err
	}
	f.heartbeat = info.ModTime()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}

	var s fileState
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s.Tabs == nil {
		s.Tabs = make(tracker.TabData)
	}
	if s.Heatmap == nil {
		s.Heatmap = make(map[string][]heatmap.Point)
	}
	f.state = s
	return nil
}

// save atomically writes the state file to disk. Callers must hold f.mu or be
// the sole owner.
func (f *FileStore) save() error {
	tmp := f.path + ".tmp"
	data, err := json.MarshalIndent(f.state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) SaveTracking(state tracker.TrackingState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// copy so a later heatmap save never marshals maps the tracker still owns
	f.state.Tabs = state.Tabs.Clone()
	f.state.ActiveTab = state.ActiveTab
	f.state.ActiveStart = state.ActiveStart
	return f.save()
}

func (f *FileStore) LoadTracking() (tracker.TrackingState, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return tracker.TrackingState{
		Tabs:        f.state.Tabs.Clone(),
		ActiveTab:   f.state.ActiveTab,
		ActiveStart: f.state.ActiveStart,
	}, f.heartbeat, nil
}

func (f *FileStore) SaveHeatmap(domain string, points []heatmap.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(points) == 0 {
		delete(f.state.Heatmap, domain)
	} else {
		f.state.Heatmap[domain] = points
	}
	return f.save()
}

func (f *FileStore) LoadHeatmap() (map[string][]heatmap.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string][]heatmap.Point, len(f.state.Heatmap))
	for domain, points := range f.state.Heatmap {
		cp := make([]heatmap.Point, len(points))
		copy(cp, points)
		out[domain] = cp
	}
	return out, nil
}

// Heartbeat bumps the file mtime so a later startup can tell how long the
// daemon has been down.
func (f *FileStore) Heartbeat() {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := time.Now()
	os.Chtimes(f.path, t, t)
	f.heartbeat = t
}

func (f *FileStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.save()
}
