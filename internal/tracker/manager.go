package tracker

import (
	"log"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Manager owns the active-tab time-accounting state. At most one tab accrues
// time at any moment; finalizing the previous session always precedes starting
// a new one. Storage failures are logged, never retried or propagated.
type Manager struct {
	mu       sync.Mutex
	store    Persister
	tabs     TabData
	active   int
	start    time.Time
	lastTab  int // last tab that was active, for wake/unlock resume
	paused   bool
	excluded []string
	now      func() time.Time
}

// NewManager loads persisted state and closes any session left dangling by a
// crash, using the storage heartbeat as the best-known end time.
func NewManager(store Persister, excludedPrefixes []string) (*Manager, error) {
	m := &Manager{
		store:    store,
		tabs:     make(TabData),
		active:   NoActiveTab,
		lastTab:  NoActiveTab,
		excluded: excludedPrefixes,
		now:      time.Now,
	}

	state, heartbeat, err := store.LoadTracking()
	if err != nil {
		return nil, err
	}
	if state.Tabs != nil {
		m.tabs = state.Tabs
	}
	if state.ActiveTab != NoActiveTab && !state.ActiveStart.IsZero() {
		// Daemon went down mid-session; close it at the last heartbeat.
		if tab, ok := m.tabs[state.ActiveTab]; ok {
			end := heartbeat
			if end.Before(state.ActiveStart) {
				end = state.ActiveStart
			}
			tab.AppendSlice(state.ActiveStart, end)
			log.Printf("Recovered unfinished session for tab %d (%s)", state.ActiveTab, tab.Domain)
		}
		m.lastTab = state.ActiveTab
		m.persistLocked()
	}

	return m, nil
}

// SwitchTab finalizes the current session, then begins a new one for tabID
// unless its URL matches an excluded internal-scheme prefix.
func (m *Manager) SwitchTab(tabID int, rawURL string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.finalizeLocked()

	if m.paused || m.isExcluded(rawURL) {
		m.persistLocked()
		return
	}

	tab, ok := m.tabs[tabID]
	if !ok {
		tab = &TabSession{}
		m.tabs[tabID] = tab
	}
	if rawURL != "" {
		tab.URL = rawURL
		tab.Domain = DomainFromURL(rawURL)
	}

	m.active = tabID
	m.lastTab = tabID
	m.start = m.now()
	m.persistLocked()
}

// StopTracking finalizes the current session without starting a replacement.
// Used on window blur, system sleep and session lock.
func (m *Manager) StopTracking() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finalizeLocked()
	m.persistLocked()
}

// ResumeLast restarts tracking on the previously active tab after a wake or
// unlock. No-op when that tab is gone or nothing was tracked before.
func (m *Manager) ResumeLast() {
	m.mu.Lock()
	lastTab := m.lastTab
	var url string
	if tab, ok := m.tabs[lastTab]; ok {
		url = tab.URL
	} else {
		lastTab = NoActiveTab
	}
	m.mu.Unlock()

	if lastTab == NoActiveTab {
		return
	}
	m.SwitchTab(lastTab, url)
}

// HandleUpdated reacts to a tab's URL changing. For the active tab this is a
// domain switch, so the running session is finalized first.
func (m *Manager) HandleUpdated(tabID int, rawURL string) {
	m.mu.Lock()
	if tabID == m.active {
		m.mu.Unlock()
		m.SwitchTab(tabID, rawURL)
		return
	}
	defer m.mu.Unlock()

	tab, ok := m.tabs[tabID]
	if !ok {
		return
	}
	tab.URL = rawURL
	tab.Domain = DomainFromURL(rawURL)
	m.persistLocked()
}

// HandleRemoved deletes the tab's record. If it was active, no further time
// accrues until a new tab is selected.
func (m *Manager) HandleRemoved(tabID int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tabID == m.active {
		m.active = NoActiveTab
		m.start = time.Time{}
	}
	if tabID == m.lastTab {
		m.lastTab = NoActiveTab
	}
	delete(m.tabs, tabID)
	m.persistLocked()
}

// Pause finalizes the running session and suspends all accrual.
func (m *Manager) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finalizeLocked()
	m.paused = true
	m.persistLocked()
}

// Resume lifts a pause. Tracking restarts on the next tab event.
func (m *Manager) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = false
}

func (m *Manager) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// Clear wipes all accumulated data.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tabs = make(TabData)
	m.active = NoActiveTab
	m.lastTab = NoActiveTab
	m.start = time.Time{}
	m.persistLocked()
}

// Snapshot returns a deep copy of the tab data for queries.
func (m *Manager) Snapshot() TabData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tabs.Clone()
}

// CurrentSessionTime reports the elapsed milliseconds of the live, not yet
// finalized session, or 0 when nothing is active.
func (m *Manager) CurrentSessionTime() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == NoActiveTab || m.start.IsZero() {
		return 0
	}
	return m.now().Sub(m.start).Milliseconds()
}

// Flush persists the current state. Called by the periodic engine.
func (m *Manager) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persistLocked()
}

// finalizeLocked closes the running session, if any, and accumulates its
// duration into the tab's total. Callers must hold m.mu.
func (m *Manager) finalizeLocked() {
	if m.active == NoActiveTab || m.start.IsZero() {
		return
	}
	if tab, ok := m.tabs[m.active]; ok {
		tab.AppendSlice(m.start, m.now())
	}
	m.active = NoActiveTab
	m.start = time.Time{}
}

func (m *Manager) persistLocked() {
	state := TrackingState{
		Tabs:        m.tabs,
		ActiveTab:   m.active,
		ActiveStart: m.start,
	}
	if err := m.store.SaveTracking(state); err != nil {
		log.Println("Failed to persist tracking state:", err)
	}
}

func (m *Manager) isExcluded(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	for _, prefix := range m.excluded {
		if strings.HasPrefix(rawURL, prefix) {
			return true
		}
	}
	return false
}

// DomainFromURL extracts the hostname used as the aggregation key for time
// statistics. Unparseable URLs yield "".
func DomainFromURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
