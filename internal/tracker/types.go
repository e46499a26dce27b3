package tracker

import "time"

// NoActiveTab means no tab is currently accruing time.
const NoActiveTab = -1

// SessionSlice represents one contiguous interval during which a tab was active.
type SessionSlice struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration int64     `json:"duration"` // milliseconds
}

// TabSession accumulates active time for one browser tab. It is keyed by the
// ephemeral tab id and destroyed when the tab closes.
type TabSession struct {
	URL       string         `json:"url"`
	Domain    string         `json:"domain"`
	TotalTime int64          `json:"totalTime"` // milliseconds
	Sessions  []SessionSlice `json:"sessions,omitempty"`
}

// TabData maps browser tab ids to their accumulated sessions.
type TabData map[int]*TabSession

// TrackingState is the tracker portion of the persisted state. ActiveTab and
// ActiveStart survive restarts so a crashed daemon can close the dangling
// session at the last heartbeat.
type TrackingState struct {
	Tabs        TabData   `json:"tabData"`
	ActiveTab   int       `json:"activeTab"`
	ActiveStart time.Time `json:"activeStart,omitzero"`
}

// Persister is the slice of the storage gateway the tracker needs.
type Persister interface {
	SaveTracking(TrackingState) error
	LoadTracking() (TrackingState, time.Time, error)
}
