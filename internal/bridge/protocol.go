// Package bridge receives tab, window and cursor events from the browser
// extension over a localhost WebSocket and dispatches them to the tracker and
// sampler. It also answers the popup-style data queries defined by the
// extension message contract.
package bridge

import (
	"github.com/tabwarden/tabwarden/internal/heatmap"
	"github.com/tabwarden/tabwarden/internal/tracker"
)

// Message types accepted from (and sent to) the extension.
const (
	MsgTabActivated    = "TAB_ACTIVATED"
	MsgTabUpdated      = "TAB_UPDATED"
	MsgTabRemoved      = "TAB_REMOVED"
	MsgWindowFocus     = "WINDOW_FOCUS"
	MsgCursorMove      = "CURSOR_MOVE"
	MsgCursorClick     = "CURSOR_CLICK"
	MsgCursorScroll    = "CURSOR_SCROLL"
	MsgVisibility      = "VISIBILITY"
	MsgGetTimeData     = "GET_TIME_DATA"
	MsgSaveHeatmapData = "SAVE_HEATMAP_DATA"
	MsgTimeData        = "TIME_DATA"
)

// Message is the wire format for every bridge frame. Fields are a union over
// the message types; unused ones stay empty.
type Message struct {
	Type     string                     `json:"type"`
	TabID    int                        `json:"tabId,omitempty"`
	URL      string                     `json:"url,omitempty"`
	Focused  *bool                      `json:"focused,omitempty"`
	Visible  *bool                      `json:"visible,omitempty"`
	X        int                        `json:"x,omitempty"`
	Y        int                        `json:"y,omitempty"`
	Domain   string                     `json:"domain,omitempty"`
	Viewport heatmap.Viewport           `json:"viewport"`
	Data     map[string][]heatmap.Point `json:"data,omitempty"`

	// reply fields
	TabData            tracker.TabData `json:"tabData,omitempty"`
	CurrentSessionTime *int64          `json:"currentSessionTime,omitempty"`
}
