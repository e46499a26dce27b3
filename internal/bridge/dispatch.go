package bridge

import (
	"log"

	"github.com/tabwarden/tabwarden/internal/heatmap"
	"github.com/tabwarden/tabwarden/internal/tracker"
)

// Dispatcher routes decoded extension messages to the tracker and sampler.
// The sampler may be nil when the heatmap variant is disabled.
type Dispatcher struct {
	tracker *tracker.Manager
	sampler Sampler
}

// Sampler is the slice of the heatmap sampler the bridge drives.
type Sampler interface {
	RecordMove(x, y int, domain, url string, vp heatmap.Viewport)
	RecordClick(x, y int, domain, url string, vp heatmap.Viewport)
	RecordScroll(x, y int, domain, url string, vp heatmap.Viewport)
	SetVisible(visible bool)
	Merge(data map[string][]heatmap.Point)
}

func NewDispatcher(t *tracker.Manager, s Sampler) *Dispatcher {
	return &Dispatcher{tracker: t, sampler: s}
}

// Dispatch handles one message and returns a reply frame for query types,
// nil otherwise. Unknown types are logged and ignored.
func (d *Dispatcher) Dispatch(msg Message) *Message {
	switch msg.Type {
	case MsgTabActivated:
		d.tracker.SwitchTab(msg.TabID, msg.URL)

	case MsgTabUpdated:
		d.tracker.HandleUpdated(msg.TabID, msg.URL)

	case MsgTabRemoved:
		d.tracker.HandleRemoved(msg.TabID)

	case MsgWindowFocus:
		if msg.Focused != nil && *msg.Focused {
			d.tracker.ResumeLast()
		} else {
			d.tracker.StopTracking()
		}

	case MsgCursorMove:
		if d.sampler != nil {
			d.sampler.RecordMove(msg.X, msg.Y, msg.Domain, msg.URL, msg.Viewport)
		}

	case MsgCursorClick:
		if d.sampler != nil {
			d.sampler.RecordClick(msg.X, msg.Y, msg.Domain, msg.URL, msg.Viewport)
		}

	case MsgCursorScroll:
		if d.sampler != nil {
			d.sampler.RecordScroll(msg.X, msg.Y, msg.Domain, msg.URL, msg.Viewport)
		}

	case MsgVisibility:
		if d.sampler != nil && msg.Visible != nil {
			d.sampler.SetVisible(*msg.Visible)
		}

	case MsgGetTimeData:
		current := d.tracker.CurrentSessionTime()
		return &Message{
			Type:               MsgTimeData,
			TabData:            d.tracker.Snapshot(),
			CurrentSessionTime: &current,
		}

	case MsgSaveHeatmapData:
		if d.sampler != nil {
			d.sampler.Merge(msg.Data)
		}

	default:
		log.Printf("Ignoring unknown bridge message type %q", msg.Type)
	}
	return nil
}
