// Package ipc exposes the tracker to twctl over D-Bus.
package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/godbus/dbus/v5"

	"github.com/tabwarden/tabwarden/internal/heatmap"
	"github.com/tabwarden/tabwarden/internal/stats"
	"github.com/tabwarden/tabwarden/internal/tracker"
)

const (
	ObjectPath    = "/io/github/tabwarden"
	InterfaceName = "io.github.tabwarden.Tracker"
	ServiceName   = "io.github.tabwarden"
)

// HeatmapSource is the slice of the sampler the service reads. Nil when the
// heatmap variant is disabled.
type HeatmapSource interface {
	Data() map[string][]heatmap.Point
	Clear()
}

// TrackerService is the object exported on the bus.
type TrackerService struct {
	Tracker   *tracker.Manager
	Heatmap   HeatmapSource
	Projector *stats.Projector
}

func (s *TrackerService) GetStatus() (string, *dbus.Error) {
	if s.Tracker.Paused() {
		return "Tracking is paused", nil
	}
	return "Service is running", nil
}

// GetTimeData returns the popup payload: {tabData, currentSessionTime}.
func (s *TrackerService) GetTimeData() (string, *dbus.Error) {
	payload := struct {
		TabData            tracker.TabData `json:"tabData"`
		CurrentSessionTime int64           `json:"currentSessionTime"`
	}{
		TabData:            s.Tracker.Snapshot(),
		CurrentSessionTime: s.Tracker.CurrentSessionTime(),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return string(data), nil
}

func (s *TrackerService) GetTopDomains(n int32) (string, *dbus.Error) {
	top := stats.TopDomains(s.Tracker.Snapshot(), int(n))
	data, err := json.Marshal(top)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return string(data), nil
}

func (s *TrackerService) GetHeatmapData() (string, *dbus.Error) {
	points := map[string][]heatmap.Point{}
	if s.Heatmap != nil {
		points = s.Heatmap.Data()
	}
	data, err := json.Marshal(points)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return string(data), nil
}

func (s *TrackerService) Pause() *dbus.Error {
	s.Tracker.Pause()
	log.Println("Tracking paused via IPC")
	return nil
}

func (s *TrackerService) Resume() *dbus.Error {
	s.Tracker.Resume()
	log.Println("Tracking resumed via IPC")
	return nil
}

// ClearData wipes tab totals, buffered heatmap points and the sqlite
// projection.
func (s *TrackerService) ClearData() *dbus.Error {
	s.Tracker.Clear()
	if s.Heatmap != nil {
		s.Heatmap.Clear()
	}
	if s.Projector != nil {
		if err := s.Projector.Reset(context.Background()); err != nil {
			log.Println("Failed to reset domain projection:", err)
		}
	}
	log.Println("All tracking data cleared via IPC")
	return nil
}

// Serve exports the service on the session bus and blocks until the context
// is cancelled.
func Serve(ctx context.Context, svc *TrackerService) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer conn.Close()

	reply, err := conn.RequestName(ServiceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request name %s: %w", ServiceName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("name %s already taken, is another instance running?", ServiceName)
	}

	if err := conn.Export(svc, dbus.ObjectPath(ObjectPath), InterfaceName); err != nil {
		return fmt.Errorf("failed to export interface: %w", err)
	}

	<-ctx.Done()
	return nil
}
