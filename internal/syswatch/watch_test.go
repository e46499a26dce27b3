package syswatch

import (
	"testing"

	"github.com/godbus/dbus/v5"
)

type fakeTracking struct {
	stops, resumes int
}

func (f *fakeTracking) StopTracking() { f.stops++ }
func (f *fakeTracking) ResumeLast()   { f.resumes++ }

func TestHandleSignal_PrepareForSleep(t *testing.T) {
	ft := &fakeTracking{}

	handleSignal(&dbus.Signal{
		Name: "org.freedesktop.login1.Manager.PrepareForSleep",
		Body: []interface{}{true},
	}, ft)
	if ft.stops != 1 {
		t.Errorf("sleep should stop tracking, stops=%d", ft.stops)
	}

	handleSignal(&dbus.Signal{
		Name: "org.freedesktop.login1.Manager.PrepareForSleep",
		Body: []interface{}{false},
	}, ft)
	if ft.resumes != 1 {
		t.Errorf("wake should resume tracking, resumes=%d", ft.resumes)
	}
}

func TestHandleSignal_LockedHint(t *testing.T) {
	ft := &fakeTracking{}

	lock := func(locked bool) *dbus.Signal {
		return &dbus.Signal{
			Name: "org.freedesktop.DBus.Properties.PropertiesChanged",
			Body: []interface{}{
				"org.freedesktop.login1.Session",
				map[string]dbus.Variant{"LockedHint": dbus.MakeVariant(locked)},
			},
		}
	}

	handleSignal(lock(true), ft)
	handleSignal(lock(false), ft)
	if ft.stops != 1 || ft.resumes != 1 {
		t.Errorf("lock/unlock not routed: stops=%d resumes=%d", ft.stops, ft.resumes)
	}
}

func TestHandleSignal_IgnoresUnrelated(t *testing.T) {
	ft := &fakeTracking{}

	handleSignal(&dbus.Signal{
		Name: "org.freedesktop.DBus.Properties.PropertiesChanged",
		Body: []interface{}{
			"org.freedesktop.NetworkManager",
			map[string]dbus.Variant{"State": dbus.MakeVariant(1)},
		},
	}, ft)
	handleSignal(&dbus.Signal{Name: "some.other.Signal"}, ft)

	if ft.stops != 0 || ft.resumes != 0 {
		t.Errorf("unrelated signals must be ignored")
	}
}
