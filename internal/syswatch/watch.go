// Package syswatch pauses tracking around system sleep and session lock so
// idle machine time never counts as tab time.
package syswatch

import (
	"context"
	"fmt"
	"log"

	"github.com/godbus/dbus/v5"
)

// Tracking is the slice of the tracker the watcher drives.
type Tracking interface {
	StopTracking()
	ResumeLast()
}

// Watch subscribes to logind signals on the system bus and translates them
// into stop/resume calls. It blocks until the context is cancelled.
func Watch(ctx context.Context, t Tracking) error {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("failed to connect to system bus: %w", err)
	}
	defer conn.Close()

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath("/org/freedesktop/login1"),
		dbus.WithMatchInterface("org.freedesktop.login1.Manager"),
		dbus.WithMatchMember("PrepareForSleep"),
	); err != nil {
		return fmt.Errorf("add match failed: %w", err)
	}

	// lock and unlock arrive as LockedHint property changes
	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus.Properties"),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		return fmt.Errorf("add match for PropertiesChanged failed: %w", err)
	}

	c := make(chan *dbus.Signal, 10)
	conn.Signal(c)

	for {
		select {
		case sig := <-c:
			handleSignal(sig, t)
		case <-ctx.Done():
			return nil
		}
	}
}

func handleSignal(sig *dbus.Signal, t Tracking) {
	switch sig.Name {
	case "org.freedesktop.login1.Manager.PrepareForSleep":
		if len(sig.Body) == 0 {
			return
		}
		sleeping, _ := sig.Body[0].(bool)
		if sleeping {
			log.Println("System going to sleep - stopping tracking")
			t.StopTracking()
		} else {
			log.Println("System woke up - resuming tracking")
			t.ResumeLast()
		}

	case "org.freedesktop.DBus.Properties.PropertiesChanged":
		if len(sig.Body) < 2 {
			return
		}
		iface, ok := sig.Body[0].(string)
		if !ok || iface != "org.freedesktop.login1.Session" {
			return
		}
		changedProps, ok := sig.Body[1].(map[string]dbus.Variant)
		if !ok {
			return
		}
		val, exists := changedProps["LockedHint"]
		if !exists {
			return
		}
		locked, _ := val.Value().(bool)
		if locked {
			log.Println("Session locked - stopping tracking")
			t.StopTracking()
		} else {
			log.Println("Session unlocked - resuming tracking")
			t.ResumeLast()
		}
	}
}
