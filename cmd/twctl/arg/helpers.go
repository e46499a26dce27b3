package arg

import (
	"log"

	"github.com/godbus/dbus/v5"

	"github.com/tabwarden/tabwarden/internal/ipc"
)

// trackerObject connects to the session bus and returns the daemon object.
// The caller owns the connection.
func trackerObject() (*dbus.Conn, dbus.BusObject) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		log.Fatal("Failed to connect to session bus:", err)
	}
	return conn, conn.Object(ipc.ServiceName, dbus.ObjectPath(ipc.ObjectPath))
}

// callString invokes a daemon method that returns a single JSON string.
func callString(obj dbus.BusObject, method string, args ...interface{}) (string, error) {
	var result string
	err := obj.Call(ipc.InterfaceName+"."+method, 0, args...).Store(&result)
	return result, err
}
