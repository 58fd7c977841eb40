package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	dbusNotifyDest   = "org.freedesktop.Notifications"
	dbusNotifyPath   = "/org/freedesktop/Notifications"
	dbusNotifyMethod = "org.freedesktop.Notifications.Notify"

	appName      = "Wavestream"
	desktopEntry = "wavestream"
)

// caller is the part of dbus.BusObject the notifier uses.
type caller interface {
	Call(method string, flags dbus.Flags, args ...any) *dbus.Call
}

type dbusNotifier struct {
	obj caller
}

// New connects to the session bus notification server. It fails when no
// session bus is reachable, e.g. over SSH or on platforms without D-Bus.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("session bus: %w", err)
	}
	return &dbusNotifier{obj: conn.Object(dbusNotifyDest, dbusNotifyPath)}, nil
}

func (n *dbusNotifier) Notify(notif Notification) (uint32, error) {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(notif.Urgency)),
		"desktop-entry": dbus.MakeVariant(desktopEntry),
		"category":      dbus.MakeVariant("x-gnome.music"),
	}

	// Notify(app_name, replaces_id, icon, summary, body, actions, hints, timeout) -> id
	call := n.obj.Call(dbusNotifyMethod, 0,
		appName,
		notif.ReplacesID,
		notif.Icon,
		notif.Title,
		notif.Body,
		[]string{},
		hints,
		notif.Timeout,
	)
	if call.Err != nil {
		return 0, call.Err
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}
