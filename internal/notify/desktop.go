package notify

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsDest   = "org.freedesktop.Notifications"
	notificationsPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsNotify = notificationsDest + ".Notify"

	// Server default expiry.
	expireDefault = int32(-1)
)

type busCaller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Desktop posts a freedesktop notification over the session bus.
type Desktop struct {
	obj  busCaller
	conn *dbus.Conn
}

// NewDesktop connects to the session bus. Close releases the connection.
func NewDesktop() (*Desktop, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &Desktop{
		obj:  conn.Object(notificationsDest, notificationsPath),
		conn: conn,
	}, nil
}

func (d *Desktop) NotifyWorkComplete(ctx context.Context) error {
	call := d.obj.CallWithContext(ctx, notificationsNotify, 0,
		appName,
		uint32(0), // replaces_id
		"",        // app_icon
		summary,
		body,
		[]string{},
		map[string]dbus.Variant{
			"urgency": dbus.MakeVariant(byte(1)),
		},
		expireDefault,
	)
	if call.Err != nil {
		return fmt.Errorf("desktop notification: %w", call.Err)
	}
	return nil
}

func (d *Desktop) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}
