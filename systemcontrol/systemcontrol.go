// Package systemcontrol switches the display mode of the main output.
package systemcontrol

import (
	"context"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal/consts"
	"github.com/srlehn/hwdisplay/internal/errors"
)

// D-Bus names expected from a system control bridge. The vendor service
// itself is not on D-Bus; a bridge has to export these names.
const (
	DBusService   = `org.droidlogic.SystemControl`
	DBusPath      = dbus.ObjectPath(`/org/droidlogic/SystemControl`)
	DBusInterface = `org.droidlogic.SystemControl`

	methodSetActiveDispMode = DBusInterface + `.SetActiveDispMode`
)

// DefaultTimeout bounds a D-Bus mode switch.
const DefaultTimeout = 5 * time.Second

// Sysfs writes the mode attribute directly.
type Sysfs struct {
	FS   display.Sysfs
	Path string
}

var _ display.ModeSetter = (*Sysfs)(nil)

// NewSysfs returns a setter for the VOUT1 mode attribute.
func NewSysfs(fs display.Sysfs) *Sysfs {
	if fs == nil {
		fs = display.HostSysfs
	}
	return &Sysfs{FS: fs, Path: consts.SysDisplayMode}
}

func (s *Sysfs) SetDisplayMode(name string) error {
	if s == nil || s.FS == nil {
		return errors.NilReceiver()
	}
	if err := s.FS.WriteString(s.Path, name); err != nil {
		return errors.New(err)
	}
	return nil
}

// DBus asks the system control service to switch modes, which also
// updates the persisted settings of the system.
type DBus struct {
	conn    *dbus.Conn
	obj     dbus.BusObject
	Timeout time.Duration
}

var _ display.ModeSetter = (*DBus)(nil)

// NewDBus connects to the system bus.
func NewDBus() (*DBus, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, errors.WrapPrefix(err, `system bus`, 0)
	}
	d := NewDBusObject(conn.Object(DBusService, DBusPath))
	d.conn = conn
	return d, nil
}

// NewDBusObject uses obj as the system control service.
func NewDBusObject(obj dbus.BusObject) *DBus {
	return &DBus{obj: obj, Timeout: DefaultTimeout}
}

func (d *DBus) SetDisplayMode(name string) error {
	if d == nil || d.obj == nil {
		return errors.NilReceiver()
	}
	ctx := context.Background()
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}
	if err := d.obj.CallWithContext(ctx, methodSetActiveDispMode, 0, name).Err; err != nil {
		return errors.WrapPrefix(err, methodSetActiveDispMode, 0)
	}
	return nil
}

// Close closes a connection opened by NewDBus.
func (d *DBus) Close() error {
	if d == nil || d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}
