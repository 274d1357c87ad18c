package systemcontrol_test

import (
	"context"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/hwdisplay/internal/consts"
	"github.com/srlehn/hwdisplay/internal/dummydev"
	"github.com/srlehn/hwdisplay/systemcontrol"
)

// fakeObject records method calls; everything else panics through the
// embedded nil interface.
type fakeObject struct {
	dbus.BusObject
	method   string
	args     []any
	deadline bool
	err      error
}

func (o *fakeObject) CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...any) *dbus.Call {
	o.method = method
	o.args = args
	_, o.deadline = ctx.Deadline()
	return &dbus.Call{Err: o.err}
}

func TestDBusSetDisplayMode(t *testing.T) {
	obj := &fakeObject{}
	d := systemcontrol.NewDBusObject(obj)
	require.NoError(t, d.SetDisplayMode(`2160p60hz`))
	assert.Equal(t, `org.droidlogic.SystemControl.SetActiveDispMode`, obj.method)
	assert.Equal(t, []any{`2160p60hz`}, obj.args)
	assert.True(t, obj.deadline)

	d.Timeout = 0
	require.NoError(t, d.SetDisplayMode(`1080p60hz`))
	assert.False(t, obj.deadline)

	obj.err = dbus.ErrMsgNoObject
	err := d.SetDisplayMode(`720p60hz`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `SetActiveDispMode`)
	assert.NoError(t, d.Close(), `no connection owned`)

	var nilSetter *systemcontrol.DBus
	assert.Error(t, nilSetter.SetDisplayMode(`null`))
}

func TestSysfsSetDisplayMode(t *testing.T) {
	fs := dummydev.NewSysfs()
	s := systemcontrol.NewSysfs(fs)
	require.NoError(t, s.SetDisplayMode(`1080p50hz`))
	assert.Equal(t, []string{`1080p50hz`}, fs.Writes(consts.SysDisplayMode))

	s.Path = consts.SysDisplay2Mode
	require.NoError(t, s.SetDisplayMode(`576cvbs`))
	assert.Equal(t, []string{`576cvbs`}, fs.Writes(consts.SysDisplay2Mode))
}
