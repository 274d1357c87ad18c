package display_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/srlehn/hwdisplay/connectors"
	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal/dummydev"
	"github.com/srlehn/hwdisplay/internal/hwabi"
	_ "github.com/srlehn/hwdisplay/planes"
)

func fbWithCaps(path string, caps uint32) *dummydev.Device {
	return dummydev.New(path).Handle(func(req uint, arg any) error {
		if req == hwabi.FBIOGET_OSD_CAPBILITY {
			*arg.(*uint32) = caps
		}
		return nil
	})
}

func planeNames(planes []display.Plane) []string {
	var names []string
	for _, pl := range planes {
		names = append(names, pl.Name())
	}
	return names
}

func planeIDs(planes []display.Plane) []uint32 {
	var ids []uint32
	for _, pl := range planes {
		ids = append(ids, pl.ID())
	}
	return ids
}

func TestManagerProbe(t *testing.T) {
	opener := dummydev.NewOpener()
	fb0 := opener.Add(fbWithCaps(`/dev/graphics/fb0`, hwabi.OSD_LAYER_ENABLE|hwabi.OSD_VIU1|hwabi.OSD_ZORDER))
	opener.Add(fbWithCaps(`/dev/graphics/fb1`, hwabi.OSD_LAYER_ENABLE|hwabi.OSD_HW_CURSOR))
	fb2 := opener.Add(fbWithCaps(`/dev/graphics/fb2`, 0))
	opener.Add(fbWithCaps(`/dev/graphics/fb3`, hwabi.OSD_LAYER_ENABLE|hwabi.OSD_VIU2))
	amvideo := opener.Add(dummydev.New(`/dev/amvideo`))
	hwc := opener.Add(dummydev.New(`/dev/video_hwc0`))

	m, err := display.NewManager(
		display.SetOpener(opener),
		display.SetSysfs(dummydev.NewSysfs()),
		display.SetOsdChannels(2),
	)
	require.NoError(t, err)

	planes := m.Planes()
	assert.Equal(t, []string{`osd0`, `cursor1`, `osd3`, `video`, `video-pip`, `hwc-video0`}, planeNames(planes))
	assert.Equal(t, []uint32{0, 1, 2, 30, 31, 32}, planeIDs(planes))
	assert.Equal(t, 1, fb2.Closed(), `disabled layer is released`)

	crtcs := m.Crtcs()
	require.Len(t, crtcs, 2)
	assert.Equal(t, display.Vout1, crtcs[0].ID())
	assert.Equal(t, display.Vout2, crtcs[1].ID())
	assert.False(t, crtcs[0].Headless())
	assert.Same(t, crtcs[1], m.Crtc(display.Vout2))

	var buf bytes.Buffer
	m.Dump(&buf)
	assert.Contains(t, buf.String(), `osd-channels:2`)

	require.NoError(t, m.Close())
	assert.Equal(t, 1, fb0.Closed())
	assert.Equal(t, 1, amvideo.Closed(), `shared by both video planes`)
	assert.Equal(t, 1, hwc.Closed())
	assert.Empty(t, m.Planes())
	require.NoError(t, m.Close())
	assert.Equal(t, 1, fb0.Closed())
}

func TestManagerStopsAtMissingNode(t *testing.T) {
	for _, tc := range []struct {
		name       string
		devs       []*dummydev.Device
		wantNames  []string
		wantOpened []string
	}{
		{
			name: `fb gap`,
			devs: []*dummydev.Device{
				fbWithCaps(`/dev/graphics/fb0`, hwabi.OSD_LAYER_ENABLE|hwabi.OSD_VIU1),
				fbWithCaps(`/dev/graphics/fb2`, hwabi.OSD_LAYER_ENABLE|hwabi.OSD_VIU2),
			},
			wantNames:  []string{`osd0`},
			wantOpened: []string{`/dev/graphics/fb0`},
		},
		{
			name: `numbered amvideo`,
			devs: []*dummydev.Device{
				dummydev.New(`/dev/amvideo`),
				dummydev.New(`/dev/amvideo1`),
				dummydev.New(`/dev/amvideo3`),
			},
			wantNames:  []string{`video`, `video-pip`, `video`, `video-pip`},
			wantOpened: []string{`/dev/amvideo`, `/dev/amvideo1`},
		},
		{
			name: `amvideo1 without amvideo`,
			devs: []*dummydev.Device{
				dummydev.New(`/dev/amvideo1`),
				dummydev.New(`/dev/video_hwc0`),
			},
			wantNames:  []string{`hwc-video0`},
			wantOpened: []string{`/dev/video_hwc0`},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			opener := dummydev.NewOpener()
			for _, d := range tc.devs {
				opener.Add(d)
			}
			m, err := display.NewManager(display.SetOpener(opener), display.SetSysfs(dummydev.NewSysfs()))
			require.NoError(t, err)
			defer m.Close()

			assert.Equal(t, tc.wantNames, planeNames(m.Planes()))
			assert.Equal(t, tc.wantOpened, opener.Opened())
		})
	}
}

func TestManagerFallback(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts []display.Option
	}{
		{`no devices`, nil},
		{`headless`, []display.Option{display.SetHeadless(true)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			opener := dummydev.NewOpener()
			if tc.name == `headless` {
				opener.Add(fbWithCaps(`/dev/graphics/fb0`, hwabi.OSD_LAYER_ENABLE|hwabi.OSD_VIU1))
			}
			opts := append([]display.Option{display.SetOpener(opener), display.SetSysfs(dummydev.NewSysfs())}, tc.opts...)
			m, err := display.NewManager(opts...)
			require.NoError(t, err)
			defer m.Close()

			planes := m.Planes()
			require.Len(t, planes, 1)
			assert.Equal(t, display.PlaneDummy, planes[0].Type())
			crtcs := m.Crtcs()
			require.Len(t, crtcs, 1)
			assert.Equal(t, display.Vout1, crtcs[0].ID())
			assert.True(t, crtcs[0].Headless())
			if tc.name == `headless` {
				assert.Empty(t, opener.Opened())
			}
		})
	}
}

func TestManagerOptions(t *testing.T) {
	_, err := display.NewManager(display.SetHeadless(true), display.SetOsdChannels(3))
	assertIs(t, err, display.ErrInvalid)

	m, err := display.NewManager(
		display.SetHeadless(true),
		display.Options{display.SetFracMode(true), display.SetSyncWaitRelease(true)},
	)
	require.NoError(t, err)
	defer m.Close()
	assert.True(t, m.Settings().FracMode)
	assert.True(t, m.Settings().SyncWaitRelease)
	assert.False(t, m.Settings().DiscardInFence)
}

func TestManagerConnectors(t *testing.T) {
	m, err := display.NewManager(display.SetHeadless(true), display.SetSysfs(dummydev.NewSysfs()), display.SetOpener(dummydev.NewOpener()))
	require.NoError(t, err)
	defer m.Close()

	cvbs, err := m.Connector(display.ConnectorCvbs)
	require.NoError(t, err)
	hdmi, err := m.Connector(display.ConnectorHdmi)
	require.NoError(t, err)
	again, err := m.Connector(display.ConnectorCvbs)
	require.NoError(t, err)

	assert.Same(t, cvbs, again)
	assert.Equal(t, display.ConnectorIdxMin, cvbs.ID())
	assert.Equal(t, display.ConnectorIdxMin+1, hdmi.ID())
	conns := m.Connectors()
	require.Len(t, conns, 2)
	assert.Equal(t, display.ConnectorHdmi, conns[0].Type())
	assert.Equal(t, display.ConnectorCvbs, conns[1].Type())

	_, err = m.Connector(display.ConnectorType(42))
	assertIs(t, err, display.ErrInvalid)
}
