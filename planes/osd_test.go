package planes_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal/consts"
	"github.com/srlehn/hwdisplay/internal/dummydev"
	"github.com/srlehn/hwdisplay/internal/hwabi"
	"github.com/srlehn/hwdisplay/planes"
)

const osdCaps = hwabi.OSD_LAYER_ENABLE | hwabi.OSD_ZORDER | hwabi.OSD_VIU1

// newOsdDevice returns an fb device whose render calls produce fresh out
// fences. Shared fds handed to the kernel are closed.
func newOsdDevice(t *testing.T) (*dummydev.Device, *fenceSource) {
	fences := &fenceSource{t: t}
	dev := dummydev.New(`/dev/graphics/fb0`).Handle(func(req uint, arg any) error {
		if req == hwabi.FBIOPUT_OSD_SYNC_RENDER_ADD {
			cfg := arg.(*hwabi.OsdPlaneConfig)
			closeFd(cfg.InFenceFd)
			cfg.OutFenceFd = fences.next()
		}
		return nil
	})
	return dev, fences
}

func TestOsdPlaneCapabilities(t *testing.T) {
	s, sysfs := testSettings()
	sysfs.Set(consts.SysOsdLogoIndex, "1\n")
	dev := dummydev.New(`/dev/graphics/fb1`)

	p := planes.NewOsdPlane(1, 1, dev, osdCaps|hwabi.OSD_AFBC|hwabi.OSD_FREESCALE|hwabi.OSD_UBOOT_LOGO|hwabi.OSD_VIU2, s)
	assert.Equal(t, `osd1`, p.Name())
	assert.Equal(t, display.CapZorder|display.CapAfbc|display.CapFreeScale|display.CapUbootLogo, p.Capabilities())
	assert.Equal(t, display.Vout1.Mask()|display.Vout2.Mask(), p.PossibleCrtcs())

	primary := planes.NewOsdPlane(0, 0, dev, hwabi.OSD_LAYER_ENABLE|hwabi.OSD_FREESCALE, s)
	assert.Equal(t, display.CapPrimary, primary.Capabilities(), `no free scale switch`)
	assert.Equal(t, display.Vout1.Mask(), primary.PossibleCrtcs())

	sysfs.Set(consts.SysFreeScaleSwitch, `0`)
	primary = planes.NewOsdPlane(0, 0, dev, hwabi.OSD_LAYER_ENABLE|hwabi.OSD_FREESCALE, s)
	assert.Equal(t, display.CapPrimary|display.CapFreeScale, primary.Capabilities())
}

func TestOsdPlaneIsFbSupport(t *testing.T) {
	s, _ := testSettings()
	p := planes.NewOsdPlane(0, 0, dummydev.New(`fb0`), osdCaps, s)

	fb := newBuffer(t)
	assert.True(t, p.IsFbSupport(fb))

	afbc := newBuffer(t, func(fb *display.Framebuffer) { fb.Afbc = true })
	assert.False(t, p.IsFbSupport(afbc), `afbc without capability`)

	for name, mod := range map[string]func(*display.Framebuffer){
		`too small`: func(fb *display.Framebuffer) { fb.SourceCrop = display.Rect{Right: 16, Bottom: 16} },
		`too large`: func(fb *display.Framebuffer) { fb.SourceCrop = display.Rect{Right: 3840, Bottom: 2160} },
		`yuv`:       func(fb *display.Framebuffer) { fb.Format = display.PixelFormatNV21 },
		`rotated`:   func(fb *display.Framebuffer) { fb.Transform = display.TransformRot90 },
		`cursor`:    func(fb *display.Framebuffer) { fb.Type = display.FbCursor },
		`color`:     func(fb *display.Framebuffer) { fb.Type = display.FbColor },
	} {
		assert.False(t, p.IsFbSupport(newBuffer(t, mod)), name)
	}

	dimm := planes.NewOsdPlane(0, 0, dummydev.New(`fb0`), osdCaps|hwabi.OSD_DIMM|hwabi.OSD_AFBC, s)
	assert.True(t, dimm.IsFbSupport(&display.Framebuffer{Type: display.FbColor}))
	assert.True(t, dimm.IsFbSupport(afbc))
	assert.False(t, p.IsFbSupport(nil))
}

func TestOsdPlaneRenderDescriptor(t *testing.T) {
	s, _ := testSettings()
	dev, _ := newOsdDevice(t)
	p := planes.NewOsdPlane(0, 0, dev, osdCaps, s)
	fb := newBuffer(t)

	require.NoError(t, p.SetPlane(fb, 1, display.Unblank))
	calls := dev.CallsFor(hwabi.FBIOPUT_OSD_SYNC_RENDER_ADD)
	require.Len(t, calls, 1)
	cfg := calls[0].Arg.(hwabi.OsdPlaneConfig)
	defer closeFd(cfg.SharedFd)

	assert.Equal(t, uint32(hwabi.OSD_SYNC_REQUEST_RENDER_MAGIC_V2), cfg.Magic)
	assert.Equal(t, uint32(1), cfg.Zorder)
	assert.Zero(t, cfg.DimLayer)
	assert.Equal(t, uint8(0xff), cfg.PlaneAlpha)
	assert.Equal(t, uint32(1920*4), cfg.ByteStride)
	assert.Equal(t, uint32(1920), cfg.PixelStride)
	assert.Equal(t, [2]uint32{1920, 1080}, [2]uint32{cfg.Width, cfg.Height})
	assert.Equal(t, int32(display.NoFence), cfg.InFenceFd)
	require.NotEqual(t, int32(fb.BufferFd), cfg.SharedFd)
	assert.True(t, sameFile(t, fb.BufferFd, int(cfg.SharedFd)), `shared fd duplicates the buffer`)
	assert.Same(t, fb, p.Displayed())
	assert.Equal(t, int32(1), fb.Refs())
}

func TestOsdPlaneColorLayer(t *testing.T) {
	s, _ := testSettings()
	dev, _ := newOsdDevice(t)
	p := planes.NewOsdPlane(0, 0, dev, osdCaps|hwabi.OSD_DIMM, s)
	fb := &display.Framebuffer{
		Type:         display.FbColor,
		Color:        0xff336699,
		SourceCrop:   display.Rect{Right: 64, Bottom: 64},
		DisplayFrame: display.Rect{Right: 64, Bottom: 64},
	}
	require.NoError(t, p.SetPlane(fb, 2, display.Unblank))
	cfg := dev.CallsFor(hwabi.FBIOPUT_OSD_SYNC_RENDER_ADD)[0].Arg.(hwabi.OsdPlaneConfig)
	assert.Equal(t, uint8(1), cfg.DimLayer)
	assert.Equal(t, uint32(0xff336699), cfg.DimColor)
	assert.Equal(t, int32(display.NoFence), cfg.SharedFd)
}

func TestOsdPlaneHoldsOnlyLatestBuffer(t *testing.T) {
	s, _ := testSettings()
	dev, fences := newOsdDevice(t)
	p := planes.NewOsdPlane(0, 0, dev, osdCaps, s)

	var fbs []*display.Framebuffer
	for i := 0; i < 3; i++ {
		fb := newBuffer(t)
		fbs = append(fbs, fb)
		require.NoError(t, p.SetPlane(fb, 1, display.Unblank))
		cfg := dev.CallsFor(hwabi.FBIOPUT_OSD_SYNC_RENDER_ADD)[i].Arg.(hwabi.OsdPlaneConfig)
		closeFd(cfg.SharedFd)
	}
	require.Len(t, fences.files, 3)

	last := fbs[2]
	assert.Same(t, last, p.Displayed())
	assert.Equal(t, int32(1), last.Refs())
	assert.Nil(t, last.TakeReleaseFence())
	for i, fb := range fbs[:2] {
		assert.Zero(t, fb.Refs(), `frame %d`, i)
		release := fb.TakeReleaseFence()
		require.NotNil(t, release, `frame %d`, i)
		assert.True(t, sameFile(t, release.Fd(), int(fences.files[i+1].Fd())),
			`frame %d is released by the out fence of frame %d`, i, i+1)
		release.Close()
	}

	var buf bytes.Buffer
	p.Dump(&buf)
	assert.Contains(t, buf.String(), fmt.Sprintf(`fd:%d `, last.BufferFd))
	for _, fb := range fbs[:2] {
		assert.NotContains(t, buf.String(), fmt.Sprintf(`fd:%d `, fb.BufferFd))
	}
}

func TestOsdPlaneBlank(t *testing.T) {
	s, _ := testSettings()
	dev, _ := newOsdDevice(t)
	p := planes.NewOsdPlane(0, 0, dev, osdCaps, s)
	fb := newBuffer(t)
	released := 0
	fb.OnRelease(func(*display.Framebuffer) { released++ })

	require.NoError(t, p.SetPlane(fb, 1, display.Unblank))
	closeFd(dev.CallsFor(hwabi.FBIOPUT_OSD_SYNC_RENDER_ADD)[0].Arg.(hwabi.OsdPlaneConfig).SharedFd)
	require.Equal(t, int32(1), fb.Refs())

	require.NoError(t, p.SetPlane(nil, 0, display.BlankForNoContent))
	assert.Zero(t, fb.Refs())
	assert.Equal(t, 1, released)
	assert.Nil(t, p.Displayed())
	assert.Equal(t, 1, dev.Count(hwabi.FBIOPUT_OSD_SYNC_BLANK))
	req := dev.CallsFor(hwabi.FBIOPUT_OSD_SYNC_BLANK)[0].Arg.(hwabi.OsdBlankRequest)
	assert.Equal(t, uint32(hwabi.OSD_SYNC_BLANK_MAGIC), req.Magic)
	assert.Equal(t, uint32(1), req.Blank)

	require.NoError(t, p.SetPlane(nil, 0, display.BlankForSecureContent))
	assert.Equal(t, 1, dev.Count(hwabi.FBIOPUT_OSD_SYNC_BLANK), `already blank`)

	assertIs(t, p.SetPlane(nil, 0, display.Unblank), display.ErrInvalid)
}

func TestOsdPlaneDiscardInFence(t *testing.T) {
	s, _ := testSettings()
	s.DiscardInFence = true
	dev, fences := newOsdDevice(t)
	p := planes.NewOsdPlane(0, 0, dev, osdCaps, s)
	fb := newBuffer(t)

	fb.SetAcquireFence(display.NewFence(int(fences.next())))
	fences.signal(0)

	require.NoError(t, p.SetPlane(fb, 1, display.Unblank))
	cfg := dev.CallsFor(hwabi.FBIOPUT_OSD_SYNC_RENDER_ADD)[0].Arg.(hwabi.OsdPlaneConfig)
	closeFd(cfg.SharedFd)
	assert.Equal(t, int32(display.NoFence), cfg.InFenceFd)
	assert.Nil(t, fb.TakeAcquireFence(), `consumed`)
}
