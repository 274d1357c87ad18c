package planes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal/consts"
	"github.com/srlehn/hwdisplay/internal/dummydev"
	"github.com/srlehn/hwdisplay/internal/hwabi"
	"github.com/srlehn/hwdisplay/planes"
)

func videoBuffer(t display.FbType) *display.Framebuffer {
	return &display.Framebuffer{
		BufferFd:     display.NoFence,
		Type:         t,
		Width:        1920,
		Height:       1080,
		SourceCrop:   display.Rect{Left: 0, Top: 0, Right: 1920, Bottom: 1080},
		DisplayFrame: display.Rect{Left: 0, Top: 0, Right: 1920, Bottom: 1080},
	}
}

func u32Args(calls []dummydev.Call) []uint32 {
	var args []uint32
	for _, c := range calls {
		args = append(args, c.Arg.(uint32))
	}
	return args
}

func TestLegacyVideoPlaneGeometryWrites(t *testing.T) {
	s, sysfs := testSettings()
	dev := dummydev.New(consts.DevAmvideo)
	p := planes.NewLegacyVideoPlane(30, dev, s)
	assert.Equal(t, display.VideoZorder, p.FixedZorder())

	fb := videoBuffer(display.FbVideoOverlay)
	require.NoError(t, p.SetPlane(fb, 5, display.Unblank))
	assert.Equal(t, 3, sysfs.WriteCount(``))
	assert.Equal(t, []string{`0 0 1919 1079`}, sysfs.Writes(consts.SysVideoAxis))
	assert.Equal(t, []string{`0 0 0 0`}, sysfs.Writes(consts.SysVideoCrop))
	assert.Equal(t, []string{`0`}, sysfs.Writes(consts.SysPpmgrAngle))
	assert.Equal(t, []uint32{uint32(display.VideoZorder)}, u32Args(dev.CallsFor(hwabi.AMSTREAM_IOC_SET_ZORDER)))

	next := videoBuffer(display.FbVideoOverlay)
	require.NoError(t, p.SetPlane(next, 5, display.Unblank))
	assert.Equal(t, 3, sysfs.WriteCount(``), `unchanged geometry`)
	assert.Equal(t, 1, dev.Count(hwabi.AMSTREAM_IOC_SET_ZORDER))
	assert.Zero(t, fb.Refs())
	assert.Same(t, next, p.Displayed())

	rotated := videoBuffer(display.FbVideoOverlay)
	rotated.Transform = display.TransformRot90
	require.NoError(t, p.SetPlane(rotated, 5, display.Unblank))
	assert.Equal(t, 4, sysfs.WriteCount(``))
	assert.Equal(t, []string{`0`, `1`}, sysfs.Writes(consts.SysPpmgrAngle))

	cropped := videoBuffer(display.FbVideoOverlay)
	cropped.Transform = display.TransformRot90
	cropped.SourceCrop = display.Rect{Left: 8, Top: 4, Right: 1912, Bottom: 1076}
	require.NoError(t, p.SetPlane(cropped, 5, display.Unblank))
	assert.Equal(t, []string{`0 0 0 0`, `4 8 4 8`}, sysfs.Writes(consts.SysVideoCrop))
	assert.Equal(t, 5, sysfs.WriteCount(``))
}

func TestLegacyVideoPlaneMute(t *testing.T) {
	s, _ := testSettings()
	dev := dummydev.New(consts.DevAmvideo)
	p := planes.NewLegacyVideoPlane(30, dev, s)
	fb := videoBuffer(display.FbVideoSideband)

	require.NoError(t, p.SetPlane(fb, 0, display.Unblank))
	require.NoError(t, p.SetPlane(nil, 0, display.BlankForNoContent))
	require.NoError(t, p.SetPlane(nil, 0, display.BlankForNoContent))
	assert.Equal(t, []uint32{1}, u32Args(dev.CallsFor(hwabi.AMSTREAM_IOC_SET_VIDEO_MUTE)))
	assert.Zero(t, fb.Refs())
	assert.Nil(t, p.Displayed())

	require.NoError(t, p.SetPlane(fb, 0, display.Unblank))
	assert.Equal(t, []uint32{1, 0}, u32Args(dev.CallsFor(hwabi.AMSTREAM_IOC_SET_VIDEO_MUTE)))
}

func TestLegacyVideoPlaneDisablePulse(t *testing.T) {
	s, sysfs := testSettings()
	dev := dummydev.New(consts.DevAmvideo)
	p := planes.NewLegacyVideoPlane(30, dev, s)

	require.NoError(t, p.SetPlane(videoBuffer(display.FbVideoOmxPts), 0, display.Unblank))
	require.NoError(t, p.SetPlane(videoBuffer(display.FbVideoOmxPts), 0, display.Unblank))
	assert.Zero(t, dev.Count(hwabi.AMSTREAM_IOC_SET_VIDEO_DISABLE))

	require.NoError(t, p.SetPlane(videoBuffer(display.FbVideoOverlay), 0, display.Unblank))
	assert.Equal(t, []uint32{hwabi.VideoDisableNormal, hwabi.VideoDisableNone},
		u32Args(dev.CallsFor(hwabi.AMSTREAM_IOC_SET_VIDEO_DISABLE)))
	assert.Equal(t, 6, sysfs.WriteCount(``), `geometry rewritten after the pulse`)
}

func TestLegacyExtVideoPlane(t *testing.T) {
	s, sysfs := testSettings()
	dev := dummydev.New(consts.DevAmvideo)
	main := planes.NewLegacyVideoPlane(30, dev, s)
	pip := planes.NewLegacyExtVideoPlane(31, dev, s)
	assert.Equal(t, `video-pip`, pip.Name())
	assert.Equal(t, display.PlaneLegacyExtVideo, pip.Type())

	assert.True(t, main.IsFbSupport(videoBuffer(display.FbVideoOmxV4L)))
	assert.False(t, main.IsFbSupport(videoBuffer(display.FbVideoOmxPtsSecond)))
	assert.True(t, pip.IsFbSupport(videoBuffer(display.FbVideoSidebandSecond)))
	assert.False(t, pip.IsFbSupport(videoBuffer(display.FbVideoOverlay)))

	fb := videoBuffer(display.FbVideoOmxPtsSecond)
	fb.DisplayFrame = display.Rect{Left: 1280, Top: 0, Right: 1920, Bottom: 360}
	require.NoError(t, pip.SetPlane(fb, 0, display.Unblank))
	assert.Equal(t, []string{`1280 0 1919 359`}, sysfs.Writes(consts.SysVideoAxisPip))
	assert.Len(t, sysfs.Writes(consts.SysVideoCropPip), 1)
	assert.Zero(t, sysfs.WriteCount(consts.SysPpmgrAngle))
	assert.Zero(t, sysfs.WriteCount(consts.SysVideoAxis))
}

func TestHwcVideoPlane(t *testing.T) {
	s, _ := testSettings()
	fences := &fenceSource{t: t}
	dev := dummydev.New(`/dev/video_hwc0`).Handle(func(req uint, arg any) error {
		if req == hwabi.VIDEO_HWC_IOC_SET_FRAME {
			f := arg.(*hwabi.VideoHwcFrame)
			closeFd(f.SharedFd)
			f.OutFenceFd = fences.next()
		}
		return nil
	})
	p := planes.NewHwcVideoPlane(32, 0, dev, s)
	assert.Equal(t, `hwc-video0`, p.Name())

	fb := newBuffer(t)
	fb.Type = display.FbVideoOmxV4L
	assert.True(t, p.IsFbSupport(fb))
	assert.False(t, p.IsFbSupport(videoBuffer(display.FbVideoOverlay)))

	require.NoError(t, p.SetPlane(fb, 2, display.Unblank))
	frame := dev.CallsFor(hwabi.VIDEO_HWC_IOC_SET_FRAME)[0].Arg.(hwabi.VideoHwcFrame)
	assert.Equal(t, uint32(2), frame.Zorder)
	assert.Equal(t, int32(1920), frame.DispW)

	next := newBuffer(t)
	next.Type = display.FbVideoOmxV4L
	require.NoError(t, p.SetPlane(next, 2, display.Unblank))
	release := fb.TakeReleaseFence()
	require.NotNil(t, release)
	defer release.Close()
	assert.True(t, sameFile(t, release.Fd(), int(fences.files[1].Fd())))

	require.NoError(t, p.SetPlane(nil, 0, display.BlankForNoContent))
	require.NoError(t, p.SetPlane(nil, 0, display.BlankForNoContent))
	assert.Equal(t, 1, dev.Count(hwabi.VIDEO_HWC_IOC_BLANK))
	assert.Zero(t, next.Refs())
}
