package planes

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal/consts"
	"github.com/srlehn/hwdisplay/internal/errors"
	"github.com/srlehn/hwdisplay/internal/hwabi"
	"github.com/srlehn/hwdisplay/internal/logx"
)

// LegacyVideoPlane drives the amvideo overlay. Geometry goes through sysfs
// and is only written when it changed. The main and the pip plane of one
// device share the device.
type LegacyVideoPlane struct {
	id       uint32
	dev      display.Device
	settings *display.Settings
	ext      bool
	slot     display.FrameSlot

	muted    bool
	lastType display.FbType
	hasType  bool
	zorder   uint32
	hasZ     bool

	// last written geometry
	axis      display.Rect
	crop      display.Rect
	transform display.Transform
	hasAxis   bool
	hasCrop   bool
	hasAngle  bool
}

var _ display.Plane = (*LegacyVideoPlane)(nil)

// NewLegacyVideoPlane creates the main video plane of dev.
func NewLegacyVideoPlane(id uint32, dev display.Device, s *display.Settings) *LegacyVideoPlane {
	return &LegacyVideoPlane{id: id, dev: dev, settings: s}
}

// NewLegacyExtVideoPlane creates the pip video plane of dev.
func NewLegacyExtVideoPlane(id uint32, dev display.Device, s *display.Settings) *LegacyVideoPlane {
	return &LegacyVideoPlane{id: id, dev: dev, settings: s, ext: true}
}

func (p *LegacyVideoPlane) Logger() *slog.Logger { return p.settings.Logger() }

func (p *LegacyVideoPlane) ID() uint32 { return p.id }

func (p *LegacyVideoPlane) Name() string {
	if p.ext {
		return `video-pip`
	}
	return `video`
}

func (p *LegacyVideoPlane) Type() display.PlaneType {
	if p.ext {
		return display.PlaneLegacyExtVideo
	}
	return display.PlaneLegacyVideo
}

func (p *LegacyVideoPlane) Capabilities() display.Capability { return 0 }
func (p *LegacyVideoPlane) FixedZorder() int32               { return display.VideoZorder }
func (p *LegacyVideoPlane) PossibleCrtcs() uint32            { return display.Vout1.Mask() }
func (p *LegacyVideoPlane) Displayed() *display.Framebuffer  { return p.slot.Current() }

func (p *LegacyVideoPlane) IsFbSupport(fb *display.Framebuffer) bool {
	if fb == nil {
		return false
	}
	if p.ext {
		switch fb.Type {
		case display.FbVideoOmxPtsSecond, display.FbVideoSidebandSecond:
			return true
		}
		return false
	}
	switch fb.Type {
	case display.FbVideoOverlay, display.FbVideoSideband, display.FbVideoOmxPts, display.FbVideoOmxV4L:
		return true
	}
	return false
}

func isPtsVideo(t display.FbType) bool {
	return t == display.FbVideoOmxPts || t == display.FbVideoOmxPtsSecond
}

// SetPlane writes the video geometry and releases the previous buffer
// without a fence. zorder is ignored.
func (p *LegacyVideoPlane) SetPlane(fb *display.Framebuffer, zorder uint32, op display.BlankOp) error {
	if op != display.Unblank {
		if !p.muted {
			if err := p.ioctlU32(hwabi.AMSTREAM_IOC_SET_VIDEO_MUTE, 1); err != nil {
				return err
			}
			p.muted = true
		}
		return display.Retire(p.slot.Clear(), nil)
	}
	if fb == nil {
		return errors.WrapPrefix(display.ErrInvalid, `unblank without framebuffer`, 0)
	}
	if acq := fb.TakeAcquireFence(); acq != nil {
		_ = acq.Close()
	}

	if p.hasType && isPtsVideo(p.lastType) && fb.Type != p.lastType {
		// hand the overlay over without showing a stale frame
		if err := p.ioctlU32(hwabi.AMSTREAM_IOC_SET_VIDEO_DISABLE, hwabi.VideoDisableNormal); err != nil {
			return err
		}
		if err := p.ioctlU32(hwabi.AMSTREAM_IOC_SET_VIDEO_DISABLE, hwabi.VideoDisableNone); err != nil {
			return err
		}
		p.hasAxis, p.hasCrop, p.hasAngle = false, false, false
	}
	p.lastType, p.hasType = fb.Type, true

	if p.muted {
		if err := p.ioctlU32(hwabi.AMSTREAM_IOC_SET_VIDEO_MUTE, 0); err != nil {
			return err
		}
		p.muted = false
	}
	z := uint32(display.VideoZorder)
	if !p.hasZ || p.zorder != z {
		if err := p.ioctlU32(hwabi.AMSTREAM_IOC_SET_ZORDER, z); err != nil {
			return err
		}
		p.zorder, p.hasZ = z, true
	}
	if err := p.updateGeometry(fb); err != nil {
		return err
	}
	prev := p.slot.Advance(fb)
	return display.Retire(prev, nil)
}

func (p *LegacyVideoPlane) updateGeometry(fb *display.Framebuffer) error {
	axisPath, cropPath := consts.SysVideoAxis, consts.SysVideoCrop
	if p.ext {
		axisPath, cropPath = consts.SysVideoAxisPip, consts.SysVideoCropPip
	}
	if frame := fb.DisplayFrame; !p.hasAxis || frame != p.axis {
		v := fmt.Sprintf(`%d %d %d %d`, frame.Left, frame.Top, frame.Right-1, frame.Bottom-1)
		if err := p.settings.WriteString(axisPath, v); err != nil {
			return errors.New(err)
		}
		p.axis, p.hasAxis = frame, true
	}
	if crop := fb.SourceCrop; !p.hasCrop || crop != p.crop {
		// top left bottom right margins
		v := fmt.Sprintf(`%d %d %d %d`, crop.Top, crop.Left,
			max(int32(fb.Height)-crop.Bottom, 0), max(int32(fb.Width)-crop.Right, 0))
		if err := p.settings.WriteString(cropPath, v); err != nil {
			return errors.New(err)
		}
		p.crop, p.hasCrop = crop, true
	}
	if p.ext {
		return nil
	}
	if !p.hasAngle || fb.Transform != p.transform {
		if err := p.settings.WriteString(consts.SysPpmgrAngle, fmt.Sprint(videoAngle(fb.Transform))); err != nil {
			return errors.New(err)
		}
		p.transform, p.hasAngle = fb.Transform, true
	}
	return nil
}

func videoAngle(t display.Transform) int {
	switch t {
	case display.TransformRot90:
		return 1
	case display.TransformRot180:
		return 2
	case display.TransformRot270:
		return 3
	}
	return 0
}

func (p *LegacyVideoPlane) ioctlU32(req uint, v uint32) error {
	err := p.dev.Ioctl(req, &v)
	if logx.IsErr(err, p, slog.LevelDebug, `plane`, p.Name(), `req`, fmt.Sprintf(`0x%x`, req)) {
		return err
	}
	return nil
}

func (p *LegacyVideoPlane) Close() error {
	return display.Retire(p.slot.Clear(), nil)
}

func (p *LegacyVideoPlane) Dump(w io.Writer) {
	fmt.Fprintf(w, "%-3d %-8s zorder:%d muted:%-5t type:%s axis:%s fb:%s\n",
		p.id, p.Name(), display.VideoZorder, p.muted, p.lastType, p.axis, p.slot.Current())
}
