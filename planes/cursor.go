package planes

import (
	"fmt"
	"io"

	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal/errors"
	"github.com/srlehn/hwdisplay/internal/hwabi"
)

const cursorMaxSize = 256

// CursorPlane is the hardware cursor layer. It always sits on top.
type CursorPlane struct {
	osdDevice
	transform display.Transform
	reverse   bool // reverse mode pushed at least once
}

var _ display.Plane = (*CursorPlane)(nil)

func NewCursorPlane(id uint32, fbIdx int, dev display.Device, hwCaps uint32, s *display.Settings) *CursorPlane {
	return &CursorPlane{osdDevice: osdDevice{
		id:       id,
		fbIdx:    fbIdx,
		dev:      dev,
		settings: s,
		hwCaps:   hwCaps,
	}}
}

func (p *CursorPlane) Name() string                     { return fmt.Sprintf(`cursor%d`, p.fbIdx) }
func (p *CursorPlane) Type() display.PlaneType          { return display.PlaneCursor }
func (p *CursorPlane) Capabilities() display.Capability { return 0 }
func (p *CursorPlane) FixedZorder() int32               { return display.CursorZorder }

func (p *CursorPlane) IsFbSupport(fb *display.Framebuffer) bool {
	if fb == nil || fb.Type != display.FbCursor {
		return false
	}
	switch fb.Format {
	case display.PixelFormatRGBA8888, display.PixelFormatBGRA8888:
	default:
		return false
	}
	if fb.Afbc || fb.Width > cursorMaxSize || fb.Height > cursorMaxSize {
		return false
	}
	_, ok := cursorReverse(fb.Transform)
	return ok
}

func cursorReverse(t display.Transform) (uint32, bool) {
	switch t {
	case 0:
		return hwabi.OSD_REVERSE_NONE, true
	case display.TransformFlipH:
		return hwabi.OSD_REVERSE_X, true
	case display.TransformFlipV:
		return hwabi.OSD_REVERSE_Y, true
	case display.TransformRot180:
		return hwabi.OSD_REVERSE_XY, true
	}
	return 0, false
}

// SetPlane moves the cursor every frame and submits the buffer only when
// it changed. zorder is ignored.
func (p *CursorPlane) SetPlane(fb *display.Framebuffer, zorder uint32, op display.BlankOp) error {
	if op != display.Unblank {
		return p.setBlank()
	}
	if fb == nil {
		return errors.WrapPrefix(display.ErrInvalid, `unblank without framebuffer`, 0)
	}
	if !p.reverse || fb.Transform != p.transform {
		rev, _ := cursorReverse(fb.Transform)
		if err := p.dev.Ioctl(hwabi.FBIOPUT_OSD_REVERSE, &rev); err != nil {
			return err
		}
		p.transform = fb.Transform
		p.reverse = true
	}
	pos := hwabi.OsdCursorPos{X: fb.DisplayFrame.Left, Y: fb.DisplayFrame.Top}
	if err := p.dev.Ioctl(hwabi.FBIOPUT_OSD_CURSOR, &pos); err != nil {
		return err
	}
	if fb == p.slot.Current() && !p.blank {
		// same buffer, position only
		if acq := fb.TakeAcquireFence(); acq != nil {
			_ = acq.Close()
		}
		return nil
	}
	return p.render(fb, uint32(display.CursorZorder))
}

func (p *CursorPlane) Dump(w io.Writer) {
	fmt.Fprintf(w, "%-3d %-8s zorder:%d crtcs:0x%x blank:%-5t fb:%s\n",
		p.id, p.Name(), display.CursorZorder, p.PossibleCrtcs(), p.blank, p.slot.Current())
}
