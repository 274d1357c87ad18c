package planes

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal/errors"
	"github.com/srlehn/hwdisplay/internal/hwabi"
	"github.com/srlehn/hwdisplay/internal/logx"
)

// HwcVideoPlane is the video plane of the video_hwc driver. Buffers are
// released one frame late like on osd planes.
type HwcVideoPlane struct {
	id       uint32
	idx      int
	dev      display.Device
	settings *display.Settings
	slot     display.FrameSlot
	blank    bool
}

var _ display.Plane = (*HwcVideoPlane)(nil)

func NewHwcVideoPlane(id uint32, idx int, dev display.Device, s *display.Settings) *HwcVideoPlane {
	return &HwcVideoPlane{id: id, idx: idx, dev: dev, settings: s}
}

func (p *HwcVideoPlane) Logger() *slog.Logger             { return p.settings.Logger() }
func (p *HwcVideoPlane) ID() uint32                       { return p.id }
func (p *HwcVideoPlane) Name() string                     { return fmt.Sprintf(`hwc-video%d`, p.idx) }
func (p *HwcVideoPlane) Type() display.PlaneType          { return display.PlaneHwcVideo }
func (p *HwcVideoPlane) Capabilities() display.Capability { return display.CapZorder }
func (p *HwcVideoPlane) FixedZorder() int32               { return display.InvalidZorder }
func (p *HwcVideoPlane) PossibleCrtcs() uint32            { return display.Vout1.Mask() | display.Vout2.Mask() }
func (p *HwcVideoPlane) Displayed() *display.Framebuffer  { return p.slot.Current() }

func (p *HwcVideoPlane) IsFbSupport(fb *display.Framebuffer) bool {
	return fb != nil && fb.Type == display.FbVideoOmxV4L
}

func (p *HwcVideoPlane) SetPlane(fb *display.Framebuffer, zorder uint32, op display.BlankOp) error {
	if op != display.Unblank {
		if !p.blank {
			v := uint32(1)
			if err := p.dev.Ioctl(hwabi.VIDEO_HWC_IOC_BLANK, &v); err != nil {
				return err
			}
			p.blank = true
		}
		return display.Retire(p.slot.Clear(), nil)
	}
	if fb == nil {
		return errors.WrapPrefix(display.ErrInvalid, `unblank without framebuffer`, 0)
	}
	crop, frame := fb.SourceCrop, fb.DisplayFrame
	req := hwabi.VideoHwcFrame{
		InFenceFd:  display.NoFence,
		OutFenceFd: display.NoFence,
		Format:     uint32(fb.Format),
		Width:      fb.Width,
		Height:     fb.Height,
		CropX:      crop.Left,
		CropY:      crop.Top,
		CropW:      crop.Width(),
		CropH:      crop.Height(),
		DispX:      frame.Left,
		DispY:      frame.Top,
		DispW:      frame.Width(),
		DispH:      frame.Height(),
		Zorder:     zorder,
		Transform:  uint32(fb.Transform),
	}
	sharedFd, err := display.DupFd(fb.BufferFd)
	if err != nil {
		return err
	}
	req.SharedFd = int32(sharedFd)
	inFence, err := takeInFence(fb, p.settings, p)
	if err != nil {
		closeFd(sharedFd)
		return err
	}
	req.InFenceFd = int32(inFence)
	if err := p.dev.Ioctl(hwabi.VIDEO_HWC_IOC_SET_FRAME, &req); err != nil {
		closeFd(sharedFd)
		closeFd(inFence)
		return err
	}
	p.blank = false
	fence := display.NewFence(int(req.OutFenceFd))
	defer fence.Close()
	if p.settings.SyncWaitRelease {
		logx.IsErr(fence.Wait(-1), p, slog.LevelWarn, `plane`, p.Name())
	}
	return display.Retire(p.slot.Advance(fb), fence)
}

func (p *HwcVideoPlane) Close() error {
	return display.Retire(p.slot.Clear(), nil)
}

func (p *HwcVideoPlane) Dump(w io.Writer) {
	fmt.Fprintf(w, "%-3d %-8s blank:%-5t fb:%s\n", p.id, p.Name(), p.blank, p.slot.Current())
}
