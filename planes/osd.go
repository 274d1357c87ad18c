package planes

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unsafe"

	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal/consts"
	"github.com/srlehn/hwdisplay/internal/errors"
	"github.com/srlehn/hwdisplay/internal/hwabi"
	"github.com/srlehn/hwdisplay/internal/logx"
)

// osd source crop limits
const (
	osdMinWidth  = 32
	osdMinHeight = 32
	osdMaxWidth  = 1920
	osdMaxHeight = 1080
)

// osdDevice is the part shared by osd and cursor planes: one fb device,
// its held framebuffer and its blank state.
type osdDevice struct {
	id       uint32
	fbIdx    int
	dev      display.Device
	settings *display.Settings
	hwCaps   uint32
	slot     display.FrameSlot
	blank    bool
}

func (o *osdDevice) ID() uint32 { return o.id }

func (o *osdDevice) Logger() *slog.Logger { return o.settings.Logger() }

func (o *osdDevice) PossibleCrtcs() uint32 {
	var mask uint32
	if o.hwCaps&hwabi.OSD_VIU1 != 0 {
		mask |= display.Vout1.Mask()
	}
	if o.hwCaps&hwabi.OSD_VIU2 != 0 {
		mask |= display.Vout2.Mask()
	}
	if mask == 0 {
		mask = display.Vout1.Mask()
	}
	return mask
}

func (o *osdDevice) Displayed() *display.Framebuffer { return o.slot.Current() }

// render submits fb and releases the previously held buffer with the
// returned fence.
func (o *osdDevice) render(fb *display.Framebuffer, zorder uint32) error {
	cfg := hwabi.OsdPlaneConfig{
		Magic:      hwabi.OSD_SYNC_REQUEST_RENDER_MAGIC_V1,
		Len:        uint32(unsafe.Sizeof(hwabi.OsdPlaneConfig{})),
		InFenceFd:  display.NoFence,
		OutFenceFd: display.NoFence,
		SharedFd:   display.NoFence,
		OpMode:     hwabi.DIRECT_COMPOSE_MODE,
		Format:     uint32(fb.Format),
		Zorder:     zorder,
		BlendMode:  uint32(fb.Blend),
		PlaneAlpha: alpha8(fb.PlaneAlpha),
	}
	if o.hwCaps&hwabi.OSD_ZORDER != 0 {
		cfg.Magic = hwabi.OSD_SYNC_REQUEST_RENDER_MAGIC_V2
	}
	crop, frame := fb.SourceCrop, fb.DisplayFrame
	cfg.Xoffset, cfg.Yoffset = uint32(crop.Left), uint32(crop.Top)
	cfg.Width, cfg.Height = uint32(crop.Width()), uint32(crop.Height())
	cfg.DstX, cfg.DstY, cfg.DstW, cfg.DstH = frame.Left, frame.Top, frame.Width(), frame.Height()

	if fb.Type == display.FbColor {
		cfg.DimLayer = 1
		cfg.DimColor = fb.Color
	} else {
		cfg.ByteStride = fb.Stride
		if bpp := fb.Format.BytesPerPixel(); bpp > 0 {
			cfg.PixelStride = fb.Stride / bpp
		}
		if fb.Afbc {
			cfg.AfbcInternalFormat = uint32(fb.Format)
		}
		// the kernel takes ownership of the duplicate
		sharedFd, err := display.DupFd(fb.BufferFd)
		if err != nil {
			return err
		}
		cfg.SharedFd = int32(sharedFd)
	}
	inFence, err := takeInFence(fb, o.settings, o)
	if err != nil {
		closeFd(int(cfg.SharedFd))
		return err
	}
	cfg.InFenceFd = int32(inFence)

	if err := o.dev.Ioctl(hwabi.FBIOPUT_OSD_SYNC_RENDER_ADD, &cfg); err != nil {
		closeFd(int(cfg.SharedFd))
		closeFd(int(cfg.InFenceFd))
		return err
	}
	o.blank = false
	return o.advance(fb, display.NewFence(int(cfg.OutFenceFd)))
}

// advance makes fb current and hands fence to the previous buffer.
func (o *osdDevice) advance(fb *display.Framebuffer, fence *display.Fence) error {
	defer fence.Close()
	if o.settings.SyncWaitRelease {
		logx.IsErr(fence.Wait(-1), o, slog.LevelWarn, `plane`, o.id)
	}
	prev := o.slot.Advance(fb)
	return display.Retire(prev, fence)
}

// setBlank blanks the layer once and releases the held buffer.
func (o *osdDevice) setBlank() error {
	if o.blank {
		return nil
	}
	req := hwabi.OsdBlankRequest{
		Magic:      hwabi.OSD_SYNC_BLANK_MAGIC,
		Blank:      1,
		OutFenceFd: display.NoFence,
	}
	if err := o.dev.Ioctl(hwabi.FBIOPUT_OSD_SYNC_BLANK, &req); err != nil {
		return err
	}
	o.blank = true
	fence := display.NewFence(int(req.OutFenceFd))
	defer fence.Close()
	return display.Retire(o.slot.Clear(), fence)
}

func (o *osdDevice) Close() error {
	return display.Retire(o.slot.Clear(), nil)
}

// OsdPlane is a general purpose overlay layer.
type OsdPlane struct {
	osdDevice
	caps display.Capability
}

var _ display.Plane = (*OsdPlane)(nil)

// NewOsdPlane creates the plane of fb device fbIdx with the capability
// bits hwCaps reported by the driver.
func NewOsdPlane(id uint32, fbIdx int, dev display.Device, hwCaps uint32, s *display.Settings) *OsdPlane {
	p := &OsdPlane{osdDevice: osdDevice{
		id:       id,
		fbIdx:    fbIdx,
		dev:      dev,
		settings: s,
		hwCaps:   hwCaps,
	}}
	p.caps = p.loadCapabilities()
	return p
}

func (p *OsdPlane) loadCapabilities() display.Capability {
	var caps display.Capability
	if p.hwCaps&hwabi.OSD_ZORDER != 0 {
		caps |= display.CapZorder
	}
	if p.hwCaps&hwabi.OSD_AFBC != 0 {
		caps |= display.CapAfbc
	}
	if p.hwCaps&hwabi.OSD_FREESCALE != 0 {
		if p.fbIdx != 0 {
			caps |= display.CapFreeScale
		} else if _, err := p.settings.ReadString(consts.SysFreeScaleSwitch); err == nil {
			caps |= display.CapFreeScale
		}
	}
	if p.fbIdx == 0 {
		caps |= display.CapPrimary
	}
	if p.hwCaps&hwabi.OSD_UBOOT_LOGO != 0 {
		s, err := p.settings.ReadString(consts.SysOsdLogoIndex)
		if err == nil {
			if idx, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && idx == p.fbIdx {
				caps |= display.CapUbootLogo
			}
		}
	}
	return caps
}

func (p *OsdPlane) Name() string                     { return fmt.Sprintf(`osd%d`, p.fbIdx) }
func (p *OsdPlane) Type() display.PlaneType          { return display.PlaneOsd }
func (p *OsdPlane) Capabilities() display.Capability { return p.caps }
func (p *OsdPlane) FixedZorder() int32               { return display.InvalidZorder }

func (p *OsdPlane) IsFbSupport(fb *display.Framebuffer) bool {
	if fb == nil {
		return false
	}
	switch fb.Type {
	case display.FbScanout:
	case display.FbColor:
		return p.hwCaps&hwabi.OSD_DIMM != 0
	default:
		return false
	}
	switch fb.Format {
	case display.PixelFormatRGBA8888, display.PixelFormatRGBX8888, display.PixelFormatRGB888,
		display.PixelFormatRGB565, display.PixelFormatBGRA8888:
	default:
		return false
	}
	if fb.Afbc && !p.caps.Has(display.CapAfbc) {
		return false
	}
	if fb.Transform != 0 {
		return false
	}
	w, h := fb.SourceCrop.Width(), fb.SourceCrop.Height()
	return w >= osdMinWidth && w <= osdMaxWidth && h >= osdMinHeight && h <= osdMaxHeight
}

func (p *OsdPlane) SetPlane(fb *display.Framebuffer, zorder uint32, op display.BlankOp) error {
	if op != display.Unblank {
		return p.setBlank()
	}
	if fb == nil {
		return errors.WrapPrefix(display.ErrInvalid, `unblank without framebuffer`, 0)
	}
	return p.render(fb, zorder)
}

func (p *OsdPlane) Dump(w io.Writer) {
	fmt.Fprintf(w, "%-3d %-8s caps:%-24s crtcs:0x%x blank:%-5t fb:%s\n",
		p.id, p.Name(), p.caps, p.PossibleCrtcs(), p.blank, p.slot.Current())
}

func alpha8(a float32) uint8 {
	switch {
	case a <= 0:
		return 0
	case a >= 1:
		return 0xff
	}
	return uint8(a*0xff + 0.5)
}

// takeInFence returns the fd to pass as acquire fence. The framebuffer's
// fence is consumed either way.
func takeInFence(fb *display.Framebuffer, s *display.Settings, lp logx.LoggerProvider) (int, error) {
	acq := fb.TakeAcquireFence()
	if acq == nil {
		return display.NoFence, nil
	}
	defer acq.Close()
	if s.DiscardInFence {
		logx.IsErr(acq.Wait(-1), lp, slog.LevelWarn)
		return display.NoFence, nil
	}
	dup, err := acq.Dup()
	if err != nil {
		return display.NoFence, err
	}
	return dup.Release(), nil
}

func closeFd(fd int) {
	_ = display.NewFence(fd).Close()
}
