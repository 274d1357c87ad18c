package display

import (
	"fmt"
	"strings"
)

// Rect is a pixel rectangle. Left/Top are inclusive, Right/Bottom exclusive.
type Rect struct {
	Left, Top, Right, Bottom int32
}

func (r Rect) Width() int32  { return r.Right - r.Left }
func (r Rect) Height() int32 { return r.Bottom - r.Top }
func (r Rect) Empty() bool   { return r.Width() <= 0 || r.Height() <= 0 }

func (r Rect) String() string {
	return fmt.Sprintf(`[%d,%d,%d,%d]`, r.Left, r.Top, r.Right, r.Bottom)
}

// PixelFormat values follow the graphics HAL numbering.
type PixelFormat uint32

const (
	PixelFormatRGBA8888 PixelFormat = 1
	PixelFormatRGBX8888 PixelFormat = 2
	PixelFormatRGB888   PixelFormat = 3
	PixelFormatRGB565   PixelFormat = 4
	PixelFormatBGRA8888 PixelFormat = 5
	PixelFormatYUV422   PixelFormat = 0x10 // YCbCr_422_SP
	PixelFormatNV21     PixelFormat = 0x11 // YCrCb_420_SP
	PixelFormatYUV444   PixelFormat = 0x14
	PixelFormatYV12     PixelFormat = 0x32315659
)

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatRGBA8888:
		return `RGBA8888`
	case PixelFormatRGBX8888:
		return `RGBX8888`
	case PixelFormatRGB888:
		return `RGB888`
	case PixelFormatRGB565:
		return `RGB565`
	case PixelFormatBGRA8888:
		return `BGRA8888`
	case PixelFormatYUV422:
		return `YUV422`
	case PixelFormatNV21:
		return `NV21`
	case PixelFormatYUV444:
		return `YUV444`
	case PixelFormatYV12:
		return `YV12`
	}
	return fmt.Sprintf(`0x%x`, uint32(f))
}

// BytesPerPixel returns 0 for planar formats.
func (f PixelFormat) BytesPerPixel() uint32 {
	switch f {
	case PixelFormatRGBA8888, PixelFormatRGBX8888, PixelFormatBGRA8888:
		return 4
	case PixelFormatRGB888:
		return 3
	case PixelFormatRGB565:
		return 2
	}
	return 0
}

// FbType tags what a framebuffer carries.
type FbType int

const (
	FbScanout FbType = iota
	FbCursor
	FbColor // dim layer, no buffer
	FbVideoOverlay
	FbVideoSideband
	FbVideoOmxPts
	FbVideoOmxV4L
	FbVideoOmxPtsSecond
	FbVideoSidebandSecond
)

var fbTypeNames = [...]string{
	FbScanout:             `scanout`,
	FbCursor:              `cursor`,
	FbColor:               `color`,
	FbVideoOverlay:        `video-overlay`,
	FbVideoSideband:       `video-sideband`,
	FbVideoOmxPts:         `video-omx-pts`,
	FbVideoOmxV4L:         `video-omx-v4l`,
	FbVideoOmxPtsSecond:   `video-omx-pts-2`,
	FbVideoSidebandSecond: `video-sideband-2`,
}

func (t FbType) String() string {
	if t >= 0 && int(t) < len(fbTypeNames) {
		return fbTypeNames[t]
	}
	return fmt.Sprintf(`fbtype(%d)`, int(t))
}

type BlendMode uint32

const (
	BlendNone BlendMode = iota
	BlendPremultiplied
	BlendCoverage
)

// Transform holds rotation/flip flags.
type Transform uint32

const (
	TransformFlipH  Transform = 1 << 0
	TransformFlipV  Transform = 1 << 1
	TransformRot90  Transform = 1 << 2
	TransformRot180           = TransformFlipH | TransformFlipV
	TransformRot270           = TransformRot180 | TransformRot90
)

type BlankOp int

const (
	Unblank BlankOp = iota
	BlankForNoContent
	BlankForSecureContent
)

func (op BlankOp) String() string {
	switch op {
	case Unblank:
		return `unblank`
	case BlankForNoContent:
		return `blank-no-content`
	case BlankForSecureContent:
		return `blank-secure`
	}
	return fmt.Sprintf(`blankop(%d)`, int(op))
}

type PlaneType int

const (
	PlaneOsd PlaneType = iota
	PlaneCursor
	PlaneDummy
	PlaneLegacyVideo
	PlaneLegacyExtVideo
	PlaneHwcVideo
)

func (t PlaneType) String() string {
	switch t {
	case PlaneOsd:
		return `osd`
	case PlaneCursor:
		return `cursor`
	case PlaneDummy:
		return `dummy`
	case PlaneLegacyVideo:
		return `legacy-video`
	case PlaneLegacyExtVideo:
		return `legacy-ext-video`
	case PlaneHwcVideo:
		return `hwc-video`
	}
	return fmt.Sprintf(`planetype(%d)`, int(t))
}

// Capability is a plane capability bitmask.
type Capability uint32

const (
	CapZorder Capability = 1 << iota
	CapAfbc
	CapFreeScale
	CapPrimary
	CapUbootLogo
)

func (c Capability) Has(bits Capability) bool { return c&bits == bits }

func (c Capability) String() string {
	var s []string
	for _, b := range []struct {
		c Capability
		n string
	}{
		{CapZorder, `zorder`},
		{CapAfbc, `afbc`},
		{CapFreeScale, `free-scale`},
		{CapPrimary, `primary`},
		{CapUbootLogo, `uboot-logo`},
	} {
		if c&b.c != 0 {
			s = append(s, b.n)
		}
	}
	if len(s) == 0 {
		return `-`
	}
	return strings.Join(s, `|`)
}

// z-order conventions
const (
	InvalidZorder int32 = -1
	// VideoZorder is the fixed position of the legacy video layer; 0 is
	// reserved by the driver.
	VideoZorder int32 = 1
	// CursorZorder keeps the cursor above every osd layer.
	CursorZorder int32 = 64
)

// CrtcID names a physical output pipeline.
type CrtcID uint32

const (
	Vout1 CrtcID = 0
	Vout2 CrtcID = 1
)

// Mask returns the possible-crtc bit of id.
func (id CrtcID) Mask() uint32 { return 1 << uint32(id) }

func (id CrtcID) String() string {
	switch id {
	case Vout1:
		return `VOUT1`
	case Vout2:
		return `VOUT2`
	}
	return fmt.Sprintf(`VOUT?(%d)`, uint32(id))
}

type ConnectorType int

const (
	ConnectorHdmi ConnectorType = iota
	ConnectorPanel
	ConnectorCvbs
	ConnectorDummy
)

func (t ConnectorType) String() string {
	switch t {
	case ConnectorHdmi:
		return `HDMI`
	case ConnectorPanel:
		return `PANEL`
	case ConnectorCvbs:
		return `CVBS`
	case ConnectorDummy:
		return `DUMMY`
	}
	return fmt.Sprintf(`connector(%d)`, int(t))
}

// ParseConnectorType accepts the lower case names used on the command line.
func ParseConnectorType(s string) (ConnectorType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case `hdmi`:
		return ConnectorHdmi, true
	case `panel`:
		return ConnectorPanel, true
	case `cvbs`:
		return ConnectorCvbs, true
	case `dummy`:
		return ConnectorDummy, true
	}
	return 0, false
}

// id namespaces
const (
	OsdPlaneIdxMin   uint32 = 0
	VideoPlaneIdxMin uint32 = 30
	ConnectorIdxMin  uint32 = 70
)

// ModeInfo describes one display mode.
type ModeInfo struct {
	Name        string
	DpiX        uint32
	DpiY        uint32
	PixelW      uint32
	PixelH      uint32
	RefreshRate float32
}

func (m ModeInfo) String() string {
	return fmt.Sprintf(`%s %dx%d@%.3f dpi %dx%d`, m.Name, m.PixelW, m.PixelH, m.RefreshRate, m.DpiX, m.DpiY)
}

// HdrCapabilities summarises the sink's HDR support. Luminance values are
// in cd/m².
type HdrCapabilities struct {
	DolbyVision  bool
	Hdr10        bool
	Hlg          bool
	MaxLuminance int
	AvgLuminance int
	MinLuminance int
	// DolbyVision up to 2160p60
	DvMax4K60 bool
}
