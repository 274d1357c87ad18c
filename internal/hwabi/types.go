package hwabi

// OSD capability bits reported by FBIOGET_OSD_CAPBILITY.
const (
	OSD_FREESCALE    = 1 << 0
	OSD_UBOOT_LOGO   = 1 << 1
	OSD_ZORDER       = 1 << 2
	OSD_VIU1         = 1 << 3
	OSD_VIU2         = 1 << 4
	OSD_HW_CURSOR    = 1 << 5
	OSD_AFBC         = 1 << 6
	OSD_DIMM         = 1 << 7
	OSD_LAYER_ENABLE = 1 << 31
)

// render request magics
const (
	OSD_SYNC_REQUEST_RENDER_MAGIC_V1 = 0x7272
	OSD_SYNC_REQUEST_RENDER_MAGIC_V2 = 0x7234
	OSD_SYNC_BLANK_MAGIC             = 0x7262
	OSD_HWC_COMMIT_MAGIC             = 0x7268
)

// compose modes
const (
	DIRECT_COMPOSE_MODE = 1
	GE2D_COMPOSE_MODE   = 2
)

// OsdPlaneConfig is the per-frame descriptor of FBIOPUT_OSD_SYNC_RENDER_ADD.
// OutFenceFd is written by the kernel.
type OsdPlaneConfig struct {
	Magic              uint32
	Len                uint32
	Xoffset            uint32
	Yoffset            uint32
	InFenceFd          int32
	OutFenceFd         int32
	Width              uint32
	Height             uint32
	Format             uint32
	SharedFd           int32
	OpMode             uint32
	Type               uint32
	DstX               int32
	DstY               int32
	DstW               int32
	DstH               int32
	ByteStride         uint32
	PixelStride        uint32
	AfbcInternalFormat uint32
	Zorder             uint32
	BlendMode          uint32
	PlaneAlpha         uint8
	DimLayer           uint8
	Reserved           [2]uint8
	DimColor           uint32
}

type OsdBlankRequest struct {
	Magic      uint32
	Blank      uint32
	OutFenceFd int32
	Reserved   uint32
}

type OsdCursorPos struct {
	X int32
	Y int32
}

// reverse modes for FBIOPUT_OSD_REVERSE
const (
	OSD_REVERSE_NONE = 0
	OSD_REVERSE_XY   = 1
	OSD_REVERSE_X    = 2
	OSD_REVERSE_Y    = 3
)

// HwcCommitInfo is the page-flip descriptor of FBIOPUT_OSD_DO_HWC.
type HwcCommitInfo struct {
	Magic       uint32
	OutFenceFd  int32
	BackgroundW uint32
	BackgroundH uint32
	FullscreenW uint32
	FullscreenH uint32
	CurrentX    int32
	CurrentY    int32
	CurrentW    uint32
	CurrentH    uint32
	OsdChannels uint32
	Reserved    [3]uint32
}

type VoutVinfo struct {
	Name             [32]byte
	Mode             uint32
	Width            uint32
	Height           uint32
	FieldHeight      uint32
	AspectRatioNum   uint32
	AspectRatioDen   uint32
	SyncDurationNum  uint32
	SyncDurationDen  uint32
	ScreenRealWidth  uint32
	ScreenRealHeight uint32
	VideoClk         uint32
	ViuColorFmt      uint32
}

// HdrInfo mirrors the master display colour volume of the video pipeline.
// Primaries are ordered green, blue, red.
type HdrInfo struct {
	PresentFlag   uint32
	Primaries     [3][2]uint32
	WhitePoint    [2]uint32
	Luminance     [2]uint32
	MaxContent    uint32
	MaxPicAverage uint32
}

type VideoHwcFrame struct {
	SharedFd   int32
	InFenceFd  int32
	OutFenceFd int32
	Format     uint32
	Width      uint32
	Height     uint32
	CropX      int32
	CropY      int32
	CropW      int32
	CropH      int32
	DispX      int32
	DispY      int32
	DispW      int32
	DispH      int32
	Zorder     uint32
	Transform  uint32
}

type VdinV4l2Param struct {
	Width    uint32
	Height   uint32
	Fps      uint32
	Format   uint32
	BankNum  uint32
	Reserved uint32
}

type VdinCanvas struct {
	Fd    int32
	Index uint32
}

type VdinCanvasTable struct {
	Count    uint32
	Canvas   [VdinMaxCanvas]VdinCanvas
	Reserved uint32
}
