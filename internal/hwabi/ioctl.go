// Package hwabi holds the request numbers and argument layouts of the
// display, video and capture drivers.
//
// The structs are passed to the kernel verbatim; field order and sizes
// must not change.
package hwabi

import "unsafe"

// asm-generic/ioctl.h encoding
const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocWrite = 1
	iocRead  = 2
)

const (
	fbMagic       = 'F'
	amstreamMagic = 'S'
	voutMagic     = 'C'
	tvinMagic     = 'T'
	videoHwcMagic = 'W'
)

// osd / fb
const (
	FBIOGET_OSD_CAPBILITY       = uint(iocRead<<iocDirShift | unsafe.Sizeof(uint32(0))<<iocSizeShift | fbMagic<<iocTypeShift | 0x38)
	FBIOPUT_OSD_SYNC_RENDER_ADD = uint((iocRead|iocWrite)<<iocDirShift | unsafe.Sizeof(OsdPlaneConfig{})<<iocSizeShift | fbMagic<<iocTypeShift | 0x17)
	FBIOPUT_OSD_SYNC_BLANK      = uint((iocRead|iocWrite)<<iocDirShift | unsafe.Sizeof(OsdBlankRequest{})<<iocSizeShift | fbMagic<<iocTypeShift | 0x19)
	FBIOPUT_OSD_CURSOR          = uint((iocRead|iocWrite)<<iocDirShift | unsafe.Sizeof(OsdCursorPos{})<<iocSizeShift | fbMagic<<iocTypeShift | 0x20)
	FBIOPUT_OSD_REVERSE         = uint(iocWrite<<iocDirShift | unsafe.Sizeof(uint32(0))<<iocSizeShift | fbMagic<<iocTypeShift | 0x1c)
	FBIOPUT_OSD_DO_HWC          = uint((iocRead|iocWrite)<<iocDirShift | unsafe.Sizeof(HwcCommitInfo{})<<iocSizeShift | fbMagic<<iocTypeShift | 0x39)
	FBIO_WAITFORVSYNC_64        = uint(iocWrite<<iocDirShift | unsafe.Sizeof(uint64(0))<<iocSizeShift | fbMagic<<iocTypeShift | 0x21)

	// linux/fb.h
	FBIOGET_VSCREENINFO = 0x4600
	FBIOGET_FSCREENINFO = 0x4602
)

// amstream
const (
	AMSTREAM_IOC_SET_VIDEO_DISABLE = uint(iocWrite<<iocDirShift | unsafe.Sizeof(uint32(0))<<iocSizeShift | amstreamMagic<<iocTypeShift | 0x49)
	AMSTREAM_IOC_SET_VIDEO_MUTE    = uint(iocWrite<<iocDirShift | unsafe.Sizeof(uint32(0))<<iocSizeShift | amstreamMagic<<iocTypeShift | 0x4b)
	AMSTREAM_IOC_SET_ZORDER        = uint(iocWrite<<iocDirShift | unsafe.Sizeof(uint32(0))<<iocSizeShift | amstreamMagic<<iocTypeShift | 0x4c)
	AMSTREAM_IOC_SET_HDR_INFO      = uint(iocWrite<<iocDirShift | unsafe.Sizeof(HdrInfo{})<<iocSizeShift | amstreamMagic<<iocTypeShift | 0x5d)
)

// video disable modes
const (
	VideoDisableNone   = 0
	VideoDisableNormal = 1
)

// vout
const (
	VOUT_IOC_CMD_GET_VINFO = uint(iocRead<<iocDirShift | unsafe.Sizeof(VoutVinfo{})<<iocSizeShift | voutMagic<<iocTypeShift | 0x01)
)

// video_hwc
const (
	VIDEO_HWC_IOC_SET_FRAME = uint((iocRead|iocWrite)<<iocDirShift | unsafe.Sizeof(VideoHwcFrame{})<<iocSizeShift | videoHwcMagic<<iocTypeShift | 0x01)
	VIDEO_HWC_IOC_BLANK     = uint(iocWrite<<iocDirShift | unsafe.Sizeof(uint32(0))<<iocSizeShift | videoHwcMagic<<iocTypeShift | 0x02)
)

// vdin
const (
	TVIN_IOC_S_CANVAS_ADDR      = uint(iocWrite<<iocDirShift | unsafe.Sizeof(VdinCanvasTable{})<<iocSizeShift | tvinMagic<<iocTypeShift | 0x4a)
	TVIN_IOC_S_VDIN_V4L2START   = uint(iocWrite<<iocDirShift | unsafe.Sizeof(VdinV4l2Param{})<<iocSizeShift | tvinMagic<<iocTypeShift | 0x25)
	TVIN_IOC_S_VDIN_V4L2STOP    = uint(iocWrite<<iocDirShift | 0<<iocSizeShift | tvinMagic<<iocTypeShift | 0x26)
	TVIN_IOC_S_CANVAS_RECOVERY  = uint(iocWrite<<iocDirShift | 0<<iocSizeShift | tvinMagic<<iocTypeShift | 0x4b)
	VdinMaxCanvas               = 6
	VdinFrameIndexSize          = 4
	VdinPollTimeoutMilliseconds = 20
)
