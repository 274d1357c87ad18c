// Package fbdev queries linux framebuffer devices.
package fbdev

import (
	"image"

	"github.com/srlehn/hwdisplay/internal/errors"
	"github.com/srlehn/hwdisplay/internal/hwabi"
)

// Ioctler is the part of a device node needed for screen info queries.
type Ioctler interface {
	Ioctl(req uint, arg any) error
}

// <linux/fb.h> struct fb_var_screeninfo
type VarScreenInfo struct {
	Xres         uint32
	Yres         uint32
	XresVirtual  uint32
	YresVirtual  uint32
	Xoffset      uint32
	Yoffset      uint32
	BitsPerPixel uint32
	Grayscale    uint32
	Red          BitField
	Green        BitField
	Blue         BitField
	Transp       BitField
	Nonstd       uint32
	Activate     uint32
	Height       uint32 // mm
	Width        uint32 // mm
	AccelFlags   uint32
	Pixclock     uint32
	LeftMargin   uint32
	RightMargin  uint32
	UpperMargin  uint32
	LowerMargin  uint32
	HsyncLen     uint32
	VsyncLen     uint32
	Sync         uint32
	Vmode        uint32
	Rotate       uint32
	Colorspace   uint32
	Reserved     [4]uint32
}

// <linux/fb.h> struct fb_bitfield
type BitField struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

// ScreenInfo reads the variable screen info of an fb device.
func ScreenInfo(dev Ioctler) (*VarScreenInfo, error) {
	if dev == nil {
		return nil, errors.NilParam()
	}
	vinfo := &VarScreenInfo{}
	if err := dev.Ioctl(hwabi.FBIOGET_VSCREENINFO, vinfo); err != nil {
		return nil, errors.New(err)
	}
	return vinfo, nil
}

// Bounds returns the visible resolution of an fb device.
func Bounds(dev Ioctler) (image.Rectangle, error) {
	vinfo, err := ScreenInfo(dev)
	if err != nil {
		return image.Rectangle{}, err
	}
	return image.Rectangle{Max: image.Point{X: int(vinfo.Xres), Y: int(vinfo.Yres)}}, nil
}
