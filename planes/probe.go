package planes

import (
	"fmt"

	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal/consts"
	"github.com/srlehn/hwdisplay/internal/hwabi"
	"github.com/srlehn/hwdisplay/internal/logx"
)

func init() {
	display.RegisterPlaneProber(&osdProber{})
	display.RegisterPlaneProber(&amvideoProber{})
	display.RegisterPlaneProber(&videoHwcProber{})
	display.RegisterFallbackPlane(func(ctx *display.ProbeContext) display.Plane {
		return NewDummyPlane(ctx.NextOsdPlaneID())
	})
}

// osdProber classifies fb devices into osd and cursor planes.
type osdProber struct{}

func (p *osdProber) Name() string      { return `osd` }
func (p *osdProber) Path(n int) string { return fmt.Sprintf(consts.DevGraphicsFb, n) }

func (p *osdProber) Probe(dev display.Device, n int, ctx *display.ProbeContext) (*display.ProbeResult, error) {
	var caps uint32
	if err := dev.Ioctl(hwabi.FBIOGET_OSD_CAPBILITY, &caps); err != nil {
		return nil, err
	}
	if caps&hwabi.OSD_LAYER_ENABLE == 0 {
		logx.Debug(`osd layer disabled`, ctx, `fb`, n)
		return &display.ProbeResult{}, nil
	}
	if caps&hwabi.OSD_HW_CURSOR != 0 {
		return &display.ProbeResult{
			Planes: []display.Plane{NewCursorPlane(ctx.NextOsdPlaneID(), n, dev, caps, ctx.Settings)},
		}, nil
	}
	res := &display.ProbeResult{
		Planes: []display.Plane{NewOsdPlane(ctx.NextOsdPlaneID(), n, dev, caps, ctx.Settings)},
	}
	if caps&hwabi.OSD_VIU1 != 0 {
		res.Vouts = append(res.Vouts, display.Vout1)
	}
	if caps&hwabi.OSD_VIU2 != 0 {
		res.Vouts = append(res.Vouts, display.Vout2)
	}
	return res, nil
}

// amvideoProber yields a main and a pip plane per amvideo device.
type amvideoProber struct{}

func (p *amvideoProber) Name() string { return `amvideo` }

func (p *amvideoProber) Path(n int) string {
	if n == 0 {
		return consts.DevAmvideo
	}
	return fmt.Sprintf(consts.DevAmvideoN, n)
}

func (p *amvideoProber) Probe(dev display.Device, n int, ctx *display.ProbeContext) (*display.ProbeResult, error) {
	return &display.ProbeResult{
		Planes: []display.Plane{
			NewLegacyVideoPlane(ctx.NextVideoPlaneID(), dev, ctx.Settings),
			NewLegacyExtVideoPlane(ctx.NextVideoPlaneID(), dev, ctx.Settings),
		},
	}, nil
}

type videoHwcProber struct{}

func (p *videoHwcProber) Name() string      { return `video_hwc` }
func (p *videoHwcProber) Path(n int) string { return fmt.Sprintf(consts.DevVideoHwc, n) }

func (p *videoHwcProber) Probe(dev display.Device, n int, ctx *display.ProbeContext) (*display.ProbeResult, error) {
	return &display.ProbeResult{
		Planes: []display.Plane{NewHwcVideoPlane(ctx.NextVideoPlaneID(), n, dev, ctx.Settings)},
	}, nil
}
