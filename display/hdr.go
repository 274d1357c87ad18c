package display

import (
	"github.com/srlehn/hwdisplay/internal/hwabi"
)

// HdrKey names a static hdr metadata value.
type HdrKey int

const (
	HdrRedX HdrKey = iota
	HdrRedY
	HdrGreenX
	HdrGreenY
	HdrBlueX
	HdrBlueY
	HdrWhitePointX
	HdrWhitePointY
	HdrMaxLuminance              // cd/m²
	HdrMinLuminance              // cd/m²
	HdrMaxContentLightLevel      // cd/m²
	HdrMaxFrameAverageLightLevel // cd/m²
)

var hdrKeyNames = [...]string{
	HdrRedX:                      `red-x`,
	HdrRedY:                      `red-y`,
	HdrGreenX:                    `green-x`,
	HdrGreenY:                    `green-y`,
	HdrBlueX:                     `blue-x`,
	HdrBlueY:                     `blue-y`,
	HdrWhitePointX:               `white-x`,
	HdrWhitePointY:               `white-y`,
	HdrMaxLuminance:              `max-luminance`,
	HdrMinLuminance:              `min-luminance`,
	HdrMaxContentLightLevel:      `max-cll`,
	HdrMaxFrameAverageLightLevel: `max-fall`,
}

func (k HdrKey) String() string {
	if k >= 0 && int(k) < len(hdrKeyNames) {
		return hdrKeyNames[k]
	}
	return `hdr-key?`
}

// HdrMetadata is a sparse set of static metadata values.
type HdrMetadata map[HdrKey]float64

// fixed point factors of the video pipeline
const (
	hdrChromaticityScale = 50000
	hdrMaxLumScale       = 1000
	hdrMinLumScale       = 10000
)

func hdrInfoFromMetadata(md HdrMetadata) hwabi.HdrInfo {
	var info hwabi.HdrInfo
	if len(md) == 0 {
		return info
	}
	fp := func(k HdrKey, scale float64) uint32 {
		v, ok := md[k]
		if !ok || v <= 0 {
			return 0
		}
		return uint32(v*scale + 0.5)
	}
	info.Primaries[0] = [2]uint32{fp(HdrGreenX, hdrChromaticityScale), fp(HdrGreenY, hdrChromaticityScale)}
	info.Primaries[1] = [2]uint32{fp(HdrBlueX, hdrChromaticityScale), fp(HdrBlueY, hdrChromaticityScale)}
	info.Primaries[2] = [2]uint32{fp(HdrRedX, hdrChromaticityScale), fp(HdrRedY, hdrChromaticityScale)}
	info.WhitePoint = [2]uint32{fp(HdrWhitePointX, hdrChromaticityScale), fp(HdrWhitePointY, hdrChromaticityScale)}
	info.Luminance = [2]uint32{fp(HdrMaxLuminance, hdrMaxLumScale), fp(HdrMinLuminance, hdrMinLumScale)}
	info.MaxContent = fp(HdrMaxContentLightLevel, 1)
	info.MaxPicAverage = fp(HdrMaxFrameAverageLightLevel, 1)
	if info != (hwabi.HdrInfo{}) {
		info.PresentFlag = 1
	}
	return info
}
