package connectors

import (
	"strconv"
	"strings"

	"github.com/srlehn/hwdisplay/display"
)

// markers in the dv_cap and hdr_cap attributes
const (
	markerDolbyVision  = `DolbyVision RX support list`
	markerHdr10        = `SMPTE ST 2084: 1`
	markerHlg          = `Hybrid Log-Gamma: 1`
	markerHlgMisspelt  = `Hybrif Log-Gamma: 1`
	markerMaxLuminance = `Max Luminance Data: `
	markerAvgLuminance = `Max Frame-average Luminance Data: `
	markerMinLuminance = `Min Luminance Data: `
	markerDv2160p60    = `2160p60hz`
)

// ParseHdrCapabilities scrapes the capability attributes of the hdmi
// transmitter. Missing markers leave fields zero.
func ParseHdrCapabilities(dvCap, hdrCap string) display.HdrCapabilities {
	var caps display.HdrCapabilities
	if strings.Contains(dvCap, markerDolbyVision) {
		caps.DolbyVision = true
		caps.DvMax4K60 = strings.Contains(dvCap, markerDv2160p60)
	}
	caps.Hdr10 = strings.Contains(hdrCap, markerHdr10)
	caps.Hlg = strings.Contains(hdrCap, markerHlg) || strings.Contains(hdrCap, markerHlgMisspelt)
	caps.MaxLuminance, _ = numberAfter(hdrCap, markerMaxLuminance)
	caps.AvgLuminance, _ = numberAfter(hdrCap, markerAvgLuminance)
	caps.MinLuminance, _ = numberAfter(hdrCap, markerMinLuminance)
	return caps
}

// numberAfter parses the integer following label up to the end of line.
func numberAfter(s, label string) (int, bool) {
	i := strings.Index(s, label)
	if i < 0 {
		return 0, false
	}
	rest := s[i+len(label):]
	if j := strings.IndexByte(rest, '\n'); j >= 0 {
		rest = rest[:j]
	}
	v, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return 0, false
	}
	return v, true
}
