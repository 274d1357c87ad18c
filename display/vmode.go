package display

import "strings"

// Vmode enumerates the output timings known to the display driver.
type Vmode int

const (
	VmodeInvalid Vmode = iota - 1
	Vmode480i
	Vmode480iRpt
	Vmode480Cvbs
	Vmode480p
	Vmode480pRpt
	Vmode576i
	Vmode576iRpt
	Vmode576Cvbs
	Vmode576p
	Vmode576pRpt
	Vmode720p
	Vmode720p50hz
	Vmode768p
	Vmode768p50hz
	Vmode1080i
	Vmode1080i50hz
	Vmode1080p
	Vmode1080p30hz
	Vmode1080p50hz
	Vmode1080p25hz
	Vmode1080p24hz
	Vmode4k2k30hz
	Vmode4k2k25hz
	Vmode4k2k24hz
	Vmode4k2kSmpte
	Vmode4k2kSmpte25hz
	Vmode4k2kSmpte30hz
	Vmode4k2kSmpte50hz
	Vmode4k2kSmpte60hz
	Vmode4k2k50hz
	Vmode4k2k60hz
	Vmode4k2k60hzY420
	Vmode4k2k50hzY420
	Vmode4k2kSmpte50hzY420
	Vmode4k2kSmpte60hzY420
	VmodeLcd
	VmodeNull
	vmodeMax
)

type vmodeEntry struct {
	mode       Vmode
	name       string
	width      uint32
	height     uint32
	refresh    float32
	interlaced bool
}

// vmodeTable is ordered; NameToVmode returns the first row whose name is
// contained in the queried string, so rows that extend an earlier name
// (the 420 variants) never resolve to themselves.
var vmodeTable = [...]vmodeEntry{
	{Vmode480i, `480i60hz`, 720, 480, 60, true},
	{Vmode480iRpt, `480i_rpt`, 720, 480, 60, true},
	{Vmode480Cvbs, `480cvbs`, 720, 480, 60, true},
	{Vmode480p, `480p60hz`, 720, 480, 60, false},
	{Vmode480pRpt, `480p_rpt`, 720, 480, 60, false},
	{Vmode576i, `576i50hz`, 720, 576, 50, true},
	{Vmode576iRpt, `576i_rpt`, 720, 576, 50, true},
	{Vmode576Cvbs, `576cvbs`, 720, 576, 50, true},
	{Vmode576p, `576p50hz`, 720, 576, 50, false},
	{Vmode576pRpt, `576p_rpt`, 720, 576, 50, false},
	{Vmode720p, `720p60hz`, 1280, 720, 60, false},
	{Vmode720p50hz, `720p50hz`, 1280, 720, 50, false},
	{Vmode768p, `768p60hz`, 1366, 768, 60, false},
	{Vmode768p50hz, `768p50hz`, 1366, 768, 50, false},
	{Vmode1080i, `1080i60hz`, 1920, 1080, 60, true},
	{Vmode1080i50hz, `1080i50hz`, 1920, 1080, 50, true},
	{Vmode1080p, `1080p60hz`, 1920, 1080, 60, false},
	{Vmode1080p30hz, `1080p30hz`, 1920, 1080, 30, false},
	{Vmode1080p50hz, `1080p50hz`, 1920, 1080, 50, false},
	{Vmode1080p25hz, `1080p25hz`, 1920, 1080, 25, false},
	{Vmode1080p24hz, `1080p24hz`, 1920, 1080, 24, false},
	{Vmode4k2k30hz, `2160p30hz`, 3840, 2160, 30, false},
	{Vmode4k2k25hz, `2160p25hz`, 3840, 2160, 25, false},
	{Vmode4k2k24hz, `2160p24hz`, 3840, 2160, 24, false},
	{Vmode4k2kSmpte, `smpte24hz`, 4096, 2160, 24, false},
	{Vmode4k2kSmpte25hz, `smpte25hz`, 4096, 2160, 25, false},
	{Vmode4k2kSmpte30hz, `smpte30hz`, 4096, 2160, 30, false},
	{Vmode4k2kSmpte50hz, `smpte50hz`, 4096, 2160, 50, false},
	{Vmode4k2kSmpte60hz, `smpte60hz`, 4096, 2160, 60, false},
	{Vmode4k2k50hz, `2160p50hz`, 3840, 2160, 50, false},
	{Vmode4k2k60hz, `2160p60hz`, 3840, 2160, 60, false},
	{Vmode4k2k60hzY420, `2160p60hz420`, 3840, 2160, 60, false},
	{Vmode4k2k50hzY420, `2160p50hz420`, 3840, 2160, 50, false},
	{Vmode4k2kSmpte50hzY420, `smpte50hz420`, 4096, 2160, 50, false},
	{Vmode4k2kSmpte60hzY420, `smpte60hz420`, 4096, 2160, 60, false},
	{VmodeLcd, `panel`, 0, 0, 60, false},
	{VmodeNull, `null`, 0, 0, 0, false},
}

// NullModeName is written to tear an output down.
const NullModeName = `null`

// VmodeToName returns the driver string of v, or "invalid".
func VmodeToName(v Vmode) string {
	if e, ok := vmodeLookup(v); ok {
		return e.name
	}
	return `invalid`
}

// NameToVmode matches s against the table by substring, first row wins.
func NameToVmode(s string) Vmode {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return VmodeInvalid
	}
	for _, e := range vmodeTable {
		if strings.Contains(s, e.name) {
			return e.mode
		}
	}
	return VmodeInvalid
}

// VmodeModeInfo returns the geometry of v without dpi.
func VmodeModeInfo(v Vmode) (ModeInfo, bool) {
	e, ok := vmodeLookup(v)
	if !ok {
		return ModeInfo{}, false
	}
	return ModeInfo{
		Name:        e.name,
		PixelW:      e.width,
		PixelH:      e.height,
		RefreshRate: e.refresh,
	}, true
}

// VmodeIsInterlaced reports whether v is an interlaced timing.
func VmodeIsInterlaced(v Vmode) bool {
	e, ok := vmodeLookup(v)
	return ok && e.interlaced
}

func vmodeLookup(v Vmode) (vmodeEntry, bool) {
	if v <= VmodeInvalid || v >= vmodeMax {
		return vmodeEntry{}, false
	}
	for _, e := range vmodeTable {
		if e.mode == v {
			return e, true
		}
	}
	return vmodeEntry{}, false
}

// Vmodes returns every known mode in table order.
func Vmodes() []Vmode {
	modes := make([]Vmode, 0, len(vmodeTable))
	for _, e := range vmodeTable {
		modes = append(modes, e.mode)
	}
	return modes
}
