package display

// DefaultDpi is used when the physical size is unknown or implausible.
const DefaultDpi = 160

// physical sizes at or below these are not trusted
const (
	minPhysicalWidthMM  = 16
	minPhysicalHeightMM = 9
)

// ComputeDpi returns the horizontal and vertical density of a mode of
// pixelW x pixelH on a sink of widthMM x heightMM.
func ComputeDpi(pixelW, pixelH, widthMM, heightMM uint32) (dpiX, dpiY uint32) {
	if widthMM > minPhysicalWidthMM && heightMM > minPhysicalHeightMM {
		dpiX = uint32(float64(pixelW) * 25.4 / float64(widthMM))
		dpiY = uint32(float64(pixelH) * 25.4 / float64(heightMM))
		return dpiX, dpiY
	}
	return DefaultDpi, DefaultDpi
}

// WithDpi returns m with dpi filled in for the given physical size.
func (m ModeInfo) WithDpi(widthMM, heightMM uint32) ModeInfo {
	m.DpiX, m.DpiY = ComputeDpi(m.PixelW, m.PixelH, widthMM, heightMM)
	return m
}
