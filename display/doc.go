// Package display models the hardware composition resources of a display
// controller: planes, connectors and CRTCs, and the Manager that discovers
// them by probing device nodes.
//
// Variants of planes and connectors are provided by other packages and
// registered from their init functions:
//
//	import (
//		_ "github.com/srlehn/hwdisplay/connectors"
//		_ "github.com/srlehn/hwdisplay/planes"
//	)
//
// All per-frame calls on a Crtc and its planes (SetPlane, PageFlip,
// WaitVBlank, SetMode) must come from a single goroutine per Crtc.
package display
