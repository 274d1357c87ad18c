package display

import (
	"github.com/srlehn/hwdisplay/internal/errors"
)

// PlaneProber discovers the planes of one device family. Device nodes of a
// family are numbered densely from 0.
type PlaneProber interface {
	Name() string
	// Path returns the device node of the n-th device or "" past the end.
	Path(n int) string
	// Probe inspects an opened device. Returned planes may share dev,
	// which stays owned by the manager.
	Probe(dev Device, n int, ctx *ProbeContext) (*ProbeResult, error)
}

// ProbeResult lists what a device provides.
type ProbeResult struct {
	Planes []Plane
	// Vouts are the outputs the device can drive; a Crtc is created for
	// each new one.
	Vouts []CrtcID
}

// ProbeContext hands out plane ids and shares settings during probing.
type ProbeContext struct {
	*Settings
	osdIdx   uint32
	videoIdx uint32
}

func newProbeContext(s *Settings) *ProbeContext { return &ProbeContext{Settings: s} }

func (c *ProbeContext) NextOsdPlaneID() uint32 {
	id := OsdPlaneIdxMin + c.osdIdx
	c.osdIdx++
	return id
}

func (c *ProbeContext) NextVideoPlaneID() uint32 {
	id := VideoPlaneIdxMin + c.videoIdx
	c.videoIdx++
	return id
}

var planeProbersRegistered []PlaneProber

// RegisterPlaneProber adds a prober. Probers run in registration order.
func RegisterPlaneProber(p PlaneProber) {
	if p == nil {
		return
	}
	planeProbersRegistered = append(planeProbersRegistered, p)
}

var fallbackPlane func(ctx *ProbeContext) Plane

// RegisterFallbackPlane sets the constructor of the plane used when no
// hardware plane exists.
func RegisterFallbackPlane(fn func(ctx *ProbeContext) Plane) {
	fallbackPlane = fn
}

func newFallbackPlane(ctx *ProbeContext) (Plane, error) {
	if fallbackPlane == nil {
		return nil, errors.New(`no fallback plane registered`)
	}
	return fallbackPlane(ctx), nil
}
