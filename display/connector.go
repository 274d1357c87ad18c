package display

import (
	"io"
	"weak"
)

// Connector is a display sink.
type Connector interface {
	ID() uint32
	Name() string
	Type() ConnectorType
	// LoadProperties rediscovers physical size, modes, hdr capability and
	// connection state. Best-effort steps never fail it.
	LoadProperties() error
	// Update refreshes connection and secure state only.
	Update() error
	// Modes returns a snapshot of the cached mode list.
	Modes() *ModeSet
	IsConnected() bool
	IsSecure() bool
	IsRemovable() bool
	HdrCapabilities() HdrCapabilities
	// PhysicalSize is in millimeters, 0 when unknown.
	PhysicalSize() (widthMM, heightMM uint32)
	// BindCrtc stores a non-owning back reference; the zero handle unbinds.
	BindCrtc(h CrtcHandle)
	BoundCrtc() CrtcHandle
	Dump(w io.Writer)
}

// ModeSetHook is implemented by connectors with their own policy on mode
// changes. Crtc.SetMode calls it before switching.
type ModeSetHook interface {
	SetMode(m ModeInfo) error
}

// CrtcHandle is a weak reference from a connector to its Crtc.
type CrtcHandle struct {
	p weak.Pointer[Crtc]
}

// Handle returns a weak reference to c.
func (c *Crtc) Handle() CrtcHandle {
	if c == nil {
		return CrtcHandle{}
	}
	return CrtcHandle{p: weak.Make(c)}
}

// Crtc returns the referenced Crtc or nil.
func (h CrtcHandle) Crtc() *Crtc { return h.p.Value() }

func (h CrtcHandle) Valid() bool { return h.Crtc() != nil }
