package display

import (
	"io"
)

// Plane is one hardware scanout or overlay engine.
type Plane interface {
	ID() uint32
	Name() string
	Type() PlaneType
	Capabilities() Capability
	// FixedZorder returns InvalidZorder unless the hardware enforces a
	// position.
	FixedZorder() int32
	// PossibleCrtcs is a mask of CrtcID.Mask bits.
	PossibleCrtcs() uint32
	// IsFbSupport reports whether fb can be shown by the plane. SetPlane
	// does not validate again.
	IsFbSupport(fb *Framebuffer) bool
	// SetPlane programs the plane for the next frame. With a blanking op
	// fb may be nil; the held framebuffer is released.
	SetPlane(fb *Framebuffer, zorder uint32, op BlankOp) error
	// Displayed returns the framebuffer currently held.
	Displayed() *Framebuffer
	Dump(w io.Writer)
	Close() error
}
