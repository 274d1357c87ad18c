package planes

import (
	"fmt"
	"io"

	"github.com/srlehn/hwdisplay/display"
)

// DummyPlane stands in for missing hardware. It accepts no framebuffer.
type DummyPlane struct {
	id uint32
}

var _ display.Plane = (*DummyPlane)(nil)

func NewDummyPlane(id uint32) *DummyPlane { return &DummyPlane{id: id} }

func (p *DummyPlane) ID() uint32                                                   { return p.id }
func (p *DummyPlane) Name() string                                                 { return `dummy` }
func (p *DummyPlane) Type() display.PlaneType                                      { return display.PlaneDummy }
func (p *DummyPlane) Capabilities() display.Capability                             { return 0 }
func (p *DummyPlane) FixedZorder() int32                                           { return display.InvalidZorder }
func (p *DummyPlane) PossibleCrtcs() uint32                                        { return display.Vout1.Mask() | display.Vout2.Mask() }
func (p *DummyPlane) IsFbSupport(fb *display.Framebuffer) bool                     { return false }
func (p *DummyPlane) Displayed() *display.Framebuffer                              { return nil }
func (p *DummyPlane) Close() error                                                 { return nil }
func (p *DummyPlane) Dump(w io.Writer)                                             { fmt.Fprintf(w, "%-3d %-8s\n", p.id, p.Name()) }
func (p *DummyPlane) SetPlane(*display.Framebuffer, uint32, display.BlankOp) error { return nil }
