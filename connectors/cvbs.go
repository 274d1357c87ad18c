package connectors

import (
	"io"

	"github.com/srlehn/hwdisplay/display"
)

var cvbsModes = []display.Vmode{display.Vmode576Cvbs, display.Vmode480Cvbs}

// Cvbs is the analog output. The dac has no hotplug detection.
type Cvbs struct {
	connectorBase
}

var _ display.Connector = (*Cvbs)(nil)

func NewCvbs(id uint32, s *display.Settings) *Cvbs {
	c := &Cvbs{connectorBase: newConnectorBase(id, display.ConnectorCvbs, s)}
	c.connected = true
	return c
}

func (c *Cvbs) IsRemovable() bool { return false }
func (c *Cvbs) Update() error     { return nil }

func (c *Cvbs) LoadProperties() error {
	c.loadPhysicalSize()
	widthMM, heightMM := c.PhysicalSize()
	modes := display.NewModeSet()
	for _, vm := range cvbsModes {
		if m, ok := display.VmodeModeInfo(vm); ok {
			modes.Add(m.WithDpi(widthMM, heightMM))
		}
	}
	c.mu.Lock()
	c.modes = modes
	c.mu.Unlock()
	return nil
}

func (c *Cvbs) Dump(w io.Writer) { c.dump(w, c.IsRemovable()) }
