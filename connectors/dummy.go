package connectors

import (
	"io"

	"github.com/srlehn/hwdisplay/display"
)

// Dummy is always connected with a single 1080p60hz mode.
type Dummy struct {
	connectorBase
}

var _ display.Connector = (*Dummy)(nil)

func NewDummy(id uint32, s *display.Settings) *Dummy {
	c := &Dummy{connectorBase: newConnectorBase(id, display.ConnectorDummy, s)}
	c.connected = true
	if m, ok := display.VmodeModeInfo(display.Vmode1080p); ok {
		m.DpiX, m.DpiY = display.DefaultDpi, display.DefaultDpi
		c.modes.Add(m)
	}
	return c
}

func (c *Dummy) IsRemovable() bool     { return false }
func (c *Dummy) Update() error         { return nil }
func (c *Dummy) LoadProperties() error { return nil }
func (c *Dummy) Dump(w io.Writer)      { c.dump(w, c.IsRemovable()) }
