package connectors

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal/logx"
)

// connectorBase holds the state every connector caches.
type connectorBase struct {
	id       uint32
	typ      display.ConnectorType
	settings *display.Settings

	mu        sync.Mutex
	crtc      display.CrtcHandle
	modes     *display.ModeSet
	connected bool
	secure    bool
	hdr       display.HdrCapabilities
	widthMM   uint32
	heightMM  uint32
}

func newConnectorBase(id uint32, typ display.ConnectorType, s *display.Settings) connectorBase {
	if s == nil {
		s = &display.Settings{}
	}
	return connectorBase{id: id, typ: typ, settings: s, modes: display.NewModeSet()}
}

func (c *connectorBase) Logger() *slog.Logger { return c.settings.Logger() }

func (c *connectorBase) ID() uint32                  { return c.id }
func (c *connectorBase) Name() string                { return c.typ.String() }
func (c *connectorBase) Type() display.ConnectorType { return c.typ }

func (c *connectorBase) Modes() *display.ModeSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modes.Clone()
}

func (c *connectorBase) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *connectorBase) IsSecure() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.secure
}

func (c *connectorBase) HdrCapabilities() display.HdrCapabilities {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hdr
}

func (c *connectorBase) PhysicalSize() (widthMM, heightMM uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.widthMM, c.heightMM
}

func (c *connectorBase) BindCrtc(h display.CrtcHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.crtc = h
}

func (c *connectorBase) BoundCrtc() display.CrtcHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.crtc
}

// loadPhysicalSize asks the bound crtc. Without one the size stays unknown.
func (c *connectorBase) loadPhysicalSize() {
	c.mu.Lock()
	crtc := c.crtc.Crtc()
	c.mu.Unlock()
	if crtc == nil {
		return
	}
	w, h, err := crtc.PhysicalSize()
	if logx.IsErr(err, c, slog.LevelDebug, `connector`, c.Name()) {
		return
	}
	c.mu.Lock()
	c.widthMM, c.heightMM = w, h
	c.mu.Unlock()
}

// readFlag reads a sysfs attribute holding 0 or 1.
func (c *connectorBase) readFlag(path string) (bool, error) {
	s, err := c.settings.ReadString(path)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(s) == `1`, nil
}

func (c *connectorBase) dump(w io.Writer, removable bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(w, "connector %d %s: connected:%t secure:%t removable:%t size:%dx%dmm crtc:%t\n",
		c.id, c.typ, c.connected, c.secure, removable, c.widthMM, c.heightMM, c.crtc.Valid())
	if c.hdr != (display.HdrCapabilities{}) {
		fmt.Fprintf(w, "  hdr: %+v\n", c.hdr)
	}
	c.modes.Dump(w)
}
