package connectors

import (
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal/consts"
	"github.com/srlehn/hwdisplay/internal/errors"
	"github.com/srlehn/hwdisplay/internal/logx"
)

// refresh rates that get a 1000/1001 variant in frac mode
var fracBaseRates = []float32{24, 30, 60, 120}

// Hdmi is the hotpluggable hdmi transmitter. Modes and hdr capability are
// kept when the sink goes away.
type Hdmi struct {
	connectorBase
}

var (
	_ display.Connector   = (*Hdmi)(nil)
	_ display.ModeSetHook = (*Hdmi)(nil)
)

func NewHdmi(id uint32, s *display.Settings) *Hdmi {
	return &Hdmi{connectorBase: newConnectorBase(id, display.ConnectorHdmi, s)}
}

func (c *Hdmi) IsRemovable() bool { return true }

func (c *Hdmi) LoadProperties() error {
	if err := c.Update(); err != nil {
		return err
	}
	if !c.IsConnected() {
		return nil
	}
	c.loadPhysicalSize()
	c.loadModes()
	c.loadHdrCapabilities()
	return nil
}

// Update reads the hotplug and authentication state.
func (c *Hdmi) Update() error {
	connected, err := c.readFlag(consts.SysHdmiHpdState)
	if err != nil {
		return errors.New(err)
	}
	secure, err := c.readFlag(consts.SysHdmiAuthenticated)
	logx.IsErr(err, c, slog.LevelDebug)
	c.mu.Lock()
	defer c.mu.Unlock()
	if connected != c.connected {
		logx.Info(`hdmi hotplug`, c, `connected`, connected)
	}
	c.connected = connected
	c.secure = connected && secure
	return nil
}

func (c *Hdmi) loadModes() {
	dispCap, err := c.settings.ReadString(consts.SysHdmiDispCap)
	if logx.IsErr(err, c, slog.LevelWarn) {
		return
	}
	widthMM, heightMM := c.PhysicalSize()
	modes := display.NewModeSet()
	for _, line := range strings.Split(dispCap, "\n") {
		name := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), `*`))
		if len(name) == 0 {
			continue
		}
		vm := display.NameToVmode(name)
		m, ok := display.VmodeModeInfo(vm)
		if !ok || vm == display.VmodeNull {
			logx.Debug(`skipping unknown hdmi mode`, c, `mode`, name)
			continue
		}
		m.Name = name
		m = m.WithDpi(widthMM, heightMM)
		modes.Add(m)
		if c.settings.FracMode && isFracBase(m.RefreshRate) {
			frac := m
			frac.RefreshRate = m.RefreshRate * 1000 / 1001
			modes.Add(frac)
		}
	}
	c.mu.Lock()
	c.modes = modes
	c.mu.Unlock()
}

func isFracBase(rate float32) bool {
	for _, r := range fracBaseRates {
		if rate == r {
			return true
		}
	}
	return false
}

func (c *Hdmi) loadHdrCapabilities() {
	dvCap, errDv := c.settings.ReadString(consts.SysHdmiDvCap)
	hdrCap, errHdr := c.settings.ReadString(consts.SysHdmiHdrCap)
	if errDv != nil && errHdr != nil {
		logx.Debug(`no hdr capability`, c, `err`, errors.Join(errDv, errHdr))
		return
	}
	caps := ParseHdrCapabilities(dvCap, hdrCap)
	c.mu.Lock()
	c.hdr = caps
	c.mu.Unlock()
}

// SetMode selects the fractional rate policy matching m.
func (c *Hdmi) SetMode(m display.ModeInfo) error {
	policy := `0`
	if c.isSynthesized(m) {
		policy = `1`
	}
	if err := c.settings.WriteString(consts.SysHdmiFracPolicy, policy); err != nil {
		return errors.New(err)
	}
	return nil
}

func (c *Hdmi) isSynthesized(m display.ModeInfo) bool {
	if math.Floor(float64(m.RefreshRate)) == float64(m.RefreshRate) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _, ok := c.modes.Find(func(e display.ModeInfo) bool {
		return e.Name == m.Name && e.RefreshRate == m.RefreshRate
	})
	return ok
}

func (c *Hdmi) Dump(w io.Writer) { c.dump(w, c.IsRemovable()) }
