package connectors

import (
	"bufio"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal/consts"
	"github.com/srlehn/hwdisplay/internal/errors"
	"github.com/srlehn/hwdisplay/internal/logx"
)

// Panel is a built-in lcd. TV panels also run at 50 Hz.
type Panel struct {
	connectorBase
}

var _ display.Connector = (*Panel)(nil)

func NewPanel(id uint32, s *display.Settings) *Panel {
	p := &Panel{connectorBase: newConnectorBase(id, display.ConnectorPanel, s)}
	p.connected = true
	p.secure = true
	return p
}

func (c *Panel) IsRemovable() bool { return false }

func (c *Panel) Update() error { return nil }

func (c *Panel) LoadProperties() error {
	c.loadPhysicalSize()
	s, err := c.settings.ReadString(consts.SysLcdVinfo)
	if logx.IsErr(err, c, slog.LevelWarn) {
		return nil
	}
	info, err := ParseLcdVinfo(s)
	if logx.IsErr(err, c, slog.LevelWarn) {
		return nil
	}
	widthMM, heightMM := c.PhysicalSize()
	if widthMM == 0 || heightMM == 0 {
		widthMM, heightMM = info.WidthMM, info.HeightMM
	}
	m := display.ModeInfo{
		Name:        info.Name,
		PixelW:      info.Width,
		PixelH:      info.Height,
		RefreshRate: info.RefreshRate(),
	}.WithDpi(widthMM, heightMM)
	modes := display.NewModeSet()
	modes.Add(m)
	if info.TV() && m.RefreshRate != 50 {
		m.RefreshRate = 50
		modes.Add(m)
	}
	c.mu.Lock()
	c.modes = modes
	c.widthMM, c.heightMM = widthMM, heightMM
	c.mu.Unlock()
	return nil
}

func (c *Panel) Dump(w io.Writer) { c.dump(w, c.IsRemovable()) }

// LcdVinfo is the content of the lcd vinfo attribute.
type LcdVinfo struct {
	Name            string
	Mode            string // "tv" or "tablet"
	Width           uint32
	Height          uint32
	SyncDurationNum uint32
	SyncDurationDen uint32
	WidthMM         uint32
	HeightMM        uint32
}

func (v LcdVinfo) TV() bool { return v.Mode == `tv` }

// RefreshRate defaults to 60 Hz when the sync duration is missing.
func (v LcdVinfo) RefreshRate() float32 {
	if v.SyncDurationNum == 0 || v.SyncDurationDen == 0 {
		return 60
	}
	return float32(v.SyncDurationNum) / float32(v.SyncDurationDen)
}

// ParseLcdVinfo reads "key: value" lines. Unknown keys are ignored.
func ParseLcdVinfo(s string) (LcdVinfo, error) {
	info := LcdVinfo{Name: `panel`}
	num := func(v string, dst *uint32) {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			*dst = uint32(n)
		}
	}
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), `:`)
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch key {
		case `name`:
			if len(value) > 0 {
				info.Name = value
			}
		case `lcd_mode`:
			info.Mode = strings.ToLower(value)
		case `width`:
			num(value, &info.Width)
		case `height`:
			num(value, &info.Height)
		case `sync_duration_num`:
			num(value, &info.SyncDurationNum)
		case `sync_duration_den`:
			num(value, &info.SyncDurationDen)
		case `screen_real_width`:
			num(value, &info.WidthMM)
		case `screen_real_height`:
			num(value, &info.HeightMM)
		}
	}
	if err := sc.Err(); err != nil {
		return info, errors.New(err)
	}
	if info.Width == 0 || info.Height == 0 {
		return info, errors.New(`lcd vinfo: missing resolution`)
	}
	return info, nil
}
