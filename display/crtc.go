package display

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/srlehn/hwdisplay/internal/consts"
	"github.com/srlehn/hwdisplay/internal/errors"
	"github.com/srlehn/hwdisplay/internal/fbdev"
	"github.com/srlehn/hwdisplay/internal/hwabi"
	"github.com/srlehn/hwdisplay/internal/logx"
)

// software vsync period of crtcs without a device
const headlessVsyncPeriod = time.Second / 60

// ZoomInfo describes how the composed framebuffer is scaled onto the
// output. An empty Dest means full screen.
type ZoomInfo struct {
	Source Rect
	Dest   Rect
}

// Crtc drives one output pipeline. Mode and connection state are guarded
// internally; SetMode, PageFlip and WaitVBlank must be called from a single
// goroutine.
type Crtc struct {
	id         CrtcID
	dev        Device // osd device; nil for headless crtcs
	settings   *Settings
	modeSetter ModeSetter

	osdChannels uint32
	zoom        ZoomInfo
	lastVsync   time.Time

	mu        sync.Mutex
	bound     bool
	connector Connector
	planes    []Plane
	modes     *ModeSet
	curMode   ModeInfo
	modeKnown bool
	connected bool

	devMu    sync.Mutex
	voutDev  Device
	videoDev Device
	hdr      hwabi.HdrInfo
	hdrSet   bool
}

// NewCrtc creates the crtc id driven through the osd device dev. A nil dev
// creates a headless crtc.
func NewCrtc(id CrtcID, dev Device, s *Settings, ms ModeSetter) *Crtc {
	if s == nil {
		s = &Settings{}
	}
	c := &Crtc{
		id:          id,
		dev:         dev,
		settings:    s,
		modeSetter:  ms,
		osdChannels: 1,
		modes:       NewModeSet(),
	}
	if c.modeSetter == nil {
		c.modeSetter = sysfsModeSetter{s: s}
	}
	return c
}

var _ logx.LoggerProvider = (*Crtc)(nil)

func (c *Crtc) Logger() *slog.Logger { return c.settings.Logger() }

func (c *Crtc) ID() CrtcID { return c.id }

func (c *Crtc) Headless() bool { return c.dev == nil }

// Bind attaches conn and planes, unbinding a previous association first.
// A connector held by another Crtc is rejected.
func (c *Crtc) Bind(conn Connector, planes []Plane) error {
	if c == nil {
		return errors.NilReceiver()
	}
	if conn == nil {
		return errors.NilParam()
	}
	if other := conn.BoundCrtc().Crtc(); other != nil && other != c {
		return errors.WrapPrefix(ErrInvalid, fmt.Sprintf(`connector %s bound to crtc %d`, conn.Name(), other.ID()), 0)
	}
	c.mu.Lock()
	bound := c.bound
	c.mu.Unlock()
	if bound {
		if err := c.Unbind(); err != nil {
			logx.IsErr(err, c, slog.LevelWarn, `crtc`, c.id)
		}
	}
	conn.BindCrtc(c.Handle())
	c.mu.Lock()
	c.connector = conn
	c.planes = append([]Plane(nil), planes...)
	c.bound = true
	c.modeKnown = false
	c.mu.Unlock()
	logx.Debug(`crtc bound`, c, `crtc`, c.id, `connector`, conn.Name(), `planes`, len(planes))
	return nil
}

// Unbind commits the null mode and drops the connector and planes.
func (c *Crtc) Unbind() error {
	if c == nil {
		return errors.NilReceiver()
	}
	c.mu.Lock()
	if !c.bound {
		c.mu.Unlock()
		return nil
	}
	conn := c.connector
	c.mu.Unlock()

	err := c.writeMode(NullModeName)

	if conn != nil && conn.BoundCrtc().Crtc() == c {
		conn.BindCrtc(CrtcHandle{})
	}
	c.mu.Lock()
	c.connector = nil
	c.planes = nil
	c.bound = false
	c.modes = NewModeSet()
	c.modeKnown = false
	c.connected = false
	c.mu.Unlock()
	return err
}

func (c *Crtc) Connector() Connector {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connector
}

func (c *Crtc) Planes() []Plane {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Plane(nil), c.planes...)
}

// LoadProperties reloads the connector and snapshots its modes.
func (c *Crtc) LoadProperties() error {
	conn := c.Connector()
	if conn == nil {
		return ErrUnbound
	}
	if err := conn.LoadProperties(); err != nil {
		return err
	}
	modes := conn.Modes()
	c.mu.Lock()
	c.modes = modes
	c.mu.Unlock()
	return c.Update()
}

// Update refreshes the connection state and reads back the current mode,
// which may also be changed outside of this process.
func (c *Crtc) Update() error {
	conn := c.Connector()
	if conn == nil {
		return ErrUnbound
	}
	if err := conn.Update(); err != nil {
		return err
	}
	connected := conn.IsConnected()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = connected
	if !connected {
		return nil
	}
	name, err := c.settings.ReadString(c.modePath())
	if err != nil {
		return errors.New(err)
	}
	name = strings.TrimSpace(name)
	// a synthesized fractional entry shares the name of its base mode
	_, m, ok := c.modes.Find(func(m ModeInfo) bool {
		return m.Name == name && math.Floor(float64(m.RefreshRate)) == float64(m.RefreshRate)
	})
	c.modeKnown = ok
	if ok {
		c.curMode = m
	} else {
		logx.Debug(`current mode not in mode list`, c, `crtc`, c.id, `mode`, name)
	}
	return nil
}

func (c *Crtc) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Modes returns the mode snapshot taken by LoadProperties.
func (c *Crtc) Modes() *ModeSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modes.Clone()
}

// Mode returns the current mode.
func (c *Crtc) Mode() (ModeInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return ModeInfo{}, ErrNotConnected
	}
	if !c.modeKnown {
		return ModeInfo{}, ErrModeUnknown
	}
	return c.curMode, nil
}

// SetMode switches the output to m.
func (c *Crtc) SetMode(m ModeInfo) error {
	if len(m.Name) == 0 {
		return errors.WrapPrefix(ErrInvalid, `empty mode name`, 0)
	}
	if m.Name != NullModeName {
		if hook, ok := c.Connector().(ModeSetHook); ok {
			if err := hook.SetMode(m); err != nil {
				return err
			}
		}
	}
	return c.writeMode(m.Name)
}

func (c *Crtc) writeMode(name string) error {
	logx.Info(`set display mode`, c, `crtc`, c.id, `mode`, name)
	if c.id == Vout2 || name == NullModeName {
		if err := c.settings.WriteString(c.modePath(), name); err != nil {
			return errors.New(err)
		}
		return nil
	}
	if err := c.modeSetter.SetDisplayMode(name); err != nil {
		return errors.New(err)
	}
	return nil
}

func (c *Crtc) modePath() string {
	if c.id == Vout2 {
		return consts.SysDisplay2Mode
	}
	return consts.SysDisplayMode
}

// WaitVBlank blocks until the next vsync and returns its timestamp in
// nanoseconds.
func (c *Crtc) WaitVBlank() (int64, error) {
	if c.dev == nil {
		return c.softVsync(), nil
	}
	var ts uint64
	if err := c.dev.Ioctl(hwabi.FBIO_WAITFORVSYNC_64, &ts); err != nil {
		return 0, err
	}
	if ts == 0 {
		return 0, ErrSpuriousVsync
	}
	return int64(ts), nil
}

func (c *Crtc) softVsync() int64 {
	now := time.Now()
	next := c.lastVsync.Add(headlessVsyncPeriod)
	if next.After(now) {
		time.Sleep(next.Sub(now))
	} else {
		next = now
	}
	c.lastVsync = next
	return next.UnixNano()
}

func (c *Crtc) SetOsdChannels(n uint32) { c.osdChannels = n }

func (c *Crtc) SetDisplayFrame(z ZoomInfo) { c.zoom = z }

// PageFlip commits the programmed planes. The returned fence signals when
// the frame is on screen and is owned by the caller.
func (c *Crtc) PageFlip() (*Fence, error) {
	if c.dev == nil {
		return nil, nil
	}
	c.mu.Lock()
	mode := c.curMode
	c.mu.Unlock()

	info := hwabi.HwcCommitInfo{
		Magic:       hwabi.OSD_HWC_COMMIT_MAGIC,
		OutFenceFd:  NoFence,
		FullscreenW: mode.PixelW,
		FullscreenH: mode.PixelH,
		OsdChannels: c.osdChannels,
	}
	if src := c.zoom.Source; !src.Empty() {
		info.BackgroundW, info.BackgroundH = uint32(src.Width()), uint32(src.Height())
	} else {
		vinfo, err := fbdev.ScreenInfo(c.dev)
		if err != nil {
			return nil, err
		}
		info.BackgroundW, info.BackgroundH = vinfo.Xres, vinfo.Yres
	}
	if dst := c.zoom.Dest; !dst.Empty() {
		info.CurrentX, info.CurrentY = dst.Left, dst.Top
		info.CurrentW, info.CurrentH = uint32(dst.Width()), uint32(dst.Height())
	} else {
		info.CurrentW, info.CurrentH = mode.PixelW, mode.PixelH
	}
	if err := c.dev.Ioctl(hwabi.FBIOPUT_OSD_DO_HWC, &info); err != nil {
		return nil, err
	}
	return NewFence(int(info.OutFenceFd)), nil
}

// SetHdrMetadata pushes static hdr metadata to the video pipeline. Empty
// metadata and metadata equal to the last written values are not sent.
func (c *Crtc) SetHdrMetadata(md HdrMetadata) error {
	info := hdrInfoFromMetadata(md)
	if info == (hwabi.HdrInfo{}) {
		return nil
	}
	c.devMu.Lock()
	defer c.devMu.Unlock()
	if c.hdrSet && info == c.hdr {
		return nil
	}
	if c.videoDev == nil {
		dev, err := c.settings.Open(consts.DevAmvideo)
		if err != nil {
			return errors.New(err)
		}
		c.videoDev = dev
	}
	if err := c.videoDev.Ioctl(hwabi.AMSTREAM_IOC_SET_HDR_INFO, &info); err != nil {
		return err
	}
	c.hdr = info
	c.hdrSet = true
	return nil
}

// PhysicalSize returns the size of the attached sink in millimeters as
// reported by the output driver.
func (c *Crtc) PhysicalSize() (widthMM, heightMM uint32, err error) {
	if c == nil {
		return 0, 0, errors.NilReceiver()
	}
	c.devMu.Lock()
	defer c.devMu.Unlock()
	if c.voutDev == nil {
		path := consts.DevDisplayVout1
		if c.id == Vout2 {
			path = consts.DevDisplayVout2
		}
		dev, err := c.settings.Open(path)
		if err != nil {
			return 0, 0, errors.New(err)
		}
		c.voutDev = dev
	}
	var vinfo hwabi.VoutVinfo
	if err := c.voutDev.Ioctl(hwabi.VOUT_IOC_CMD_GET_VINFO, &vinfo); err != nil {
		return 0, 0, err
	}
	return vinfo.ScreenRealWidth, vinfo.ScreenRealHeight, nil
}

// Close releases devices opened by the crtc. The osd device is owned by
// the manager.
func (c *Crtc) Close() error {
	if c == nil {
		return nil
	}
	c.devMu.Lock()
	defer c.devMu.Unlock()
	var errs []error
	for _, dev := range []*Device{&c.voutDev, &c.videoDev} {
		if *dev == nil {
			continue
		}
		if err := (*dev).Close(); err != nil {
			errs = append(errs, err)
		}
		*dev = nil
	}
	return errors.Join(errs...)
}

func (c *Crtc) Dump(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn := `-`
	if c.connector != nil {
		conn = c.connector.Name()
	}
	mode := `-`
	if c.modeKnown {
		mode = c.curMode.String()
	}
	fmt.Fprintf(w, "crtc %s: bound:%t connector:%s connected:%t planes:%d osd-channels:%d headless:%t\n",
		c.id, c.bound, conn, c.connected, len(c.planes), c.osdChannels, c.dev == nil)
	fmt.Fprintf(w, "  mode: %s\n", mode)
	if c.hdrSet {
		fmt.Fprintf(w, "  hdr: %+v\n", c.hdr)
	}
}

type sysfsModeSetter struct{ s *Settings }

func (m sysfsModeSetter) SetDisplayMode(name string) error {
	return m.s.WriteString(consts.SysDisplayMode, name)
}
