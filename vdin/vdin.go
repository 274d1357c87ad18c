// Package vdin captures the composed output through the vdin device.
package vdin

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal/consts"
	"github.com/srlehn/hwdisplay/internal/errors"
	"github.com/srlehn/hwdisplay/internal/hwabi"
	"github.com/srlehn/hwdisplay/internal/logx"
)

// MaxCanvas is the size of the canvas table.
const MaxCanvas = hwabi.VdinMaxCanvas

const pollTimeout = hwabi.VdinPollTimeoutMilliseconds * time.Millisecond

var (
	// ErrNoData is returned by DequeueBuffer when no frame completed in time.
	ErrNoData = errors.WrapPrefix(unix.EAGAIN, `vdin: no frame`, 0)
	// ErrStreaming is returned when the stream must be stopped first.
	ErrStreaming = errors.WrapPrefix(unix.EINVAL, `vdin: streaming`, 0)
)

type State int

const (
	Stopped State = iota
	Started
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return `stopped`
	case Started:
		return `started`
	case Paused:
		return `paused`
	}
	return fmt.Sprintf(`state(%d)`, int(s))
}

// StreamInfo is the capture geometry.
type StreamInfo struct {
	Width  uint32
	Height uint32
	Format display.PixelFormat
	Fps    uint32
}

// DefaultStreamInfo is used when the current output cannot be read.
var DefaultStreamInfo = StreamInfo{Width: 1920, Height: 1080, Format: display.PixelFormatRGB888, Fps: 60}

// Vdin is the capture device. Its methods are safe for concurrent use.
type Vdin struct {
	settings *display.Settings
	dev      display.Device

	mu     sync.Mutex
	state  State
	info   StreamInfo
	format display.PixelFormat
	count  int
	canvas hwabi.VdinCanvasTable
}

// Open opens the capture device.
func Open(s *display.Settings) (*Vdin, error) {
	if s == nil {
		s = &display.Settings{}
	}
	dev, err := s.Open(consts.DevVdin1)
	if err != nil {
		return nil, errors.New(err)
	}
	v := &Vdin{settings: s, dev: dev}
	v.resetCanvas()
	return v, nil
}

func (v *Vdin) Logger() *slog.Logger { return v.settings.Logger() }

func (v *Vdin) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// StreamInfo derives the capture geometry from the current VOUT1 mode and
// the hdmi colour attribute.
func (v *Vdin) StreamInfo() StreamInfo {
	info := DefaultStreamInfo
	name, err := v.settings.ReadString(consts.SysDisplayMode)
	if logx.IsErr(err, v, slog.LevelDebug) {
		return info
	}
	m, ok := display.VmodeModeInfo(display.NameToVmode(name))
	if !ok || m.PixelW == 0 {
		logx.Debug(`capture falls back to default geometry`, v, `mode`, strings.TrimSpace(name))
		return info
	}
	info.Width, info.Height, info.Fps = m.PixelW, m.PixelH, uint32(m.RefreshRate+0.5)
	if attr, err := v.settings.ReadString(consts.SysHdmiAttr); err == nil {
		info.Format = formatFromAttr(attr)
	}
	return info
}

func formatFromAttr(attr string) display.PixelFormat {
	switch {
	case strings.Contains(attr, `444`):
		return display.PixelFormatYUV444
	case strings.Contains(attr, `422`):
		return display.PixelFormatYUV422
	case strings.Contains(attr, `420`):
		return display.PixelFormatNV21
	}
	return display.PixelFormatRGB888
}

// SetStreamInfo sizes the canvas table for count buffers.
func (v *Vdin) SetStreamInfo(format display.PixelFormat, count int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != Stopped {
		return ErrStreaming
	}
	if count < 1 || count > MaxCanvas {
		return errors.WrapPrefix(display.ErrInvalid, fmt.Sprintf(`vdin: %d buffers`, count), 0)
	}
	v.releaseCanvas()
	v.format = format
	v.count = count
	v.canvas.Count = uint32(count)
	return nil
}

// QueueBuffer registers fb at slot index before streaming. Once streaming
// the driver cannot take a specific slot back, so the canvas is recovered
// instead and the driver picks the slot.
func (v *Vdin) QueueBuffer(fb *display.Framebuffer, index int) error {
	if fb == nil {
		return errors.NilParam()
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if index < 0 || index >= v.count {
		return errors.WrapPrefix(display.ErrInvalid, fmt.Sprintf(`vdin: slot %d`, index), 0)
	}
	if v.state != Stopped {
		return v.dev.Ioctl(hwabi.TVIN_IOC_S_CANVAS_RECOVERY, nil)
	}
	fd, err := display.DupFd(fb.BufferFd)
	if err != nil {
		return err
	}
	slot := &v.canvas.Canvas[index]
	_ = display.NewFence(int(slot.Fd)).Close()
	slot.Fd = int32(fd)
	slot.Index = uint32(index)
	return nil
}

// DequeueBuffer returns the index of a filled slot or ErrNoData.
func (v *Vdin) DequeueBuffer() (int, error) {
	v.mu.Lock()
	started := v.state == Started
	v.mu.Unlock()
	if !started {
		return -1, errors.WrapPrefix(display.ErrInvalid, `vdin: not started`, 0)
	}
	ready, err := v.dev.Poll(pollTimeout)
	if err != nil {
		return -1, err
	}
	if !ready {
		return -1, ErrNoData
	}
	var buf [hwabi.VdinFrameIndexSize]byte
	if _, err := io.ReadFull(v.dev, buf[:]); err != nil {
		return -1, errors.New(err)
	}
	return int(binary.LittleEndian.Uint32(buf[:])), nil
}

// Start is a no-op while started.
func (v *Vdin) Start() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch v.state {
	case Started:
		return nil
	case Stopped:
		if v.count == 0 {
			return errors.WrapPrefix(display.ErrInvalid, `vdin: no stream info`, 0)
		}
		if err := v.dev.Ioctl(hwabi.TVIN_IOC_S_CANVAS_ADDR, &v.canvas); err != nil {
			return err
		}
		v.info = v.StreamInfo()
	}
	param := hwabi.VdinV4l2Param{
		Width:   v.info.Width,
		Height:  v.info.Height,
		Fps:     v.info.Fps,
		Format:  uint32(v.format),
		BankNum: uint32(v.count),
	}
	if err := v.dev.Ioctl(hwabi.TVIN_IOC_S_VDIN_V4L2START, &param); err != nil {
		return err
	}
	v.state = Started
	logx.Debug(`vdin started`, v, `width`, param.Width, `height`, param.Height, `buffers`, v.count)
	return nil
}

func (v *Vdin) Pause() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pauseLocked()
}

func (v *Vdin) pauseLocked() error {
	if v.state != Started {
		return nil
	}
	if err := v.dev.Ioctl(hwabi.TVIN_IOC_S_VDIN_V4L2STOP, nil); err != nil {
		return err
	}
	v.state = Paused
	return nil
}

// Stop pauses a running stream and releases the canvas buffers.
func (v *Vdin) Stop() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	err := v.pauseLocked()
	v.releaseCanvas()
	v.count = 0
	v.state = Stopped
	return err
}

func (v *Vdin) releaseCanvas() {
	for i := range v.canvas.Canvas {
		_ = display.NewFence(int(v.canvas.Canvas[i].Fd)).Close()
	}
	v.resetCanvas()
}

func (v *Vdin) resetCanvas() {
	v.canvas = hwabi.VdinCanvasTable{}
	for i := range v.canvas.Canvas {
		v.canvas.Canvas[i].Fd = display.NoFence
	}
}

func (v *Vdin) Close() error {
	if v == nil {
		return nil
	}
	return errors.Join(v.Stop(), v.dev.Close())
}
