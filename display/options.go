package display

import (
	"log/slog"

	"github.com/srlehn/hwdisplay/internal/errors"
	"github.com/srlehn/hwdisplay/internal/logx"
)

// Settings are shared by the manager with every plane, connector and crtc
// it creates.
type Settings struct {
	Opener Opener
	Sysfs  Sysfs
	Log    *slog.Logger
	// FracMode adds 1000/1001 variants of the 24/30/60/120 Hz hdmi modes.
	FracMode bool
	// DiscardInFence makes planes wait on acquire fences themselves.
	DiscardInFence bool
	// SyncWaitRelease makes planes wait on their own out fences.
	SyncWaitRelease bool
}

var _ logx.LoggerProvider = (*Settings)(nil)

func (s *Settings) Logger() *slog.Logger {
	if s == nil || s.Log == nil {
		return logx.Discard()
	}
	return s.Log
}

func (s *Settings) opener() Opener {
	if s == nil || s.Opener == nil {
		return HostOpener
	}
	return s.Opener
}

func (s *Settings) sysfs() Sysfs {
	if s == nil || s.Sysfs == nil {
		return HostSysfs
	}
	return s.Sysfs
}

// Open opens path with the configured opener.
func (s *Settings) Open(path string) (Device, error) { return s.opener().Open(path) }

// ReadString reads a sysfs attribute with the configured accessor.
func (s *Settings) ReadString(path string) (string, error) { return s.sysfs().ReadString(path) }

// WriteString writes a sysfs attribute with the configured accessor.
func (s *Settings) WriteString(path, value string) error {
	return s.sysfs().WriteString(path, value)
}

type Option interface {
	ApplyOption(m *Manager) error
}

var _ Option = (OptFunc)(nil)

type OptFunc func(*Manager) error

func (o OptFunc) ApplyOption(m *Manager) error { return o(m) }

var _ Option = (Options)(nil)

type Options []Option

func (o Options) ApplyOption(m *Manager) error { return m.SetOptions([]Option(o)...) }

func (m *Manager) SetOptions(opts ...Option) error {
	if m == nil {
		return errors.NilReceiver()
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.ApplyOption(m); err != nil {
			return errors.New(err)
		}
	}
	return nil
}

func SetOpener(o Opener) Option {
	return OptFunc(func(m *Manager) error {
		m.settings.Opener = o
		return nil
	})
}

func SetSysfs(s Sysfs) Option {
	return OptFunc(func(m *Manager) error {
		m.settings.Sysfs = s
		return nil
	})
}

// SetLogger installs h for the manager and everything it creates.
func SetLogger(h slog.Handler) Option {
	return OptFunc(func(m *Manager) error {
		if h == nil {
			m.settings.Log = nil
			return nil
		}
		m.settings.Log = slog.New(h)
		return nil
	})
}

// SetModeSetter replaces the mode switch used for VOUT1.
func SetModeSetter(ms ModeSetter) Option {
	return OptFunc(func(m *Manager) error {
		m.modeSetter = ms
		return nil
	})
}

func SetFracMode(enable bool) Option {
	return OptFunc(func(m *Manager) error {
		m.settings.FracMode = enable
		return nil
	})
}

func SetDiscardInFence(enable bool) Option {
	return OptFunc(func(m *Manager) error {
		m.settings.DiscardInFence = enable
		return nil
	})
}

func SetSyncWaitRelease(enable bool) Option {
	return OptFunc(func(m *Manager) error {
		m.settings.SyncWaitRelease = enable
		return nil
	})
}

// SetOsdChannels sets the number of hardware osd channels (1 or 2).
func SetOsdChannels(n uint32) Option {
	return OptFunc(func(m *Manager) error {
		if n != 1 && n != 2 {
			return errors.WrapPrefix(ErrInvalid, `osd channels`, 0)
		}
		m.osdChannels = n
		return nil
	})
}

// SetHeadless skips device probing and creates a dummy pipeline.
func SetHeadless(enable bool) Option {
	return OptFunc(func(m *Manager) error {
		m.headless = enable
		return nil
	})
}
