package hwdisplay

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal"
	"github.com/srlehn/hwdisplay/internal/errors"
	"github.com/srlehn/hwdisplay/systemcontrol"
)

// mode setter names
const (
	ModeSetterSysfs = `sysfs`
	ModeSetterDBus  = `dbus`
)

// Config is the content of a configuration file.
type Config struct {
	FracMode        bool   `yaml:"frac_mode"`
	DiscardInFence  bool   `yaml:"discard_in_fence"`
	SyncWaitRelease bool   `yaml:"sync_wait_release"`
	OsdChannels     uint32 `yaml:"osd_channels"`
	ModeSetter      string `yaml:"mode_setter"`
	Headless        bool   `yaml:"headless"`
	LogLevel        string `yaml:"log_level"`
	LogFile         string `yaml:"log_file"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(err)
	}
	return ParseConfig(b)
}

// ParseConfig decodes YAML. Unknown keys are rejected.
func ParseConfig(b []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.WrapPrefix(err, `config`, 0)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.ModeSetter) {
	case ``, ModeSetterSysfs, ModeSetterDBus:
	default:
		return errors.Errorf(`config: unknown mode_setter %q`, c.ModeSetter)
	}
	if c.OsdChannels > 2 {
		return errors.Errorf(`config: osd_channels %d`, c.OsdChannels)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var lvl slog.Level
	if len(c.LogLevel) == 0 {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, errors.WrapPrefix(err, `config: log_level`, 0)
	}
	return lvl, nil
}

// Options turns the configuration into manager options. The returned
// closer releases the log file and bus connection they hold.
func (c *Config) Options() (display.Options, io.Closer, error) {
	closer := internal.NewCloser()
	opts := display.Options{
		display.SetFracMode(c.FracMode),
		display.SetDiscardInFence(c.DiscardInFence),
		display.SetSyncWaitRelease(c.SyncWaitRelease),
		display.SetHeadless(c.Headless),
	}
	if c.OsdChannels > 0 {
		opts = append(opts, display.SetOsdChannels(c.OsdChannels))
	}
	lvl, err := c.level()
	if err != nil {
		return nil, closer, err
	}
	if len(c.LogFile) > 0 {
		f, err := os.OpenFile(c.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closer, errors.New(err)
		}
		closer.AddClosers(f)
		opts = append(opts, display.SetLogger(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl})))
	}
	// without a setter the crtc writes the mode attribute itself
	switch strings.ToLower(c.ModeSetter) {
	case ModeSetterDBus:
		ms, err := systemcontrol.NewDBus()
		if err != nil {
			_ = closer.Close()
			return nil, internal.NewCloser(), err
		}
		closer.AddClosers(ms)
		opts = append(opts, display.SetModeSetter(ms))
	case ModeSetterSysfs:
		opts = append(opts, display.SetModeSetter(systemcontrol.NewSysfs(nil)))
	}
	return opts, closer, nil
}
