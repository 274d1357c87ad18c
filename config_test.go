package hwdisplay_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/hwdisplay"
	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal/dummydev"
)

func TestParseConfig(t *testing.T) {
	cfg, err := hwdisplay.ParseConfig([]byte(`
frac_mode: true
discard_in_fence: true
osd_channels: 2
mode_setter: sysfs
log_level: debug
`))
	require.NoError(t, err)
	if diff := cmp.Diff(&hwdisplay.Config{
		FracMode:       true,
		DiscardInFence: true,
		OsdChannels:    2,
		ModeSetter:     hwdisplay.ModeSetterSysfs,
		LogLevel:       `debug`,
	}, cfg); diff != `` {
		t.Errorf("ParseConfig mismatch (-want +got):\n%s", diff)
	}

	cfg, err = hwdisplay.ParseConfig(nil)
	require.NoError(t, err, `empty file`)
	assert.Equal(t, &hwdisplay.Config{}, cfg)

	for name, doc := range map[string]string{
		`unknown key`:  "frac_mode: true\nbogus: 1\n",
		`mode setter`:  "mode_setter: hwc\n",
		`osd channels`: "osd_channels: 3\n",
		`log level`:    "log_level: loud\n",
		`syntax`:       "frac_mode: [\n",
	} {
		_, err := hwdisplay.ParseConfig([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, `hwdisplay.yaml`)
	require.NoError(t, os.WriteFile(path, []byte("headless: true\n"), 0o644))
	cfg, err := hwdisplay.LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Headless)

	_, err = hwdisplay.LoadConfig(filepath.Join(dir, `missing.yaml`))
	assert.Error(t, err)
}

func TestConfigOptions(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), `hwdisplay.log`)
	cfg := &hwdisplay.Config{
		FracMode:        true,
		SyncWaitRelease: true,
		OsdChannels:     2,
		Headless:        true,
		LogLevel:        `debug`,
		LogFile:         logFile,
	}
	opts, closer, err := cfg.Options()
	require.NoError(t, err)

	m, err := display.NewManager(opts, display.SetOpener(dummydev.NewOpener()), display.SetSysfs(dummydev.NewSysfs()))
	require.NoError(t, err)
	s := m.Settings()
	assert.True(t, s.FracMode)
	assert.True(t, s.SyncWaitRelease)
	assert.False(t, s.DiscardInFence)
	require.NotNil(t, s.Log)
	s.Log.Debug(`probe`)

	require.NoError(t, m.Close())
	require.NoError(t, closer.Close())
	b, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), `msg=probe`)

	plain, plainCloser, err := (&hwdisplay.Config{}).Options()
	require.NoError(t, err)
	defer plainCloser.Close()
	sysfsOpts, sysfsCloser, err := (&hwdisplay.Config{ModeSetter: hwdisplay.ModeSetterSysfs}).Options()
	require.NoError(t, err)
	defer sysfsCloser.Close()
	assert.Len(t, sysfsOpts, len(plain)+1)
}
