package planes_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal/dummydev"
	"github.com/srlehn/hwdisplay/internal/errors"
)

func testSettings() (*display.Settings, *dummydev.Sysfs) {
	sysfs := dummydev.NewSysfs()
	return &display.Settings{Opener: dummydev.NewOpener(), Sysfs: sysfs}, sysfs
}

// newBuffer returns a 1080p scanout framebuffer backed by a pipe.
// newBuffer builds a 1080p RGBA scanout buffer, then applies mods.
func newBuffer(t *testing.T, mods ...func(*display.Framebuffer)) *display.Framebuffer {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close(); _ = w.Close() })
	full := display.Rect{Right: 1920, Bottom: 1080}
	fb := &display.Framebuffer{
		BufferFd:     int(r.Fd()),
		Format:       display.PixelFormatRGBA8888,
		Width:        1920,
		Height:       1080,
		Stride:       1920 * 4,
		SourceCrop:   full,
		DisplayFrame: full,
		PlaneAlpha:   1,
		Type:         display.FbScanout,
	}
	for _, mod := range mods {
		mod(fb)
	}
	return fb
}

// fenceSource hands out the read end of a fresh pipe as kernel out fence
// on every call and keeps the originals for comparison.
type fenceSource struct {
	t       *testing.T
	files   []*os.File
	writers []*os.File
}

func (s *fenceSource) next() int32 {
	r, w, err := os.Pipe()
	require.NoError(s.t, err)
	s.t.Cleanup(func() { _ = r.Close(); _ = w.Close() })
	s.files = append(s.files, r)
	s.writers = append(s.writers, w)
	fd, err := unix.Dup(int(r.Fd()))
	require.NoError(s.t, err)
	return int32(fd)
}

// signal makes the i-th fence readable.
func (s *fenceSource) signal(i int) {
	_, err := s.writers[i].Write([]byte{1})
	require.NoError(s.t, err)
}

// assertIs matches through the errno a sentinel wraps, which errors.Is of
// the standard library does not see.
func assertIs(t *testing.T, err, target error, msgAndArgs ...any) bool {
	t.Helper()
	if errors.Is(err, target) {
		return true
	}
	return assert.Fail(t, fmt.Sprintf("error %v does not match %v", err, target), msgAndArgs...)
}

func sameFile(t *testing.T, a, b int) bool {
	t.Helper()
	var sa, sb unix.Stat_t
	require.NoError(t, unix.Fstat(a, &sa))
	require.NoError(t, unix.Fstat(b, &sb))
	return sa.Dev == sb.Dev && sa.Ino == sb.Ino
}

func closeFd(fd int32) {
	if fd >= 0 {
		_ = unix.Close(int(fd))
	}
}
