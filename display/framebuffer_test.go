package display

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// pipeFence returns a fence on the read end of a pipe and the write end,
// which signals the fence when written to.
func pipeFence(t *testing.T) (*Fence, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close(); _ = w.Close() })
	fd, err := unix.Dup(int(r.Fd()))
	require.NoError(t, err)
	return NewFence(fd), w
}

func sameFile(t *testing.T, a, b int) bool {
	t.Helper()
	var sa, sb unix.Stat_t
	require.NoError(t, unix.Fstat(a, &sa))
	require.NoError(t, unix.Fstat(b, &sb))
	return sa.Dev == sb.Dev && sa.Ino == sb.Ino
}

func TestFenceDupClose(t *testing.T) {
	f, _ := pipeFence(t)
	require.True(t, f.Valid())
	dup, err := f.Dup()
	require.NoError(t, err)
	assert.NotEqual(t, f.Fd(), dup.Fd())
	assert.True(t, sameFile(t, f.Fd(), dup.Fd()))
	require.NoError(t, f.Close())
	assert.False(t, f.Valid())
	assert.NoError(t, f.Close(), `second close`)
	assert.NoError(t, dup.Close())
}

func TestFenceNil(t *testing.T) {
	var f *Fence
	assert.Nil(t, NewFence(NoFence))
	assert.False(t, f.Valid())
	assert.Equal(t, NoFence, f.Fd())
	assert.NoError(t, f.Wait(time.Millisecond))
	assert.NoError(t, f.Close())
	dup, err := f.Dup()
	assert.NoError(t, err)
	assert.Nil(t, dup)
}

func TestFenceWait(t *testing.T) {
	f, w := pipeFence(t)
	defer f.Close()
	assert.ErrorIs(t, f.Wait(10*time.Millisecond), ErrFenceTimeout)
	_, err := w.Write([]byte{1})
	require.NoError(t, err)
	assert.NoError(t, f.Wait(time.Second))
}

func TestFramebufferRefs(t *testing.T) {
	fb := &Framebuffer{}
	var released int
	fb.OnRelease(func(*Framebuffer) { released++ })
	fb.IncRef()
	fb.IncRef()
	assert.Equal(t, int32(2), fb.Refs())
	fb.DecRef()
	assert.Zero(t, released)
	fb.DecRef()
	assert.Equal(t, 1, released)
	assert.Panics(t, fb.DecRef)
}

func TestFrameSlotDelaysReleaseByOneFrame(t *testing.T) {
	var slot FrameSlot
	a, b, c := &Framebuffer{BufferFd: 1}, &Framebuffer{BufferFd: 2}, &Framebuffer{BufferFd: 3}

	assert.Nil(t, slot.Advance(a))
	assert.Equal(t, int32(1), a.Refs())

	prev := slot.Advance(b)
	assert.Same(t, a, prev)
	assert.Equal(t, int32(1), a.Refs(), `caller owns the previous reference`)
	require.NoError(t, Retire(prev, nil))
	assert.Zero(t, a.Refs())

	require.NoError(t, Retire(slot.Advance(c), nil))
	assert.Same(t, c, slot.Current())
	assert.Zero(t, b.Refs())
	assert.Equal(t, int32(1), c.Refs())

	require.NoError(t, Retire(slot.Clear(), nil))
	assert.Nil(t, slot.Current())
	assert.Zero(t, c.Refs())
}

func TestFrameSlotSameBuffer(t *testing.T) {
	var slot FrameSlot
	fb := &Framebuffer{}
	slot.Advance(fb)
	require.NoError(t, Retire(slot.Advance(fb), nil))
	assert.Equal(t, int32(1), fb.Refs())
}

func TestRetirePublishesDuplicate(t *testing.T) {
	fence, _ := pipeFence(t)
	defer fence.Close()
	fb := &Framebuffer{}
	fb.IncRef()
	require.NoError(t, Retire(fb, fence))
	rel := fb.TakeReleaseFence()
	require.NotNil(t, rel)
	defer rel.Close()
	assert.NotEqual(t, fence.Fd(), rel.Fd())
	assert.True(t, sameFile(t, fence.Fd(), rel.Fd()))
	assert.Nil(t, fb.TakeReleaseFence())
	assert.True(t, fence.Valid(), `caller keeps its fence`)
}
