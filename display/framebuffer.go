package display

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Framebuffer is one buffer handed over by the compositor for a single
// committed frame. Planes hold a reference while the buffer may still be
// scanned out and hand back a release fence when they drop it.
type Framebuffer struct {
	// BufferFd is the dma-buf handle, owned by the producer.
	BufferFd     int
	Format       PixelFormat
	Afbc         bool
	Width        uint32
	Height       uint32
	Stride       uint32 // bytes
	SourceCrop   Rect
	DisplayFrame Rect
	Zorder       uint32
	Blend        BlendMode
	PlaneAlpha   float32 // 0..1
	Transform    Transform
	Color        uint32 // RGBA, FbColor only
	Type         FbType
	Secure       bool

	mu        sync.Mutex
	acquire   *Fence
	release   *Fence
	refs      atomic.Int32
	onRelease func(*Framebuffer)
}

// SetAcquireFence hands ownership of f to the framebuffer.
func (fb *Framebuffer) SetAcquireFence(f *Fence) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	_ = fb.acquire.Close()
	fb.acquire = f
}

// TakeAcquireFence transfers ownership of the acquire fence to the caller.
func (fb *Framebuffer) TakeAcquireFence() *Fence {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	f := fb.acquire
	fb.acquire = nil
	return f
}

// SetReleaseFence stores f, closing a previously unclaimed release fence.
func (fb *Framebuffer) SetReleaseFence(f *Fence) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	_ = fb.release.Close()
	fb.release = f
}

// TakeReleaseFence transfers ownership of the release fence to the caller.
func (fb *Framebuffer) TakeReleaseFence() *Fence {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	f := fb.release
	fb.release = nil
	return f
}

// OnRelease registers fn to run when the last plane reference is dropped.
func (fb *Framebuffer) OnRelease(fn func(*Framebuffer)) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.onRelease = fn
}

func (fb *Framebuffer) IncRef() { fb.refs.Add(1) }

func (fb *Framebuffer) DecRef() {
	if n := fb.refs.Add(-1); n == 0 {
		fb.mu.Lock()
		fn := fb.onRelease
		fb.mu.Unlock()
		if fn != nil {
			fn(fb)
		}
	} else if n < 0 {
		panic(fmt.Sprintf(`framebuffer %p: reference count %d`, fb, n))
	}
}

// Refs returns the number of plane references.
func (fb *Framebuffer) Refs() int32 { return fb.refs.Load() }

func (fb *Framebuffer) String() string {
	if fb == nil {
		return `<nil>`
	}
	return fmt.Sprintf(`fb{%s fd:%d %s %dx%d crop:%s disp:%s z:%d}`,
		fb.Type, fb.BufferFd, fb.Format, fb.Width, fb.Height, fb.SourceCrop, fb.DisplayFrame, fb.Zorder)
}

// FrameSlot holds the framebuffer a plane currently displays. Advancing
// the slot is how a plane delays the release of a buffer by one frame.
type FrameSlot struct {
	cur *Framebuffer
}

// Advance makes fb current and returns the previous buffer, whose
// reference now belongs to the caller (see Retire).
func (s *FrameSlot) Advance(fb *Framebuffer) (prev *Framebuffer) {
	if fb != nil {
		fb.IncRef()
	}
	prev = s.cur
	s.cur = fb
	return prev
}

// Clear empties the slot and returns the previous buffer.
func (s *FrameSlot) Clear() *Framebuffer { return s.Advance(nil) }

func (s *FrameSlot) Current() *Framebuffer { return s.cur }

// Retire publishes a duplicate of fence as the release fence of fb and
// drops the slot reference. fence stays owned by the caller.
func Retire(fb *Framebuffer, fence *Fence) error {
	if fb == nil {
		return nil
	}
	defer fb.DecRef()
	dup, err := fence.Dup()
	if err != nil {
		return err
	}
	if dup != nil {
		fb.SetReleaseFence(dup)
	}
	return nil
}
