package display

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/srlehn/hwdisplay/internal/errors"
)

// NoFence is the fd value meaning "already signaled / no fence".
const NoFence = -1

// ErrFenceTimeout is returned by Fence.Wait.
var ErrFenceTimeout = errors.New(`fence wait timed out`)

// Fence owns a sync file descriptor. A nil *Fence is a signaled fence.
type Fence struct {
	fd int
}

// NewFence takes ownership of fd. Negative fds yield nil.
func NewFence(fd int) *Fence {
	if fd < 0 {
		return nil
	}
	return &Fence{fd: fd}
}

func (f *Fence) Fd() int {
	if f == nil {
		return NoFence
	}
	return f.fd
}

func (f *Fence) Valid() bool { return f != nil && f.fd >= 0 }

// Dup returns a new Fence owning a duplicate of the descriptor.
func (f *Fence) Dup() (*Fence, error) {
	if !f.Valid() {
		return nil, nil
	}
	fd, err := unix.Dup(f.fd)
	if err != nil {
		return nil, errors.WrapPrefix(err, `dup fence`, 0)
	}
	return &Fence{fd: fd}, nil
}

// Release relinquishes ownership of the descriptor.
func (f *Fence) Release() int {
	if f == nil {
		return NoFence
	}
	fd := f.fd
	f.fd = NoFence
	return fd
}

// Close is safe to call on nil and more than once.
func (f *Fence) Close() error {
	if !f.Valid() {
		return nil
	}
	if err := unix.Close(f.Release()); err != nil {
		return errors.WrapPrefix(err, `close fence`, 0)
	}
	return nil
}

// Wait blocks until the fence signals or timeout elapses. A negative
// timeout waits forever.
func (f *Fence) Wait(timeout time.Duration) error {
	if !f.Valid() {
		return nil
	}
	ms := -1
	if timeout >= 0 {
		ms = int(timeout.Milliseconds())
	}
	fds := []unix.PollFd{{Fd: int32(f.fd), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, ms)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return errors.WrapPrefix(err, `wait fence`, 0)
		}
		if n == 0 {
			return ErrFenceTimeout
		}
		if fds[0].Revents&(unix.POLLERR|unix.POLLNVAL) != 0 {
			return errors.Errno(unix.EINVAL, `wait fence`)
		}
		return nil
	}
}

// DupFd duplicates a raw descriptor, e.g. a buffer handle that is passed
// to the kernel which then owns the copy.
func DupFd(fd int) (int, error) {
	if fd < 0 {
		return NoFence, nil
	}
	dup, err := unix.Dup(fd)
	if err != nil {
		return NoFence, errors.WrapPrefix(err, `dup`, 0)
	}
	return dup, nil
}
