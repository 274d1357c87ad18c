//go:build linux

package linux

import (
	"reflect"
	"runtime"
	"time"

	"golang.org/x/exp/constraints"
	"golang.org/x/sys/unix"

	"github.com/srlehn/hwdisplay/internal/errors"
)

// Device is an opened character device node.
type Device struct {
	name string
	fd   int
}

// Open opens a device node read-write. The returned Device owns the fd.
func Open(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, errors.WrapPrefix(err, path, 0)
	}
	return &Device{name: path, fd: fd}, nil
}

func (d *Device) Name() string {
	if d == nil {
		return ``
	}
	return d.name
}

func (d *Device) Fd() int {
	if d == nil {
		return -1
	}
	return d.fd
}

// Ioctl issues req with arg. arg is either a pointer, which is passed to the
// kernel as the argument address, a uintptr passed by value, or nil.
func (d *Device) Ioctl(req uint, arg any) error {
	if d == nil || d.fd < 0 {
		return errors.NilReceiver()
	}
	switch a := arg.(type) {
	case nil:
		return IoctlInvoke(d.fd, req, uintptr(0))
	case uintptr:
		return IoctlInvoke(d.fd, req, a)
	}
	v := reflect.ValueOf(arg)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return errors.Errorf(`ioctl 0x%x on %s: argument must be a non-nil pointer, got %T`, req, d.name, arg)
	}
	p := v.UnsafePointer()
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), uintptr(req), uintptr(p))
	runtime.KeepAlive(arg)
	return errors.Errno(errno, d.name)
}

// Poll waits up to timeout for the device to become readable.
func (d *Device) Poll(timeout time.Duration) (bool, error) {
	if d == nil || d.fd < 0 {
		return false, errors.NilReceiver()
	}
	fds := []unix.PollFd{{Fd: int32(d.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, errors.WrapPrefix(err, d.name, 0)
	}
	return n > 0 && fds[0].Revents&unix.POLLIN != 0, nil
}

func (d *Device) Read(p []byte) (int, error) {
	if d == nil || d.fd < 0 {
		return 0, errors.NilReceiver()
	}
	n, err := unix.Read(d.fd, p)
	if err != nil {
		return n, errors.WrapPrefix(err, d.name, 0)
	}
	return n, nil
}

// Close is safe to call more than once.
func (d *Device) Close() error {
	if d == nil || d.fd < 0 {
		return nil
	}
	fd := d.fd
	d.fd = -1
	if err := unix.Close(fd); err != nil {
		return errors.WrapPrefix(err, d.name, 0)
	}
	return nil
}

// IoctlInvoke makes ioctl syscalls with the arg of the integer type.
func IoctlInvoke[Cmd, Arg constraints.Integer](fd int, cmd Cmd, arg Arg) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(cmd), uintptr(arg))
	return errors.Errno(errno, ``)
}
