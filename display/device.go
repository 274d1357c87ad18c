package display

import (
	"time"

	"github.com/srlehn/hwdisplay/internal/linux"
)

// Device is an opened kernel device node.
type Device interface {
	Name() string
	Fd() int
	// Ioctl passes arg to the kernel. arg is a pointer to the request
	// struct or integer, or a uintptr passed by value.
	Ioctl(req uint, arg any) error
	// Poll reports whether the device became readable within timeout.
	Poll(timeout time.Duration) (bool, error)
	Read(p []byte) (int, error)
	Close() error
}

// Opener opens device nodes.
type Opener interface {
	Open(path string) (Device, error)
}

var _ Opener = (OpenerFunc)(nil)

type OpenerFunc func(path string) (Device, error)

func (f OpenerFunc) Open(path string) (Device, error) { return f(path) }

// Sysfs reads and writes text attributes.
type Sysfs interface {
	ReadString(path string) (string, error)
	WriteString(path, value string) error
}

// ModeSetter performs the system-wide display mode change for VOUT1.
type ModeSetter interface {
	SetDisplayMode(name string) error
}

// HostOpener opens real device nodes.
var HostOpener Opener = OpenerFunc(func(path string) (Device, error) {
	dev, err := linux.Open(path)
	if err != nil {
		return nil, err
	}
	return dev, nil
})

// HostSysfs accesses the real sysfs.
var HostSysfs Sysfs = linux.Sysfs{}
