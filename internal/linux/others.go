//go:build !linux

package linux

import (
	"time"

	"github.com/srlehn/hwdisplay/internal/errors"
)

type Device struct{}

func Open(path string) (*Device, error) {
	return nil, errors.WrapPrefix(errors.ErrUnsupported, path, 0)
}

func (d *Device) Name() string                     { return `` }
func (d *Device) Fd() int                          { return -1 }
func (d *Device) Ioctl(req uint, arg any) error    { return errors.ErrUnsupported }
func (d *Device) Poll(time.Duration) (bool, error) { return false, errors.ErrUnsupported }
func (d *Device) Read(p []byte) (int, error)       { return 0, errors.ErrUnsupported }
func (d *Device) Close() error                     { return nil }
