package display

import (
	"golang.org/x/sys/unix"

	"github.com/srlehn/hwdisplay/internal/errors"
)

var (
	// ErrNotConnected is returned when no sink is attached to a Crtc.
	ErrNotConnected = errors.New(`not connected`)
	// ErrModeUnknown is returned before a current mode has been read back.
	ErrModeUnknown = errors.New(`display mode unknown`)
	// ErrSpuriousVsync is returned when the driver reports a zero vsync timestamp.
	ErrSpuriousVsync = errors.New(`spurious vsync`)
	ErrInvalid       = errors.WrapPrefix(unix.EINVAL, `display`, 0)
	ErrUnbound       = errors.New(`crtc not bound`)
	ErrNoDevice      = errors.New(`no device`)
)
