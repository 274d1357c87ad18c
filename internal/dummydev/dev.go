// Package dummydev provides in-memory devices, an opener and a sysfs for
// tests.
package dummydev

import (
	"io"
	"io/fs"
	"reflect"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal/errors"
)

// Call is one recorded ioctl. Arg holds a copy of the value the argument
// pointed to when the call was made.
type Call struct {
	Req uint
	Arg any
}

// Handler emulates the driver side of an ioctl.
type Handler func(req uint, arg any) error

type Device struct {
	name string
	fd   int

	mu       sync.Mutex
	handler  Handler
	calls    []Call
	reads    [][]byte
	closeCnt int
}

var _ display.Device = (*Device)(nil)

// New returns a device with no fd.
func New(name string) *Device { return &Device{name: name, fd: -1} }

// WithFd sets the value returned by Fd.
func (d *Device) WithFd(fd int) *Device {
	d.fd = fd
	return d
}

// Handle installs h. Without a handler every ioctl succeeds.
func (d *Device) Handle(h Handler) *Device {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handler = h
	return d
}

func (d *Device) Name() string { return d.name }
func (d *Device) Fd() int      { return d.fd }

func (d *Device) Ioctl(req uint, arg any) error {
	if d == nil {
		return errors.NilReceiver()
	}
	d.mu.Lock()
	d.calls = append(d.calls, Call{Req: req, Arg: snapshot(arg)})
	h := d.handler
	closed := d.closeCnt > 0
	d.mu.Unlock()
	if closed {
		return errors.Errno(unix.EBADF, d.name)
	}
	if h == nil {
		return nil
	}
	return h(req, arg)
}

func snapshot(arg any) any {
	v := reflect.ValueOf(arg)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		return v.Elem().Interface()
	}
	return arg
}

// QueueRead makes b available to the next Read.
func (d *Device) QueueRead(b []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reads = append(d.reads, append([]byte(nil), b...))
}

func (d *Device) Poll(timeout time.Duration) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.reads) > 0, nil
}

func (d *Device) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.reads) == 0 {
		return 0, io.EOF
	}
	n := copy(p, d.reads[0])
	d.reads = d.reads[1:]
	return n, nil
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeCnt++
	return nil
}

// Closed reports how often Close was called.
func (d *Device) Closed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closeCnt
}

// Calls returns all recorded ioctls.
func (d *Device) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Call(nil), d.calls...)
}

// CallsFor returns the recorded ioctls with request number req.
func (d *Device) CallsFor(req uint) []Call {
	var ret []Call
	for _, c := range d.Calls() {
		if c.Req == req {
			ret = append(ret, c)
		}
	}
	return ret
}

func (d *Device) Count(req uint) int { return len(d.CallsFor(req)) }

// Reset forgets recorded calls.
func (d *Device) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
}

// Opener maps paths to devices; unknown paths fail with ENOENT.
type Opener struct {
	mu     sync.Mutex
	devs   map[string]*Device
	opened []string
}

var _ display.Opener = (*Opener)(nil)

func NewOpener() *Opener { return &Opener{devs: make(map[string]*Device)} }

// Add registers a device under its name and returns it.
func (o *Opener) Add(dev *Device) *Device {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.devs[dev.Name()] = dev
	return dev
}

func (o *Opener) Device(path string) *Device {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.devs[path]
}

func (o *Opener) Open(path string) (display.Device, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	dev, ok := o.devs[path]
	if !ok {
		return nil, errors.WrapPrefix(unix.ENOENT, path, 0)
	}
	o.opened = append(o.opened, path)
	return dev, nil
}

// Opened lists opened paths in order.
func (o *Opener) Opened() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.opened...)
}

// Sysfs keeps attributes in memory and records writes.
type Sysfs struct {
	mu     sync.Mutex
	files  map[string]string
	writes map[string][]string
}

var _ display.Sysfs = (*Sysfs)(nil)

func NewSysfs() *Sysfs {
	return &Sysfs{files: make(map[string]string), writes: make(map[string][]string)}
}

// Set stores an attribute without counting it as a write.
func (s *Sysfs) Set(path, value string) *Sysfs {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = value
	return s
}

func (s *Sysfs) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
}

func (s *Sysfs) ReadString(path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.files[path]
	if !ok {
		return ``, errors.WrapPrefix(fs.ErrNotExist, path, 0)
	}
	return v, nil
}

func (s *Sysfs) WriteString(path, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = value
	s.writes[path] = append(s.writes[path], value)
	return nil
}

// Writes returns the values written to path.
func (s *Sysfs) Writes(path string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.writes[path]...)
}

// WriteCount returns the number of writes to path, or to all paths when
// path is empty.
func (s *Sysfs) WriteCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(path) > 0 {
		return len(s.writes[path])
	}
	var n int
	for _, w := range s.writes {
		n += len(w)
	}
	return n
}

// ModeSetter records requested modes.
type ModeSetter struct {
	mu    sync.Mutex
	Modes []string
}

func (m *ModeSetter) SetDisplayMode(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Modes = append(m.Modes, name)
	return nil
}
