package internal

import (
	"reflect"
	"runtime"
	"sync"

	"github.com/srlehn/hwdisplay/internal/errors"
)

// Closer runs registered close functions in reverse order of registration.
type Closer interface {
	Close() error
	OnClose(onClose func() error)
	AddClosers(closers ...interface{ Close() error })
}

var _ Closer = (*lifoCloser)(nil)

type lifoCloser struct {
	mu           sync.Mutex
	onCloseFuncs []func() error
	initObjs     map[initObjKey]struct{}
}

type initObjKey struct {
	p uintptr
	t string
}

func NewCloser() Closer { return newLifoCloser() }

func newLifoCloser() *lifoCloser {
	closer := &lifoCloser{}
	runtime.SetFinalizer(closer, func(cl *lifoCloser) { _ = cl.Close() })
	return closer
}

// Close may be called more than once; functions run only once.
func (c *lifoCloser) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	funcs := c.onCloseFuncs
	c.onCloseFuncs = nil
	c.initObjs = nil
	c.mu.Unlock()
	var errs []error
	for i := len(funcs) - 1; i > -1; i-- {
		if onCloseFunc := funcs[i]; onCloseFunc != nil {
			if err := onCloseFunc(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (c *lifoCloser) OnClose(onClose func() error) {
	if c == nil || onClose == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onCloseFuncs = append(c.onCloseFuncs, onClose)
}

// AddClosers registers each object once, keyed by its address.
func (c *lifoCloser) AddClosers(closers ...interface{ Close() error }) {
	if c == nil || len(closers) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initObjs == nil {
		c.initObjs = make(map[initObjKey]struct{})
	}
	for _, cl := range closers {
		if cl == nil {
			continue
		}
		objType := reflect.TypeOf(cl)
		var ptr any = cl
		switch objType.Kind() {
		case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		default:
			// don't use values, slices, maps, funcs as map keys
			ptr = &cl
		}
		key := initObjKey{p: reflect.ValueOf(ptr).Pointer(), t: objType.String()}
		if _, alreadyAdded := c.initObjs[key]; alreadyAdded {
			continue
		}
		c.initObjs[key] = struct{}{}
		c.onCloseFuncs = append(c.onCloseFuncs, func() error {
			if err := cl.Close(); err != nil {
				return errors.New(err)
			}
			return nil
		})
	}
}
