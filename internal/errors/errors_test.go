package errors

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestCode(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
		code int
	}{
		{`nil`, nil, 0},
		{`errno`, unix.ENOENT, -int(unix.ENOENT)},
		{`wrapped errno`, WrapPrefix(unix.EINVAL, `display`, 0), -int(unix.EINVAL)},
		{`errno helper`, Errno(unix.EBADF, `dev`), -int(unix.EBADF)},
		{`no errno`, io.EOF, -int(unix.EIO)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, Code(tc.err))
		})
	}
}

func TestIsThroughPrefix(t *testing.T) {
	sentinel := WrapPrefix(unix.EINVAL, `display`, 0)
	assert.True(t, Is(WrapPrefix(sentinel, `more context`, 0), sentinel))
	assert.False(t, Is(WrapPrefix(unix.EAGAIN, `other`, 0), sentinel))
}

func TestNewNil(t *testing.T) {
	assert.Nil(t, New(nil))
	assert.NoError(t, Errno(0, `dev`))
	assert.NoError(t, Join(nil, nil))
	assert.Error(t, Join(io.EOF, nil))
}
