package linux

import (
	"os"
	"strings"

	"github.com/srlehn/hwdisplay/internal/errors"
)

// Sysfs reads and writes sysfs attributes as plain text.
type Sysfs struct{}

// ReadString returns the attribute content without the trailing newline.
func (Sysfs) ReadString(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ``, errors.New(err)
	}
	return strings.TrimRight(string(b), "\n\x00"), nil
}

// WriteString writes value in a single write(2) as sysfs store handlers
// expect.
func (Sysfs) WriteString(path, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return errors.New(err)
	}
	_, errWrite := f.WriteString(value)
	return errors.Join(errWrite, f.Close())
}
