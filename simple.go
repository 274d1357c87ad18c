// Package hwdisplay gives access to the process wide display resources.
//
// The display and vdin packages can be used directly when more than one
// manager is needed, e.g. in tests.
package hwdisplay

import (
	"sync"

	"github.com/srlehn/hwdisplay/connectors"
	"github.com/srlehn/hwdisplay/display"
	"github.com/srlehn/hwdisplay/internal/errors"
	_ "github.com/srlehn/hwdisplay/planes"
	"github.com/srlehn/hwdisplay/vdin"
)

var (
	// DefaultConfig is used for the manager created by Manager.
	DefaultConfig = display.Options{
		display.SetOpener(display.HostOpener),
		display.SetSysfs(display.HostSysfs),
	}
)

var (
	mu            sync.Mutex
	managerActive *display.Manager
	vdinActive    *vdin.Vdin
)

// Manager returns the default manager, probing the hardware on first use.
func Manager() (*display.Manager, error) {
	mu.Lock()
	defer mu.Unlock()
	return manager()
}

func manager() (*display.Manager, error) {
	if managerActive != nil {
		return managerActive, nil
	}
	m, err := display.NewManager(DefaultConfig)
	if err != nil {
		return nil, err
	}
	managerActive = m
	return managerActive, nil
}

// Vdin returns the default capture device.
func Vdin() (*vdin.Vdin, error) {
	mu.Lock()
	defer mu.Unlock()
	if vdinActive != nil {
		return vdinActive, nil
	}
	m, err := manager()
	if err != nil {
		return nil, err
	}
	v, err := vdin.Open(m.Settings())
	if err != nil {
		return nil, err
	}
	vdinActive = v
	return vdinActive, nil
}

// Connector returns the connector of type t of the default manager.
func Connector(t display.ConnectorType) (display.Connector, error) {
	m, err := Manager()
	if err != nil {
		return nil, err
	}
	return m.Connector(t)
}

// HdrCapabilities parses the capability attributes of an hdmi sink.
func HdrCapabilities(dvCap, hdrCap string) display.HdrCapabilities {
	return connectors.ParseHdrCapabilities(dvCap, hdrCap)
}

// CleanUp closes the default capture device and manager.
func CleanUp() error {
	mu.Lock()
	defer mu.Unlock()
	var errs []error
	if vdinActive != nil {
		errs = append(errs, vdinActive.Close())
		vdinActive = nil
	}
	if managerActive != nil {
		errs = append(errs, managerActive.Close())
		managerActive = nil
	}
	return errors.Join(errs...)
}
