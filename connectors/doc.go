// Package connectors implements the display sinks and registers them with
// the display connector factory.
package connectors

import "github.com/srlehn/hwdisplay/display"

func init() {
	display.RegisterConnector(display.ConnectorHdmi, func(id uint32, s *display.Settings) (display.Connector, error) {
		return NewHdmi(id, s), nil
	})
	display.RegisterConnector(display.ConnectorPanel, func(id uint32, s *display.Settings) (display.Connector, error) {
		return NewPanel(id, s), nil
	})
	display.RegisterConnector(display.ConnectorCvbs, func(id uint32, s *display.Settings) (display.Connector, error) {
		return NewCvbs(id, s), nil
	})
	display.RegisterConnector(display.ConnectorDummy, func(id uint32, s *display.Settings) (display.Connector, error) {
		return NewDummy(id, s), nil
	})
}
