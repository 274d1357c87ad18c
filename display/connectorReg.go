package display

import (
	"github.com/srlehn/hwdisplay/internal/errors"
)

// ConnectorConstructor builds a connector variant.
type ConnectorConstructor func(id uint32, s *Settings) (Connector, error)

var connectorsRegistered = make(map[ConnectorType]ConnectorConstructor)

// RegisterConnector sets the constructor for t.
func RegisterConnector(t ConnectorType, ctor ConnectorConstructor) {
	if ctor == nil {
		delete(connectorsRegistered, t)
		return
	}
	connectorsRegistered[t] = ctor
}

// NewConnector constructs a connector of type t.
func NewConnector(t ConnectorType, id uint32, s *Settings) (Connector, error) {
	ctor, ok := connectorsRegistered[t]
	if !ok {
		return nil, errors.WrapPrefix(ErrInvalid, `no connector registered for `+t.String(), 0)
	}
	conn, err := ctor(id, s)
	if err != nil {
		return nil, errors.New(err)
	}
	return conn, nil
}
