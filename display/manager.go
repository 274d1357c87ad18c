package display

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/srlehn/hwdisplay/internal"
	"github.com/srlehn/hwdisplay/internal/errors"
	"github.com/srlehn/hwdisplay/internal/logx"
	"github.com/srlehn/hwdisplay/internal/util"
)

// Manager owns the display resources of the process. Planes and crtcs are
// discovered once by NewManager; connectors are created on first request.
type Manager struct {
	settings    Settings
	modeSetter  ModeSetter
	osdChannels uint32
	headless    bool
	closer      internal.Closer

	mu           sync.Mutex
	planes       []Plane
	crtcs        []*Crtc
	connectors   map[ConnectorType]Connector
	connectorIdx uint32
}

// NewManager applies opts and probes the registered device families.
func NewManager(opts ...Option) (*Manager, error) {
	m := &Manager{
		osdChannels: 1,
		connectors:  make(map[ConnectorType]Connector),
		closer:      internal.NewCloser(),
	}
	if err := m.SetOptions(opts...); err != nil {
		return nil, err
	}
	err := logx.TimeIt(m.loadResources, `load display resources`, m)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	return m, nil
}

var _ logx.LoggerProvider = (*Manager)(nil)

func (m *Manager) Logger() *slog.Logger { return m.settings.Logger() }

// Settings returns the settings handed to created resources.
func (m *Manager) Settings() *Settings { return &m.settings }

func (m *Manager) loadResources() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctx := newProbeContext(&m.settings)
	if !m.headless {
		for _, p := range planeProbersRegistered {
			m.probeFamily(p, ctx)
		}
	}
	if len(m.planes) == 0 {
		logx.Info(`no hardware planes, using a dummy pipeline`, m, `headless`, m.headless)
		pl, err := newFallbackPlane(ctx)
		if err != nil {
			return err
		}
		m.addPlanes(pl)
	}
	if len(m.crtcs) == 0 {
		m.addCrtc(Vout1, nil)
	}
	return nil
}

// probeFamily stops at the first device node that cannot be opened.
func (m *Manager) probeFamily(p PlaneProber, ctx *ProbeContext) {
	for n := 0; ; n++ {
		path := p.Path(n)
		if len(path) == 0 {
			return
		}
		dev, err := m.settings.Open(path)
		if err != nil {
			logx.Debug(`probing stopped`, m, `prober`, p.Name(), `path`, path, `err`, err)
			return
		}
		res, err := p.Probe(dev, n, ctx)
		if logx.IsErr(err, m, slog.LevelWarn, `prober`, p.Name(), `path`, path) || res == nil || len(res.Planes) == 0 {
			_ = dev.Close()
			continue
		}
		m.closer.AddClosers(dev)
		m.addPlanes(res.Planes...)
		for _, vout := range res.Vouts {
			if m.crtcByID(vout) == nil {
				m.addCrtc(vout, dev)
			}
		}
		logx.Debug(`probed device`, m, `prober`, p.Name(), `path`, path, `planes`, len(res.Planes), `vouts`, len(res.Vouts))
	}
}

func (m *Manager) addPlanes(planes ...Plane) {
	for _, pl := range planes {
		if pl == nil {
			continue
		}
		m.planes = append(m.planes, pl)
		m.closer.AddClosers(pl)
	}
}

func (m *Manager) addCrtc(id CrtcID, dev Device) {
	c := NewCrtc(id, dev, &m.settings, m.modeSetter)
	c.SetOsdChannels(m.osdChannels)
	m.crtcs = append(m.crtcs, c)
	m.closer.AddClosers(c)
}

func (m *Manager) crtcByID(id CrtcID) *Crtc {
	for _, c := range m.crtcs {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

// Planes returns a snapshot of all planes.
func (m *Manager) Planes() []Plane {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Plane(nil), m.planes...)
}

// Crtcs returns a snapshot of all crtcs.
func (m *Manager) Crtcs() []*Crtc {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Crtc(nil), m.crtcs...)
}

// Crtc returns the crtc id or nil.
func (m *Manager) Crtc(id CrtcID) *Crtc {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.crtcByID(id)
}

// Connector returns the connector of type t, creating it on first use.
// There is at most one connector per type.
func (m *Manager) Connector(t ConnectorType) (Connector, error) {
	if m == nil {
		return nil, errors.NilReceiver()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if conn, ok := m.connectors[t]; ok {
		return conn, nil
	}
	conn, err := NewConnector(t, ConnectorIdxMin+m.connectorIdx, &m.settings)
	if err != nil {
		return nil, err
	}
	m.connectorIdx++
	m.connectors[t] = conn
	logx.Debug(`connector created`, m, `type`, t, `id`, conn.ID())
	return conn, nil
}

// Connectors returns the connectors created so far, ordered by type.
func (m *Manager) Connectors() []Connector {
	m.mu.Lock()
	defer m.mu.Unlock()
	conns := make([]Connector, 0, len(m.connectors))
	for _, t := range util.MapsKeysSorted(m.connectors) {
		conns = append(conns, m.connectors[t])
	}
	return conns
}

func (m *Manager) Dump(w io.Writer) {
	fmt.Fprintln(w, `planes:`)
	for _, pl := range m.Planes() {
		fmt.Fprint(w, `  `)
		pl.Dump(w)
	}
	fmt.Fprintln(w, `crtcs:`)
	for _, c := range m.Crtcs() {
		c.Dump(w)
	}
	fmt.Fprintln(w, `connectors:`)
	for _, conn := range m.Connectors() {
		conn.Dump(w)
	}
}

// Close releases planes, crtcs and devices in reverse order of creation.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.closer.Close()
	m.planes = nil
	m.crtcs = nil
	return err
}
