package offline

import (
	"net/http"
	"sync"
	"time"
)

// ProbeMonitor implements Monitor by periodically probing an HTTP endpoint.
// It is the connectivity collaborator used when no platform signal source is
// available, e.g. under the local daemon.
type ProbeMonitor struct {
	url      string
	interval time.Duration
	client   *http.Client

	mu     sync.Mutex
	online bool
	subs   map[int]func(Event)
	nextID int

	stop     chan struct{}
	stopOnce sync.Once
}

const probeTimeout = 1 * time.Second

// NewProbeMonitor starts probing url every interval. The monitor assumes a
// metered link is never in play; IsUnmetered mirrors HasInternet.
func NewProbeMonitor(url string, interval time.Duration) *ProbeMonitor {
	m := &ProbeMonitor{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: probeTimeout},
		subs:     make(map[int]func(Event)),
		stop:     make(chan struct{}),
	}
	m.online = m.probe()
	go m.loop()
	return m
}

func (m *ProbeMonitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.update(m.probe())
		}
	}
}

func (m *ProbeMonitor) probe() bool {
	resp, err := m.client.Head(m.url)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

func (m *ProbeMonitor) update(online bool) {
	m.mu.Lock()
	changed := online != m.online
	m.online = online
	subs := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	if !changed {
		return
	}
	ev := EventLost
	if online {
		ev = EventAvailable
	}
	for _, fn := range subs {
		fn(ev)
	}
}

// HasInternet reports the result of the most recent probe.
func (m *ProbeMonitor) HasInternet() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// IsUnmetered reports true whenever the probe succeeds; a daemon host has no
// metered-transport notion.
func (m *ProbeMonitor) IsUnmetered() bool {
	return m.HasInternet()
}

// Subscribe registers fn for connectivity transitions.
func (m *ProbeMonitor) Subscribe(fn func(Event)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Close stops the probe loop. Idempotent.
func (m *ProbeMonitor) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}
