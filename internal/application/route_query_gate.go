package application

import (
	"context"
	"strings"
	"sync"
	"time"

	routeDomain "github.com/FleetPro/service-dashboard/internal/domain/route"
)

// GateState is the presentation state of the smart route assistant.
type GateState string

const (
	GateIdle     GateState = "idle"
	GateLoading  GateState = "loading"
	GateResolved GateState = "resolved"
)

// GateSnapshot is what the assistant page renders for one session.
type GateSnapshot struct {
	State   GateState  `json:"state"`
	Query   string     `json:"query"`
	Seq     uint64     `json:"seq"`
	Loading bool       `json:"loading"`
	Tags    []string   `json:"tags"`
	Results []RouteDTO `json:"results"`
	// Empty is true when resolved with no matching routes.
	Empty bool `json:"empty"`
}

// scheduleFunc runs f after d and returns a function that cancels it.
type scheduleFunc func(d time.Duration, f func()) (stop func() bool)

func afterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// RouteQueryGate holds back results until a simulated processing delay has
// elapsed. Every submission takes a new sequence number; a resolution only
// commits while its number is still the latest, so an older query finishing
// late can never overwrite a newer one.
type RouteQueryGate struct {
	catalog  *routeDomain.Catalog
	delay    time.Duration
	schedule scheduleFunc

	mu      sync.Mutex
	state   GateState
	query   string
	seq     uint64
	tags    []routeDomain.Tag
	results []*routeDomain.Record
	stop    func() bool
	settled chan struct{}
	stale   uint64
}

// NewRouteQueryGate creates an idle gate over catalog.
func NewRouteQueryGate(catalog *routeDomain.Catalog, delay time.Duration) *RouteQueryGate {
	return newRouteQueryGate(catalog, delay, afterFunc)
}

func newRouteQueryGate(catalog *routeDomain.Catalog, delay time.Duration, schedule scheduleFunc) *RouteQueryGate {
	settled := make(chan struct{})
	close(settled)
	return &RouteQueryGate{
		catalog:  catalog,
		delay:    delay,
		schedule: schedule,
		state:    GateIdle,
		settled:  settled,
	}
}

// Submit starts resolving query. A blank query returns the gate to Idle
// without classifying anything.
func (g *RouteQueryGate) Submit(query string) GateSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.seq++
	g.cancelPendingLocked()
	g.tags, g.results = nil, nil

	if strings.TrimSpace(query) == "" {
		g.state = GateIdle
		g.query = ""
		return g.snapshotLocked()
	}

	g.state = GateLoading
	g.query = query
	g.settled = make(chan struct{})

	seq := g.seq
	g.stop = g.schedule(g.delay, func() { g.resolve(seq, query) })
	return g.snapshotLocked()
}

func (g *RouteQueryGate) resolve(seq uint64, query string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if seq != g.seq {
		g.stale++
		return
	}

	g.tags, g.results = g.catalog.Search(query)
	g.state = GateResolved
	g.stop = nil
	close(g.settled)
}

// cancelPendingLocked stops the outstanding timer and releases waiters. A
// timer that already fired is rejected by the sequence check in resolve.
func (g *RouteQueryGate) cancelPendingLocked() {
	if g.stop != nil {
		g.stop()
		g.stop = nil
	}
	select {
	case <-g.settled:
	default:
		close(g.settled)
	}
}

// Snapshot returns the current presentation state.
func (g *RouteQueryGate) Snapshot() GateSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// Wait blocks until the latest submission is no longer loading or ctx ends.
func (g *RouteQueryGate) Wait(ctx context.Context) (GateSnapshot, error) {
	for {
		g.mu.Lock()
		if g.state != GateLoading {
			snap := g.snapshotLocked()
			g.mu.Unlock()
			return snap, nil
		}
		settled := g.settled
		g.mu.Unlock()

		select {
		case <-settled:
		case <-ctx.Done():
			return g.Snapshot(), ctx.Err()
		}
	}
}

// Close cancels any pending resolution.
func (g *RouteQueryGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	g.cancelPendingLocked()
	g.state = GateIdle
	g.query = ""
	g.tags, g.results = nil, nil
}

// StaleResolutions counts resolutions discarded because a newer query superseded them.
func (g *RouteQueryGate) StaleResolutions() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stale
}

func (g *RouteQueryGate) snapshotLocked() GateSnapshot {
	snap := GateSnapshot{
		State:   g.state,
		Query:   g.query,
		Seq:     g.seq,
		Loading: g.state == GateLoading,
		Tags:    []string{},
		Results: []RouteDTO{},
	}
	if g.state == GateResolved {
		snap.Tags = tagStrings(g.tags)
		snap.Results = toRouteDTOs(g.results)
		snap.Empty = len(g.results) == 0
	}
	return snap
}

// GateRegistry keeps one RouteQueryGate per login session.
type GateRegistry struct {
	catalog  *routeDomain.Catalog
	delay    time.Duration
	schedule scheduleFunc

	mu    sync.Mutex
	gates map[string]*RouteQueryGate
}

// NewGateRegistry creates an empty GateRegistry.
func NewGateRegistry(catalog *routeDomain.Catalog, delay time.Duration) *GateRegistry {
	return &GateRegistry{
		catalog:  catalog,
		delay:    delay,
		schedule: afterFunc,
		gates:    make(map[string]*RouteQueryGate),
	}
}

// Gate returns the session's gate, creating it on first use.
func (r *GateRegistry) Gate(sessionID string) *RouteQueryGate {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.gates[sessionID]
	if !ok {
		g = newRouteQueryGate(r.catalog, r.delay, r.schedule)
		r.gates[sessionID] = g
	}
	return g
}

// Drop closes and forgets the session's gate.
func (r *GateRegistry) Drop(sessionID string) {
	r.mu.Lock()
	g, ok := r.gates[sessionID]
	delete(r.gates, sessionID)
	r.mu.Unlock()

	if ok {
		g.Close()
	}
}

// Len returns the number of live gates.
func (r *GateRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.gates)
}
