package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	routeDomain "github.com/FleetPro/service-dashboard/internal/domain/route"
	"github.com/FleetPro/service-dashboard/internal/platform/kafka"
	"github.com/FleetPro/service-dashboard/internal/repository"
)

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
	topics []string
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// manualScheduler records scheduled callbacks so tests decide when they fire.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*scheduledCall
}

type scheduledCall struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (s *manualScheduler) schedule(d time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	call := &scheduledCall{delay: d, fn: f}
	s.pending = append(s.pending, call)
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		wasPending := !call.stopped
		call.stopped = true
		return wasPending
	}
}

// fire runs the i-th scheduled callback even if it was stopped, the way a
// timer that already fired would still deliver after Stop.
func (s *manualScheduler) fire(i int) {
	s.mu.Lock()
	call := s.pending[i]
	s.mu.Unlock()
	call.fn()
}

func (s *manualScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func seedCatalog(t *testing.T) *routeDomain.Catalog {
	t.Helper()
	catalog, err := routeDomain.NewSeedCatalog()
	require.NoError(t, err)
	return catalog
}

type testServices struct {
	publisher *recordingPublisher
	employees *EmployeeService
	rides     *RideService
	sos       *SOSService
	analytics *AnalyticsService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	logger := zap.NewNop()
	pub := &recordingPublisher{}
	events := NewEventPublisher(pub, "fleet.events", logger)

	employees := repository.NewMemoryEmployeeRepository()
	rides := repository.NewMemoryRideRequestRepository()
	alerts := repository.NewMemorySOSAlertRepository()
	require.NoError(t, repository.SeedIfEmpty(context.Background(), employees, rides, alerts, logger))

	return &testServices{
		publisher: pub,
		employees: NewEmployeeService(employees, events, logger),
		rides:     NewRideService(rides, events, logger),
		sos:       NewSOSService(alerts, events, logger),
		analytics: NewAnalyticsService(seedCatalog(t), employees, rides, alerts),
	}
}

var errBrokerDown = errors.New("broker down")
