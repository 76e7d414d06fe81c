package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"travelai/internal/modules/itinerary"
	"travelai/internal/modules/trips"
)

type stubGenerator struct {
	it  itinerary.Itinerary
	err error
}

func (s *stubGenerator) Generate(_ context.Context, _ itinerary.TripRequest) (itinerary.Itinerary, error) {
	return s.it, s.err
}

type stubPersister struct {
	mu      sync.Mutex
	calls   []*trips.Identity
	ctxErrs []error
	err     error
	block   chan struct{}
}

func (s *stubPersister) PersistIfAuthenticated(ctx context.Context, identity *trips.Identity, _ itinerary.TripRequest, _ itinerary.Itinerary) (bool, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, identity)
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	if s.err != nil {
		return false, s.err
	}
	return identity.Authenticated(), nil
}

func (s *stubPersister) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func mustItinerary(t *testing.T) itinerary.Itinerary {
	t.Helper()
	it, err := itinerary.Extract(`{"days":[{"date":"2025-06-01","activities":[]}]}`)
	require.NoError(t, err)
	return it
}

func request() itinerary.TripRequest {
	return itinerary.TripRequest{
		Destination: "Paris",
		StartDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		Budget:      itinerary.BudgetMidRange,
		Interests:   []string{"Food"},
	}
}

func TestPlanTrip_AuthenticatedIsSaved(t *testing.T) {
	persister := &stubPersister{}
	p := NewTripPlanner(&stubGenerator{it: mustItinerary(t)}, persister, nil, time.Second)

	it, err := p.PlanTrip(context.Background(), request(), &trips.Identity{UID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, it.DayCount())

	p.Wait()
	require.Equal(t, 1, persister.count())
	assert.Equal(t, "user-1", persister.calls[0].UID)
}

func TestPlanTrip_AnonymousIsNotSaved(t *testing.T) {
	persister := &stubPersister{}
	p := NewTripPlanner(&stubGenerator{it: mustItinerary(t)}, persister, nil, time.Second)

	for _, id := range []*trips.Identity{nil, {}} {
		_, err := p.PlanTrip(context.Background(), request(), id)
		require.NoError(t, err)
	}
	p.Wait()
	assert.Equal(t, 0, persister.count())
}

func TestPlanTrip_GenerationFailureSkipsPersistence(t *testing.T) {
	persister := &stubPersister{}
	p := NewTripPlanner(&stubGenerator{err: itinerary.ErrGeneration}, persister, nil, time.Second)

	it, err := p.PlanTrip(context.Background(), request(), &trips.Identity{UID: "user-1"})
	assert.Equal(t, itinerary.ErrGeneration, err)
	assert.True(t, it.IsZero())

	p.Wait()
	assert.Equal(t, 0, persister.count())
}

func TestPlanTrip_PersistenceFailureIsLoggedOnly(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	persister := &stubPersister{err: &trips.PersistenceError{Err: errors.New("db down")}}
	p := NewTripPlanner(&stubGenerator{it: mustItinerary(t)}, persister, zap.New(core), time.Second)

	it, err := p.PlanTrip(context.Background(), request(), &trips.Identity{UID: "user-1"})
	require.NoError(t, err)
	assert.False(t, it.IsZero())

	p.Wait()
	entries := logs.FilterMessage("trip persistence failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "user-1", entries[0].ContextMap()["uid"])
	assert.Contains(t, entries[0].ContextMap()["error"], "db down")
}

func TestPlanTrip_ReturnsBeforeWriteCompletes(t *testing.T) {
	persister := &stubPersister{block: make(chan struct{})}
	p := NewTripPlanner(&stubGenerator{it: mustItinerary(t)}, persister, nil, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := p.PlanTrip(ctx, request(), &trips.Identity{UID: "user-1"})
	require.NoError(t, err)

	// The request ends before the write runs; the write must not see its cancellation.
	cancel()
	assert.Equal(t, 0, persister.count())
	close(persister.block)

	p.Wait()
	require.Equal(t, 1, persister.count())
	assert.NoError(t, persister.ctxErrs[0])
}

func TestPlanTrip_NilPersister(t *testing.T) {
	p := NewTripPlanner(&stubGenerator{it: mustItinerary(t)}, nil, nil, 0)
	_, err := p.PlanTrip(context.Background(), request(), &trips.Identity{UID: "user-1"})
	require.NoError(t, err)
	p.Wait()
	assert.Equal(t, DefaultPersistTimeout, p.persistTimeout)
}
