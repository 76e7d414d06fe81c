package itinerary_test

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
)

// stubCompleter is a test double for itinerary.Completer.
type stubCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func (s *stubCompleter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

const parisItinerary = `{"summary":"Four days of food and culture in Paris","days":[{"date":"2025-06-01","activities":[{"time":"09:00","description":"Louvre visit","location":"Musée du Louvre","cost":"€22","type":"Culture"},{"time":"13:00","description":"Lunch at a bistro","location":"Le Marais","cost":"€30","type":"Food"}]},{"date":"2025-06-02","activities":[]}],"totalCost":"€900","tips":["Buy a Navigo pass"],"recommendations":{"restaurants":["Le Comptoir"],"attractions":["Musée d'Orsay"],"transportation":["Metro"]}}`

func parisRequest() itinerary.TripRequest {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	return itinerary.TripRequest{
		Destination: "Paris",
		StartDate:   start,
		EndDate:     end,
		Budget:      itinerary.BudgetMidRange,
		Interests:   []string{"Food", "Culture"},
	}
}

func observedService(c itinerary.Completer) (*itinerary.Service, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return itinerary.NewService(c, zap.New(core)), logs
}

func TestGenerate_ValidJSON(t *testing.T) {
	stub := &stubCompleter{reply: parisItinerary}
	svc, _ := observedService(stub)

	it, err := svc.Generate(context.Background(), parisRequest())

	require.NoError(t, err)
	assert.JSONEq(t, parisItinerary, string(it.JSON()))
	assert.Equal(t, 2, it.DayCount())

	require.Equal(t, 1, stub.calls())
	assert.Equal(t, itinerary.BuildPrompt(parisRequest()), stub.prompts[0])
}

func TestGenerate_RefusalText(t *testing.T) {
	stub := &stubCompleter{reply: "I cannot help with that"}
	svc, logs := observedService(stub)

	it, err := svc.Generate(context.Background(), parisRequest())

	require.Error(t, err)
	assert.True(t, it.IsZero())
	assert.ErrorIs(t, err, itinerary.ErrGeneration)
	assert.Equal(t, "Failed to generate itinerary. Please try again.", err.Error())

	entries := logs.FilterMessage("itinerary generation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "extract", entries[0].ContextMap()["stage"])
	assert.Contains(t, entries[0].ContextMap()["error"], "no JSON found")
}

func TestGenerate_TransportFailure(t *testing.T) {
	stub := &stubCompleter{err: errors.New("rpc error: code = Unauthenticated")}
	svc, logs := observedService(stub)

	_, err := svc.Generate(context.Background(), parisRequest())

	assert.Equal(t, itinerary.ErrGeneration, err)

	entries := logs.FilterMessage("itinerary generation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "completion", entries[0].ContextMap()["stage"])
	assert.Contains(t, entries[0].ContextMap()["error"], "Unauthenticated")
}

func TestGenerate_InvalidShapeHidesCause(t *testing.T) {
	stub := &stubCompleter{reply: `{"days": "not-an-array"}`}
	svc, _ := observedService(stub)

	_, err := svc.Generate(context.Background(), parisRequest())

	assert.Equal(t, itinerary.ErrGeneration, err)
	assert.NotErrorIs(t, err, itinerary.ErrInvalidShape)
}

func TestGenerate_NoInternalRetry(t *testing.T) {
	stub := &stubCompleter{reply: "not json"}
	svc, _ := observedService(stub)

	_, err := svc.Generate(context.Background(), parisRequest())
	require.Error(t, err)
	assert.Equal(t, 1, stub.calls())

	// A retry is a new call by the caller.
	stub.reply = parisItinerary
	_, err = svc.Generate(context.Background(), parisRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls())
}

func TestGenerate_ConcurrentCalls(t *testing.T) {
	stub := &stubCompleter{reply: parisItinerary}
	svc := itinerary.NewService(stub, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Generate(context.Background(), parisRequest())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 8, stub.calls())
}

func TestTransportError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &itinerary.TransportError{Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}
