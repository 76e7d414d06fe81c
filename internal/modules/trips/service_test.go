package trips_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelai/internal/modules/itinerary"
	"travelai/internal/modules/trips"
)

// stubInserter records inserted rows and returns err.
type stubInserter struct {
	rows []*trips.Record
	err  error
}

func (s *stubInserter) Insert(_ context.Context, r *trips.Record) error {
	s.rows = append(s.rows, r)
	return s.err
}

func sampleRequest() itinerary.TripRequest {
	return itinerary.TripRequest{
		Destination: "Paris",
		StartDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		Budget:      itinerary.BudgetMidRange,
		Interests:   []string{"Food", "Culture"},
	}
}

func sampleItinerary(t *testing.T) itinerary.Itinerary {
	t.Helper()
	it, err := itinerary.Extract(`{"summary":"s","days":[{"date":"2025-06-01","activities":[]}]}`)
	require.NoError(t, err)
	return it
}

func TestPersistIfAuthenticated_Authenticated(t *testing.T) {
	store := &stubInserter{}
	svc := trips.NewService(store)

	ok, err := svc.PersistIfAuthenticated(context.Background(), &trips.Identity{UID: "user-1"}, sampleRequest(), sampleItinerary(t))

	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, store.rows, 1)

	row := store.rows[0]
	assert.NotEmpty(t, row.ID)
	assert.Equal(t, "user-1", row.UserID)
	assert.Equal(t, "Paris", row.Destination)
	assert.Equal(t, "2025-06-01", row.StartDate.Format(itinerary.DateLayout))
	assert.Equal(t, "2025-06-05", row.EndDate.Format(itinerary.DateLayout))
	assert.Equal(t, "Mid-Range", row.Budget)
	assert.Equal(t, []string{"Food", "Culture"}, row.Interests)
	assert.JSONEq(t, `{"summary":"s","days":[{"date":"2025-06-01","activities":[]}]}`, string(row.Itinerary))
	assert.False(t, row.CreatedAt.IsZero())
}

func TestPersistIfAuthenticated_Anonymous(t *testing.T) {
	store := &stubInserter{}
	svc := trips.NewService(store)

	for _, id := range []*trips.Identity{nil, {UID: ""}} {
		ok, err := svc.PersistIfAuthenticated(context.Background(), id, sampleRequest(), sampleItinerary(t))
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Empty(t, store.rows)
}

func TestPersistIfAuthenticated_Disabled(t *testing.T) {
	svc := trips.NewService(nil)
	ok, err := svc.PersistIfAuthenticated(context.Background(), &trips.Identity{UID: "user-1"}, sampleRequest(), sampleItinerary(t))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPersistIfAuthenticated_StoreError(t *testing.T) {
	cause := errors.New("connection refused")
	svc := trips.NewService(&stubInserter{err: cause})

	ok, err := svc.PersistIfAuthenticated(context.Background(), &trips.Identity{UID: "user-1"}, sampleRequest(), sampleItinerary(t))

	assert.False(t, ok)
	var pe *trips.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.ErrorIs(t, err, cause)
}
