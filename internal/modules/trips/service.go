package trips

import (
	"context"
	"time"

	"github.com/google/uuid"

	"travelai/internal/modules/itinerary"
)

// Inserter is the write side of the trips table.
type Inserter interface {
	Insert(ctx context.Context, r *Record) error
}

// Service saves generated itineraries for signed-in callers.
type Service struct {
	store Inserter
	now   func() time.Time
}

// NewService creates a Service. A nil store disables persistence.
func NewService(store Inserter) *Service {
	return &Service{store: store, now: time.Now}
}

// PersistIfAuthenticated stores it under identity. It reports false without error
// when the caller is anonymous or persistence is disabled. Failures are returned
// as *PersistenceError.
func (s *Service) PersistIfAuthenticated(ctx context.Context, identity *Identity, req itinerary.TripRequest, it itinerary.Itinerary) (bool, error) {
	if !identity.Authenticated() || s.store == nil || it.IsZero() {
		return false, nil
	}

	r := &Record{
		ID:          uuid.New(),
		UserID:      identity.UID,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Budget:      string(req.Budget),
		Interests:   req.Interests,
		Itinerary:   it.JSON(),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Insert(ctx, r); err != nil {
		return false, &PersistenceError{Err: err}
	}
	return true, nil
}
