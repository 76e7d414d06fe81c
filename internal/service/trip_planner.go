// README: Trip planning pipeline; generates an itinerary, then saves it for signed-in callers.
package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"travelai/internal/modules/itinerary"
	"travelai/internal/modules/trips"
)

// DefaultPersistTimeout bounds one background trip write.
const DefaultPersistTimeout = 10 * time.Second

// Generator produces an itinerary for a trip request.
type Generator interface {
	Generate(ctx context.Context, req itinerary.TripRequest) (itinerary.Itinerary, error)
}

// Persister saves a generated itinerary when the caller is signed in.
type Persister interface {
	PersistIfAuthenticated(ctx context.Context, identity *trips.Identity, req itinerary.TripRequest, it itinerary.Itinerary) (bool, error)
}

// TripPlanner runs generation and then persistence. The itinerary is returned
// before the write finishes; a failed write never fails the request.
type TripPlanner struct {
	itineraries    Generator
	trips          Persister
	logger         *zap.Logger
	persistTimeout time.Duration

	wg sync.WaitGroup
}

// NewTripPlanner creates a TripPlanner. A nil persister skips the save stage.
func NewTripPlanner(gen Generator, persister Persister, logger *zap.Logger, persistTimeout time.Duration) *TripPlanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if persistTimeout <= 0 {
		persistTimeout = DefaultPersistTimeout
	}
	return &TripPlanner{
		itineraries:    gen,
		trips:          persister,
		logger:         logger,
		persistTimeout: persistTimeout,
	}
}

// PlanTrip generates an itinerary for req. When identity is authenticated the
// result is saved in the background. Errors are those of the generator.
func (p *TripPlanner) PlanTrip(ctx context.Context, req itinerary.TripRequest, identity *trips.Identity) (itinerary.Itinerary, error) {
	it, err := p.itineraries.Generate(ctx, req)
	if err != nil {
		return itinerary.Itinerary{}, err
	}

	if p.trips != nil && identity.Authenticated() {
		// The write outlives the request; keep its values but not its cancellation.
		persistCtx := context.WithoutCancel(ctx)
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.persist(persistCtx, identity, req, it)
		}()
	}
	return it, nil
}

func (p *TripPlanner) persist(ctx context.Context, identity *trips.Identity, req itinerary.TripRequest, it itinerary.Itinerary) {
	ctx, cancel := context.WithTimeout(ctx, p.persistTimeout)
	defer cancel()

	saved, err := p.trips.PersistIfAuthenticated(ctx, identity, req, it)
	if err != nil {
		p.logger.Warn("trip persistence failed",
			zap.String("uid", identity.UID),
			zap.String("destination", req.Destination),
			zap.Error(err),
		)
		return
	}
	if saved {
		p.logger.Debug("trip saved",
			zap.String("uid", identity.UID),
			zap.String("destination", req.Destination),
		)
	}
}

// Wait blocks until every in-flight background write has finished.
func (p *TripPlanner) Wait() {
	p.wg.Wait()
}
