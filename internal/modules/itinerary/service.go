package itinerary

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrGeneration is the only error Generate returns. Its message is shown to users as is.
var ErrGeneration = errors.New("Failed to generate itinerary. Please try again.")

// Completer is the outbound text-completion capability: one prompt in, one
// completion out, no history and no streaming.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TransportError wraps a failed completion call (network, auth, quota, non-2xx).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("completion failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Service turns trip requests into itineraries. It keeps no state between calls
// and is safe for concurrent use.
type Service struct {
	completer Completer
	logger    *zap.Logger
}

func NewService(completer Completer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{completer: completer, logger: logger}
}

// Generate builds the prompt, performs a single completion call and extracts the
// itinerary. Failures are logged with their cause and collapse to ErrGeneration;
// there is no retry.
func (s *Service) Generate(ctx context.Context, req TripRequest) (Itinerary, error) {
	prompt := BuildPrompt(req)

	text, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.fail("completion", req, &TransportError{Err: err})
		return Itinerary{}, ErrGeneration
	}

	it, err := Extract(text)
	if err != nil {
		s.fail("extract", req, err, zap.Int("response_len", len(text)))
		return Itinerary{}, ErrGeneration
	}

	s.logger.Debug("itinerary generated",
		zap.String("destination", req.Destination),
		zap.Int("days", it.DayCount()),
	)
	return it, nil
}

func (s *Service) fail(stage string, req TripRequest, err error, extra ...zap.Field) {
	fields := append([]zap.Field{
		zap.String("stage", stage),
		zap.String("destination", req.Destination),
		zap.Error(err),
	}, extra...)
	s.logger.Error("itinerary generation failed", fields...)
}
