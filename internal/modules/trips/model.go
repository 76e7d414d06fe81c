// README: Saved trip records and the caller identity they are keyed by.
package trips

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Identity is the authenticated caller as reported by the identity provider.
// A nil *Identity or an empty UID means anonymous.
type Identity struct {
	UID string
}

func (id *Identity) Authenticated() bool {
	return id != nil && id.UID != ""
}

// Record is one saved generation. Itinerary is stored as an opaque JSON payload.
type Record struct {
	ID          uuid.UUID
	UserID      string
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Budget      string
	Interests   []string
	Itinerary   json.RawMessage
	CreatedAt   time.Time
}

// PersistenceError wraps a failed trip write.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "persist trip: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
