package trips

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles trips persistence.
type Store struct {
	db *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Insert writes r. Interests are stored as a text array and the itinerary as jsonb.
func (s *Store) Insert(ctx context.Context, r *Record) error {
	interests := r.Interests
	if interests == nil {
		interests = []string{}
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO trips (
			id, user_id, destination, start_date, end_date,
			budget, interests, itinerary, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID,
		r.UserID,
		r.Destination,
		r.StartDate,
		r.EndDate,
		r.Budget,
		interests,
		string(r.Itinerary),
		r.CreatedAt,
	)
	return err
}
