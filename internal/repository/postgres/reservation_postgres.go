package postgres

import (
	"context"
	"database/sql"

	"kitloop/internal/repository"
)

// ReservationPostgres is a PostgreSQL implementation of
// repository.ReservationRepository.
type ReservationPostgres struct {
	db *sql.DB
}

// NewReservationPostgres creates a new ReservationPostgres repository.
func NewReservationPostgres(db *sql.DB) *ReservationPostgres {
	return &ReservationPostgres{db: db}
}

var _ repository.ReservationRepository = (*ReservationPostgres)(nil)

// BelongsToProvider reports whether the reservation exists under the given
// provider. A missing reservation is simply "false", not an error.
func (r *ReservationPostgres) BelongsToProvider(ctx context.Context, reservationID, providerID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM reservations WHERE id = $1 AND provider_id = $2)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, reservationID, providerID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
