package postgres

import (
	"context"
	"database/sql"

	"kitloop/internal/repository"
)

// ProviderPostgres is a PostgreSQL implementation of
// repository.ProviderAccessRepository. It uses database/sql with
// parameterized queries and contains no business logic.
type ProviderPostgres struct {
	db *sql.DB
}

// NewProviderPostgres creates a new ProviderPostgres repository.
func NewProviderPostgres(db *sql.DB) *ProviderPostgres {
	return &ProviderPostgres{db: db}
}

var _ repository.ProviderAccessRepository = (*ProviderPostgres)(nil)

// HasAccess reports whether the user owns the provider row or is listed in
// provider_members.
func (r *ProviderPostgres) HasAccess(ctx context.Context, providerID, userID string) (bool, error) {
	const q = `
		SELECT EXISTS (SELECT 1 FROM providers WHERE id = $1 AND user_id = $2)
		    OR EXISTS (SELECT 1 FROM provider_members WHERE provider_id = $1 AND user_id = $2)
	`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, providerID, userID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
