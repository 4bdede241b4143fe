package repository

import (
	"context"

	"kitloop/internal/model"
)

// AuditRepository is the append-only sink for the upload audit trail.
// Records are created once per request outcome and never updated or deleted.
type AuditRepository interface {
	// Create appends a new audit record and returns the stored row
	// (including values set by the database).
	Create(ctx context.Context, rec *model.AuditRecord) (*model.AuditRecord, error)

	// ListByProvider returns a page of audit records for one provider,
	// newest first, plus the total row count for that provider.
	ListByProvider(ctx context.Context, providerID string, pq PageQuery) (*PageResult[model.AuditRecord], error)
}
