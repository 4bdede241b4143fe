package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"kitloop/internal/model"
	"kitloop/internal/repository"
)

// AuditPostgres is a PostgreSQL implementation of repository.AuditRepository.
// Metadata is stored as JSONB.
type AuditPostgres struct {
	db *sql.DB
}

// NewAuditPostgres creates a new AuditPostgres repository.
func NewAuditPostgres(db *sql.DB) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

// Create appends a new audit row and returns the stored record.
func (r *AuditPostgres) Create(ctx context.Context, rec *model.AuditRecord) (*model.AuditRecord, error) {
	meta := rec.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal audit metadata: %w", err)
	}

	const q = `
		INSERT INTO audit_events (id, provider_id, user_id, action, resource_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, provider_id, user_id, action, resource_id, metadata, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		rec.ID,
		rec.ProviderID,
		rec.UserID,
		string(rec.Action),
		rec.ResourceID,
		metaJSON,
		rec.CreatedAt,
	)
	return scanAuditRow(row)
}

// ListByProvider returns audit rows for one provider, newest first, plus the
// total count.
func (r *AuditPostgres) ListByProvider(ctx context.Context, providerID string, pq repository.PageQuery) (*repository.PageResult[model.AuditRecord], error) {
	const qCount = `SELECT COUNT(*) FROM audit_events WHERE provider_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, providerID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, provider_id, user_id, action, resource_id, metadata, created_at
		FROM audit_events
		WHERE provider_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, providerID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AuditRecord, 0)
	for rows.Next() {
		rec, err := scanAuditRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.AuditRecord]{
		Items: items,
		Total: total,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuditRow(row rowScanner) (*model.AuditRecord, error) {
	var (
		rec      model.AuditRecord
		action   string
		metaJSON []byte
	)
	if err := row.Scan(
		&rec.ID,
		&rec.ProviderID,
		&rec.UserID,
		&action,
		&rec.ResourceID,
		&metaJSON,
		&rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	rec.Action = model.AuditAction(action)
	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &rec.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal audit metadata: %w", err)
		}
	}
	return &rec, nil
}
