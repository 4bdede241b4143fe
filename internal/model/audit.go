package model

import "time"

// AuditAction labels the terminal outcome recorded for a ticket request.
type AuditAction string

const (
	AuditTicketIssued AuditAction = "upload_ticket_issued"
	AuditTicketDenied AuditAction = "upload_ticket_denied"
)

// AuditRecord is one append-only entry in the upload audit trail. ResourceID
// is the resolved storage path, or the provider/reservation id when denial
// happens before a path exists. Metadata is a best-effort bag whose contents
// vary by denial stage.
type AuditRecord struct {
	ID         string         `json:"id"`
	ProviderID string         `json:"providerId"`
	UserID     string         `json:"userId"`
	Action     AuditAction    `json:"action"`
	ResourceID string         `json:"resourceId"`
	Metadata   map[string]any `json:"metadata"`
	CreatedAt  time.Time      `json:"createdAt"`
}
