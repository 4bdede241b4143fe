package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"kitloop/internal/model"
	"kitloop/internal/repository"
	"kitloop/internal/storage"
	"kitloop/internal/upload"
)

// Authorization denial reasons. Content-policy reasons come from the upload
// package; these cover the relationship checks that run before it.
const (
	ReasonProviderForbidden   = "provider_forbidden"
	ReasonReservationMismatch = "reservation_mismatch"
)

// maxAuditPageSize bounds a single audit listing page.
const maxAuditPageSize = 100

// DenialError is the typed outcome for every expected denial: the caller maps
// Reason to an HTTP status and a client-facing message.
type DenialError struct {
	Reason string
}

func (e *DenialError) Error() string {
	return "upload ticket denied: " + e.Reason
}

// AuditListResult is the service-level DTO for paginated audit records.
type AuditListResult struct {
	Items []model.AuditRecord `json:"data"`
	Total int                 `json:"total"`
}

// TicketService defines the use cases around upload tickets.
type TicketService interface {
	// Issue runs the full grant pipeline for an authenticated caller:
	// provider authorization, reservation authorization for damage photos,
	// path construction, policy validation, URL signing, and the audit
	// write. Every denial after this point is returned as *DenialError and
	// recorded in the audit trail.
	Issue(ctx context.Context, userID string, req *model.TicketRequest) (*model.UploadTicket, error)

	// ListAudit returns a page of the provider's audit trail, newest first.
	// The caller must have provider access.
	ListAudit(ctx context.Context, userID, providerID string, limit, offset int) (*AuditListResult, error)
}

// ticketService is a concrete implementation of TicketService. It holds no
// cross-request state; all shared state lives behind the injected
// collaborators.
type ticketService struct {
	providers    repository.ProviderAccessRepository
	reservations repository.ReservationRepository
	audits       repository.AuditRepository
	signer       storage.Signer
}

// NewTicketService constructs a new TicketService.
func NewTicketService(
	providers repository.ProviderAccessRepository,
	reservations repository.ReservationRepository,
	audits repository.AuditRepository,
	signer storage.Signer,
) TicketService {
	return &ticketService{
		providers:    providers,
		reservations: reservations,
		audits:       audits,
		signer:       signer,
	}
}

func (s *ticketService) Issue(ctx context.Context, userID string, req *model.TicketRequest) (*model.UploadTicket, error) {
	// Authorization runs before any content validation: never compute a
	// storage path or contact storage for a caller who may not act on this
	// provider.
	allowed, err := s.providers.HasAccess(ctx, req.ProviderID, userID)
	if err != nil {
		return nil, fmt.Errorf("check provider access: %w", err)
	}
	if !allowed {
		s.writeAudit(ctx, denialRecord(userID, req, ReasonProviderForbidden, req.ProviderID, nil))
		return nil, &DenialError{Reason: ReasonProviderForbidden}
	}

	if req.UseCase == model.UseCaseDamagePhoto {
		owned, err := s.reservations.BelongsToProvider(ctx, req.ReservationID, req.ProviderID)
		if err != nil {
			return nil, fmt.Errorf("check reservation ownership: %w", err)
		}
		if !owned {
			s.writeAudit(ctx, denialRecord(userID, req, ReasonReservationMismatch, req.ReservationID, nil))
			return nil, &DenialError{Reason: ReasonReservationMismatch}
		}
	}

	rule, ok := upload.RuleFor(req.UseCase)
	if !ok {
		s.writeAudit(ctx, denialRecord(userID, req, upload.ReasonUseCaseUnknown, req.ProviderID, nil))
		return nil, &DenialError{Reason: upload.ReasonUseCaseUnknown}
	}

	prefix := upload.PrefixFor(req.UseCase, req.ProviderID, req.ReservationID)
	key := upload.BuildObjectKey(prefix, req.FileName, req.MimeType)

	res := upload.ValidateUploadRequest(upload.ValidateParams{
		UseCase:        req.UseCase,
		MimeType:       req.MimeType,
		SizeBytes:      req.SizeBytes,
		Bucket:         rule.Bucket,
		Path:           key,
		ExpectedPrefix: prefix,
	})
	if !res.OK {
		s.writeAudit(ctx, denialRecord(userID, req, res.Reason, key, map[string]any{
			"bucket": rule.Bucket,
			"path":   key,
		}))
		return nil, &DenialError{Reason: res.Reason}
	}

	signed, err := s.signer.PresignUpload(ctx, rule.Bucket, key, upload.TicketTTLSeconds*time.Second)
	if err != nil {
		// Signing failures are not audited: only validation denials and the
		// final grant are part of the audit contract.
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	s.writeAudit(ctx, &model.AuditRecord{
		ID:         uuid.NewString(),
		ProviderID: req.ProviderID,
		UserID:     userID,
		Action:     model.AuditTicketIssued,
		ResourceID: key,
		Metadata: map[string]any{
			"useCase": string(req.UseCase),
			"bucket":  rule.Bucket,
			"path":    key,
			"mime":    req.MimeType,
			"size":    req.SizeBytes,
		},
		CreatedAt: time.Now().UTC(),
	})

	return &model.UploadTicket{
		Bucket:      rule.Bucket,
		Path:        key,
		Token:       signed.Token,
		SignedURL:   signed.SignedURL,
		ExpiresIn:   upload.TicketTTLSeconds,
		MaxBytes:    rule.MaxBytes,
		AllowedMime: rule.AllowedMime,
	}, nil
}

func (s *ticketService) ListAudit(ctx context.Context, userID, providerID string, limit, offset int) (*AuditListResult, error) {
	allowed, err := s.providers.HasAccess(ctx, providerID, userID)
	if err != nil {
		return nil, fmt.Errorf("check provider access: %w", err)
	}
	if !allowed {
		return nil, &DenialError{Reason: ReasonProviderForbidden}
	}

	if limit <= 0 {
		limit = 10
	}
	if limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.audits.ListByProvider(ctx, providerID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &AuditListResult{Items: res.Items, Total: res.Total}, nil
}

// denialRecord assembles the audit row for one denial. Extra metadata varies
// by denial stage and is merged over the base fields.
func denialRecord(userID string, req *model.TicketRequest, reason, resourceID string, extra map[string]any) *model.AuditRecord {
	meta := map[string]any{
		"useCase": string(req.UseCase),
		"reason":  reason,
		"mime":    req.MimeType,
		"size":    req.SizeBytes,
	}
	for k, v := range extra {
		meta[k] = v
	}
	return &model.AuditRecord{
		ID:         uuid.NewString(),
		ProviderID: req.ProviderID,
		UserID:     userID,
		Action:     model.AuditTicketDenied,
		ResourceID: resourceID,
		Metadata:   meta,
		CreatedAt:  time.Now().UTC(),
	}
}

// writeAudit appends one record, best-effort. An audit-store outage must
// never block a response, so failures are logged and swallowed.
func (s *ticketService) writeAudit(ctx context.Context, rec *model.AuditRecord) {
	if _, err := s.audits.Create(ctx, rec); err != nil {
		entry, _ := json.Marshal(map[string]any{
			"ts":          time.Now().UTC().Format(time.RFC3339Nano),
			"level":       "error",
			"msg":         "audit_write_failed",
			"action":      string(rec.Action),
			"provider_id": rec.ProviderID,
			"error":       err.Error(),
		})
		log.SetFlags(0)
		log.Println(string(entry))
	}
}
