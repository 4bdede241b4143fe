package handler

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kitloop/internal/auth"
	"kitloop/internal/model"
	"kitloop/internal/service"
	"kitloop/internal/upload"
)

// Reason codes produced at the transport layer, before the service runs.
const (
	ReasonInvalidPayload      = "invalid_payload"
	ReasonReservationRequired = "reservation_required"
	ReasonUnauthorized        = "unauthorized"
)

// ticketRequestPayload mirrors the public JSON contract for ticket requests.
type ticketRequestPayload struct {
	UseCase       string `json:"useCase"`
	FileName      string `json:"fileName"`
	MimeType      string `json:"mimeType"`
	SizeBytes     int64  `json:"sizeBytes"`
	ProviderID    string `json:"providerId"`
	ReservationID string `json:"reservationId"`
}

// validate checks the payload shape strictly and returns the domain request,
// or a reason code when the shape is unacceptable. No identity is involved
// yet, so shape failures are never audited.
func (p *ticketRequestPayload) validate() (*model.TicketRequest, string) {
	useCase := model.UploadUseCase(p.UseCase)
	if !useCase.Valid() {
		return nil, ReasonInvalidPayload
	}
	if p.FileName == "" || p.MimeType == "" {
		return nil, ReasonInvalidPayload
	}
	if p.SizeBytes <= 0 {
		return nil, ReasonInvalidPayload
	}
	if _, err := uuid.Parse(p.ProviderID); err != nil {
		return nil, ReasonInvalidPayload
	}

	if useCase == model.UseCaseDamagePhoto && p.ReservationID == "" {
		return nil, ReasonReservationRequired
	}
	if p.ReservationID != "" {
		if _, err := uuid.Parse(p.ReservationID); err != nil {
			return nil, ReasonInvalidPayload
		}
	}

	return &model.TicketRequest{
		UseCase:       useCase,
		FileName:      p.FileName,
		MimeType:      p.MimeType,
		SizeBytes:     p.SizeBytes,
		ProviderID:    p.ProviderID,
		ReservationID: p.ReservationID,
	}, ""
}

// IssueUploadTicket handles POST /upload-tickets: strict payload validation,
// bearer authentication, then the service pipeline. Statuses: 200 on grant,
// 400/401/403 on typed denials, 500 on collaborator failure.
func IssueUploadTicket(svc service.TicketService, verifier auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payload ticketRequestPayload
		if err := json.Unmarshal(c.Body(), &payload); err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid request payload", ReasonInvalidPayload)
		}

		req, reason := payload.validate()
		if reason != "" {
			return writeError(c, fiber.StatusBadRequest, denialMessage(reason), reason)
		}

		user, err := verifier.Verify(c.UserContext(), bearerToken(c))
		if err != nil {
			return writeError(c, fiber.StatusUnauthorized, "unauthorized", ReasonUnauthorized)
		}

		ticket, err := svc.Issue(c.UserContext(), user.ID, req)
		if err != nil {
			var denial *service.DenialError
			if errors.As(err, &denial) {
				return writeError(c, statusForReason(denial.Reason), denialMessage(denial.Reason), denial.Reason)
			}
			return writeError(c, fiber.StatusInternalServerError, "internal server error", "")
		}

		return c.JSON(ticket)
	}
}

// Preflight answers CORS preflight requests with an empty success.
func Preflight() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// bearerToken extracts the credential from the Authorization header, or ""
// when the header is missing or not a bearer scheme.
func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return h[7:]
	}
	return ""
}

// statusForReason maps a denial reason code to its HTTP status: relationship
// failures are forbidden, everything else is a bad request.
func statusForReason(reason string) int {
	switch reason {
	case service.ReasonProviderForbidden, service.ReasonReservationMismatch:
		return fiber.StatusForbidden
	default:
		return fiber.StatusBadRequest
	}
}

// denialMessage is the human-readable counterpart of each reason code. The
// client localizes off the reason code; this string is a fallback.
func denialMessage(reason string) string {
	switch reason {
	case ReasonInvalidPayload:
		return "invalid request payload"
	case ReasonReservationRequired:
		return "reservationId is required for damage photos"
	case service.ReasonProviderForbidden:
		return "not authorized for this provider"
	case service.ReasonReservationMismatch:
		return "reservation does not belong to this provider"
	case upload.ReasonUseCaseUnknown:
		return "unknown upload use case"
	case upload.ReasonBucketNotAllowed:
		return "bucket not allowed for this use case"
	case upload.ReasonMimeNotAllowed:
		return "file type not allowed"
	case upload.ReasonFileTooLarge:
		return "file too large"
	case upload.ReasonPathNotAllowed:
		return "upload path not allowed"
	default:
		return "upload ticket denied"
	}
}
