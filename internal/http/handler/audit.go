package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kitloop/internal/auth"
	"kitloop/internal/service"
)

// ListAuditEvents handles GET /audit-events?providerId=&limit=&offset=.
// The caller must be authenticated and have access to the provider whose
// trail is requested.
func ListAuditEvents(svc service.TicketService, verifier auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		providerID := c.Query("providerId")
		if _, err := uuid.Parse(providerID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "providerId must be a valid uuid", ReasonInvalidPayload)
		}

		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid limit", ReasonInvalidPayload)
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid offset", ReasonInvalidPayload)
		}

		user, err := verifier.Verify(c.UserContext(), bearerToken(c))
		if err != nil {
			return writeError(c, fiber.StatusUnauthorized, "unauthorized", ReasonUnauthorized)
		}

		res, err := svc.ListAudit(c.UserContext(), user.ID, providerID, limit, offset)
		if err != nil {
			var denial *service.DenialError
			if errors.As(err, &denial) {
				return writeError(c, statusForReason(denial.Reason), denialMessage(denial.Reason), denial.Reason)
			}
			return writeError(c, fiber.StatusInternalServerError, "internal server error", "")
		}

		return c.JSON(res)
	}
}
