package handler

import (
	"github.com/gofiber/fiber/v2"

	"kitloop/internal/http/middleware"
)

// errorPayload defines the standardized error response body. Error is a
// human-readable message; ReasonCode is the stable machine-readable code the
// client UI branches on.
type errorPayload struct {
	RequestID  string `json:"requestId,omitempty"`
	Error      string `json:"error"`
	ReasonCode string `json:"reasonCode,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - message: human-readable safe message (no internal details)
// - reasonCode: stable machine-readable code, empty when none applies
func writeError(c *fiber.Ctx, status int, message, reasonCode string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID:  requestIDFromCtx(c),
		Error:      message,
		ReasonCode: reasonCode,
	})
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses for failures raised outside our handlers (404, 405, body over
// the configured limit, panics surfaced as errors).
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "bad request", "")
		case fiber.StatusNotFound:
			return writeError(c, status, "resource not found", "")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "method not allowed", "")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "request body too large", "")
		default:
			return writeError(c, status, "internal server error", "")
		}
	}
}
