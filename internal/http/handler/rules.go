package handler

import (
	"github.com/gofiber/fiber/v2"

	"kitloop/internal/model"
	"kitloop/internal/upload"
)

// GetUploadRule handles GET /upload-rules/:useCase. The rule data is public:
// clients use it for optimistic pre-validation before requesting a ticket,
// while the server re-checks authoritatively on issuance.
func GetUploadRule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		useCase := model.UploadUseCase(c.Params("useCase"))
		rule, ok := upload.RuleFor(useCase)
		if !ok {
			return writeError(c, fiber.StatusNotFound, "unknown upload use case", upload.ReasonUseCaseUnknown)
		}
		return c.JSON(rule)
	}
}
