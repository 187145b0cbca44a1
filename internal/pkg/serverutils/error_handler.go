package serverutils

import (
	"characterhub-be/internal/apperr"
	"characterhub-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts service errors into the uniform failure
// envelope. Classified app errors map to their HTTP status; anything else is
// logged with its cause and surfaced as an opaque 500.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if ae, ok := apperr.From(err); ok {
			if cause := ae.Cause(); cause != nil {
				log.Error("http", ae.Message, map[string]interface{}{
					"kind":  string(ae.Kind),
					"path":  ctx.Path(),
					"error": cause.Error(),
				})
			}
			return ctx.Status(ae.HTTPStatus()).JSON(
				ErrorResponseWithDetails(string(ae.Kind), ae.Message, ae.Details),
			)
		}

		log.Error("http", "unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(
			ErrorResponse("INTERNAL", "Internal server error"),
		)
	}
}
