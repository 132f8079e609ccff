package serverutils

import (
	"errors"
	"fmt"

	"projectmeats-be/internal/pkg/apperror"
	"projectmeats-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// HandleError renders err with the standard error envelope.
// Errors outside the apperror taxonomy become a bare 500.
func HandleError(ctx *fiber.Ctx, err error) error {
	if appErr, ok := apperror.As(err); ok {
		return ctx.Status(appErr.Code).JSON(ErrorResponse(appErr.Code, appErr.Message))
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
	}

	return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
}

// ErrorHandlerMiddleware recovers panics and renders returned handler errors.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("HTTP", "Recovered from panic", map[string]interface{}{
					"error":  fmt.Sprint(r),
					"path":   ctx.Path(),
					"method": ctx.Method(),
				})
				err = HandleError(ctx, apperror.NewInternalError("Internal server error"))
			}
		}()

		if err = ctx.Next(); err == nil {
			return nil
		}

		if _, ok := apperror.As(err); !ok {
			var fiberErr *fiber.Error
			if !errors.As(err, &fiberErr) {
				log.Error("HTTP", "Unhandled error", map[string]interface{}{
					"error":  err.Error(),
					"path":   ctx.Path(),
					"method": ctx.Method(),
				})
			}
		}
		return HandleError(ctx, err)
	}
}
