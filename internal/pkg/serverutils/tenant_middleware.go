package serverutils

import (
	"context"

	"projectmeats-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// TenantLookup resolves the tenant a principal acts for.
type TenantLookup func(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)

// NewTenantMiddleware must run after the JWT middleware.
func NewTenantMiddleware(lookup TenantLookup) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID, ok := UserID(ctx)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Unauthorized"))
		}

		tenantID, err := lookup(ctx.UserContext(), userID)
		if err != nil {
			return HandleError(ctx, err)
		}

		ctx.Locals(LocalTenantID, tenantID)
		return ctx.Next()
	}
}

// NewOptionalTenantMiddleware lets requests without a tenant through with no
// tenant in Locals. Handlers check TenantID.
func NewOptionalTenantMiddleware(lookup TenantLookup) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID, ok := UserID(ctx)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Unauthorized"))
		}

		tenantID, err := lookup(ctx.UserContext(), userID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return ctx.Next()
			}
			return HandleError(ctx, err)
		}

		ctx.Locals(LocalTenantID, tenantID)
		return ctx.Next()
	}
}
