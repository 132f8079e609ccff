package controller

import (
	"projectmeats-be/internal/dto"
	"projectmeats-be/internal/pkg/apperror"
	"projectmeats-be/internal/pkg/logger"
	"projectmeats-be/internal/pkg/serverutils"
	"projectmeats-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	Stripe(ctx *fiber.Ctx) error
	Midtrans(ctx *fiber.Ctx) error
}

type webhookController struct {
	payments service.IPaymentService
	logger   logger.ILogger
}

func NewWebhookController(payments service.IPaymentService, log logger.ILogger) IWebhookController {
	return &webhookController{payments: payments, logger: log}
}

// RegisterRoutes mounts the provider callbacks. They carry their own
// signatures and sit outside the JWT group.
func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1/webhooks")
	h.Post("/stripe", c.Stripe)
	h.Post("/midtrans", c.Midtrans)
}

func (c *webhookController) Stripe(ctx *fiber.Ctx) error {
	// Body() is only valid for the handler's lifetime
	payload := append([]byte(nil), ctx.Body()...)

	res, err := c.payments.HandleStripeWebhook(ctx.UserContext(), payload, ctx.Get("Stripe-Signature"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Webhook received", res))
}

func (c *webhookController) Midtrans(ctx *fiber.Ctx) error {
	var req dto.MidtransWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		c.logger.Warn("PAYMENT", "Midtrans notification body parsing failed", map[string]interface{}{"error": err.Error()})
		return apperror.NewValidationError("invalid notification body")
	}

	if err := c.payments.HandleMidtransNotification(ctx.UserContext(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Notification processed", nil))
}
