package controller

import (
	"projectmeats-be/internal/dto"
	"projectmeats-be/internal/mapper"
	"projectmeats-be/internal/pkg/apperror"
	"projectmeats-be/internal/pkg/serverutils"
	"projectmeats-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ILicensingController interface {
	RegisterRoutes(r fiber.Router)
	ListPlans(ctx *fiber.Ctx) error
	GetPlan(ctx *fiber.Ctx) error
	GetSubscription(ctx *fiber.Ctx) error
	CreateSubscription(ctx *fiber.Ctx) error
	CancelSubscription(ctx *fiber.Ctx) error
	StartPaidSubscription(ctx *fiber.Ctx) error
	GetUsage(ctx *fiber.Ctx) error
	CheckFeatureAccess(ctx *fiber.Ctx) error
	ListInvoices(ctx *fiber.Ctx) error
	CheckoutInvoice(ctx *fiber.Ctx) error
}

type licensingController struct {
	plans          service.PlanService
	subscriptions  service.ISubscriptionService
	invoices       service.IInvoiceService
	payments       service.IPaymentService
	authMiddleware fiber.Handler
	tenant         fiber.Handler
	optionalTenant fiber.Handler
}

func NewLicensingController(
	plans service.PlanService,
	subscriptions service.ISubscriptionService,
	invoices service.IInvoiceService,
	payments service.IPaymentService,
	tenants service.ITenantResolver,
	jwtSecret string,
) ILicensingController {
	return &licensingController{
		plans:          plans,
		subscriptions:  subscriptions,
		invoices:       invoices,
		payments:       payments,
		authMiddleware: serverutils.NewJwtMiddleware(jwtSecret),
		tenant:         serverutils.NewTenantMiddleware(tenants.ResolveTenantID),
		optionalTenant: serverutils.NewOptionalTenantMiddleware(tenants.ResolveTenantID),
	}
}

func (c *licensingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1/licensing", c.authMiddleware)

	h.Get("/subscription-plans/", c.ListPlans)
	h.Get("/subscription-plans/:id/", c.GetPlan)

	h.Get("/subscription/", c.tenant, c.GetSubscription)
	h.Post("/subscription/create/", c.tenant, c.CreateSubscription)
	h.Post("/subscription/cancel/", c.tenant, c.CancelSubscription)
	h.Post("/subscription/stripe/", c.tenant, c.StartPaidSubscription)
	h.Get("/subscription/usage/", c.tenant, c.GetUsage)

	// No tenant is an answer here, not an error
	h.Post("/feature-access/", c.optionalTenant, c.CheckFeatureAccess)
	h.Get("/invoices/", c.optionalTenant, c.ListInvoices)
	h.Post("/invoices/:id/checkout/", c.tenant, c.CheckoutInvoice)
}

func (c *licensingController) ListPlans(ctx *fiber.Ctx) error {
	plans, err := c.plans.ListActivePlans(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching subscription plans", mapper.ToPlanResponses(plans)))
}

func (c *licensingController) GetPlan(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.NewValidationError("invalid plan id format")
	}

	plan, err := c.plans.GetPlan(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching subscription plan", mapper.ToPlanResponse(plan)))
}

func (c *licensingController) GetSubscription(ctx *fiber.Ctx) error {
	tenantId, _ := serverutils.TenantID(ctx)

	sub, err := c.subscriptions.GetOrCreateForTenant(ctx.UserContext(), tenantId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching subscription", mapper.ToSubscriptionResponse(sub, service.Now())))
}

func (c *licensingController) CreateSubscription(ctx *fiber.Ctx) error {
	var req dto.CreateSubscriptionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.NewValidationError("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	tenantId, _ := serverutils.TenantID(ctx)
	sub, err := c.subscriptions.ChangePlan(ctx.UserContext(), tenantId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription updated", mapper.ToSubscriptionResponse(sub, service.Now())))
}

func (c *licensingController) CancelSubscription(ctx *fiber.Ctx) error {
	tenantId, _ := serverutils.TenantID(ctx)

	sub, err := c.subscriptions.Cancel(ctx.UserContext(), tenantId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription will cancel at period end", mapper.ToSubscriptionResponse(sub, service.Now())))
}

func (c *licensingController) StartPaidSubscription(ctx *fiber.Ctx) error {
	var req dto.StartPaidSubscriptionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.NewValidationError("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	tenantId, _ := serverutils.TenantID(ctx)
	sub, err := c.payments.StartPaidSubscription(ctx.UserContext(), tenantId, req.Email)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Paid subscription started", mapper.ToSubscriptionResponse(sub, service.Now())))
}

func (c *licensingController) GetUsage(ctx *fiber.Ctx) error {
	tenantId, _ := serverutils.TenantID(ctx)

	usage, err := c.subscriptions.GetUsage(ctx.UserContext(), tenantId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching usage", usage))
}

func (c *licensingController) CheckFeatureAccess(ctx *fiber.Ctx) error {
	var req dto.FeatureAccessRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.NewValidationError("invalid request body")
	}
	if req.FeatureName == "" {
		return apperror.NewValidationError("feature_name is required")
	}

	tenantId, ok := serverutils.TenantID(ctx)
	if !ok {
		return ctx.JSON(serverutils.SuccessResponse("Feature access checked", service.NoTenantFeatureResponse(req.FeatureName)))
	}

	res, err := c.subscriptions.CheckFeatureAccess(ctx.UserContext(), tenantId, req.FeatureName)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Feature access checked", res))
}

func (c *licensingController) ListInvoices(ctx *fiber.Ctx) error {
	tenantId, ok := serverutils.TenantID(ctx)
	if !ok {
		return ctx.JSON(serverutils.SuccessResponse("Success fetching invoices", []dto.InvoiceResponse{}))
	}

	invoices, err := c.invoices.ListForTenant(ctx.UserContext(), tenantId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching invoices", mapper.ToInvoiceResponses(invoices, service.Now())))
}

func (c *licensingController) CheckoutInvoice(ctx *fiber.Ctx) error {
	invoiceId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.NewValidationError("invalid invoice id format")
	}

	tenantId, _ := serverutils.TenantID(ctx)
	res, err := c.payments.CreateInvoiceCheckout(ctx.UserContext(), tenantId, invoiceId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout created", res))
}
