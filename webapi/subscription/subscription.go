package subscription

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/config"
	"github.com/lensastro/astroapi/pkg/domain"
	"github.com/lensastro/astroapi/pkg/domain/subscription"
	"github.com/lensastro/astroapi/pkg/dto"
	"github.com/lensastro/astroapi/pkg/middleware"
	paymentsvc "github.com/lensastro/astroapi/pkg/service/payment"
	subsvc "github.com/lensastro/astroapi/pkg/service/subscription"
	"github.com/lensastro/astroapi/webapi/common"
)

// Refusal reasons returned with a 400 from cancel and renew.
const (
	ReasonAutoRenewDisabled = "未開啟自動續訂"
	ReasonNotActive         = "訂閱狀態非激活"
)

type PlansResponse struct {
	Success bool                 `json:"success"`
	Plans   []*subscription.Plan `json:"plans"`
}

type SubscriptionResponse struct {
	Success      bool                       `json:"success"`
	Subscription *subscription.Subscription `json:"subscription"`
}

type CancelResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	*dto.CancelResult
}

type PaymentData struct {
	APIURL   string            `json:"apiUrl"`
	FormData map[string]string `json:"formData"`
}

type RenewResponse struct {
	Success        bool        `json:"success"`
	OrderID        uuid.UUID   `json:"orderId"`
	SubscriptionID uuid.UUID   `json:"subscriptionId"`
	PaymentData    PaymentData `json:"paymentData"`
}

// RefusalResponse explains why a subscription could not be changed.
type RefusalResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

func Routes(
	app *fiber.App,
	subSvc *subsvc.Service,
	paymentSvc *paymentsvc.Service,
	cfg *config.App,
) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Get("/api/subscription-plans", ListPlans(subSvc))
	app.Post("/api/subscriptions", protected, Create(subSvc))
	app.Get("/api/subscriptions/status", protected, Status(subSvc))
	app.Post("/api/subscriptions/cancel", protected, Cancel(subSvc))
	app.Post("/api/subscriptions/renew", protected, Renew(paymentSvc))
}

func failure(c *fiber.Ctx, err error) error {
	status := common.ErrorToStatusCode(err)
	switch {
	case errors.Is(err, subscription.ErrAutoRenewDisabled):
		return c.Status(status).JSON(RefusalResponse{Message: err.Error(), Reason: ReasonAutoRenewDisabled})
	case errors.Is(err, subscription.ErrNotActive):
		return c.Status(status).JSON(RefusalResponse{Message: err.Error(), Reason: ReasonNotActive})
	}
	return common.FailureJSON(c, status, common.MessageFor(err))
}

// ListPlans returns the purchasable plans of a lens.
// @Summary List subscription plans
// @Tags subscriptions
// @Produce json
// @Param lensViewId query string true "Lens view ID"
// @Success 200 {object} PlansResponse
// @Failure 400 {object} common.Response
// @Router /api/subscription-plans [get]
func ListPlans(subSvc *subsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		plans, err := subSvc.ListPlans(c.UserContext(), c.Query("lensViewId"))
		if err != nil {
			return failure(c, err)
		}
		return c.JSON(PlansResponse{Success: true, Plans: plans})
	}
}

// Create starts a subscription to a plan.
// @Summary Create subscription
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param request body dto.SubscriptionCreate true "Subscription request"
// @Success 201 {object} SubscriptionResponse
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.Response
// @Router /api/subscriptions [post]
// @Security Bearer
func Create(subSvc *subsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.CurrentUserID(c)
		if !ok {
			return common.FailureJSON(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		input, err := common.BindAndValidate[dto.SubscriptionCreate](c)
		if input == nil {
			return err
		}
		sub, err := subSvc.Create(c.UserContext(), userID, input)
		if err != nil {
			return failure(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(SubscriptionResponse{Success: true, Subscription: sub})
	}
}

// Status summarises the caller's active subscriptions.
// @Summary Subscription status
// @Tags subscriptions
// @Produce json
// @Success 200 {object} dto.SubscriptionStatus
// @Failure 401 {object} common.Response
// @Router /api/subscriptions/status [get]
// @Security Bearer
func Status(subSvc *subsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.CurrentUserID(c)
		if !ok {
			return common.FailureJSON(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		status, err := subSvc.Status(c.UserContext(), userID)
		if err != nil {
			return failure(c, err)
		}
		return c.JSON(status)
	}
}

// Cancel stops renewal of one of the caller's subscriptions.
// @Summary Cancel subscription
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param request body dto.SubscriptionRef true "Subscription to cancel"
// @Success 200 {object} CancelResponse
// @Failure 400 {object} RefusalResponse
// @Failure 403 {object} common.Response
// @Failure 404 {object} common.Response
// @Router /api/subscriptions/cancel [post]
// @Security Bearer
func Cancel(subSvc *subsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.CurrentUserID(c)
		if !ok {
			return common.FailureJSON(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		input, err := common.BindAndValidate[dto.SubscriptionRef](c)
		if input == nil {
			return err
		}
		res, err := subSvc.Cancel(c.UserContext(), userID, input.SubscriptionID)
		if err != nil {
			return failure(c, err)
		}
		return c.JSON(CancelResponse{
			Success:      true,
			Message:      "subscription cancelled",
			CancelResult: res,
		})
	}
}

// Renew creates a renewal order for one of the caller's subscriptions.
// @Summary Renew subscription
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param request body dto.SubscriptionRef true "Subscription to renew"
// @Success 200 {object} RenewResponse
// @Failure 400 {object} RefusalResponse
// @Failure 403 {object} common.Response
// @Failure 404 {object} common.Response
// @Router /api/subscriptions/renew [post]
// @Security Bearer
func Renew(paymentSvc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.CurrentUserID(c)
		if !ok {
			return common.FailureJSON(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		input, err := common.BindAndValidate[dto.SubscriptionRef](c)
		if input == nil {
			return err
		}
		res, err := paymentSvc.Renew(c.UserContext(), userID, input.SubscriptionID)
		if err != nil {
			if errors.Is(err, domain.ErrForbidden) {
				return common.FailureJSON(c, fiber.StatusForbidden, "subscription belongs to another user")
			}
			return failure(c, err)
		}
		return c.JSON(RenewResponse{
			Success:        true,
			OrderID:        res.OrderID,
			SubscriptionID: res.SubscriptionID,
			PaymentData:    PaymentData{APIURL: res.APIURL, FormData: res.FormData},
		})
	}
}
