package payment

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/config"
	"github.com/lensastro/astroapi/pkg/dto"
	"github.com/lensastro/astroapi/pkg/middleware"
	paymentsvc "github.com/lensastro/astroapi/pkg/service/payment"
	"github.com/lensastro/astroapi/webapi/common"
)

// CheckoutResponse is returned when a plan checkout is created.
type CheckoutResponse struct {
	Success  bool              `json:"success"`
	APIURL   string            `json:"apiUrl"`
	FormData map[string]string `json:"formData"`
	OrderID  uuid.UUID         `json:"orderId"`
}

// ConfirmationResponse reports the outcome of a checkout.
type ConfirmationResponse struct {
	Success bool `json:"success"`
	*dto.PaymentConfirmation
}

func Routes(app *fiber.App, paymentSvc *paymentsvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Post("/api/payment/create-payment", protected, CreatePayment(paymentSvc))
	app.Post("/api/payment/payment-success", protected, PaymentSuccess(paymentSvc))
}

// CreatePayment starts a plan purchase.
// @Summary Create plan checkout
// @Description Create a pending order for a plan and return the ECPay form to post
// @Tags payment
// @Accept json
// @Produce json
// @Param request body dto.CheckoutRequest true "Checkout request"
// @Success 200 {object} CheckoutResponse
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.Response
// @Failure 404 {object} common.Response
// @Failure 500 {object} common.Response
// @Router /api/payment/create-payment [post]
// @Security Bearer
func CreatePayment(paymentSvc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.CurrentUserID(c)
		if !ok {
			return common.FailureJSON(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		input, err := common.BindAndValidate[dto.CheckoutRequest](c)
		if input == nil {
			return err
		}
		res, err := paymentSvc.CreateCheckout(c.UserContext(), userID, input)
		if err != nil {
			return common.FailureJSON(c, common.ErrorToStatusCode(err), common.MessageFor(err))
		}
		return c.JSON(CheckoutResponse{
			Success:  true,
			APIURL:   res.APIURL,
			FormData: res.FormData,
			OrderID:  res.OrderID,
		})
	}
}

// PaymentSuccess confirms a checkout after the gateway redirect.
// @Summary Confirm payment
// @Description Report whether the caller's order was paid and the subscription it started
// @Tags payment
// @Accept json
// @Produce json
// @Param request body dto.PaymentConfirm true "Order to confirm"
// @Success 200 {object} ConfirmationResponse
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.Response
// @Failure 403 {object} common.Response
// @Failure 404 {object} common.Response
// @Router /api/payment/payment-success [post]
// @Security Bearer
func PaymentSuccess(paymentSvc *paymentsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.CurrentUserID(c)
		if !ok {
			return common.FailureJSON(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		input, err := common.BindAndValidate[dto.PaymentConfirm](c)
		if input == nil {
			return err
		}
		res, err := paymentSvc.ConfirmPayment(c.UserContext(), userID, input.OrderID)
		if err != nil {
			return common.FailureJSON(c, common.ErrorToStatusCode(err), common.MessageFor(err))
		}
		return c.JSON(ConfirmationResponse{Success: true, PaymentConfirmation: res})
	}
}
