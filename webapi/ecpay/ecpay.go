package ecpay

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/lensastro/astroapi/pkg/domain/order"
	"github.com/lensastro/astroapi/pkg/domain/subscription"
	"github.com/lensastro/astroapi/pkg/dto"
	"github.com/lensastro/astroapi/pkg/ecpay"
	ordersvc "github.com/lensastro/astroapi/pkg/service/order"
	"github.com/lensastro/astroapi/pkg/service/payment"
	"github.com/lensastro/astroapi/webapi/common"
)

// Plain-text replies ECPay expects from the notify endpoint.
const (
	replyOK              = "1|OK"
	replyBadCheckMac     = "0|ErrorMessage"
	replyMissingOrderID  = "0|Missing Order ID"
	replyOrderNotFound   = "0|Order Not Found"
	replyBadDetails      = "0|Invalid Payment Details"
	replyMissingPlanID   = "0|Missing Plan ID in Payment Details"
	replyPlanNotFound    = "0|Subscription Plan Not Found"
	replyInternalFailure = "0|Error"
)

// FormResponse is returned by the form builder endpoint.
type FormResponse struct {
	Success  bool              `json:"success"`
	APIURL   string            `json:"apiUrl"`
	FormData map[string]string `json:"formData"`
}

// StatusResponse wraps the payment status of an order.
type StatusResponse struct {
	Success       bool               `json:"success"`
	PaymentResult *dto.PaymentResult `json:"paymentResult,omitempty"`
	Error         string             `json:"error,omitempty"`
}

func Routes(
	app *fiber.App,
	gateway *ecpay.Client,
	paymentSvc *payment.Service,
	orderSvc *ordersvc.Service,
) {
	app.Post("/api/ecpay/create", CreateForm(gateway))
	app.Post("/api/ecpay/notify", Notify(paymentSvc))
	app.Get("/api/ecpay/notify", NotifyProbe())
	app.Get("/api/ecpay/status", Status(orderSvc))
}

// CreateForm signs an order description into a checkout form.
// @Summary Build ECPay checkout form
// @Description Fill defaults, keep the ECPay fields, compute CheckMacValue and return the form and its target URL
// @Tags ecpay
// @Accept json
// @Produce json
// @Param request body ecpay.OrderDescription true "Order description"
// @Success 200 {object} FormResponse
// @Failure 500 {object} common.Response
// @Router /api/ecpay/create [post]
func CreateForm(gateway *ecpay.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var raw map[string]any
		if err := c.BodyParser(&raw); err != nil {
			return common.FailureJSON(c, fiber.StatusInternalServerError, err.Error())
		}
		desc, err := ecpay.DecodeOrderDescription(raw)
		if err != nil {
			return common.FailureJSON(c, fiber.StatusInternalServerError, err.Error())
		}
		form, err := gateway.BuildForm(desc)
		if err != nil {
			return common.FailureJSON(c, fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(FormResponse{Success: true, APIURL: form.APIURL, FormData: form.Fields})
	}
}

// Notify receives ECPay's server-to-server payment result.
// @Summary ECPay payment notification
// @Description Verify CheckMacValue and settle the order named by CustomField1
// @Tags ecpay
// @Accept x-www-form-urlencoded
// @Produce plain
// @Success 200 {string} string "1|OK"
// @Failure 400 {string} string "0|ErrorMessage"
// @Failure 404 {string} string "0|Order Not Found"
// @Failure 500 {string} string "0|Error"
// @Router /api/ecpay/notify [post]
func Notify(paymentSvc *payment.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fields := make(map[string]string)
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			fields[string(k)] = string(v)
		})
		status, reply := notifyReply(paymentSvc.HandleNotification(c.UserContext(), fields))
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(status).SendString(reply)
	}
}

func notifyReply(err error) (int, string) {
	switch {
	case err == nil:
		return fiber.StatusOK, replyOK
	case errors.Is(err, payment.ErrInvalidCheckMac):
		return fiber.StatusBadRequest, replyBadCheckMac
	case errors.Is(err, payment.ErrMissingOrderID):
		return fiber.StatusBadRequest, replyMissingOrderID
	case errors.Is(err, order.ErrOrderNotFound):
		return fiber.StatusNotFound, replyOrderNotFound
	case errors.Is(err, order.ErrInvalidPaymentDetails):
		return fiber.StatusBadRequest, replyBadDetails
	case errors.Is(err, order.ErrMissingPlanID):
		return fiber.StatusBadRequest, replyMissingPlanID
	case errors.Is(err, subscription.ErrPlanNotFound):
		return fiber.StatusNotFound, replyPlanNotFound
	default:
		slog.Error("ECPay notification failed", "error", err)
		return fiber.StatusInternalServerError, replyInternalFailure
	}
}

// NotifyProbe answers the GET ECPay may send to check the endpoint.
// @Summary ECPay notify probe
// @Tags ecpay
// @Produce plain
// @Success 200 {string} string "1|OK"
// @Router /api/ecpay/notify [get]
func NotifyProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(replyOK)
	}
}

// Status reports the payment result of an order to the redirect page.
// @Summary Payment status
// @Description Gateway-shaped payment result of an order. Orders that cannot be read are reported as paid.
// @Tags ecpay
// @Produce json
// @Param orderId query string true "Order ID"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} StatusResponse
// @Router /api/ecpay/status [get]
func Status(orderSvc *ordersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := orderSvc.PaymentStatus(c.UserContext(), c.Query("orderId"))
		if err != nil {
			return c.Status(common.ErrorToStatusCode(err)).JSON(StatusResponse{Error: common.MessageFor(err)})
		}
		return c.JSON(StatusResponse{Success: true, PaymentResult: res})
	}
}
