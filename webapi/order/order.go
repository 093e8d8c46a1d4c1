package order

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/config"
	"github.com/lensastro/astroapi/pkg/domain/order"
	"github.com/lensastro/astroapi/pkg/middleware"
	ordersvc "github.com/lensastro/astroapi/pkg/service/order"
	"github.com/lensastro/astroapi/webapi/common"
)

// OrderResponse wraps an order with its subscription and plan.
type OrderResponse struct {
	Success bool         `json:"success"`
	Order   *order.Order `json:"order"`
}

func Routes(app *fiber.App, orderSvc *ordersvc.Service, cfg *config.App) {
	protected := middleware.JwtProtected(cfg.Auth.Jwt)
	app.Get("/api/orders", protected, GetOrder(orderSvc))
	app.Get("/api/orders/:id", protected, GetOrder(orderSvc))
}

// GetOrder returns one of the caller's orders.
// @Summary Get order
// @Description Retrieve an order with its subscription and plan. Only the owner may read it.
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} OrderResponse
// @Failure 400 {object} common.Response
// @Failure 401 {object} common.Response
// @Failure 403 {object} common.Response
// @Failure 404 {object} common.Response
// @Failure 500 {object} common.Response
// @Router /api/orders/{id} [get]
// @Security Bearer
func GetOrder(orderSvc *ordersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params("id"))
		if raw == "" {
			return common.FailureJSON(c, fiber.StatusBadRequest, "order id is required")
		}
		userID, ok := common.CurrentUserID(c)
		if !ok {
			return common.FailureJSON(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		orderID, err := uuid.Parse(raw)
		if err != nil {
			return common.FailureJSON(c, fiber.StatusBadRequest, "order id must be a valid UUID")
		}
		o, err := orderSvc.GetOrder(c.UserContext(), userID, orderID)
		if err != nil {
			return common.FailureJSON(c, common.ErrorToStatusCode(err), common.MessageFor(err))
		}
		return c.JSON(OrderResponse{Success: true, Order: o})
	}
}
