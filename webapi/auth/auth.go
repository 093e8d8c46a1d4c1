package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lensastro/astroapi/pkg/config"
	"github.com/lensastro/astroapi/pkg/middleware"
	authsvc "github.com/lensastro/astroapi/pkg/service/auth"
	"github.com/lensastro/astroapi/webapi/common"
)

// SessionValidity is the response of the session check.
type SessionValidity struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

func Routes(app *fiber.App, authSvc *authsvc.Service, cfg *config.App) {
	app.Get(
		"/api/auth/validate-session",
		middleware.JwtOptional(cfg.Auth.Jwt),
		ValidateSession(authSvc),
	)
}

// ValidateSession reports whether the caller's login is still live.
// @Summary Validate session
// @Description Check that the caller's session still exists. A session removed by a login on another device reports session_deleted.
// @Tags auth
// @Produce json
// @Success 200 {object} SessionValidity
// @Router /api/auth/validate-session [get]
// @Security Bearer
func ValidateSession(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, sid := common.CurrentUser(c)
		status := authSvc.ValidateSession(c.UserContext(), userID, sid)
		return c.JSON(SessionValidity{Valid: status.Valid(), Reason: status.Reason()})
	}
}
