package user

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/config"
	"github.com/lensastro/astroapi/pkg/domain/user"
	"github.com/lensastro/astroapi/pkg/dto"
	"github.com/lensastro/astroapi/pkg/middleware"
	authsvc "github.com/lensastro/astroapi/pkg/service/auth"
	usersvc "github.com/lensastro/astroapi/pkg/service/user"
	"github.com/lensastro/astroapi/webapi/common"
)

// bcrypt ignores input past 72 bytes.
const maxPasswordLength = 72

// LoginInput is the body of the login request.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Envelope is the {code, msg, data} shape of the login endpoint. The HTTP
// status mirrors Code.
type Envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

func envelope(c *fiber.Ctx, code int, msg string, data any) error {
	return c.Status(code).JSON(Envelope{Code: code, Msg: msg, Data: data})
}

func Routes(
	app *fiber.App,
	userSvc *usersvc.Service,
	authSvc *authsvc.Service,
	cfg *config.App,
) {
	app.Post("/api/user/login", Login(authSvc))
	app.Post("/api/user", CreateUser(userSvc))
	app.Get("/api/user/:id", middleware.JwtProtected(cfg.Auth.Jwt), GetUser(userSvc))
}

// Login authenticates by email and password.
// @Summary User login
// @Description Verify email and password, replace the user's sessions and return the public profile with a token
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginInput true "Login credentials"
// @Success 200 {object} Envelope{data=dto.LoginResult}
// @Failure 400 {object} Envelope
// @Failure 401 {object} Envelope
// @Failure 404 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /api/user/login [post]
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input LoginInput
		if err := c.BodyParser(&input); err != nil {
			return envelope(c, fiber.StatusBadRequest, "Email and password are required", nil)
		}
		res, err := authSvc.LoginWithSession(c.UserContext(), input.Email, input.Password)
		switch {
		case err == nil:
			return envelope(c, fiber.StatusOK, "Login successful", res)
		case errors.Is(err, user.ErrRequiredFields):
			return envelope(c, fiber.StatusBadRequest, "Email and password are required", nil)
		case errors.Is(err, user.ErrUserNotFound):
			return envelope(c, fiber.StatusNotFound, "User not found", nil)
		case errors.Is(err, user.ErrIncorrectPassword):
			return envelope(c, fiber.StatusUnauthorized, "Incorrect password", nil)
		default:
			slog.Error("Login failed", "error", err)
			return envelope(c, fiber.StatusInternalServerError, "Login failed", nil)
		}
	}
}

// CreateUser registers a user.
// @Summary Create a new user
// @Description Register a user with email, password and optional profile fields
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.UserCreate true "User creation data"
// @Success 201 {object} common.Response{data=dto.UserRead}
// @Failure 400 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /api/user [post]
func CreateUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[dto.UserCreate](c)
		if input == nil {
			return err
		}
		if len(input.Password) > maxPasswordLength {
			return common.ProblemDetailsJSON(c, "Invalid request body", nil, "Password too long", fiber.StatusBadRequest)
		}
		u, err := userSvc.CreateUser(c.UserContext(), input)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't create user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Created user", u)
	}
}

// GetUser returns the caller's own profile.
// @Summary Get user by ID
// @Description Retrieve the authenticated user's profile
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} common.Response{data=dto.UserRead}
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /api/user/{id} [get]
// @Security Bearer
func GetUser(userSvc *usersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid user ID", nil, "User ID must be a valid UUID", fiber.StatusBadRequest)
		}
		requester, ok := common.CurrentUserID(c)
		if !ok {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, "missing user context", fiber.StatusUnauthorized)
		}
		u, err := userSvc.GetUser(c.UserContext(), requester, id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Couldn't get user", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "User found", u)
	}
}
