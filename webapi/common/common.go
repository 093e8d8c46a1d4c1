// Package common holds the response helpers shared by the HTTP handlers.
package common

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain"
	"github.com/lensastro/astroapi/pkg/middleware"
	"github.com/lensastro/astroapi/pkg/service/auth"
)

var validate = validator.New()

// Response is the {success, message, data} envelope used by product
// endpoints that have no shape of their own.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Errors   any    `json:"errors,omitempty"`
}

// ProblemDetailsJSON writes an application/problem+json response. opts may
// carry a detail string, extra error data and an explicit status code.
// Without a status the code is derived from err.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, opts ...any) error {
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   fiber.StatusInternalServerError,
		Instance: c.OriginalURL(),
	}
	if err != nil {
		pd.Status = ErrorToStatusCode(err)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		pd.Status = fe.Code
	}
	if err != nil && pd.Status < fiber.StatusInternalServerError {
		pd.Detail = err.Error()
	}
	for _, opt := range opts {
		switch v := opt.(type) {
		case int:
			pd.Status = v
		case string:
			pd.Detail = v
		default:
			pd.Errors = v
		}
	}
	return c.Status(pd.Status).JSON(pd, "application/problem+json")
}

// SuccessResponseJSON writes the standard success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Success: true, Message: message, Data: data})
}

// FailureJSON writes {success:false, message} with status.
func FailureJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{Success: false, Message: message})
}

// ErrorToStatusCode maps domain errors to HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body into T and validates it with
// go-playground/validator. On failure the 400 response is already written
// and nil is returned together with the result of writing it.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", nil, err.Error(), fiber.StatusBadRequest)
	}
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			return nil, ProblemDetailsJSON(c, "Validation failed", nil, "request validation failed", fields, fiber.StatusBadRequest)
		}
		return nil, ProblemDetailsJSON(c, "Validation failed", nil, err.Error(), fiber.StatusBadRequest)
	}
	return &input, nil
}

// CurrentUser returns the identity carried by the verified token, if any.
// The second value is the session token bound to it.
func CurrentUser(c *fiber.Ctx) (*uuid.UUID, string) {
	token, ok := c.Locals(middleware.UserContextKey).(*jwt.Token)
	if !ok {
		return nil, ""
	}
	id, sid, err := auth.Identity(token)
	if err != nil {
		return nil, ""
	}
	return &id, sid
}

// CurrentUserID is CurrentUser for handlers that need only the id.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, _ := CurrentUser(c)
	if id == nil {
		return uuid.Nil, false
	}
	return *id, true
}

// MessageFor returns the client-facing message of err. Internal errors get
// a generic message.
func MessageFor(err error) string {
	if ErrorToStatusCode(err) >= fiber.StatusInternalServerError {
		return "Internal Server Error"
	}
	return err.Error()
}
