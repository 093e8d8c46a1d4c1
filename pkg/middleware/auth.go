package middleware

import (
	"errors"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/lensastro/astroapi/pkg/config"
)

// UserContextKey is the fiber.Ctx Locals key holding the verified *jwt.Token.
const UserContextKey = "user"

// JwtProtected rejects requests without a valid bearer token.
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(secret(cfg))},
		ContextKey:   UserContextKey,
		ErrorHandler: jwtError,
	})
}

// JwtOptional stores the token when a valid one is presented and lets the
// request through either way.
func JwtOptional(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		Filter: func(c *fiber.Ctx) bool {
			return c.Get(fiber.HeaderAuthorization) == ""
		},
		SigningKey: jwtware.SigningKey{Key: []byte(secret(cfg))},
		ContextKey: UserContextKey,
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			return c.Next()
		},
	})
}

func secret(cfg *config.Jwt) string {
	if cfg == nil {
		return ""
	}
	return cfg.Secret
}

func jwtError(c *fiber.Ctx, err error) error {
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) || err.Error() == jwtware.ErrJWTMissingOrMalformed.Error() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Missing or malformed JWT",
		})
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "Invalid or expired JWT",
	})
}
