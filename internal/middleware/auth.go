package middleware

import (
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/session"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected accepts HS256 access tokens whose subject is a user id. The
// parsed token is left in c.Locals("user") for the session package.
func JWTProtected(cfg *config.Config) fiber.Handler {
	unauthorized := func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Unauthorized: invalid or expired token",
		})
	}

	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		SuccessHandler: func(c *fiber.Ctx) error {
			if _, err := session.UserID(c); err != nil {
				return unauthorized(c)
			}
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c)
		},
	})
}
