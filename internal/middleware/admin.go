package middleware

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/policy"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequesterResolver turns a user id into the policy identity.
type RequesterResolver interface {
	Requester(ctx context.Context, userID uuid.UUID) (policy.Requester, *models.User, error)
}

// AdminRequired admits only requesters whose resolved role is admin, either
// from the users table or from the configured admin email/id lists.
func AdminRequired(access RequesterResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := session.UserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		requester, _, err := access.Requester(c.UserContext(), userID)
		if err != nil {
			slog.Error("admin check failed", "user_id", userID.String(), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}

		if !requester.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		return c.Next()
	}
}
