package handlers

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/policy"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

// resolveRequester returns a *fiber.Error that ErrorHandler renders when the
// identity is missing or cannot be loaded.
func resolveRequester(c *fiber.Ctx, access *services.AccessService) (policy.Requester, *models.User, error) {
	userID, err := session.UserID(c)
	if err != nil {
		return policy.Requester{}, nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	r, user, err := access.Requester(c.UserContext(), userID)
	if err != nil {
		slog.Error("failed to resolve requester", "user_id", userID.String(), "trace_id", traceID(c), "error", err)
		return policy.Requester{}, nil, fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}
	return r, user, nil
}

func traceID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
