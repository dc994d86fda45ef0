package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	access *services.AccessService
}

func NewAdminHandler(access *services.AccessService) *AdminHandler {
	return &AdminHandler{access: access}
}

// SetRole handles PUT /api/admin/users/:id/role. AdminRequired runs first.
func (h *AdminHandler) SetRole(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user ID",
		})
	}

	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.access.SetRole(c.UserContext(), userID, req.Role); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		slog.Error("failed to update role", "user_id", userID.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update role",
		})
	}

	actor, _ := session.UserID(c)
	slog.Info("role updated", "user_id", userID.String(), "role", req.Role, "by", actor.String())
	return c.JSON(fiber.Map{"message": "Role updated"})
}
