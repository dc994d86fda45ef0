package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UpgradePath is where a client starts a premium checkout.
const UpgradePath = "/api/checkout/session"

type WorkoutHandler struct {
	access   *services.AccessService
	workouts *services.WorkoutService
}

func NewWorkoutHandler(access *services.AccessService, workouts *services.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{access: access, workouts: workouts}
}

func (h *WorkoutHandler) List(c *fiber.Ctx) error {
	r, _, err := resolveRequester(c, h.access)
	if err != nil {
		return err
	}

	workouts, filter, err := h.workouts.List(c.UserContext(), r)
	if err != nil {
		slog.Error("failed to list workouts", "user_id", r.UserID.String(), "trace_id", traceID(c), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load workouts",
		})
	}

	resp := dto.WorkoutListResponse{
		Workouts: make([]dto.WorkoutResponse, 0, len(workouts)),
		Total:    len(workouts),
		Scope:    "own",
	}
	if filter.All {
		resp.Scope = "all"
	}
	for _, w := range workouts {
		resp.Workouts = append(resp.Workouts, services.ToWorkoutResponse(w))
	}
	return c.JSON(resp)
}

func (h *WorkoutHandler) Create(c *fiber.Ctx) error {
	r, _, err := resolveRequester(c, h.access)
	if err != nil {
		return err
	}

	var req dto.CreateWorkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	workout, err := h.workouts.Submit(c.UserContext(), r, req)
	if err != nil {
		var quota *services.QuotaError
		switch {
		case errors.As(err, &quota):
			return c.Status(fiber.StatusPaymentRequired).JSON(dto.QuotaExceededResponse{
				Error:      true,
				Message:    quota.Error(),
				Limit:      quota.Limit,
				UpgradeURL: UpgradePath,
			})
		case errors.Is(err, services.ErrInvalidExercise),
			errors.Is(err, services.ErrInvalidSets),
			errors.Is(err, services.ErrInvalidDate):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		slog.Error("failed to create workout", "user_id", r.UserID.String(), "trace_id", traceID(c), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save workout",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(services.ToWorkoutResponse(*workout))
}

func (h *WorkoutHandler) Delete(c *fiber.Ctx) error {
	r, _, err := resolveRequester(c, h.access)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid workout ID",
		})
	}

	if err := h.workouts.Delete(c.UserContext(), r, id); err != nil {
		switch {
		case errors.Is(err, services.ErrWorkoutNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrNotOwner):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("failed to delete workout", "user_id", r.UserID.String(), "workout_id", id.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete workout",
		})
	}

	return c.JSON(fiber.Map{"message": "Workout deleted"})
}

// Me returns the caller's profile and today's quota usage.
func (h *WorkoutHandler) Me(c *fiber.Ctx) error {
	r, user, err := resolveRequester(c, h.access)
	if err != nil {
		return err
	}

	profile, err := h.workouts.Profile(c.UserContext(), r, user)
	if err != nil {
		slog.Error("failed to build profile", "user_id", r.UserID.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(profile)
}
