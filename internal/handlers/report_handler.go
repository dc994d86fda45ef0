package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/policy"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	access  *services.AccessService
	reports *services.ReportService
}

func NewReportHandler(access *services.AccessService, reports *services.ReportService) *ReportHandler {
	return &ReportHandler{access: access, reports: reports}
}

func (h *ReportHandler) Average(c *fiber.Ctx) error {
	r, _, err := resolveRequester(c, h.access)
	if err != nil {
		return err
	}

	report, err := h.reports.Average(c.UserContext(), r)
	if err != nil {
		if errors.Is(err, policy.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		slog.Error("failed to build average report", "user_id", r.UserID.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to build report",
		})
	}
	return c.JSON(report)
}
