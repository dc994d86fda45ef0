package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders errors returned from handlers. Details of 5xx errors
// stay in the log.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "trace_id", traceID(c), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
