package handlers

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/payments"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

type WebhookHandler struct {
	processor *payments.Processor
}

func NewWebhookHandler(processor *payments.Processor) *WebhookHandler {
	return &WebhookHandler{processor: processor}
}

// HandleStripe verifies the raw body against Stripe-Signature and acts on
// completed checkouts. Applied and ignored events are acknowledged with 200.
func (h *WebhookHandler) HandleStripe(c *fiber.Ctx) error {
	res := h.processor.Process(c.UserContext(), c.Body(), c.Get("Stripe-Signature"))

	switch res.Outcome {
	case payments.Applied, payments.Ignored:
		slog.Info("webhook processed", "event_id", res.EventID, "event_type", res.EventType, "outcome", res.Outcome.String())
		return c.JSON(dto.WebhookResponse{Received: true, Outcome: res.Outcome.String()})

	case payments.Failed:
		slog.Error("webhook processing failed",
			"event_id", res.EventID,
			"user_id", res.UserID.String(),
			"action", "stripe_webhook",
			"trace_id", traceID(c),
			"error", res.Err,
		)
		captureWebhookError(c, res)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process webhook event",
		})

	default:
		if res.EventID == "" {
			slog.Warn("webhook rejected", "trace_id", traceID(c), "error", res.Err)
		} else {
			slog.Error("webhook rejected", "event_id", res.EventID, "event_type", res.EventType, "error", res.Err)
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: res.Err.Error(),
		})
	}
}

func captureWebhookError(c *fiber.Ctx, res payments.Result) {
	hub := sentryfiber.GetHubFromContext(c)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("event_id", res.EventID)
		scope.SetTag("user_id", res.UserID.String())
		hub.CaptureException(res.Err)
	})
}
