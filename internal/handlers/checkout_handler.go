package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/policy"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	subscriptions *services.SubscriptionService
}

func NewCheckoutHandler(subscriptions *services.SubscriptionService) *CheckoutHandler {
	return &CheckoutHandler{subscriptions: subscriptions}
}

// CreateSession returns the hosted checkout URL for the premium plan.
func (h *CheckoutHandler) CreateSession(c *fiber.Ctx) error {
	requester, err := session.UserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	url, err := h.subscriptions.CreateCheckout(c.UserContext(), requester, req.UserID, c.Get(fiber.HeaderOrigin))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingUserID):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "User ID is required",
			})
		case errors.Is(err, policy.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Cannot start a checkout for another user",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create checkout session",
		})
	}

	return c.JSON(dto.CheckoutSessionResponse{URL: url})
}
