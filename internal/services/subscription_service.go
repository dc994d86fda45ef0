package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/payments"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/policy"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/store"
	"github.com/google/uuid"
)

var (
	ErrMissingUserID  = errors.New("user id is required")
	ErrCheckoutFailed = errors.New("failed to create checkout session")
)

// SubscriptionService moves users between plans. Upgrades arrive from
// verified payment notifications; checkouts send the user to Stripe.
type SubscriptionService struct {
	engine   *policy.Engine
	checkout payments.CheckoutCreator
	baseURL  string
}

func NewSubscriptionService(st *store.Store, checkout payments.CheckoutCreator, baseURL string) *SubscriptionService {
	return &SubscriptionService{
		engine:   policy.NewEngine(st, 0),
		checkout: checkout,
		baseURL:  baseURL,
	}
}

// ApplyPlanUpgrade satisfies payments.PlanUpgrader.
func (s *SubscriptionService) ApplyPlanUpgrade(ctx context.Context, userID uuid.UUID) error {
	if err := s.engine.ApplyPlanUpgrade(ctx, userID); err != nil {
		slog.Error("plan upgrade failed", "user_id", userID.String(), "action", "plan_upgrade", "error", err)
		return err
	}
	return nil
}

// CreateCheckout starts a premium checkout for the authenticated requester.
// The body user id must name the requester.
func (s *SubscriptionService) CreateCheckout(ctx context.Context, requester uuid.UUID, bodyUserID, origin string) (string, error) {
	bodyUserID = strings.TrimSpace(bodyUserID)
	if bodyUserID == "" {
		return "", ErrMissingUserID
	}
	userID, err := uuid.Parse(bodyUserID)
	if err != nil {
		return "", ErrMissingUserID
	}
	if userID != requester {
		return "", policy.ErrForbidden
	}

	if origin == "" {
		origin = s.baseURL
	}

	url, err := s.checkout.CreateCheckoutSession(ctx, userID, origin)
	if err != nil {
		slog.Error("checkout session failed", "user_id", userID.String(), "action", "checkout", "error", err)
		return "", errors.Join(ErrCheckoutFailed, err)
	}
	return url, nil
}
