package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

var ErrCheckoutNotConfigured = errors.New("stripe checkout is not configured")

// CheckoutCreator starts a hosted checkout for the premium plan.
type CheckoutCreator interface {
	CreateCheckoutSession(ctx context.Context, userID uuid.UUID, origin string) (string, error)
}

type StripeCheckout struct {
	client  *session.Client
	priceID string
}

func NewStripeCheckout(secretKey, priceID string) *StripeCheckout {
	return &StripeCheckout{
		client:  &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
		priceID: priceID,
	}
}

func (c *StripeCheckout) CreateCheckoutSession(ctx context.Context, userID uuid.UUID, origin string) (string, error) {
	if c.client.Key == "" || c.priceID == "" {
		return "", ErrCheckoutNotConfigured
	}

	params := NewCheckoutParams(userID, c.priceID, origin)
	params.Context = ctx

	s, err := c.client.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return s.URL, nil
}

// NewCheckoutParams describes a subscription checkout for one unit of
// priceID, tagged with the user id so the completion event can be matched.
func NewCheckoutParams(userID uuid.UUID, priceID, origin string) *stripe.CheckoutSessionParams {
	origin = strings.TrimRight(origin, "/")
	return &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(origin + "/upgrade-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(origin + "/dashboard"),
		ClientReferenceID: stripe.String(userID.String()),
	}
}
