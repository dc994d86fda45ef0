package payments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

func TestNewCheckoutParams(t *testing.T) {
	userID := uuid.New()
	p := NewCheckoutParams(userID, "price_123", "https://app.example.com/")

	assert.Equal(t, string(stripe.CheckoutSessionModeSubscription), *p.Mode)
	assert.Equal(t, userID.String(), *p.ClientReferenceID)
	require.Len(t, p.LineItems, 1)
	assert.Equal(t, "price_123", *p.LineItems[0].Price)
	assert.Equal(t, int64(1), *p.LineItems[0].Quantity)
	require.Len(t, p.PaymentMethodTypes, 1)
	assert.Equal(t, "card", *p.PaymentMethodTypes[0])
	assert.Equal(t, "https://app.example.com/upgrade-success?session_id={CHECKOUT_SESSION_ID}", *p.SuccessURL)
	assert.Equal(t, "https://app.example.com/dashboard", *p.CancelURL)
}

func TestStripeCheckout_NotConfigured(t *testing.T) {
	_, err := NewStripeCheckout("", "price_123").CreateCheckoutSession(context.Background(), uuid.New(), "http://localhost")
	assert.ErrorIs(t, err, ErrCheckoutNotConfigured)

	_, err = NewStripeCheckout("sk_test", "").CreateCheckoutSession(context.Background(), uuid.New(), "http://localhost")
	assert.ErrorIs(t, err, ErrCheckoutNotConfigured)
}
