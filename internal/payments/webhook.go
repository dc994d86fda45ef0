// Package payments verifies Stripe notifications, turns a completed
// checkout into a plan upgrade, and creates hosted checkout sessions.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

var (
	ErrMissingSignature = errors.New("stripe signature missing")
	ErrMissingSecret    = errors.New("webhook secret not configured")
	ErrSignatureInvalid = errors.New("webhook signature verification failed")
	ErrMissingReference = errors.New("user id not found in checkout session")
)

// Outcome is the terminal state of one notification.
type Outcome int

const (
	Rejected Outcome = iota
	Ignored
	Applied
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Applied:
		return "applied"
	case Failed:
		return "failed"
	default:
		return "rejected"
	}
}

// Result describes how a notification was handled.
type Result struct {
	Outcome   Outcome
	EventID   string
	EventType string
	UserID    uuid.UUID
	Err       error
}

// Verifier authenticates a raw notification body.
type Verifier interface {
	Verify(payload []byte, signature string) (stripe.Event, error)
}

// PlanUpgrader applies the premium plan to a user.
type PlanUpgrader interface {
	ApplyPlanUpgrade(ctx context.Context, userID uuid.UUID) error
}

type StripeVerifier struct {
	secret string
}

func NewStripeVerifier(secret string) *StripeVerifier {
	return &StripeVerifier{secret: secret}
}

func (v *StripeVerifier) Verify(payload []byte, signature string) (stripe.Event, error) {
	if signature == "" {
		return stripe.Event{}, ErrMissingSignature
	}
	if v.secret == "" {
		return stripe.Event{}, ErrMissingSecret
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return event, nil
}

// Processor runs each notification once through
// verify -> inspect type -> extract reference -> upgrade.
type Processor struct {
	verifier Verifier
	upgrader PlanUpgrader
}

func NewProcessor(verifier Verifier, upgrader PlanUpgrader) *Processor {
	return &Processor{verifier: verifier, upgrader: upgrader}
}

func (p *Processor) Process(ctx context.Context, payload []byte, signature string) Result {
	event, err := p.verifier.Verify(payload, signature)
	if err != nil {
		return Result{Outcome: Rejected, Err: err}
	}

	res := Result{EventID: event.ID, EventType: string(event.Type)}
	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		res.Outcome = Ignored
		return res
	}

	userID, err := clientReference(event)
	if err != nil {
		res.Outcome = Rejected
		res.Err = err
		return res
	}
	res.UserID = userID

	if err := p.upgrader.ApplyPlanUpgrade(ctx, userID); err != nil {
		res.Outcome = Failed
		res.Err = err
		return res
	}

	slog.Info("plan upgraded from checkout", "user_id", userID.String(), "event_id", event.ID)
	res.Outcome = Applied
	return res
}

func clientReference(event stripe.Event) (uuid.UUID, error) {
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return uuid.Nil, ErrMissingReference
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrMissingReference, err)
	}
	if session.ClientReferenceID == "" {
		return uuid.Nil, ErrMissingReference
	}

	userID, err := uuid.Parse(session.ClientReferenceID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q is not a user id", ErrMissingReference, session.ClientReferenceID)
	}
	return userID, nil
}
