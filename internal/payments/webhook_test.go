package payments

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testSecret = "whsec_test_secret"

type fakeUpgrader struct {
	calls []uuid.UUID
	err   error
}

var _ PlanUpgrader = (*fakeUpgrader)(nil)

func (f *fakeUpgrader) ApplyPlanUpgrade(_ context.Context, userID uuid.UUID) error {
	f.calls = append(f.calls, userID)
	return f.err
}

func eventJSON(eventType, reference string) []byte {
	return []byte(fmt.Sprintf(`{
  "id": "evt_test_1",
  "object": "event",
  "type": %q,
  "data": {
    "object": {
      "id": "cs_test_1",
      "object": "checkout.session",
      "client_reference_id": %q
    }
  }
}`, eventType, reference))
}

func sign(payload []byte, secret string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload,
		Secret:  secret,
	}).Header
}

func newProcessor(up *fakeUpgrader) *Processor {
	return NewProcessor(NewStripeVerifier(testSecret), up)
}

func TestProcess_CompletedCheckoutApplied(t *testing.T) {
	up := &fakeUpgrader{}
	userID := uuid.New()
	payload := eventJSON("checkout.session.completed", userID.String())

	res := newProcessor(up).Process(context.Background(), payload, sign(payload, testSecret))

	require.NoError(t, res.Err)
	assert.Equal(t, Applied, res.Outcome)
	assert.Equal(t, "evt_test_1", res.EventID)
	assert.Equal(t, userID, res.UserID)
	assert.Equal(t, []uuid.UUID{userID}, up.calls)
}

func TestProcess_ReplayIsStillApplied(t *testing.T) {
	up := &fakeUpgrader{}
	payload := eventJSON("checkout.session.completed", uuid.NewString())
	sig := sign(payload, testSecret)
	p := newProcessor(up)

	assert.Equal(t, Applied, p.Process(context.Background(), payload, sig).Outcome)
	assert.Equal(t, Applied, p.Process(context.Background(), payload, sig).Outcome)
	assert.Len(t, up.calls, 2)
}

func TestProcess_BadSignatureRejected(t *testing.T) {
	payload := eventJSON("checkout.session.completed", uuid.NewString())

	tests := []struct {
		name    string
		sig     string
		wantErr error
	}{
		{"missing header", "", ErrMissingSignature},
		{"wrong secret", sign(payload, "whsec_other"), ErrSignatureInvalid},
		{"garbage header", "t=1,v1=deadbeef", ErrSignatureInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := &fakeUpgrader{}
			res := newProcessor(up).Process(context.Background(), payload, tt.sig)
			assert.Equal(t, Rejected, res.Outcome)
			assert.ErrorIs(t, res.Err, tt.wantErr)
			assert.Empty(t, up.calls, "no upgrade on an unverified event")
		})
	}
}

func TestProcess_TamperedBodyRejected(t *testing.T) {
	up := &fakeUpgrader{}
	signed := eventJSON("checkout.session.completed", uuid.NewString())
	tampered := eventJSON("checkout.session.completed", uuid.NewString())

	res := newProcessor(up).Process(context.Background(), tampered, sign(signed, testSecret))
	assert.Equal(t, Rejected, res.Outcome)
	assert.Empty(t, up.calls)
}

func TestProcess_MissingSecretRejected(t *testing.T) {
	up := &fakeUpgrader{}
	payload := eventJSON("checkout.session.completed", uuid.NewString())

	res := NewProcessor(NewStripeVerifier(""), up).Process(context.Background(), payload, sign(payload, testSecret))
	assert.Equal(t, Rejected, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrMissingSecret)
	assert.Empty(t, up.calls)
}

func TestProcess_OtherEventIgnored(t *testing.T) {
	up := &fakeUpgrader{}
	payload := eventJSON("invoice.paid", uuid.NewString())

	res := newProcessor(up).Process(context.Background(), payload, sign(payload, testSecret))
	assert.Equal(t, Ignored, res.Outcome)
	assert.NoError(t, res.Err)
	assert.Equal(t, "invoice.paid", res.EventType)
	assert.Empty(t, up.calls)
}

func TestProcess_MissingReferenceRejected(t *testing.T) {
	for name, ref := range map[string]string{"empty": "", "not a uuid": "user-42"} {
		t.Run(name, func(t *testing.T) {
			up := &fakeUpgrader{}
			payload := eventJSON("checkout.session.completed", ref)

			res := newProcessor(up).Process(context.Background(), payload, sign(payload, testSecret))
			assert.Equal(t, Rejected, res.Outcome)
			assert.ErrorIs(t, res.Err, ErrMissingReference)
			assert.Empty(t, up.calls)
		})
	}
}

func TestProcess_UpgradeFailure(t *testing.T) {
	up := &fakeUpgrader{err: errors.New("plan update affected 0 rows")}
	payload := eventJSON("checkout.session.completed", uuid.NewString())

	res := newProcessor(up).Process(context.Background(), payload, sign(payload, testSecret))
	assert.Equal(t, Failed, res.Outcome)
	assert.ErrorContains(t, res.Err, "0 rows")
	assert.Len(t, up.calls, 1)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "rejected", Rejected.String())
	assert.Equal(t, "ignored", Ignored.String())
	assert.Equal(t, "applied", Applied.String())
	assert.Equal(t, "failed", Failed.String())
}
