package policy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	owner uuid.UUID
	date  time.Time
}

type fakeStore struct {
	records []record
	plans   map[uuid.UUID]Plan

	countErr   error
	updateErr  error
	countCalls int
}

var _ Store = (*fakeStore)(nil)

func (f *fakeStore) CountWorkoutsOn(_ context.Context, ownerID uuid.UUID, date time.Time) (int64, error) {
	f.countCalls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	var n int64
	for _, r := range f.records {
		if r.owner == ownerID && r.date.Equal(date) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) UpdatePlan(_ context.Context, userID uuid.UUID, plan Plan) (int64, error) {
	if f.updateErr != nil {
		return 0, f.updateErr
	}
	if _, ok := f.plans[userID]; !ok {
		return 0, nil
	}
	f.plans[userID] = plan
	return 1, nil
}

// submit mimics a caller running the check and the insert back to back.
func (f *fakeStore) submit(t *testing.T, e *Engine, r Requester, date time.Time) Decision {
	t.Helper()
	d, err := e.CanSubmitRecord(context.Background(), r, date)
	require.NoError(t, err)
	if d.Allowed {
		f.records = append(f.records, record{owner: r.UserID, date: DateOnly(date)})
	}
	return d
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseRoleAndPlan(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleMember, ParseRole("member"))
	assert.Equal(t, RoleMember, ParseRole(""))
	assert.Equal(t, RoleMember, ParseRole("superuser"))

	assert.Equal(t, PlanPremium, ParsePlan("premium"))
	assert.Equal(t, PlanFree, ParsePlan("free"))
	assert.Equal(t, PlanFree, ParsePlan(""))
	assert.Equal(t, PlanFree, ParsePlan("gold"))
}

func TestCanViewRecords(t *testing.T) {
	e := NewEngine(&fakeStore{}, 0)
	alice, bob := uuid.New(), uuid.New()

	admin := e.CanViewRecords(Requester{UserID: alice, Role: RoleAdmin})
	assert.True(t, admin.All)
	assert.True(t, admin.Matches(alice))
	assert.True(t, admin.Matches(bob))

	member := e.CanViewRecords(Requester{UserID: alice, Role: RoleMember})
	assert.False(t, member.All)
	assert.Equal(t, alice, member.OwnerID)
	assert.True(t, member.Matches(alice))
	assert.False(t, member.Matches(bob))

	unknown := e.CanViewRecords(Requester{UserID: bob, Role: ParseRole("")})
	assert.False(t, unknown.All)
	assert.True(t, unknown.Matches(bob))
}

func TestCanSubmitRecord_FreePlanQuota(t *testing.T) {
	store := &fakeStore{}
	e := NewEngine(store, DefaultDailyLimit)
	user := Requester{UserID: uuid.New(), Role: RoleMember, Plan: PlanFree}

	for i := 0; i < 5; i++ {
		d := store.submit(t, e, user, day("2024-01-01"))
		require.Truef(t, d.Allowed, "submission %d should be allowed", i+1)
	}

	d := store.submit(t, e, user, day("2024-01-01"))
	assert.False(t, d.Allowed)
	assert.Equal(t, 5, d.Limit)
	assert.Equal(t, int64(5), d.Count)
	assert.Equal(t, "daily limit reached", d.Reason)
	assert.ErrorIs(t, d.Err(), ErrDailyLimitReached)

	next := store.submit(t, e, user, day("2024-01-02"))
	assert.True(t, next.Allowed)
	assert.NoError(t, next.Err())
}

func TestCanSubmitRecord_QuotaIsPerUser(t *testing.T) {
	store := &fakeStore{}
	e := NewEngine(store, 2)
	a := Requester{UserID: uuid.New(), Plan: PlanFree}
	b := Requester{UserID: uuid.New(), Plan: PlanFree}

	store.submit(t, e, a, day("2024-03-10"))
	store.submit(t, e, a, day("2024-03-10"))
	assert.False(t, store.submit(t, e, a, day("2024-03-10")).Allowed)
	assert.True(t, store.submit(t, e, b, day("2024-03-10")).Allowed)
}

func TestCanSubmitRecord_DateIgnoresTimeOfDay(t *testing.T) {
	store := &fakeStore{}
	e := NewEngine(store, 1)
	u := Requester{UserID: uuid.New(), Plan: PlanFree}

	morning := time.Date(2024, 5, 1, 7, 30, 0, 0, time.UTC)
	evening := time.Date(2024, 5, 1, 21, 0, 0, 0, time.UTC)

	assert.True(t, store.submit(t, e, u, morning).Allowed)
	assert.False(t, store.submit(t, e, u, evening).Allowed)
}

func TestCanSubmitRecord_PremiumNeverDenied(t *testing.T) {
	store := &fakeStore{}
	e := NewEngine(store, DefaultDailyLimit)
	user := Requester{UserID: uuid.New(), Plan: PlanPremium}

	for i := 0; i < 25; i++ {
		require.True(t, store.submit(t, e, user, day("2024-01-01")).Allowed)
	}
	assert.Zero(t, store.countCalls, "premium submissions must not hit the store")
}

func TestCanSubmitRecord_UnknownPlanIsFree(t *testing.T) {
	store := &fakeStore{}
	e := NewEngine(store, 1)
	user := Requester{UserID: uuid.New(), Plan: ParsePlan("platinum")}

	assert.True(t, store.submit(t, e, user, day("2024-01-01")).Allowed)
	assert.False(t, store.submit(t, e, user, day("2024-01-01")).Allowed)
}

func TestCanSubmitRecord_StoreError(t *testing.T) {
	store := &fakeStore{countErr: errors.New("connection reset")}
	e := NewEngine(store, DefaultDailyLimit)

	_, err := e.CanSubmitRecord(context.Background(), Requester{UserID: uuid.New()}, day("2024-01-01"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection reset")
}

func TestApplyPlanUpgrade_Idempotent(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{plans: map[uuid.UUID]Plan{id: PlanFree}}
	e := NewEngine(store, DefaultDailyLimit)

	require.NoError(t, e.ApplyPlanUpgrade(context.Background(), id))
	require.NoError(t, e.ApplyPlanUpgrade(context.Background(), id))
	assert.Equal(t, PlanPremium, store.plans[id])
}

func TestApplyPlanUpgrade_Failures(t *testing.T) {
	e := NewEngine(&fakeStore{plans: map[uuid.UUID]Plan{}}, DefaultDailyLimit)
	err := e.ApplyPlanUpgrade(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDatabase)

	e = NewEngine(&fakeStore{updateErr: errors.New("timeout")}, DefaultDailyLimit)
	err = e.ApplyPlanUpgrade(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDatabase)
	assert.ErrorContains(t, err, "timeout")
}

func TestCanViewAggregateReport(t *testing.T) {
	e := NewEngine(&fakeStore{}, 0)
	assert.True(t, e.CanViewAggregateReport(Requester{Role: RoleAdmin}))
	assert.False(t, e.CanViewAggregateReport(Requester{Role: RoleMember}))
	assert.False(t, e.CanViewAggregateReport(Requester{Role: ParseRole("")}))
}

func TestNewEngine_DefaultLimit(t *testing.T) {
	assert.Equal(t, DefaultDailyLimit, NewEngine(&fakeStore{}, 0).DailyLimit())
	assert.Equal(t, 7, NewEngine(&fakeStore{}, 7).DailyLimit())
}
