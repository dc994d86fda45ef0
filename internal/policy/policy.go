// Package policy decides who may see which workout records, whether a new
// record may be submitted, and how a completed payment changes a plan.
package policy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultDailyLimit is the number of records a free user may create per date.
const DefaultDailyLimit = 5

var (
	ErrDailyLimitReached = errors.New("daily limit reached")
	ErrForbidden         = errors.New("access denied")
	ErrDatabase          = errors.New("database error")
)

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// ParseRole maps a stored value to a Role. Anything unrecognized, including
// a missing value, grants no elevated privilege.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleMember
}

type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// ParsePlan maps a stored value to a Plan, defaulting to the restrictive one.
func ParsePlan(s string) Plan {
	if Plan(s) == PlanPremium {
		return PlanPremium
	}
	return PlanFree
}

// Requester is the authenticated identity a decision is made for.
type Requester struct {
	UserID uuid.UUID
	Role   Role
	Plan   Plan
}

func (r Requester) IsAdmin() bool { return r.Role == RoleAdmin }

// RecordFilter selects the workout records a requester may read.
type RecordFilter struct {
	All     bool
	OwnerID uuid.UUID
}

func (f RecordFilter) Matches(ownerID uuid.UUID) bool {
	return f.All || f.OwnerID == ownerID
}

// Scope returns a GORM scope that applies the filter to the workouts table.
func (f RecordFilter) Scope() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.All {
			return db
		}
		return db.Where("user_id = ?", f.OwnerID)
	}
}

// Decision is the outcome of a submission check.
type Decision struct {
	Allowed bool
	Reason  string
	Limit   int
	Count   int64
}

// Err returns ErrDailyLimitReached for a denied decision.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("%w (limit %d)", ErrDailyLimitReached, d.Limit)
}

// Store is the persistence capability the engine needs.
type Store interface {
	CountWorkoutsOn(ctx context.Context, ownerID uuid.UUID, date time.Time) (int64, error)
	UpdatePlan(ctx context.Context, userID uuid.UUID, plan Plan) (int64, error)
}

type Engine struct {
	store Store
	limit int
}

func NewEngine(store Store, dailyLimit int) *Engine {
	if dailyLimit <= 0 {
		dailyLimit = DefaultDailyLimit
	}
	return &Engine{store: store, limit: dailyLimit}
}

func (e *Engine) DailyLimit() int { return e.limit }

func (e *Engine) CanViewRecords(r Requester) RecordFilter {
	if r.IsAdmin() {
		return RecordFilter{All: true}
	}
	return RecordFilter{OwnerID: r.UserID}
}

// CanSubmitRecord checks the daily quota for date. It does not write; the
// caller runs it and the insert inside one transaction to keep the limit hard.
func (e *Engine) CanSubmitRecord(ctx context.Context, r Requester, date time.Time) (Decision, error) {
	if r.Plan == PlanPremium {
		return Decision{Allowed: true}, nil
	}

	count, err := e.store.CountWorkoutsOn(ctx, r.UserID, DateOnly(date))
	if err != nil {
		return Decision{}, fmt.Errorf("failed to count workouts: %w", err)
	}
	if count >= int64(e.limit) {
		return Decision{Allowed: false, Reason: ErrDailyLimitReached.Error(), Limit: e.limit, Count: count}, nil
	}
	return Decision{Allowed: true, Limit: e.limit, Count: count}, nil
}

// ApplyPlanUpgrade moves a user to the premium plan. Applying it again is a
// no-op in effect.
func (e *Engine) ApplyPlanUpgrade(ctx context.Context, userID uuid.UUID) error {
	rows, err := e.store.UpdatePlan(ctx, userID, PlanPremium)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if rows != 1 {
		return fmt.Errorf("%w: plan update affected %d rows for user %s", ErrDatabase, rows, userID)
	}
	return nil
}

func (e *Engine) CanViewAggregateReport(r Requester) bool {
	return r.IsAdmin()
}

// DateOnly truncates t to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
