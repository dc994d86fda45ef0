package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/policy"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const maxExerciseLength = 100

var (
	ErrInvalidExercise = errors.New("exercise name is required (max 100 characters)")
	ErrInvalidSets     = errors.New("sets must be zero or more")
	ErrInvalidDate     = errors.New("date must be formatted as YYYY-MM-DD")
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrNotOwner        = errors.New("you do not own this workout")
)

// QuotaError reports a denied submission together with the limit in force.
type QuotaError struct {
	Limit int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("daily limit of %d workouts reached, upgrade to premium for unlimited entries", e.Limit)
}

func (e *QuotaError) Unwrap() error { return policy.ErrDailyLimitReached }

type WorkoutService struct {
	store *store.Store
	limit int
	now   func() time.Time
}

func NewWorkoutService(st *store.Store, dailyLimit int) *WorkoutService {
	return &WorkoutService{
		store: st,
		limit: policy.NewEngine(st, dailyLimit).DailyLimit(),
		now:   time.Now,
	}
}

func (s *WorkoutService) DailyLimit() int { return s.limit }

func (s *WorkoutService) engine(st policy.Store) *policy.Engine {
	return policy.NewEngine(st, s.limit)
}

// List returns the records the requester may see, newest date first.
func (s *WorkoutService) List(ctx context.Context, r policy.Requester) ([]models.Workout, policy.RecordFilter, error) {
	filter := s.engine(s.store).CanViewRecords(r)
	workouts, err := s.store.ListWorkouts(ctx, filter)
	if err != nil {
		return nil, filter, err
	}
	return workouts, filter, nil
}

// Submit validates and stores a new record. The quota check and the insert
// share one transaction holding a lock on the user row, so concurrent
// submissions cannot overshoot the limit.
func (s *WorkoutService) Submit(ctx context.Context, r policy.Requester, req dto.CreateWorkoutRequest) (*models.Workout, error) {
	exercise := strings.TrimSpace(req.Exercise)
	if exercise == "" || len([]rune(exercise)) > maxExerciseLength {
		return nil, ErrInvalidExercise
	}
	if req.Sets < 0 {
		return nil, ErrInvalidSets
	}
	date, err := s.parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	workout := &models.Workout{
		UserID:   r.UserID,
		Date:     datatypes.Date(date),
		Exercise: exercise,
		Sets:     req.Sets,
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.LockUser(ctx, r.UserID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		decision, err := s.engine(tx).CanSubmitRecord(ctx, r, date)
		if err != nil {
			return err
		}
		if !decision.Allowed {
			return &QuotaError{Limit: decision.Limit}
		}

		return tx.CreateWorkout(ctx, workout)
	})
	if err != nil {
		return nil, err
	}
	return workout, nil
}

// Delete removes a record owned by the requester.
func (s *WorkoutService) Delete(ctx context.Context, r policy.Requester, id uuid.UUID) error {
	workout, err := s.store.GetWorkout(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrWorkoutNotFound
	}
	if err != nil {
		return err
	}

	if workout.UserID != r.UserID {
		return ErrNotOwner
	}

	if err := s.store.DeleteWorkout(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return nil
}

// Profile reports the requester's plan and today's quota usage.
func (s *WorkoutService) Profile(ctx context.Context, r policy.Requester, user *models.User) (*dto.ProfileResponse, error) {
	count, err := s.store.CountWorkoutsOn(ctx, r.UserID, s.today())
	if err != nil {
		return nil, fmt.Errorf("failed to count workouts: %w", err)
	}

	resp := &dto.ProfileResponse{
		UserResponse: dto.UserResponse{
			ID:   r.UserID,
			Role: string(r.Role),
			Plan: string(r.Plan),
		},
		TodayCount: count,
	}
	if user != nil {
		resp.Email = user.Email
	}
	if r.Plan != policy.PlanPremium {
		resp.DailyLimit = s.limit
	}
	return resp, nil
}

func (s *WorkoutService) today() time.Time {
	return policy.DateOnly(s.now().UTC())
}

func (s *WorkoutService) parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.today(), nil
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

func ToWorkoutResponse(w models.Workout) dto.WorkoutResponse {
	return dto.WorkoutResponse{
		ID:       w.ID,
		UserID:   w.UserID,
		Date:     time.Time(w.Date).Format("2006-01-02"),
		Exercise: w.Exercise,
		Sets:     w.Sets,
	}
}
