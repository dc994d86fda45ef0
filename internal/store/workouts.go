package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/policy"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserAverage is one row of the average-sets report.
type UserAverage struct {
	UserID        uuid.UUID `json:"user_id"`
	Email         string    `json:"email"`
	AvgSetsPerDay float64   `json:"avg_sets_per_day"`
}

func (s *Store) ListWorkouts(ctx context.Context, filter policy.RecordFilter) ([]models.Workout, error) {
	var workouts []models.Workout
	err := s.db.WithContext(ctx).
		Scopes(filter.Scope()).
		Order("date DESC").
		Order("created_at DESC").
		Find(&workouts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	return workouts, nil
}

func (s *Store) CountWorkoutsOn(ctx context.Context, ownerID uuid.UUID, date time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Workout{}).
		Where("user_id = ? AND date = ?", ownerID, datatypes.Date(policy.DateOnly(date))).
		Count(&count).Error
	return count, err
}

func (s *Store) CreateWorkout(ctx context.Context, w *models.Workout) error {
	if err := s.db.WithContext(ctx).Create(w).Error; err != nil {
		return fmt.Errorf("failed to create workout: %w", err)
	}
	return nil
}

func (s *Store) GetWorkout(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	var w models.Workout
	if err := s.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

func (s *Store) DeleteWorkout(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Workout{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete workout: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AverageSetsPerDay returns, per user, total sets divided by the number of
// distinct dates the user logged anything on.
func (s *Store) AverageSetsPerDay(ctx context.Context) ([]UserAverage, error) {
	var rows []UserAverage
	err := s.db.WithContext(ctx).Raw(`
SELECT workouts.user_id AS user_id,
       COALESCE(users.email, '') AS email,
       CAST(SUM(workouts.sets) AS DOUBLE PRECISION) / COUNT(DISTINCT workouts.date) AS avg_sets_per_day
FROM workouts
LEFT JOIN users ON users.id = workouts.user_id AND users.deleted_at IS NULL
GROUP BY workouts.user_id, users.email
ORDER BY avg_sets_per_day DESC`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sets: %w", err)
	}
	return rows, nil
}

type workoutTotals struct {
	Total int64
	Days  int64
}

// AverageWorkoutsPerDay returns the number of records per distinct logged date.
func (s *Store) AverageWorkoutsPerDay(ctx context.Context) (float64, error) {
	var agg workoutTotals
	err := s.db.WithContext(ctx).Model(&models.Workout{}).
		Select("COUNT(*) AS total, COUNT(DISTINCT date) AS days").
		Scan(&agg).Error
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate workouts: %w", err)
	}
	if agg.Days == 0 {
		return 0, nil
	}
	return float64(agg.Total) / float64(agg.Days), nil
}
