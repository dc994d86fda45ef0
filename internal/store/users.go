package store

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/policy"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// LockUser takes a row lock on the user for the rest of the transaction.
// SQLite has no row locks and serializes writers on its own.
func (s *Store) LockUser(ctx context.Context, id uuid.UUID) error {
	q := s.db.WithContext(ctx).Select("id")
	if s.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var u models.User
	if err := q.First(&u, "id = ?", id).Error; err != nil {
		return notFound(err)
	}
	return nil
}

func (s *Store) UpdatePlan(ctx context.Context, userID uuid.UUID, plan policy.Plan) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("plan", string(plan))
	return result.RowsAffected, result.Error
}

func (s *Store) UpdateRole(ctx context.Context, userID uuid.UUID, role policy.Role) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", string(role))
	return result.RowsAffected, result.Error
}
