package store

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
)

func (s *Store) CreateRefreshToken(ctx context.Context, rt *models.RefreshToken) error {
	if err := s.db.WithContext(ctx).Create(rt).Error; err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// ActiveRefreshToken finds a non-revoked token by hash. Expiry is left to
// the caller.
func (s *Store) ActiveRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := s.db.WithContext(ctx).
		Where("token_hash = ? AND revoked = ?", tokenHash, false).
		First(&rt).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &rt, nil
}

func (s *Store) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}
