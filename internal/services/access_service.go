package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/policy"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/store"
	"github.com/google/uuid"
)

var ErrInvalidRole = errors.New("role must be admin or member")

// AccessService resolves the role and plan of an authenticated user and
// applies administrative role changes.
type AccessService struct {
	store        *store.Store
	adminEmails  []string
	adminUserIDs []string
}

func NewAccessService(st *store.Store, cfg *config.Config) *AccessService {
	return &AccessService{
		store:        st,
		adminEmails:  parseCSV(strings.ToLower(cfg.AdminEmails)),
		adminUserIDs: parseCSV(cfg.AdminUserIDs),
	}
}

// Requester builds the policy input for userID. A missing profile row
// yields an ordinary free member; the returned user is nil in that case.
func (s *AccessService) Requester(ctx context.Context, userID uuid.UUID) (policy.Requester, *models.User, error) {
	r := policy.Requester{UserID: userID, Role: policy.RoleMember, Plan: policy.PlanFree}

	if contains(s.adminUserIDs, userID.String()) {
		r.Role = policy.RoleAdmin
	}

	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return r, nil, nil
	}
	if err != nil {
		return policy.Requester{}, nil, fmt.Errorf("failed to load user: %w", err)
	}

	r.Plan = policy.ParsePlan(user.Plan)
	if policy.ParseRole(user.Role) == policy.RoleAdmin || contains(s.adminEmails, strings.ToLower(user.Email)) {
		r.Role = policy.RoleAdmin
	}
	return r, user, nil
}

// SetRole is the administrative action that changes a user's role.
func (s *AccessService) SetRole(ctx context.Context, userID uuid.UUID, role string) error {
	var parsed policy.Role
	switch policy.Role(role) {
	case policy.RoleAdmin, policy.RoleMember:
		parsed = policy.Role(role)
	default:
		return ErrInvalidRole
	}

	rows, err := s.store.UpdateRole(ctx, userID, parsed)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
