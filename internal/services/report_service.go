package services

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/policy"
	"github.com/ahmetcoskunkizilkaya/workout-backend/internal/store"
)

type ReportService struct {
	store  *store.Store
	engine *policy.Engine
}

func NewReportService(st *store.Store) *ReportService {
	return &ReportService{store: st, engine: policy.NewEngine(st, 0)}
}

// Average builds the admin-only average sets per day report.
func (s *ReportService) Average(ctx context.Context, r policy.Requester) (*dto.AverageReportResponse, error) {
	if !s.engine.CanViewAggregateReport(r) {
		return nil, policy.ErrForbidden
	}

	rows, err := s.store.AverageSetsPerDay(ctx)
	if err != nil {
		return nil, err
	}
	overall, err := s.store.AverageWorkoutsPerDay(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]dto.UserAverageResponse, 0, len(rows))
	for _, row := range rows {
		email := row.Email
		if email == "" {
			email = "Unknown"
		}
		users = append(users, dto.UserAverageResponse{
			UserID:        row.UserID,
			Email:         email,
			AvgSetsPerDay: row.AvgSetsPerDay,
		})
	}

	return &dto.AverageReportResponse{
		Users:             users,
		AvgWorkoutsPerDay: overall,
		GeneratedAt:       time.Now().UTC().Format(time.RFC3339),
	}, nil
}
