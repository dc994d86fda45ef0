package dto

import "github.com/google/uuid"

type CreateWorkoutRequest struct {
	Date     string `json:"date"` // YYYY-MM-DD, defaults to today (UTC)
	Exercise string `json:"exercise"`
	Sets     int    `json:"sets"`
}

type WorkoutResponse struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Date     string    `json:"date"`
	Exercise string    `json:"exercise"`
	Sets     int       `json:"sets"`
}

type WorkoutListResponse struct {
	Workouts []WorkoutResponse `json:"workouts"`
	Total    int               `json:"total"`
	Scope    string            `json:"scope"` // "own" or "all"
}

// QuotaExceededResponse is returned when a free user hits the daily limit.
type QuotaExceededResponse struct {
	Error      bool   `json:"error"`
	Message    string `json:"message"`
	Limit      int    `json:"limit"`
	UpgradeURL string `json:"upgrade_url"`
}

type ProfileResponse struct {
	UserResponse
	TodayCount int64 `json:"today_count"`
	DailyLimit int   `json:"daily_limit"` // 0 means unlimited
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type UserAverageResponse struct {
	UserID        uuid.UUID `json:"user_id"`
	Email         string    `json:"email"`
	AvgSetsPerDay float64   `json:"avg_sets_per_day"`
}

type AverageReportResponse struct {
	Users             []UserAverageResponse `json:"users"`
	AvgWorkoutsPerDay float64               `json:"avg_workouts_per_day"`
	GeneratedAt       string                `json:"generated_at"`
}
