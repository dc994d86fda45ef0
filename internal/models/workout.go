package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Workout is one exercise entry of a user for a calendar date.
type Workout struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_workouts_user_date,priority:1" json:"user_id"`
	Date      datatypes.Date `gorm:"not null;index:idx_workouts_user_date,priority:2" json:"date"`
	Exercise  string         `gorm:"not null;size:100" json:"exercise"`
	Sets      int            `gorm:"not null;default:0" json:"sets"`
	CreatedAt time.Time      `json:"created_at"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
}

func (w *Workout) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

func (Workout) TableName() string {
	return "workouts"
}
