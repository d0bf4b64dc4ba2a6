package models

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
)

// UserTraining is a user's enrollment in a training and its overall status.
// One row per (user, training) pair.
type UserTraining struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_training" json:"user_id"`
	TrainingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_training" json:"training_id"`
	Status     Status    `gorm:"size:20;not null;default:'Pending'" json:"status"`
	CreatedBy  uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`

	User     User     `gorm:"foreignkey:UserID" json:"-"`
	Training Training `gorm:"foreignkey:TrainingID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
