package models

import (
	"time"

	"github.com/google/uuid"
)

// UserTrainingStep is a user's status for one training step. AttemptsLeft is
// only meaningful for quiz steps; nil means the budget was never initialized.
type UserTrainingStep struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_training_step" json:"user_id"`
	TrainingStepID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_training_step" json:"training_step_id"`
	StepStatus     Status    `gorm:"size:20;not null;default:'Pending'" json:"step_status"`
	AttemptsLeft   *int      `json:"attempts_left"`

	User         User         `gorm:"foreignkey:UserID" json:"-"`
	TrainingStep TrainingStep `gorm:"foreignkey:TrainingStepID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
