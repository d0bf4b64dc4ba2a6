package models

import (
	"time"

	"github.com/google/uuid"
)

// UserTrainingAuditLog records training-level status changes. Append-only:
// nothing in the codebase updates or deletes rows.
type UserTrainingAuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_user_training" json:"user_id"`
	TrainingID uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_user_training" json:"training_id"`
	Comment    string    `gorm:"size:255" json:"comment"`
	NewStatus  Status    `gorm:"size:20;not null" json:"new_status"`
	CreatedBy  uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`

	Creator User `gorm:"foreignkey:CreatedBy" json:"creator,omitempty"`
}
