package models

import (
	"time"

	"github.com/google/uuid"
)

type Training struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Description string    `gorm:"size:255;not null" json:"description"`
	URL         *string   `gorm:"size:255" json:"url"`
	CreatedByID uuid.UUID `gorm:"type:uuid;not null" json:"created_by_id"`

	Steps []TrainingStep `gorm:"foreignkey:TrainingID" json:"steps,omitempty"`

	CreatedBy User `gorm:"foreignkey:CreatedByID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
