package models

import (
	"time"

	"github.com/google/uuid"
)

type Certificate struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	TrainingID     uuid.UUID `gorm:"type:uuid;not null" json:"training_id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	CompletionDate time.Time `gorm:"not null" json:"completion_date"`
	CertificateURL string    `gorm:"type:text;not null" json:"certificate_url"`

	User     User     `gorm:"foreignkey:UserID" json:"-"`
	Training Training `gorm:"foreignkey:TrainingID" json:"-"`
}
