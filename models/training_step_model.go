package models

import (
	"time"

	"github.com/google/uuid"
)

// Step types. The progress tracker treats every type the same; only the
// trigger differs (quiz submission vs. an explicit "mark complete").
const (
	StepTypeQuiz              = "Quiz"
	StepTypeReadAndUnderstand = "ReadAndUnderstand"
	StepTypeVideo             = "Video"
)

type TrainingStep struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TrainingID  uuid.UUID `gorm:"type:uuid;not null;index" json:"training_id"`
	StepNumber  int       `gorm:"not null" json:"step_number"`
	StepType    string    `gorm:"size:32;not null" json:"step_type"`
	Description string    `gorm:"size:255;not null" json:"description"`

	// Type-specific payload: quiz steps carry a Quiz, document steps a
	// DocumentID, video steps a URL.
	DocumentID *uuid.UUID `gorm:"type:uuid" json:"document_id"`
	URL        *string    `gorm:"size:512" json:"url"`

	Training Training  `gorm:"foreignkey:TrainingID" json:"-"`
	Document *Document `gorm:"foreignkey:DocumentID" json:"document,omitempty"`
	Quiz     *Quiz     `gorm:"foreignkey:TrainingStepID" json:"quiz,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
