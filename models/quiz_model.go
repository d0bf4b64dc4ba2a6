package models

import (
	"time"

	"github.com/google/uuid"
)

type Quiz struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TrainingStepID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"training_step_id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	MinScore       float64   `gorm:"not null" json:"min_score"`

	Questions []Question `gorm:"foreignkey:QuizID" json:"questions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Question struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuizID uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Text   string    `gorm:"type:text;not null" json:"text"`

	Answers []Answer `gorm:"foreignkey:QuestionID" json:"answers,omitempty"`
}

type Answer struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"is_correct"`
}
