package models

import (
	"time"

	"github.com/google/uuid"
)

// UserQuizAnswer is an append-only record of one submitted choice. Every row
// of a submission carries the whole attempt's score percentage. AnswerID is
// nil when the question was left unanswered.
type UserQuizAnswer struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	QuizID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"quiz_id"`
	QuestionID uuid.UUID  `gorm:"type:uuid;not null" json:"question_id"`
	AnswerID   *uuid.UUID `gorm:"type:uuid" json:"answer_id"`
	Score      float64    `gorm:"not null" json:"score"`
	AnsweredAt time.Time  `gorm:"not null" json:"answered_at"`

	User     User     `gorm:"foreignkey:UserID" json:"-"`
	Quiz     Quiz     `gorm:"foreignkey:QuizID" json:"-"`
	Question Question `gorm:"foreignkey:QuestionID" json:"-"`
}
