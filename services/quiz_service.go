package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tottisilva/poc-documents-training/models"
)

type ScoreResult struct {
	CorrectCount    int     `json:"correct_count"`
	TotalQuestions  int     `json:"total_questions"`
	ScorePercentage float64 `json:"score_percentage"`
	Passed          bool    `json:"passed"`
}

// ScoreQuiz grades a submission against a quiz. selected maps question ID to
// the chosen answer ID; questions missing from the map count as wrong.
// Scoring exactly the minimum score passes.
func ScoreQuiz(quiz *models.Quiz, selected map[uuid.UUID]uuid.UUID) (ScoreResult, error) {
	total := len(quiz.Questions)
	if total == 0 {
		return ScoreResult{}, ErrQuizHasNoQuestions
	}

	correct := 0
	for _, question := range quiz.Questions {
		answerID, answered := selected[question.ID]
		if !answered {
			continue
		}
		for _, answer := range question.Answers {
			if answer.ID == answerID && answer.IsCorrect {
				correct++
				break
			}
		}
	}

	score := (float64(correct) / float64(total)) * 100
	return ScoreResult{
		CorrectCount:    correct,
		TotalQuestions:  total,
		ScorePercentage: score,
		Passed:          score >= quiz.MinScore,
	}, nil
}

type SubmissionResult struct {
	ScoreResult
	StepStatus     models.Status `json:"step_status"`
	AttemptsLeft   *int          `json:"attempts_left"`
	TrainingFailed bool          `json:"training_failed"`
}

// SubmitQuiz scores a submission for the quiz attached to trainingStepID and
// persists the outcome in one transaction: one UserQuizAnswer row per question
// (each carrying the attempt's score), the new step status, and on failure the
// attempt decrement with its possible training-level fallout.
func SubmitQuiz(db *gorm.DB, userID, trainingStepID uuid.UUID, selected map[uuid.UUID]uuid.UUID) (*SubmissionResult, error) {
	var step models.TrainingStep
	if err := db.First(&step, "id = ?", trainingStepID).Error; err != nil {
		return nil, err
	}

	var quiz models.Quiz
	if err := db.Preload("Questions.Answers").First(&quiz, "training_step_id = ?", trainingStepID).Error; err != nil {
		return nil, err
	}

	score, err := ScoreQuiz(&quiz, selected)
	if err != nil {
		return nil, err
	}

	result := &SubmissionResult{ScoreResult: score}

	err = db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		answerRows := make([]models.UserQuizAnswer, 0, len(quiz.Questions))
		for _, question := range quiz.Questions {
			row := models.UserQuizAnswer{
				ID:         uuid.New(),
				UserID:     userID,
				QuizID:     quiz.ID,
				QuestionID: question.ID,
				Score:      score.ScorePercentage,
				AnsweredAt: now,
			}
			if answerID, answered := selected[question.ID]; answered {
				chosen := answerID
				row.AnswerID = &chosen
			}
			answerRows = append(answerRows, row)
		}
		if err := tx.Create(&answerRows).Error; err != nil {
			return err
		}

		status := models.StatusCompleted
		if !score.Passed {
			status = models.StatusFailed
		}
		uts, err := setStepStatusTx(tx, userID, trainingStepID, status)
		if err != nil {
			return err
		}
		result.StepStatus = uts.StepStatus
		result.AttemptsLeft = uts.AttemptsLeft

		if !score.Passed {
			attempt, err := recordFailedAttemptTx(tx, userID, trainingStepID, step.TrainingID, userID)
			if err != nil {
				return err
			}
			remaining := attempt.AttemptsLeft
			result.AttemptsLeft = &remaining
			result.TrainingFailed = attempt.TrainingFailed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PreviousAnswers returns the rows of a user's latest recorded submission for
// a quiz, so the UI can prefill an already answered form.
func PreviousAnswers(db *gorm.DB, userID, quizID uuid.UUID) ([]models.UserQuizAnswer, error) {
	var latest models.UserQuizAnswer
	err := db.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("answered_at desc").First(&latest).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return []models.UserQuizAnswer{}, nil
		}
		return nil, err
	}

	var rows []models.UserQuizAnswer
	err = db.Where("user_id = ? AND quiz_id = ? AND answered_at = ?", userID, quizID, latest.AnsweredAt).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
