package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/tottisilva/poc-documents-training/models"
)

func TestScoreQuizAllCorrect(t *testing.T) {
	db := openTestDB(t)
	manager := seedUser(t, db, "manager")
	_, steps := seedTraining(t, db, manager.ID, models.StepTypeQuiz)
	quiz := seedQuiz(t, db, steps[0].ID, 70, 5)

	result, err := ScoreQuiz(&quiz, correctAnswers(quiz, 5))
	if err != nil {
		t.Fatalf("ScoreQuiz returned error: %v", err)
	}
	if result.CorrectCount != 5 || result.TotalQuestions != 5 {
		t.Errorf("got %d/%d, want 5/5", result.CorrectCount, result.TotalQuestions)
	}
	if result.ScorePercentage != 100 {
		t.Errorf("got score %v, want 100", result.ScorePercentage)
	}
	if !result.Passed {
		t.Error("expected a perfect submission to pass")
	}
}

func TestScoreQuizIsDeterministic(t *testing.T) {
	db := openTestDB(t)
	manager := seedUser(t, db, "manager")
	_, steps := seedTraining(t, db, manager.ID, models.StepTypeQuiz)
	quiz := seedQuiz(t, db, steps[0].ID, 70, 4)
	selected := correctAnswers(quiz, 3)

	first, err := ScoreQuiz(&quiz, selected)
	if err != nil {
		t.Fatalf("ScoreQuiz returned error: %v", err)
	}
	second, err := ScoreQuiz(&quiz, selected)
	if err != nil {
		t.Fatalf("ScoreQuiz returned error: %v", err)
	}
	if first != second {
		t.Errorf("same submission scored differently: %+v vs %+v", first, second)
	}
}

func TestScoreQuizMinScoreBoundary(t *testing.T) {
	db := openTestDB(t)
	manager := seedUser(t, db, "manager")
	_, steps := seedTraining(t, db, manager.ID, models.StepTypeQuiz)
	quiz := seedQuiz(t, db, steps[0].ID, 70, 10)

	atBoundary, err := ScoreQuiz(&quiz, correctAnswers(quiz, 7))
	if err != nil {
		t.Fatalf("ScoreQuiz returned error: %v", err)
	}
	if atBoundary.ScorePercentage != 70 {
		t.Fatalf("got score %v, want 70", atBoundary.ScorePercentage)
	}
	if !atBoundary.Passed {
		t.Error("a score equal to the minimum must pass")
	}

	below, err := ScoreQuiz(&quiz, correctAnswers(quiz, 6))
	if err != nil {
		t.Fatalf("ScoreQuiz returned error: %v", err)
	}
	if below.Passed {
		t.Errorf("score %v below minimum 70 must fail", below.ScorePercentage)
	}
}

func TestScoreQuizNoQuestions(t *testing.T) {
	quiz := models.Quiz{ID: uuid.New(), MinScore: 70}
	_, err := ScoreQuiz(&quiz, map[uuid.UUID]uuid.UUID{})
	if !errors.Is(err, ErrQuizHasNoQuestions) {
		t.Fatalf("got %v, want ErrQuizHasNoQuestions", err)
	}
}

func TestScoreQuizUnansweredCountsWrong(t *testing.T) {
	db := openTestDB(t)
	manager := seedUser(t, db, "manager")
	_, steps := seedTraining(t, db, manager.ID, models.StepTypeQuiz)
	quiz := seedQuiz(t, db, steps[0].ID, 50, 4)

	// Answer only two of four, both correct.
	selected := map[uuid.UUID]uuid.UUID{
		quiz.Questions[0].ID: quiz.Questions[0].Answers[0].ID,
		quiz.Questions[1].ID: quiz.Questions[1].Answers[0].ID,
	}
	result, err := ScoreQuiz(&quiz, selected)
	if err != nil {
		t.Fatalf("ScoreQuiz returned error: %v", err)
	}
	if result.CorrectCount != 2 {
		t.Errorf("got %d correct, want 2", result.CorrectCount)
	}
	if result.ScorePercentage != 50 {
		t.Errorf("got score %v, want 50", result.ScorePercentage)
	}
}

func TestSubmitQuizPassCompletesStep(t *testing.T) {
	db := openTestDB(t)
	manager := seedUser(t, db, "manager")
	user := seedUser(t, db, "user")
	training, steps := seedTraining(t, db, manager.ID, models.StepTypeQuiz)
	quiz := seedQuiz(t, db, steps[0].ID, 70, 5)
	if err := AssignTraining(db, []uuid.UUID{user.ID}, training.ID, manager.ID); err != nil {
		t.Fatalf("AssignTraining returned error: %v", err)
	}

	result, err := SubmitQuiz(db, user.ID, steps[0].ID, correctAnswers(quiz, 5))
	if err != nil {
		t.Fatalf("SubmitQuiz returned error: %v", err)
	}
	if !result.Passed || result.StepStatus != models.StatusCompleted {
		t.Errorf("got passed=%v status=%s, want a Completed pass", result.Passed, result.StepStatus)
	}

	var rows []models.UserQuizAnswer
	if err := db.Where("user_id = ? AND quiz_id = ?", user.ID, quiz.ID).Find(&rows).Error; err != nil {
		t.Fatalf("failed to load answer rows: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("got %d answer rows, want one per question", len(rows))
	}
	for _, row := range rows {
		if row.Score != 100 {
			t.Errorf("answer row score %v, want the attempt score 100", row.Score)
		}
		if row.AnswerID == nil {
			t.Error("answered question stored with nil answer")
		}
	}

	// A passing attempt must leave the budget untouched.
	uts, err := GetStepStatus(db, user.ID, steps[0].ID)
	if err != nil {
		t.Fatalf("GetStepStatus returned error: %v", err)
	}
	if uts.AttemptsLeft == nil || *uts.AttemptsLeft != DefaultQuizAttempts {
		t.Errorf("got attempts %v, want %d", uts.AttemptsLeft, DefaultQuizAttempts)
	}
}

func TestSubmitQuizFailConsumesAttempt(t *testing.T) {
	db := openTestDB(t)
	manager := seedUser(t, db, "manager")
	user := seedUser(t, db, "user")
	training, steps := seedTraining(t, db, manager.ID, models.StepTypeQuiz)
	quiz := seedQuiz(t, db, steps[0].ID, 70, 5)
	if err := AssignTraining(db, []uuid.UUID{user.ID}, training.ID, manager.ID); err != nil {
		t.Fatalf("AssignTraining returned error: %v", err)
	}

	// Leave two questions unanswered, answer one wrong: 2/5 = 40.
	selected := map[uuid.UUID]uuid.UUID{
		quiz.Questions[0].ID: quiz.Questions[0].Answers[0].ID,
		quiz.Questions[1].ID: quiz.Questions[1].Answers[0].ID,
		quiz.Questions[2].ID: quiz.Questions[2].Answers[1].ID,
	}
	result, err := SubmitQuiz(db, user.ID, steps[0].ID, selected)
	if err != nil {
		t.Fatalf("SubmitQuiz returned error: %v", err)
	}
	if result.Passed || result.StepStatus != models.StatusFailed {
		t.Errorf("got passed=%v status=%s, want a Failed attempt", result.Passed, result.StepStatus)
	}
	if result.AttemptsLeft == nil || *result.AttemptsLeft != 2 {
		t.Errorf("got attempts %v, want 2 after the first failure", result.AttemptsLeft)
	}
	if result.TrainingFailed {
		t.Error("first failure must not fail the training")
	}

	var unanswered int64
	db.Model(&models.UserQuizAnswer{}).
		Where("user_id = ? AND quiz_id = ? AND answer_id IS NULL", user.ID, quiz.ID).
		Count(&unanswered)
	if unanswered != 2 {
		t.Errorf("got %d unanswered rows, want 2", unanswered)
	}
}

func TestSubmitQuizThirdFailureFailsTraining(t *testing.T) {
	db := openTestDB(t)
	manager := seedUser(t, db, "manager")
	user := seedUser(t, db, "user")
	training, steps := seedTraining(t, db, manager.ID, models.StepTypeQuiz)
	quiz := seedQuiz(t, db, steps[0].ID, 70, 5)
	if err := AssignTraining(db, []uuid.UUID{user.ID}, training.ID, manager.ID); err != nil {
		t.Fatalf("AssignTraining returned error: %v", err)
	}

	failing := correctAnswers(quiz, 0)
	for attempt := 1; attempt <= 3; attempt++ {
		result, err := SubmitQuiz(db, user.ID, steps[0].ID, failing)
		if err != nil {
			t.Fatalf("attempt %d returned error: %v", attempt, err)
		}
		wantLeft := DefaultQuizAttempts - attempt
		if result.AttemptsLeft == nil || *result.AttemptsLeft != wantLeft {
			t.Errorf("attempt %d: got attempts %v, want %d", attempt, result.AttemptsLeft, wantLeft)
		}
		if result.TrainingFailed != (attempt == 3) {
			t.Errorf("attempt %d: got trainingFailed=%v", attempt, result.TrainingFailed)
		}
	}

	status, err := GetTrainingStatus(db, user.ID, training.ID)
	if err != nil {
		t.Fatalf("GetTrainingStatus returned error: %v", err)
	}
	if status != models.StatusFailed {
		t.Errorf("got training status %s, want Failed", status)
	}

	if _, err := SubmitQuiz(db, user.ID, steps[0].ID, failing); !errors.Is(err, ErrNoAttemptsLeft) {
		t.Fatalf("fourth attempt: got %v, want ErrNoAttemptsLeft", err)
	}
}

func TestPreviousAnswersReturnsLatestSubmission(t *testing.T) {
	db := openTestDB(t)
	manager := seedUser(t, db, "manager")
	user := seedUser(t, db, "user")
	training, steps := seedTraining(t, db, manager.ID, models.StepTypeQuiz)
	quiz := seedQuiz(t, db, steps[0].ID, 70, 4)
	if err := AssignTraining(db, []uuid.UUID{user.ID}, training.ID, manager.ID); err != nil {
		t.Fatalf("AssignTraining returned error: %v", err)
	}

	if _, err := SubmitQuiz(db, user.ID, steps[0].ID, correctAnswers(quiz, 1)); err != nil {
		t.Fatalf("first submission returned error: %v", err)
	}
	if _, err := SubmitQuiz(db, user.ID, steps[0].ID, correctAnswers(quiz, 4)); err != nil {
		t.Fatalf("second submission returned error: %v", err)
	}

	rows, err := PreviousAnswers(db, user.ID, quiz.ID)
	if err != nil {
		t.Fatalf("PreviousAnswers returned error: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want the latest submission's 4", len(rows))
	}
	for _, row := range rows {
		if row.Score != 100 {
			t.Errorf("got score %v, want the latest attempt's 100", row.Score)
		}
	}
}

func TestPreviousAnswersEmptyWithoutSubmission(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "user")

	rows, err := PreviousAnswers(db, user.ID, uuid.New())
	if err != nil {
		t.Fatalf("PreviousAnswers returned error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want none", len(rows))
	}
}
