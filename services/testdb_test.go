package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/tottisilva/poc-documents-training/models"
)

// openTestDB gives each test its own in-memory database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	// The in-memory database exists per connection; keep the pool at one.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.FunctionalArea{},
		&models.GroupName{},
		&models.TrainingType{},
		&models.Document{},
		&models.DocumentVersion{},
		&models.Training{},
		&models.TrainingStep{},
		&models.Quiz{},
		&models.Question{},
		&models.Answer{},
		&models.UserTraining{},
		&models.UserTrainingStep{},
		&models.UserQuizAnswer{},
		&models.UserTrainingAuditLog{},
		&models.Certificate{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()
	user := models.User{
		ID:       uuid.New(),
		FullName: "Test User",
		Email:    fmt.Sprintf("%s@example.com", uuid.New()),
		Password: "hashed",
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

// seedTraining creates a training with one step per given step type, numbered
// from 1.
func seedTraining(t *testing.T, db *gorm.DB, createdBy uuid.UUID, stepTypes ...string) (models.Training, []models.TrainingStep) {
	t.Helper()
	training := models.Training{
		ID:          uuid.New(),
		Description: "Safety procedures",
		CreatedByID: createdBy,
	}
	if err := db.Create(&training).Error; err != nil {
		t.Fatalf("failed to seed training: %v", err)
	}

	steps := make([]models.TrainingStep, 0, len(stepTypes))
	for i, stepType := range stepTypes {
		step := models.TrainingStep{
			ID:          uuid.New(),
			TrainingID:  training.ID,
			StepNumber:  i + 1,
			StepType:    stepType,
			Description: fmt.Sprintf("Step %d", i+1),
		}
		if err := db.Create(&step).Error; err != nil {
			t.Fatalf("failed to seed training step: %v", err)
		}
		steps = append(steps, step)
	}
	return training, steps
}

// seedQuiz attaches a quiz to the step. Each question gets three answers with
// the first one correct.
func seedQuiz(t *testing.T, db *gorm.DB, trainingStepID uuid.UUID, minScore float64, questionCount int) models.Quiz {
	t.Helper()
	quiz := models.Quiz{
		ID:             uuid.New(),
		TrainingStepID: trainingStepID,
		Title:          "Knowledge check",
		MinScore:       minScore,
	}
	for i := 0; i < questionCount; i++ {
		question := models.Question{
			ID:     uuid.New(),
			QuizID: quiz.ID,
			Text:   fmt.Sprintf("Question %d", i+1),
		}
		for j := 0; j < 3; j++ {
			question.Answers = append(question.Answers, models.Answer{
				ID:         uuid.New(),
				QuestionID: question.ID,
				Text:       fmt.Sprintf("Answer %d", j+1),
				IsCorrect:  j == 0,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	if err := db.Create(&quiz).Error; err != nil {
		t.Fatalf("failed to seed quiz: %v", err)
	}
	return quiz
}

// correctAnswers builds a submission choosing the correct answer for the
// first n questions and a wrong one for the rest.
func correctAnswers(quiz models.Quiz, n int) map[uuid.UUID]uuid.UUID {
	selected := make(map[uuid.UUID]uuid.UUID, len(quiz.Questions))
	for i, question := range quiz.Questions {
		if i < n {
			selected[question.ID] = question.Answers[0].ID
		} else {
			selected[question.ID] = question.Answers[1].ID
		}
	}
	return selected
}
