package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tottisilva/poc-documents-training/database"
	"github.com/tottisilva/poc-documents-training/models"
	"github.com/tottisilva/poc-documents-training/services"
	"github.com/tottisilva/poc-documents-training/utils"
)

type AnswerRequest struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionRequest struct {
	Text    string          `json:"text" validate:"required"`
	Answers []AnswerRequest `json:"answers" validate:"required,min=2,max=5,dive"`
}

type QuizRequest struct {
	Title     string            `json:"title" validate:"required"`
	MinScore  float64           `json:"min_score" validate:"required,gte=0,lte=100"`
	Questions []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// Each question carries exactly one correct answer; the scorer depends on it.
func validateQuestions(questions []QuestionRequest) error {
	for _, q := range questions {
		correct := 0
		for _, a := range q.Answers {
			if a.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return errors.New("each question must have exactly one correct answer")
		}
	}
	return nil
}

func buildQuestions(quizID uuid.UUID, questions []QuestionRequest) []models.Question {
	rows := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		question := models.Question{
			ID:     uuid.New(),
			QuizID: quizID,
			Text:   q.Text,
		}
		for _, a := range q.Answers {
			question.Answers = append(question.Answers, models.Answer{
				ID:         uuid.New(),
				QuestionID: question.ID,
				Text:       a.Text,
				IsCorrect:  a.IsCorrect,
			})
		}
		rows = append(rows, question)
	}
	return rows
}

func CreateQuiz(c *fiber.Ctx) error {
	trainingStepID, err := uuid.Parse(c.Params("stepId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid training step ID"})
	}

	var req QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validateQuestions(req.Questions); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var step models.TrainingStep
	if err := database.DB.First(&step, "id = ?", trainingStepID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Training step not found"})
	}

	var existing models.Quiz
	if err := database.DB.First(&existing, "training_step_id = ?", trainingStepID).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Quiz already exists"})
	}

	quiz := models.Quiz{
		ID:             uuid.New(),
		TrainingStepID: trainingStepID,
		Title:          req.Title,
		MinScore:       req.MinScore,
	}
	quiz.Questions = buildQuestions(quiz.ID, req.Questions)

	if err := database.DB.Create(&quiz).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create quiz"})
	}
	return c.Status(fiber.StatusCreated).JSON(quiz)
}

// UpdateQuiz replaces the quiz's questions wholesale.
func UpdateQuiz(c *fiber.Ctx) error {
	trainingStepID := c.Params("stepId")

	var req QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validateQuestions(req.Questions); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var quiz models.Quiz
	if err := database.DB.First(&quiz, "training_step_id = ?", trainingStepID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("question_id IN (?)",
			tx.Model(&models.Question{}).Select("id").Where("quiz_id = ?", quiz.ID),
		).Delete(&models.Answer{}).Error
		if err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}

		quiz.Title = req.Title
		quiz.MinScore = req.MinScore
		quiz.Questions = buildQuestions(quiz.ID, req.Questions)
		return tx.Save(&quiz).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update quiz"})
	}
	return c.JSON(quiz)
}

func GetQuizByStep(c *fiber.Ctx) error {
	trainingStepID := c.Params("stepId")
	var quiz models.Quiz
	err := database.DB.Preload("Questions.Answers").First(&quiz, "training_step_id = ?", trainingStepID).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}
	return c.JSON(quiz)
}

type SubmitQuizRequest struct {
	Answers []struct {
		QuestionID string  `json:"question_id" validate:"required"`
		AnswerID   *string `json:"answer_id"`
	} `json:"answers" validate:"required,min=1,dive"`
}

func SubmitQuiz(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user token"})
	}
	trainingStepID, err := uuid.Parse(c.Params("stepId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid training step ID"})
	}

	var req SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	selected := make(map[uuid.UUID]uuid.UUID, len(req.Answers))
	for _, answer := range req.Answers {
		questionID, err := uuid.Parse(answer.QuestionID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid question ID"})
		}
		if answer.AnswerID == nil {
			continue
		}
		answerID, err := uuid.Parse(*answer.AnswerID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid answer ID"})
		}
		selected[questionID] = answerID
	}

	result, err := services.SubmitQuiz(database.DB, userID, trainingStepID, selected)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found for training step"})
		case errors.Is(err, services.ErrQuizHasNoQuestions):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Quiz has no questions"})
		case errors.Is(err, services.ErrNoAttemptsLeft):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No attempts left"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit quiz"})
		}
	}

	notifyTrainingEvent(userID, trainingStepID, result)
	return c.JSON(result)
}

func GetUserQuizAnswers(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user token"})
	}
	quizID, err := uuid.Parse(c.Params("quizId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid quiz ID"})
	}

	answers, err := services.PreviousAnswers(database.DB, userID, quizID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch quiz answers"})
	}
	return c.JSON(fiber.Map{"user_quiz_answers": answers})
}
