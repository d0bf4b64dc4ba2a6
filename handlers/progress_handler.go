package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tottisilva/poc-documents-training/database"
	"github.com/tottisilva/poc-documents-training/models"
	"github.com/tottisilva/poc-documents-training/services"
	"github.com/tottisilva/poc-documents-training/utils"
	"github.com/tottisilva/poc-documents-training/websocket"
)

type StepStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Completed Failed"`
}

// SetStepStatus marks a step for the acting user. Document and video steps
// complete through here; quiz steps go through SubmitQuiz instead.
func SetStepStatus(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user token"})
	}
	trainingStepID, err := uuid.Parse(c.Params("stepId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid training step ID"})
	}

	var req StepStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	uts, err := services.SetStepStatus(database.DB, userID, trainingStepID, models.Status(req.Status))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update step status"})
	}
	return c.JSON(uts)
}

func GetStepStatus(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user token"})
	}
	trainingStepID, err := uuid.Parse(c.Params("stepId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid training step ID"})
	}

	uts, err := services.GetStepStatus(database.DB, userID, trainingStepID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "UserTrainingStep not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch step status"})
	}
	return c.JSON(fiber.Map{"step_status": uts.StepStatus, "attempts_left": uts.AttemptsLeft})
}

type AttemptFailedRequest struct {
	TrainingID string `json:"training_id" validate:"required"`
}

// RecordFailedAttempt consumes one quiz attempt; exposed for callers that
// score quizzes client-side. SubmitQuiz does this server-side in the same
// transaction.
func RecordFailedAttempt(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user token"})
	}
	trainingStepID, err := uuid.Parse(c.Params("stepId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid training step ID"})
	}

	var req AttemptFailedRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	trainingID, err := uuid.Parse(req.TrainingID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid training ID"})
	}

	result, err := services.RecordFailedAttempt(database.DB, userID, trainingStepID, trainingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoAttemptsLeft):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No attempts left"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User training not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update attempts"})
		}
	}

	if result.TrainingFailed {
		websocket.Notify(&websocket.ProgressEvent{
			UserID:     userID,
			TrainingID: trainingID,
			NewStatus:  models.StatusFailed,
			Comment:    "Training Failed",
		})
	}
	return c.JSON(result)
}

func ValidateCompletedSteps(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user token"})
	}
	trainingID, err := uuid.Parse(c.Params("trainingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid training ID"})
	}

	allCompleted, err := services.AllStepsCompleted(database.DB, userID, trainingID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check completion status"})
	}
	return c.JSON(fiber.Map{"all_completed": allCompleted})
}

type CompleteTrainingRequest struct {
	Comment string `json:"comment" validate:"required"`
}

func CompleteTraining(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user token"})
	}
	trainingID, err := uuid.Parse(c.Params("trainingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid training ID"})
	}

	var req CompleteTrainingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ut, err := services.CompleteTraining(database.DB, userID, trainingID, req.Comment, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTrainingIncomplete):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Not all steps are completed"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User training not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to complete training"})
		}
	}

	websocket.Notify(&websocket.ProgressEvent{
		UserID:     userID,
		TrainingID: trainingID,
		NewStatus:  models.StatusCompleted,
		Comment:    req.Comment,
	})

	var user models.User
	var training models.Training
	if database.DB.First(&user, "id = ?", userID).Error == nil &&
		database.DB.First(&training, "id = ?", trainingID).Error == nil {
		go services.GenerateCompletionCertificate(database.DB, user, training)
	}

	return c.JSON(ut)
}

func GetTrainingStatus(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user token"})
	}
	trainingID, err := uuid.Parse(c.Params("trainingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid training ID"})
	}

	status, err := services.GetTrainingStatus(database.DB, userID, trainingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User training not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch training status"})
	}
	return c.JSON(fiber.Map{"status": status})
}

func ListUserTrainingSteps(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user token"})
	}
	trainingID, err := uuid.Parse(c.Params("trainingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid training ID"})
	}

	steps, err := services.ListUserSteps(database.DB, userID, trainingID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch user training steps"})
	}
	return c.JSON(steps)
}

// GetAuditLog is manager-facing: the audit trail for any (user, training)
// pair, most recent first.
func GetAuditLog(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	trainingID, err := uuid.Parse(c.Params("trainingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid training ID"})
	}

	entries, err := services.AuditTrail(database.DB, userID, trainingID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch audit log"})
	}
	return c.JSON(entries)
}

type AssignTrainingRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1"`
}

func AssignTraining(c *fiber.Ctx) error {
	actorID, err := utils.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user token"})
	}
	trainingID, err := uuid.Parse(c.Params("trainingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid training ID"})
	}

	var req AssignTrainingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	userIDs := make([]uuid.UUID, 0, len(req.UserIDs))
	for _, raw := range req.UserIDs {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
		}
		userIDs = append(userIDs, userID)
	}

	if err := services.AssignTraining(database.DB, userIDs, trainingID, actorID); err != nil {
		if errors.Is(err, services.ErrTrainingHasNoSteps) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No training steps found for the provided training"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to assign training"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Training assigned successfully"})
}

func UnassignTraining(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	trainingID, err := uuid.Parse(c.Params("trainingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid training ID"})
	}

	if err := services.UnassignTraining(database.DB, userID, trainingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User training not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to unassign training"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func notifyTrainingEvent(userID, trainingStepID uuid.UUID, result *services.SubmissionResult) {
	if !result.TrainingFailed {
		return
	}
	var step models.TrainingStep
	if err := database.DB.First(&step, "id = ?", trainingStepID).Error; err != nil {
		log.Printf("Failed to resolve training for step %s: %v", trainingStepID, err)
		return
	}
	websocket.Notify(&websocket.ProgressEvent{
		UserID:     userID,
		TrainingID: step.TrainingID,
		NewStatus:  models.StatusFailed,
		Comment:    "Training Failed",
	})
}
