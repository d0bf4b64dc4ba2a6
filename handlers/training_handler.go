package handlers

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tottisilva/poc-documents-training/database"
	"github.com/tottisilva/poc-documents-training/models"
	"github.com/tottisilva/poc-documents-training/utils"
)

type TrainingRequest struct {
	Description string  `json:"description" validate:"required,min=2"`
	URL         *string `json:"url"`
}

func CreateTraining(c *fiber.Ctx) error {
	actorID, err := utils.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user token"})
	}

	var req TrainingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	training := models.Training{
		ID:          uuid.New(),
		Description: req.Description,
		URL:         req.URL,
		CreatedByID: actorID,
	}
	if err := database.DB.Create(&training).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create training"})
	}
	return c.Status(fiber.StatusCreated).JSON(training)
}

func GetTraining(c *fiber.Ctx) error {
	trainingID := c.Params("trainingId")
	var training models.Training
	err := database.DB.Preload("Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("training_steps.step_number asc")
	}).First(&training, "id = ?", trainingID).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Training not found"})
	}
	return c.JSON(training)
}

func UpdateTraining(c *fiber.Ctx) error {
	trainingID := c.Params("trainingId")
	var training models.Training
	if err := database.DB.First(&training, "id = ?", trainingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Training not found"})
	}

	var req TrainingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	training.Description = req.Description
	training.URL = req.URL
	database.DB.Save(&training)

	return c.JSON(training)
}

func DeleteTraining(c *fiber.Ctx) error {
	trainingID := c.Params("trainingId")

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("training_id = ?", trainingID).Delete(&models.TrainingStep{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Training{}, "id = ?", trainingID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Training not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete training"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ListTrainingsPaginated(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Training{})
	if search := c.Query("search"); search != "" {
		query = query.Where("description ILIKE ?", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var trainings []models.Training
	query.Order("created_at desc").Offset(offset).Limit(limit).Find(&trainings)

	return c.JSON(fiber.Map{
		"data": trainings,
		"meta": fiber.Map{
			"total":        total,
			"current_page": page,
			"total_pages":  int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

type TrainingStepRequest struct {
	Description string  `json:"description" validate:"required,min=2"`
	StepType    string  `json:"step_type" validate:"required,oneof=Quiz ReadAndUnderstand Video"`
	DocumentID  *string `json:"document_id"`
	URL         *string `json:"url"`
}

// AddTrainingStep appends a step with the next step number. Numbers are never
// reused after a delete, so sequences may have gaps.
func AddTrainingStep(c *fiber.Ctx) error {
	trainingID, err := uuid.Parse(c.Params("trainingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid training ID"})
	}

	var req TrainingStepRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var training models.Training
	if err := database.DB.First(&training, "id = ?", trainingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Training not found"})
	}

	var maxStep models.TrainingStep
	nextNumber := 1
	err = database.DB.Where("training_id = ?", trainingID).Order("step_number desc").First(&maxStep).Error
	if err == nil {
		nextNumber = maxStep.StepNumber + 1
	}

	step := models.TrainingStep{
		ID:          uuid.New(),
		TrainingID:  trainingID,
		StepNumber:  nextNumber,
		StepType:    req.StepType,
		Description: req.Description,
		URL:         req.URL,
	}
	if req.DocumentID != nil {
		documentID, err := uuid.Parse(*req.DocumentID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid document ID"})
		}
		step.DocumentID = &documentID
	}

	if err := database.DB.Create(&step).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create training step"})
	}
	return c.Status(fiber.StatusCreated).JSON(step)
}

func UpdateTrainingStep(c *fiber.Ctx) error {
	stepID := c.Params("stepId")
	var step models.TrainingStep
	if err := database.DB.First(&step, "id = ?", stepID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Training step not found"})
	}

	var req TrainingStepRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	step.Description = req.Description
	step.StepType = req.StepType
	step.URL = req.URL
	step.DocumentID = nil
	if req.DocumentID != nil {
		documentID, err := uuid.Parse(*req.DocumentID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid document ID"})
		}
		step.DocumentID = &documentID
	}
	database.DB.Save(&step)

	return c.JSON(step)
}

func DeleteTrainingStep(c *fiber.Ctx) error {
	stepID := c.Params("stepId")
	result := database.DB.Delete(&models.TrainingStep{}, "id = ?", stepID)

	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete training step"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Training step not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ListTrainingSteps(c *fiber.Ctx) error {
	trainingID := c.Params("trainingId")
	var steps []models.TrainingStep
	err := database.DB.Where("training_id = ?", trainingID).Order("step_number asc").Find(&steps).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch training steps"})
	}
	return c.JSON(steps)
}
