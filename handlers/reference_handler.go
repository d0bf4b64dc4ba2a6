package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tottisilva/poc-documents-training/database"
	"github.com/tottisilva/poc-documents-training/models"
)

type ReferenceRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

func ListTrainingTypes(c *fiber.Ctx) error {
	var types []models.TrainingType
	database.DB.Order("name asc").Find(&types)
	return c.JSON(types)
}

func CreateTrainingType(c *fiber.Ctx) error {
	var req ReferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	trainingType := models.TrainingType{ID: uuid.New(), Name: req.Name}
	if err := database.DB.Create(&trainingType).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Training type already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create training type"})
	}
	return c.Status(fiber.StatusCreated).JSON(trainingType)
}

func ListFunctionalAreas(c *fiber.Ctx) error {
	var areas []models.FunctionalArea
	database.DB.Order("name asc").Find(&areas)
	return c.JSON(areas)
}

func CreateFunctionalArea(c *fiber.Ctx) error {
	var req ReferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	area := models.FunctionalArea{ID: uuid.New(), Name: req.Name}
	if err := database.DB.Create(&area).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Functional area already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create functional area"})
	}
	return c.Status(fiber.StatusCreated).JSON(area)
}

func ListGroupNames(c *fiber.Ctx) error {
	var groups []models.GroupName
	database.DB.Order("name asc").Find(&groups)
	return c.JSON(groups)
}

func CreateGroupName(c *fiber.Ctx) error {
	var req ReferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	group := models.GroupName{ID: uuid.New(), Name: req.Name}
	if err := database.DB.Create(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Group name already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create group name"})
	}
	return c.Status(fiber.StatusCreated).JSON(group)
}
