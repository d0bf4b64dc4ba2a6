package handlers

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tottisilva/poc-documents-training/database"
	"github.com/tottisilva/poc-documents-training/models"
)

func ListUsersPaginated(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	query := database.DB.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var totalUsers int64
	query.Count(&totalUsers)

	var users []models.User
	query.Preload("FunctionalArea").Preload("GroupName").
		Order("created_at desc").Offset(offset).Limit(limit).Find(&users)

	return c.JSON(fiber.Map{
		"data": users,
		"meta": fiber.Map{
			"total":        totalUsers,
			"current_page": page,
			"total_pages":  int(math.Ceil(float64(totalUsers) / float64(limit))),
		},
	})
}

// ListUsersWithoutTraining returns users with no enrollment for the given
// training, for the assignment screen.
func ListUsersWithoutTraining(c *fiber.Ctx) error {
	trainingID := c.Params("trainingId")

	var users []models.User
	err := database.DB.
		Where("id NOT IN (?)",
			database.DB.Model(&models.UserTraining{}).Select("user_id").Where("training_id = ?", trainingID),
		).
		Find(&users).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch users"})
	}
	return c.JSON(users)
}

func GetUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	var user models.User
	if err := database.DB.Preload("FunctionalArea").Preload("GroupName").First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(user)
}
