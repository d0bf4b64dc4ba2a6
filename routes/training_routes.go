package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tottisilva/poc-documents-training/handlers"
	"github.com/tottisilva/poc-documents-training/middleware"
)

func TrainingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	trainings := api.Group("/trainings", middleware.Protected())
	trainings.Get("", handlers.ListTrainingsPaginated)
	trainings.Get("/:trainingId", handlers.GetTraining)
	trainings.Get("/:trainingId/steps", handlers.ListTrainingSteps)

	managed := api.Group("/trainings", middleware.Protected(), middleware.ManagerRequired())
	managed.Post("", handlers.CreateTraining)
	managed.Put("/:trainingId", handlers.UpdateTraining)
	managed.Delete("/:trainingId", handlers.DeleteTraining)
	managed.Post("/:trainingId/steps", handlers.AddTrainingStep)

	steps := api.Group("/steps", middleware.Protected(), middleware.ManagerRequired())
	steps.Put("/:stepId", handlers.UpdateTrainingStep)
	steps.Delete("/:stepId", handlers.DeleteTrainingStep)
}
