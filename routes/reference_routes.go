package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tottisilva/poc-documents-training/handlers"
	"github.com/tottisilva/poc-documents-training/middleware"
)

func ReferenceRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	reference := api.Group("/reference", middleware.Protected())
	reference.Get("/training-types", handlers.ListTrainingTypes)
	reference.Get("/functional-areas", handlers.ListFunctionalAreas)
	reference.Get("/group-names", handlers.ListGroupNames)

	managed := api.Group("/reference", middleware.Protected(), middleware.ManagerRequired())
	managed.Post("/training-types", handlers.CreateTrainingType)
	managed.Post("/functional-areas", handlers.CreateFunctionalArea)
	managed.Post("/group-names", handlers.CreateGroupName)
}
