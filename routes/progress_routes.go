package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/tottisilva/poc-documents-training/handlers"
	"github.com/tottisilva/poc-documents-training/middleware"
)

func ProgressRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	progress := api.Group("/progress", middleware.Protected())
	progress.Put("/steps/:stepId/status", handlers.SetStepStatus)
	progress.Get("/steps/:stepId/status", handlers.GetStepStatus)
	progress.Post("/steps/:stepId/attempt-failed", handlers.RecordFailedAttempt)
	progress.Get("/trainings/:trainingId/validate", handlers.ValidateCompletedSteps)
	progress.Post("/trainings/:trainingId/complete", handlers.CompleteTraining)
	progress.Get("/trainings/:trainingId/status", handlers.GetTrainingStatus)
	progress.Get("/trainings/:trainingId/steps", handlers.ListUserTrainingSteps)

	managed := api.Group("/progress", middleware.Protected(), middleware.ManagerRequired())
	managed.Get("/users/:userId/trainings/:trainingId/audit", handlers.GetAuditLog)
	managed.Post("/trainings/:trainingId/assign", handlers.AssignTraining)
	managed.Delete("/users/:userId/trainings/:trainingId", handlers.UnassignTraining)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(handlers.ServeWs))
}
