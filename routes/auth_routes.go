package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tottisilva/poc-documents-training/handlers"
	"github.com/tottisilva/poc-documents-training/middleware"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.RegisterUser)
	auth.Post("/login", handlers.LoginUser)

	users := api.Group("/users", middleware.Protected(), middleware.ManagerRequired())
	users.Get("", handlers.ListUsersPaginated)
	users.Get("/without-training/:trainingId", handlers.ListUsersWithoutTraining)
	users.Get("/:userId", handlers.GetUser)
}
