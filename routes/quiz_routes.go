package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tottisilva/poc-documents-training/handlers"
	"github.com/tottisilva/poc-documents-training/middleware"
)

func QuizRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	steps := api.Group("/steps", middleware.Protected())
	steps.Get("/:stepId/quiz", handlers.GetQuizByStep)
	steps.Post("/:stepId/quiz/submit", handlers.SubmitQuiz)

	managed := api.Group("/steps", middleware.Protected(), middleware.ManagerRequired())
	managed.Post("/:stepId/quiz", handlers.CreateQuiz)
	managed.Put("/:stepId/quiz", handlers.UpdateQuiz)

	quizzes := api.Group("/quizzes", middleware.Protected())
	quizzes.Get("/:quizId/answers", handlers.GetUserQuizAnswers)
}
