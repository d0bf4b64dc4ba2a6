package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tottisilva/poc-documents-training/handlers"
	"github.com/tottisilva/poc-documents-training/middleware"
)

func DocumentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	documents := api.Group("/documents", middleware.Protected())
	documents.Get("", handlers.ListDocuments)
	documents.Get("/:documentId/versions", handlers.ListDocumentVersions)
	documents.Get("/:documentId/versions/latest", handlers.GetLatestDocumentVersion)

	managed := api.Group("/documents", middleware.Protected(), middleware.ManagerRequired())
	managed.Post("", handlers.CreateDocument)
	managed.Post("/:documentId/versions", handlers.UploadDocumentVersion)
	managed.Get("/upload-signature", handlers.GenerateUploadSignature)
}
