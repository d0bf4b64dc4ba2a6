package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	config "github.com/tottisilva/poc-documents-training/configs"
	"github.com/tottisilva/poc-documents-training/database"
	"github.com/tottisilva/poc-documents-training/models"
	"github.com/tottisilva/poc-documents-training/utils"
)

type DocumentRequest struct {
	Title       string `json:"title" validate:"required,min=2"`
	Description string `json:"description"`
}

func CreateDocument(c *fiber.Ctx) error {
	actorID, err := utils.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user token"})
	}

	var req DocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	document := models.Document{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		CreatedByID: actorID,
	}
	if err := database.DB.Create(&document).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create document"})
	}
	return c.Status(fiber.StatusCreated).JSON(document)
}

func ListDocuments(c *fiber.Ctx) error {
	var documents []models.Document
	database.DB.Order("created_at desc").Find(&documents)
	return c.JSON(documents)
}

// UploadDocumentVersion stores the file in object storage and appends the
// next version record for the document.
func UploadDocumentVersion(c *fiber.Ctx) error {
	actorID, err := utils.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user token"})
	}
	documentID, err := uuid.Parse(c.Params("documentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid document ID"})
	}

	var document models.Document
	if err := database.DB.First(&document, "id = ?", documentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document not found"})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Document file is required."})
	}

	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to initialize storage"})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadResult, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       "training_documents",
		PublicID:     fmt.Sprintf("document_%s_%s", documentID, file.Filename),
		ResourceType: "raw",
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload file."})
	}

	var version models.DocumentVersion
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var latest models.DocumentVersion
		nextNumber := 1
		err := tx.Where("document_id = ?", documentID).Order("version_number desc").First(&latest).Error
		if err == nil {
			nextNumber = latest.VersionNumber + 1
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		version = models.DocumentVersion{
			ID:            uuid.New(),
			DocumentID:    documentID,
			VersionNumber: nextNumber,
			FileName:      file.Filename,
			FileURL:       uploadResult.SecureURL,
			UploadedByID:  actorID,
			UploadedAt:    time.Now(),
		}
		return tx.Create(&version).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store document version"})
	}

	return c.Status(fiber.StatusCreated).JSON(version)
}

func ListDocumentVersions(c *fiber.Ctx) error {
	documentID := c.Params("documentId")
	var versions []models.DocumentVersion
	err := database.DB.Where("document_id = ?", documentID).Order("version_number desc").Find(&versions).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch document versions"})
	}
	return c.JSON(versions)
}

func GetLatestDocumentVersion(c *fiber.Ctx) error {
	documentID := c.Params("documentId")
	var version models.DocumentVersion
	err := database.DB.Where("document_id = ?", documentID).Order("version_number desc").First(&version).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No versions found for document"})
	}
	return c.JSON(version)
}

// GenerateUploadSignature creates a secure signature for a frontend upload.
func GenerateUploadSignature(c *fiber.Ctx) error {
	cloudinaryURL := config.Config("CLOUDINARY_URL")
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to initialize Cloudinary"})
	}

	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to parse Cloudinary URL"})
	}
	secret, _ := parsedURL.User.Password()

	paramsToSign, err := api.StructToParams(uploader.UploadParams{
		Folder: "training_documents",
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to prepare signature params"})
	}

	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sign upload params"})
	}

	apiKey := cld.Config.Cloud.APIKey

	return c.JSON(fiber.Map{
		"signature": signature,
		"timestamp": timestamp,
		"api_key":   apiKey,
		"folder":    "training_documents",
	})
}
