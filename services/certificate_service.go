package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"gorm.io/gorm"

	config "github.com/tottisilva/poc-documents-training/configs"
	"github.com/tottisilva/poc-documents-training/models"
)

const certificateTemplate = `<!DOCTYPE html>
<html>
<head><style>
body { font-family: Georgia, serif; text-align: center; padding: 80px; }
h1 { font-size: 42px; margin-bottom: 40px; }
.name { font-size: 32px; font-weight: bold; margin: 30px 0; }
.training { font-size: 24px; margin: 20px 0; }
.date { margin-top: 60px; color: #555; }
</style></head>
<body>
<h1>Certificate of Completion</h1>
<p>This certifies that</p>
<div class="name">{{.UserName}}</div>
<p>has successfully completed the training</p>
<div class="training">{{.TrainingTitle}}</div>
<div class="date">{{.CompletionDate}}</div>
</body>
</html>`

// GenerateCompletionCertificate renders a certificate PDF for a completed
// training, uploads it and stores the record. Best effort: failures are
// logged, never surfaced to the completion flow.
func GenerateCompletionCertificate(db *gorm.DB, user models.User, training models.Training) {
	var existing models.Certificate
	if err := db.Where("user_id = ? AND training_id = ?", user.ID, training.ID).First(&existing).Error; err == nil {
		return
	}

	htmlData, err := renderCertificateHTML(user.FullName, training.Description)
	if err != nil {
		log.Printf("🔥 Failed to render certificate HTML: %v", err)
		return
	}

	pdfBytes, err := printPDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to print certificate PDF: %v", err)
		return
	}

	uploadURL, err := uploadCertificate(pdfBytes, user.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload certificate: %v", err)
		return
	}

	certificate := models.Certificate{
		ID:             uuid.New(),
		UserID:         user.ID,
		TrainingID:     training.ID,
		Title:          training.Description,
		CompletionDate: time.Now(),
		CertificateURL: uploadURL,
	}

	if err := db.Create(&certificate).Error; err != nil {
		log.Printf("🔥 Failed to store certificate record for user %s: %v", user.ID, err)
	} else {
		log.Printf("✅ Generated certificate '%s' for user %s.", training.Description, user.ID)
	}
}

func renderCertificateHTML(userName, trainingTitle string) (string, error) {
	tmpl, err := template.New("certificate").Parse(certificateTemplate)
	if err != nil {
		return "", err
	}

	data := struct {
		UserName       string
		TrainingTitle  string
		CompletionDate string
	}{
		UserName:       userName,
		TrainingTitle:  trainingTitle,
		CompletionDate: time.Now().Format("January 2, 2006"),
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func printPDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadCertificate(fileBytes []byte, userID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("certificates/%s_%s", userID, uuid.New().String()),
		Folder:       "training_certificates",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
