package jobs

import (
	"fmt"
	"log"

	"github.com/tottisilva/poc-documents-training/database"
	"github.com/tottisilva/poc-documents-training/models"
	"github.com/tottisilva/poc-documents-training/notifications"
)

// SendPendingTrainingReminders emails every user who still has a Pending
// training assignment.
func SendPendingTrainingReminders() {
	log.Println("Running job: SendPendingTrainingReminders...")

	var pendingTrainings []models.UserTraining

	err := database.DB.
		Preload("User").
		Preload("Training").
		Where("status = ?", models.StatusPending).
		Find(&pendingTrainings).Error

	if err != nil {
		log.Printf("Error checking for pending trainings: %v", err)
		return
	}

	if len(pendingTrainings) == 0 {
		return
	}

	for _, ut := range pendingTrainings {
		emailSubject := "Reminder: You Have a Pending Training"
		emailBody := fmt.Sprintf(
			"<h1>Training Reminder</h1><p>Hi %s,</p><p>The training <b>%s</b> assigned to you is still pending. Please log in and complete it.</p>",
			ut.User.FullName,
			ut.Training.Description,
		)

		go notifications.SendEmail(ut.User.FullName, ut.User.Email, emailSubject, emailBody)
	}
}
