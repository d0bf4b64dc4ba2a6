package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tottisilva/poc-documents-training/models"
)

// DefaultQuizAttempts is the attempts budget a quiz step starts with.
const DefaultQuizAttempts = 3

const (
	commentTrainingCreated = "Training Created"
	commentTrainingFailed  = "Training Failed"
)

type AttemptResult struct {
	AttemptsLeft   int  `json:"attempts_left"`
	TrainingFailed bool `json:"training_failed"`
}

// RecordFailedAttempt consumes one quiz attempt for (userID, trainingStepID).
// A missing row is created with the default budget first. When the decrement
// reaches zero the owning UserTraining is marked Failed and audited, all in
// the same transaction. Calling with zero attempts already remaining returns
// ErrNoAttemptsLeft.
func RecordFailedAttempt(db *gorm.DB, userID, trainingStepID, trainingID, actorID uuid.UUID) (*AttemptResult, error) {
	var result *AttemptResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = recordFailedAttemptTx(tx, userID, trainingStepID, trainingID, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func recordFailedAttemptTx(tx *gorm.DB, userID, trainingStepID, trainingID, actorID uuid.UUID) (*AttemptResult, error) {
	var uts models.UserTrainingStep
	err := tx.Where("user_id = ? AND training_step_id = ?", userID, trainingStepID).First(&uts).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		budget := DefaultQuizAttempts
		uts = models.UserTrainingStep{
			ID:             uuid.New(),
			UserID:         userID,
			TrainingStepID: trainingStepID,
			StepStatus:     models.StatusPending,
			AttemptsLeft:   &budget,
		}
		if err := tx.Create(&uts).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if uts.AttemptsLeft == nil {
		budget := DefaultQuizAttempts
		uts.AttemptsLeft = &budget
	}
	if *uts.AttemptsLeft <= 0 {
		return nil, ErrNoAttemptsLeft
	}
	remaining := *uts.AttemptsLeft - 1
	uts.AttemptsLeft = &remaining
	if err := tx.Save(&uts).Error; err != nil {
		return nil, err
	}

	result := &AttemptResult{AttemptsLeft: remaining}
	if remaining == 0 {
		if err := setTrainingStatusTx(tx, userID, trainingID, models.StatusFailed, commentTrainingFailed, actorID); err != nil {
			return nil, err
		}
		result.TrainingFailed = true
	}
	return result, nil
}

// SetStepStatus is an idempotent upsert: a missing (userID, trainingStepID)
// row is created with the given status, an existing one is overwritten. No
// transition is forbidden here; callers only move statuses forward.
func SetStepStatus(db *gorm.DB, userID, trainingStepID uuid.UUID, status models.Status) (*models.UserTrainingStep, error) {
	var uts *models.UserTrainingStep
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		uts, err = setStepStatusTx(tx, userID, trainingStepID, status)
		return err
	})
	if err != nil {
		return nil, err
	}
	return uts, nil
}

func setStepStatusTx(tx *gorm.DB, userID, trainingStepID uuid.UUID, status models.Status) (*models.UserTrainingStep, error) {
	var uts models.UserTrainingStep
	err := tx.Where("user_id = ? AND training_step_id = ?", userID, trainingStepID).First(&uts).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		uts = models.UserTrainingStep{
			ID:             uuid.New(),
			UserID:         userID,
			TrainingStepID: trainingStepID,
			StepStatus:     status,
		}
		if err := tx.Create(&uts).Error; err != nil {
			return nil, err
		}
		return &uts, nil
	}
	if err != nil {
		return nil, err
	}

	uts.StepStatus = status
	if err := tx.Save(&uts).Error; err != nil {
		return nil, err
	}
	return &uts, nil
}

func GetStepStatus(db *gorm.DB, userID, trainingStepID uuid.UUID) (*models.UserTrainingStep, error) {
	var uts models.UserTrainingStep
	err := db.Where("user_id = ? AND training_step_id = ?", userID, trainingStepID).First(&uts).Error
	if err != nil {
		return nil, err
	}
	return &uts, nil
}

// ListUserSteps returns the user's step rows for a training, ordered by step
// number.
func ListUserSteps(db *gorm.DB, userID, trainingID uuid.UUID) ([]models.UserTrainingStep, error) {
	var steps []models.UserTrainingStep
	err := db.Joins("JOIN training_steps ON training_steps.id = user_training_steps.training_step_id").
		Where("training_steps.training_id = ? AND user_training_steps.user_id = ?", trainingID, userID).
		Order("training_steps.step_number asc").
		Find(&steps).Error
	if err != nil {
		return nil, err
	}
	return steps, nil
}

// AllStepsCompleted reports whether every step row the user has for the
// training is Completed. A user with no rows at all gets false; an empty set
// must not count as done.
func AllStepsCompleted(db *gorm.DB, userID, trainingID uuid.UUID) (bool, error) {
	steps, err := ListUserSteps(db, userID, trainingID)
	if err != nil {
		return false, err
	}
	if len(steps) == 0 {
		return false, nil
	}
	for _, step := range steps {
		if step.StepStatus != models.StatusCompleted {
			return false, nil
		}
	}
	return true, nil
}

// CompleteTraining marks the user's training Completed and appends the audit
// entry, in one transaction. It is the only path to Completed and requires
// every step to be Completed first.
func CompleteTraining(db *gorm.DB, userID, trainingID uuid.UUID, comment string, actorID uuid.UUID) (*models.UserTraining, error) {
	var ut *models.UserTraining
	err := db.Transaction(func(tx *gorm.DB) error {
		done, err := AllStepsCompleted(tx, userID, trainingID)
		if err != nil {
			return err
		}
		if !done {
			return ErrTrainingIncomplete
		}
		if err := setTrainingStatusTx(tx, userID, trainingID, models.StatusCompleted, comment, actorID); err != nil {
			return err
		}
		var row models.UserTraining
		if err := tx.Where("user_id = ? AND training_id = ?", userID, trainingID).First(&row).Error; err != nil {
			return err
		}
		ut = &row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ut, nil
}

// setTrainingStatusTx updates the UserTraining row and appends the matching
// audit entry. The two writes share the caller's transaction so a failed
// audit insert rolls the status change back.
func setTrainingStatusTx(tx *gorm.DB, userID, trainingID uuid.UUID, status models.Status, comment string, actorID uuid.UUID) error {
	var ut models.UserTraining
	if err := tx.Where("user_id = ? AND training_id = ?", userID, trainingID).First(&ut).Error; err != nil {
		return err
	}
	ut.Status = status
	if err := tx.Save(&ut).Error; err != nil {
		return err
	}
	return appendAuditTx(tx, userID, trainingID, comment, status, actorID)
}

func appendAuditTx(tx *gorm.DB, userID, trainingID uuid.UUID, comment string, newStatus models.Status, createdBy uuid.UUID) error {
	entry := models.UserTrainingAuditLog{
		ID:         uuid.New(),
		UserID:     userID,
		TrainingID: trainingID,
		Comment:    comment,
		NewStatus:  newStatus,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now(),
	}
	return tx.Create(&entry).Error
}

func GetTrainingStatus(db *gorm.DB, userID, trainingID uuid.UUID) (models.Status, error) {
	var ut models.UserTraining
	err := db.Where("user_id = ? AND training_id = ?", userID, trainingID).First(&ut).Error
	if err != nil {
		return "", err
	}
	return ut.Status, nil
}

// AuditTrail returns the training-level audit entries for the pair, most
// recent first.
func AuditTrail(db *gorm.DB, userID, trainingID uuid.UUID) ([]models.UserTrainingAuditLog, error) {
	var entries []models.UserTrainingAuditLog
	err := db.Where("user_id = ? AND training_id = ?", userID, trainingID).
		Order("created_at desc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// AssignTraining enrolls each user: a Pending UserTraining, one Pending
// UserTrainingStep per training step (quiz steps get the attempts budget),
// and a "Training Created" audit entry, one transaction per user. Users
// already enrolled are skipped.
func AssignTraining(db *gorm.DB, userIDs []uuid.UUID, trainingID, createdBy uuid.UUID) error {
	var steps []models.TrainingStep
	if err := db.Where("training_id = ?", trainingID).Order("step_number asc").Find(&steps).Error; err != nil {
		return err
	}
	if len(steps) == 0 {
		return ErrTrainingHasNoSteps
	}

	for _, userID := range userIDs {
		var existing models.UserTraining
		err := db.Where("user_id = ? AND training_id = ?", userID, trainingID).First(&existing).Error
		if err == nil {
			log.Printf("User %s already assigned to training %s, skipping", userID, trainingID)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			ut := models.UserTraining{
				ID:         uuid.New(),
				UserID:     userID,
				TrainingID: trainingID,
				Status:     models.StatusPending,
				CreatedBy:  createdBy,
			}
			if err := tx.Create(&ut).Error; err != nil {
				return err
			}

			for _, step := range steps {
				uts := models.UserTrainingStep{
					ID:             uuid.New(),
					UserID:         userID,
					TrainingStepID: step.ID,
					StepStatus:     models.StatusPending,
				}
				if step.StepType == models.StepTypeQuiz {
					budget := DefaultQuizAttempts
					uts.AttemptsLeft = &budget
				}
				if err := tx.Create(&uts).Error; err != nil {
					return err
				}
			}

			return appendAuditTx(tx, userID, trainingID, commentTrainingCreated, models.StatusPending, createdBy)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// UnassignTraining removes the enrollment and its step rows. Audit history is
// kept.
func UnassignTraining(db *gorm.DB, userID, trainingID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var ut models.UserTraining
		if err := tx.Where("user_id = ? AND training_id = ?", userID, trainingID).First(&ut).Error; err != nil {
			return err
		}
		err := tx.Where("user_id = ? AND training_step_id IN (?)", userID,
			tx.Model(&models.TrainingStep{}).Select("id").Where("training_id = ?", trainingID),
		).Delete(&models.UserTrainingStep{}).Error
		if err != nil {
			return err
		}
		return tx.Delete(&ut).Error
	})
}
