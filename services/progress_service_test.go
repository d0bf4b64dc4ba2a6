package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tottisilva/poc-documents-training/models"
)

func assignOne(t *testing.T, db *gorm.DB, userID, trainingID, managerID uuid.UUID) {
	t.Helper()
	if err := AssignTraining(db, []uuid.UUID{userID}, trainingID, managerID); err != nil {
		t.Fatalf("AssignTraining returned error: %v", err)
	}
}

func TestAssignTrainingCreatesEnrollment(t *testing.T) {
	db := openTestDB(t)
	manager := seedUser(t, db, "manager")
	user := seedUser(t, db, "user")
	training, steps := seedTraining(t, db, manager.ID, models.StepTypeQuiz, models.StepTypeReadAndUnderstand)

	assignOne(t, db, user.ID, training.ID, manager.ID)

	status, err := GetTrainingStatus(db, user.ID, training.ID)
	if err != nil {
		t.Fatalf("GetTrainingStatus returned error: %v", err)
	}
	if status != models.StatusPending {
		t.Errorf("got status %s, want Pending", status)
	}

	userSteps, err := ListUserSteps(db, user.ID, training.ID)
	if err != nil {
		t.Fatalf("ListUserSteps returned error: %v", err)
	}
	if len(userSteps) != 2 {
		t.Fatalf("got %d step rows, want 2", len(userSteps))
	}
	for _, uts := range userSteps {
		if uts.StepStatus != models.StatusPending {
			t.Errorf("step %s starts as %s, want Pending", uts.TrainingStepID, uts.StepStatus)
		}
	}

	// Only the quiz step carries an attempts budget.
	quizRow, err := GetStepStatus(db, user.ID, steps[0].ID)
	if err != nil {
		t.Fatalf("GetStepStatus returned error: %v", err)
	}
	if quizRow.AttemptsLeft == nil || *quizRow.AttemptsLeft != DefaultQuizAttempts {
		t.Errorf("quiz step attempts %v, want %d", quizRow.AttemptsLeft, DefaultQuizAttempts)
	}
	readRow, err := GetStepStatus(db, user.ID, steps[1].ID)
	if err != nil {
		t.Fatalf("GetStepStatus returned error: %v", err)
	}
	if readRow.AttemptsLeft != nil {
		t.Errorf("document step attempts %v, want nil", *readRow.AttemptsLeft)
	}

	entries, err := AuditTrail(db, user.ID, training.ID)
	if err != nil {
		t.Fatalf("AuditTrail returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Comment != "Training Created" {
		t.Errorf("got audit %+v, want a single Training Created entry", entries)
	}
}

func TestAssignTrainingSkipsExistingEnrollment(t *testing.T) {
	db := openTestDB(t)
	manager := seedUser(t, db, "manager")
	user := seedUser(t, db, "user")
	training, _ := seedTraining(t, db, manager.ID, models.StepTypeVideo)

	assignOne(t, db, user.ID, training.ID, manager.ID)
	assignOne(t, db, user.ID, training.ID, manager.ID)

	var count int64
	db.Model(&models.UserTraining{}).
		Where("user_id = ? AND training_id = ?", user.ID, training.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("got %d enrollments, want 1", count)
	}

	entries, _ := AuditTrail(db, user.ID, training.ID)
	if len(entries) != 1 {
		t.Errorf("got %d audit entries, want the original one only", len(entries))
	}
}

func TestAssignTrainingWithoutSteps(t *testing.T) {
	db := openTestDB(t)
	manager := seedUser(t, db, "manager")
	user := seedUser(t, db, "user")
	training, _ := seedTraining(t, db, manager.ID)

	err := AssignTraining(db, []uuid.UUID{user.ID}, training.ID, manager.ID)
	if !errors.Is(err, ErrTrainingHasNoSteps) {
		t.Fatalf("got %v, want ErrTrainingHasNoSteps", err)
	}
}

func TestRecordFailedAttemptSequence(t *testing.T) {
	db := openTestDB(t)
	manager := seedUser(t, db, "manager")
	user := seedUser(t, db, "user")
	training, steps := seedTraining(t, db, manager.ID, models.StepTypeQuiz)
	assignOne(t, db, user.ID, training.ID, manager.ID)

	for attempt := 1; attempt <= 3; attempt++ {
		result, err := RecordFailedAttempt(db, user.ID, steps[0].ID, training.ID, user.ID)
		if err != nil {
			t.Fatalf("attempt %d returned error: %v", attempt, err)
		}
		wantLeft := DefaultQuizAttempts - attempt
		if result.AttemptsLeft != wantLeft {
			t.Errorf("attempt %d: got %d attempts left, want %d", attempt, result.AttemptsLeft, wantLeft)
		}
		if result.TrainingFailed != (attempt == 3) {
			t.Errorf("attempt %d: got trainingFailed=%v", attempt, result.TrainingFailed)
		}
	}

	status, err := GetTrainingStatus(db, user.ID, training.ID)
	if err != nil {
		t.Fatalf("GetTrainingStatus returned error: %v", err)
	}
	if status != models.StatusFailed {
		t.Errorf("got training status %s, want Failed", status)
	}

	entries, _ := AuditTrail(db, user.ID, training.ID)
	if len(entries) != 2 {
		t.Fatalf("got %d audit entries, want 2", len(entries))
	}
	if entries[0].Comment != "Training Failed" || entries[0].NewStatus != models.StatusFailed {
		t.Errorf("latest entry %+v, want the Training Failed record", entries[0])
	}

	_, err = RecordFailedAttempt(db, user.ID, steps[0].ID, training.ID, user.ID)
	if !errors.Is(err, ErrNoAttemptsLeft) {
		t.Fatalf("exhausted budget: got %v, want ErrNoAttemptsLeft", err)
	}
}

func TestRecordFailedAttemptCreatesMissingRow(t *testing.T) {
	db := openTestDB(t)
	manager := seedUser(t, db, "manager")
	user := seedUser(t, db, "user")
	training, steps := seedTraining(t, db, manager.ID, models.StepTypeQuiz)
	assignOne(t, db, user.ID, training.ID, manager.ID)

	// Drop the step row to simulate an enrollment that predates per-step
	// tracking. The attempt must recreate it with a full budget, then spend
	// one.
	db.Where("user_id = ? AND training_step_id = ?", user.ID, steps[0].ID).
		Delete(&models.UserTrainingStep{})

	result, err := RecordFailedAttempt(db, user.ID, steps[0].ID, training.ID, user.ID)
	if err != nil {
		t.Fatalf("RecordFailedAttempt returned error: %v", err)
	}
	if result.AttemptsLeft != DefaultQuizAttempts-1 {
		t.Errorf("got %d attempts left, want %d", result.AttemptsLeft, DefaultQuizAttempts-1)
	}
}

func TestSetStepStatusUpsert(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "user")
	stepID := uuid.New()

	created, err := SetStepStatus(db, user.ID, stepID, models.StatusPending)
	if err != nil {
		t.Fatalf("SetStepStatus returned error: %v", err)
	}
	if created.StepStatus != models.StatusPending {
		t.Errorf("got %s, want Pending", created.StepStatus)
	}

	updated, err := SetStepStatus(db, user.ID, stepID, models.StatusCompleted)
	if err != nil {
		t.Fatalf("SetStepStatus returned error: %v", err)
	}
	if updated.StepStatus != models.StatusCompleted {
		t.Errorf("got %s, want Completed", updated.StepStatus)
	}
	if updated.ID != created.ID {
		t.Error("second call created a new row instead of updating")
	}
}

func TestAllStepsCompletedWithNoRows(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "user")

	done, err := AllStepsCompleted(db, user.ID, uuid.New())
	if err != nil {
		t.Fatalf("AllStepsCompleted returned error: %v", err)
	}
	if done {
		t.Error("a user with no step rows must not count as done")
	}
}

func TestAllStepsCompleted(t *testing.T) {
	db := openTestDB(t)
	manager := seedUser(t, db, "manager")
	user := seedUser(t, db, "user")
	training, steps := seedTraining(t, db, manager.ID, models.StepTypeVideo, models.StepTypeReadAndUnderstand)
	assignOne(t, db, user.ID, training.ID, manager.ID)

	if _, err := SetStepStatus(db, user.ID, steps[0].ID, models.StatusCompleted); err != nil {
		t.Fatalf("SetStepStatus returned error: %v", err)
	}
	done, err := AllStepsCompleted(db, user.ID, training.ID)
	if err != nil {
		t.Fatalf("AllStepsCompleted returned error: %v", err)
	}
	if done {
		t.Error("one Pending step left, must not count as done")
	}

	if _, err := SetStepStatus(db, user.ID, steps[1].ID, models.StatusCompleted); err != nil {
		t.Fatalf("SetStepStatus returned error: %v", err)
	}
	done, err = AllStepsCompleted(db, user.ID, training.ID)
	if err != nil {
		t.Fatalf("AllStepsCompleted returned error: %v", err)
	}
	if !done {
		t.Error("all steps Completed, want done")
	}
}

func TestCompleteTrainingRequiresAllSteps(t *testing.T) {
	db := openTestDB(t)
	manager := seedUser(t, db, "manager")
	user := seedUser(t, db, "user")
	training, steps := seedTraining(t, db, manager.ID, models.StepTypeVideo)
	assignOne(t, db, user.ID, training.ID, manager.ID)

	_, err := CompleteTraining(db, user.ID, training.ID, "Done", user.ID)
	if !errors.Is(err, ErrTrainingIncomplete) {
		t.Fatalf("got %v, want ErrTrainingIncomplete", err)
	}

	status, _ := GetTrainingStatus(db, user.ID, training.ID)
	if status != models.StatusPending {
		t.Errorf("rejected completion changed status to %s", status)
	}

	if _, err := SetStepStatus(db, user.ID, steps[0].ID, models.StatusCompleted); err != nil {
		t.Fatalf("SetStepStatus returned error: %v", err)
	}
	ut, err := CompleteTraining(db, user.ID, training.ID, "Completed course material", user.ID)
	if err != nil {
		t.Fatalf("CompleteTraining returned error: %v", err)
	}
	if ut.Status != models.StatusCompleted {
		t.Errorf("got status %s, want Completed", ut.Status)
	}

	entries, _ := AuditTrail(db, user.ID, training.ID)
	if len(entries) != 2 {
		t.Fatalf("got %d audit entries, want 2", len(entries))
	}
	if entries[0].Comment != "Completed course material" || entries[0].NewStatus != models.StatusCompleted {
		t.Errorf("latest entry %+v, want the completion record", entries[0])
	}
}

func TestCompleteTrainingWithoutEnrollment(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "user")
	manager := seedUser(t, db, "manager")
	training, steps := seedTraining(t, db, manager.ID, models.StepTypeVideo)

	// A Completed step row without a UserTraining must still fail.
	if _, err := SetStepStatus(db, user.ID, steps[0].ID, models.StatusCompleted); err != nil {
		t.Fatalf("SetStepStatus returned error: %v", err)
	}

	_, err := CompleteTraining(db, user.ID, training.ID, "Done", user.ID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("got %v, want ErrRecordNotFound", err)
	}
}

func TestAuditTrailMostRecentFirst(t *testing.T) {
	db := openTestDB(t)
	manager := seedUser(t, db, "manager")
	user := seedUser(t, db, "user")
	training, steps := seedTraining(t, db, manager.ID, models.StepTypeQuiz)
	assignOne(t, db, user.ID, training.ID, manager.ID)

	for i := 0; i < 3; i++ {
		if _, err := RecordFailedAttempt(db, user.ID, steps[0].ID, training.ID, user.ID); err != nil {
			t.Fatalf("RecordFailedAttempt returned error: %v", err)
		}
	}

	entries, err := AuditTrail(db, user.ID, training.ID)
	if err != nil {
		t.Fatalf("AuditTrail returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Comment != "Training Failed" || entries[1].Comment != "Training Created" {
		t.Errorf("got order [%s, %s], want newest first", entries[0].Comment, entries[1].Comment)
	}
	if !entries[0].CreatedAt.After(entries[1].CreatedAt) {
		t.Error("entries not ordered by creation time descending")
	}
}

func TestUnassignTrainingKeepsAudit(t *testing.T) {
	db := openTestDB(t)
	manager := seedUser(t, db, "manager")
	user := seedUser(t, db, "user")
	training, _ := seedTraining(t, db, manager.ID, models.StepTypeVideo, models.StepTypeQuiz)
	assignOne(t, db, user.ID, training.ID, manager.ID)

	if err := UnassignTraining(db, user.ID, training.ID); err != nil {
		t.Fatalf("UnassignTraining returned error: %v", err)
	}

	if _, err := GetTrainingStatus(db, user.ID, training.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("enrollment still present: %v", err)
	}
	userSteps, err := ListUserSteps(db, user.ID, training.ID)
	if err != nil {
		t.Fatalf("ListUserSteps returned error: %v", err)
	}
	if len(userSteps) != 0 {
		t.Errorf("got %d step rows after unassign, want 0", len(userSteps))
	}

	entries, _ := AuditTrail(db, user.ID, training.ID)
	if len(entries) != 1 {
		t.Errorf("audit history lost on unassign, got %d entries", len(entries))
	}
}

func TestUnassignTrainingWithoutEnrollment(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db, "user")

	err := UnassignTraining(db, user.ID, uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("got %v, want ErrRecordNotFound", err)
	}
}

func TestListUserStepsOrderedByStepNumber(t *testing.T) {
	db := openTestDB(t)
	manager := seedUser(t, db, "manager")
	user := seedUser(t, db, "user")
	training, steps := seedTraining(t, db, manager.ID,
		models.StepTypeVideo, models.StepTypeQuiz, models.StepTypeReadAndUnderstand)
	assignOne(t, db, user.ID, training.ID, manager.ID)

	userSteps, err := ListUserSteps(db, user.ID, training.ID)
	if err != nil {
		t.Fatalf("ListUserSteps returned error: %v", err)
	}
	if len(userSteps) != 3 {
		t.Fatalf("got %d rows, want 3", len(userSteps))
	}
	for i, uts := range userSteps {
		if uts.TrainingStepID != steps[i].ID {
			t.Errorf("position %d holds step %s, want %s", i, uts.TrainingStepID, steps[i].ID)
		}
	}
}
