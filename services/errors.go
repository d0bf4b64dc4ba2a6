package services

import "errors"

var (
	// ErrQuizHasNoQuestions means scoring was asked for a quiz with zero
	// questions. Quizzes are created with at least one question, so hitting
	// this is a data problem, not a user mistake.
	ErrQuizHasNoQuestions = errors.New("quiz has no questions")

	// ErrNoAttemptsLeft means an attempt decrement was requested when zero
	// attempts already remained. The UI disables submission at zero, so this
	// signals a caller bug and is never swallowed.
	ErrNoAttemptsLeft = errors.New("no attempts left")

	// ErrTrainingIncomplete means completion was requested while at least one
	// step is not Completed.
	ErrTrainingIncomplete = errors.New("not all training steps are completed")

	// ErrTrainingHasNoSteps means an assignment was requested for a training
	// without any steps.
	ErrTrainingHasNoSteps = errors.New("training has no steps")
)
