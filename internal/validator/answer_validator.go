package validator

import (
	"fmt"

	apperrors "github.com/learnsphere/assessment-client/internal/errors"
	"github.com/learnsphere/assessment-client/internal/models"
)

// AnswerValidator checks that a recorded answer value matches the shape
// declared by the question's type before it enters the answer record.
type AnswerValidator struct{}

// NewAnswerValidator creates a new answer validator
func NewAnswerValidator() *AnswerValidator {
	return &AnswerValidator{}
}

// ValidateAnswer validates an answer value against the question's declared
// type. A nil value is never accepted here; clearing an answer is not an
// operation the session supports.
func (v *AnswerValidator) ValidateAnswer(question *models.Question, value any) error {
	if question == nil {
		return apperrors.NewValidationError("question", "cannot be nil", nil)
	}
	if value == nil {
		return apperrors.NewValidationError("answer", "value cannot be nil", nil)
	}

	switch question.Type {
	case models.MultipleChoice:
		return v.validateMultipleChoice(question, value)
	case models.TrueFalse:
		return v.validateTrueFalse(value)
	case models.ShortAnswer:
		return v.validateShortAnswer(value)
	default:
		return apperrors.NewValidationError("answer",
			fmt.Sprintf("unsupported question type: %s", question.Type), value)
	}
}

func (v *AnswerValidator) validateMultipleChoice(question *models.Question, value any) error {
	selected, ok := value.(string)
	if !ok {
		return apperrors.NewValidationError("answer",
			fmt.Sprintf("multiple choice answer must be a string, got %T", value), value)
	}

	if !question.HasOption(selected) {
		return apperrors.NewValidationError("answer",
			fmt.Sprintf("%q does not match any option of question %s", selected, question.ID), value)
	}

	return nil
}

func (v *AnswerValidator) validateTrueFalse(value any) error {
	if _, ok := value.(bool); !ok {
		return apperrors.NewValidationError("answer",
			fmt.Sprintf("true/false answer must be a boolean, got %T", value), value)
	}
	return nil
}

func (v *AnswerValidator) validateShortAnswer(value any) error {
	text, ok := value.(string)
	if !ok {
		return apperrors.NewValidationError("answer",
			fmt.Sprintf("short answer must be a string, got %T", value), value)
	}
	if text == "" {
		return apperrors.NewValidationError("answer", "short answer cannot be empty", value)
	}
	return nil
}
