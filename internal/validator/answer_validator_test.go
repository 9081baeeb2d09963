package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnsphere/assessment-client/internal/models"
)

func TestAnswerValidator_MultipleChoice(t *testing.T) {
	v := NewAnswerValidator()
	question := &models.Question{
		ID:      "q-1",
		Type:    models.MultipleChoice,
		Options: []string{"Paris", "London", "Berlin"},
	}

	t.Run("accepts a listed option", func(t *testing.T) {
		assert.NoError(t, v.ValidateAnswer(question, "Paris"))
	})

	t.Run("rejects an unlisted option", func(t *testing.T) {
		err := v.ValidateAnswer(question, "Madrid")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match any option")
	})

	t.Run("rejects non-string values", func(t *testing.T) {
		assert.Error(t, v.ValidateAnswer(question, true))
		assert.Error(t, v.ValidateAnswer(question, 3))
	})
}

func TestAnswerValidator_TrueFalse(t *testing.T) {
	v := NewAnswerValidator()
	question := &models.Question{ID: "q-2", Type: models.TrueFalse}

	assert.NoError(t, v.ValidateAnswer(question, true))
	assert.NoError(t, v.ValidateAnswer(question, false))
	assert.Error(t, v.ValidateAnswer(question, "true"))
}

func TestAnswerValidator_ShortAnswer(t *testing.T) {
	v := NewAnswerValidator()
	question := &models.Question{ID: "q-3", Type: models.ShortAnswer}

	assert.NoError(t, v.ValidateAnswer(question, "goroutines share an address space"))
	assert.Error(t, v.ValidateAnswer(question, ""))
	assert.Error(t, v.ValidateAnswer(question, 42))
}

func TestAnswerValidator_NilAndUnknownType(t *testing.T) {
	v := NewAnswerValidator()

	assert.Error(t, v.ValidateAnswer(nil, "x"))
	assert.Error(t, v.ValidateAnswer(&models.Question{ID: "q-4", Type: models.ShortAnswer}, nil))
	assert.Error(t, v.ValidateAnswer(&models.Question{ID: "q-5", Type: "essay"}, "text"))
}

func TestValidator_QuestionTypeTag(t *testing.T) {
	v := New()

	type payload struct {
		Type string `json:"question_type" validate:"question_type"`
	}

	assert.NoError(t, v.Validate(payload{Type: "multiple_choice"}))
	assert.NoError(t, v.Validate(payload{Type: "true_false"}))
	assert.NoError(t, v.Validate(payload{Type: "short_answer"}))
	assert.Error(t, v.Validate(payload{Type: "matching"}))
}
