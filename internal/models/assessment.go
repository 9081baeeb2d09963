package models

import "time"

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	ShortAnswer    QuestionType = "short_answer"
)

// Assessment is the remote assessment metadata as served by the learning
// platform API. It is immutable for the lifetime of a session once loaded.
type Assessment struct {
	ID             string   `json:"id"`
	Title          string   `json:"title" validate:"required,min=1,max=255"`
	Description    *string  `json:"description"`
	IsDiagnostic   bool     `json:"is_diagnostic"`
	SkillsAssessed []string `json:"skills_assessed"`

	// TimeLimitMinutes is nil when the assessment is untimed.
	TimeLimitMinutes *int `json:"time_limit_minutes" validate:"omitempty,gt=0"`
	PassingScore     int  `json:"passing_score" validate:"min=0,max=100"`

	CreatedAt time.Time `json:"created_at"`
}

// Timed reports whether the assessment declares a countdown time limit.
func (a *Assessment) Timed() bool {
	return a.TimeLimitMinutes != nil && *a.TimeLimitMinutes > 0
}

// TimeLimit returns the declared limit as a duration, or zero when untimed.
func (a *Assessment) TimeLimit() time.Duration {
	if !a.Timed() {
		return 0
	}
	return time.Duration(*a.TimeLimitMinutes) * time.Minute
}

// Question is a single question within an assessment. SequenceOrder is
// assigned by the remote service and is preserved verbatim; the session
// never re-sorts the delivered list.
type Question struct {
	ID           string       `json:"id"`
	AssessmentID string       `json:"assessment_id"`
	Text         string       `json:"question_text" validate:"required"`
	Type         QuestionType `json:"question_type" validate:"required,question_type"`

	// Options is populated for multiple_choice questions only.
	Options []string `json:"options,omitempty"`

	Points          int      `json:"points" validate:"min=1"`
	DifficultyLevel int      `json:"difficulty_level"`
	SkillTags       []string `json:"skill_tags,omitempty"`
	SequenceOrder   int      `json:"sequence_order"`
}

// HasOption reports whether value is one of the question's option strings.
func (q *Question) HasOption(value string) bool {
	for _, opt := range q.Options {
		if opt == value {
			return true
		}
	}
	return false
}
