package models

import "time"

// AttemptAnswer pairs a question with the recorded answer value. Answer is a
// string (multiple_choice option or short_answer text), a bool (true_false),
// or nil when the question was left unanswered. Unanswered questions are
// still reported; the grading service treats null as a valid, scoreable state.
type AttemptAnswer struct {
	QuestionID string `json:"question_id"`
	Answer     any    `json:"answer"`
}

// SubmitAttemptRequest is the submission payload sent to the grading
// collaborator. Answers contains one entry per loaded question, in sequence
// order, regardless of whether the question was answered.
type SubmitAttemptRequest struct {
	Answers          []AttemptAnswer `json:"answers" validate:"required,min=1"`
	TimeTakenSeconds int             `json:"time_taken_seconds" validate:"min=0"`
}

// AttemptResult is the graded attempt returned by the submission
// collaborator. Scoring is computed remotely; this client never grades.
type AttemptResult struct {
	ID              string             `json:"id"`
	AssessmentID    string             `json:"assessment_id"`
	UserID          string             `json:"user_id"`
	ScorePercentage float64            `json:"score_percentage"`
	PointsEarned    int                `json:"points_earned"`
	PointsPossible  int                `json:"points_possible"`
	TimeTaken       int                `json:"time_taken_seconds"`
	SkillScores     map[string]float64 `json:"skill_scores,omitempty"`
	AttemptNumber   int                `json:"attempt_number"`
	Passed          bool               `json:"passed"`
	Feedback        *string            `json:"feedback,omitempty"`
	AttemptedAt     time.Time          `json:"attempted_at"`
}
