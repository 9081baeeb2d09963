package session

import (
	"time"

	"github.com/learnsphere/assessment-client/internal/models"
)

// QuestionProgress is the per-question entry of a state snapshot: enough for
// a question navigator to render answered markers without re-deriving
// anything.
type QuestionProgress struct {
	QuestionID    string              `json:"question_id"`
	SequenceOrder int                 `json:"sequence_order"`
	Type          models.QuestionType `json:"type"`
	Points        int                 `json:"points"`
	Answered      bool                `json:"answered"`
}

// State is a consistent snapshot of the session for the presentation layer.
type State struct {
	SessionID    string `json:"session_id"`
	AssessmentID string `json:"assessment_id"`
	UserID       string `json:"user_id"`

	Status     Status           `json:"status"`
	Submission SubmissionStatus `json:"submission_status"`

	Title            string             `json:"title,omitempty"`
	CurrentIndex     int                `json:"current_index"`
	TotalQuestions   int                `json:"total_questions"`
	CurrentQuestion  *models.Question   `json:"current_question,omitempty"`
	CurrentAnswer    any                `json:"current_answer,omitempty"`
	Questions        []QuestionProgress `json:"questions,omitempty"`
	UnansweredCount  int                `json:"unanswered_count"`
	RemainingSeconds *int               `json:"remaining_seconds,omitempty"`
	StartedAt        *time.Time         `json:"started_at,omitempty"`

	TimeExpired     bool   `json:"time_expired"`
	LoadError       string `json:"load_error,omitempty"`
	LastSubmitError string `json:"last_submit_error,omitempty"`

	Result *models.AttemptResult `json:"result,omitempty"`
}

// State builds a snapshot of the session under the lock. The snapshot is
// self-contained; mutating it never touches the controller.
func (c *Controller) State() *State {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := &State{
		SessionID:    c.id,
		AssessmentID: c.assessmentID,
		UserID:       c.userID,
		Status:       c.status,
		Submission:   c.submission,
		TimeExpired:  c.timeExpired,
	}

	if c.loadErr != nil {
		state.LoadError = c.loadErr.Error()
	}
	if c.lastSubmitErr != nil {
		state.LastSubmitError = c.lastSubmitErr.Error()
	}
	if c.assessment == nil {
		return state
	}

	state.Title = c.assessment.Title
	state.CurrentIndex = c.current
	state.TotalQuestions = len(c.questions)
	state.UnansweredCount = len(c.questions) - len(c.answers)
	state.RemainingSeconds = c.remainingSecondsLocked()
	startedAt := c.startedAt
	state.StartedAt = &startedAt
	state.Result = c.result

	current := c.questions[c.current]
	state.CurrentQuestion = &current
	if value, ok := c.answers[current.ID]; ok {
		state.CurrentAnswer = value
	}

	state.Questions = make([]QuestionProgress, len(c.questions))
	for i, q := range c.questions {
		_, answered := c.answers[q.ID]
		state.Questions[i] = QuestionProgress{
			QuestionID:    q.ID,
			SequenceOrder: q.SequenceOrder,
			Type:          q.Type,
			Points:        q.Points,
			Answered:      answered,
		}
	}

	return state
}

// AnsweredCount is the number of distinct questions with a recorded answer.
func (s *State) AnsweredCount() int {
	return s.TotalQuestions - s.UnansweredCount
}
