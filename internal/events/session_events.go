package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies session lifecycle events published for downstream
// consumers (notifications, analytics).
type EventType string

const (
	EventSessionStarted       EventType = "session.started"
	EventAttemptSubmitted     EventType = "attempt.submitted"
	EventAttemptAutoSubmitted EventType = "attempt.auto_submitted"
	EventAttemptSubmitFailed  EventType = "attempt.submit_failed"
)

const (
	eventSource  = "learning-client"
	eventVersion = "1.0"
)

// SessionEvent is the envelope for all published session events.
type SessionEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	Data      any       `json:"data"`
}

// NewSessionEvent creates an event envelope with a fresh ID and timestamp.
func NewSessionEvent(eventType EventType, userID string, data any) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Data:      data,
	}
}

// SessionStartedEvent is emitted once a session finishes loading.
type SessionStartedEvent struct {
	SessionID     string `json:"session_id"`
	AssessmentID  string `json:"assessment_id"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
	Timed         bool   `json:"timed"`
	TimeLimitSecs int    `json:"time_limit_seconds,omitempty"`
}

// AttemptSubmittedEvent is emitted after the grading collaborator accepts a
// submission. Forced marks timer-triggered submissions.
type AttemptSubmittedEvent struct {
	SessionID        string `json:"session_id"`
	AssessmentID     string `json:"assessment_id"`
	AttemptID        string `json:"attempt_id"`
	Forced           bool   `json:"forced"`
	TimeTakenSeconds int    `json:"time_taken_seconds"`
	AnsweredCount    int    `json:"answered_count"`
	QuestionCount    int    `json:"question_count"`
}

// AttemptSubmitFailedEvent is emitted when a submission attempt is rejected
// or the collaborator is unreachable.
type AttemptSubmitFailedEvent struct {
	SessionID    string `json:"session_id"`
	AssessmentID string `json:"assessment_id"`
	Forced       bool   `json:"forced"`
	Reason       string `json:"reason"`
}
