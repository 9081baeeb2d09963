package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/learnsphere/assessment-client/internal/client"
	"github.com/learnsphere/assessment-client/internal/events"
	"github.com/learnsphere/assessment-client/internal/models"
	"github.com/learnsphere/assessment-client/internal/utils"
	"github.com/learnsphere/assessment-client/internal/validator"
)

// Status is the session lifecycle state.
type Status string

const (
	StatusLoading    Status = "loading"
	StatusLoadFailed Status = "load_failed"
	StatusReady      Status = "ready"
	StatusSubmitting Status = "submitting"
	StatusSubmitted  Status = "submitted"
)

// SubmissionStatus tracks the submission lifecycle. Transitions are forward
// only, except that a failed submission reverts to NotSubmitted so the user
// can retry.
type SubmissionStatus string

const (
	NotSubmitted SubmissionStatus = "not_submitted"
	Submitting   SubmissionStatus = "submitting"
	Submitted    SubmissionStatus = "submitted"
)

// Config carries the collaborators a Controller is constructed with. UserID
// is passed explicitly; the session never looks the current user up from
// ambient state.
type Config struct {
	AssessmentID string
	UserID       string
	Client       client.Client
	Validator    *validator.Validator
	Logger       utils.Logger
	Publisher    events.EventPublisher

	// Now overrides the time source, nil means time.Now. Tests use this to
	// drive the countdown deterministically.
	Now func() time.Time
}

// Controller owns one in-progress assessment attempt: the loaded question
// set, the current position, the answer record, the countdown and the
// submission lifecycle. One attempt, one controller; there is no state
// shared between sessions.
//
// All mutation happens under a single mutex. User actions arrive from
// handler goroutines and ticks from the countdown goroutine; the mutex is
// the serialization point for the session's event model.
type Controller struct {
	id           string
	userID       string
	assessmentID string

	client    client.Client
	validator *validator.Validator
	logger    utils.Logger
	publisher events.EventPublisher
	now       func() time.Time

	mu            sync.Mutex
	status        Status
	submission    SubmissionStatus
	loadStarted   bool
	loadErr       error
	assessment    *models.Assessment
	questions     []models.Question
	questionIndex map[string]int
	answers       map[string]any
	current       int
	startedAt     time.Time
	deadline      *time.Time
	timeExpired   bool
	lastSubmitErr error
	result        *models.AttemptResult
	closed        bool

	countdownStop chan struct{}
}

// NewController creates a controller in the loading state. Call Load to
// fetch the assessment and arm the session.
func NewController(cfg Config) *Controller {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Controller{
		id:           uuid.NewString(),
		userID:       cfg.UserID,
		assessmentID: cfg.AssessmentID,
		client:       cfg.Client,
		validator:    cfg.Validator,
		logger:       cfg.Logger,
		publisher:    cfg.Publisher,
		now:          now,
		status:       StatusLoading,
		submission:   NotSubmitted,
		answers:      make(map[string]any),
	}
}

func (c *Controller) ID() string           { return c.id }
func (c *Controller) UserID() string       { return c.userID }
func (c *Controller) AssessmentID() string { return c.assessmentID }

// Load fetches the assessment metadata and its question list. It may be
// called once; a failed load is terminal and is never retried by the
// controller. The countdown, when the assessment is timed, starts at the
// moment loading succeeds, not at construction.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	// loadStarted marks the load in flight before the lock is released, so
	// a concurrent second Load cannot pass the guard and double-arm the
	// countdown.
	if c.status != StatusLoading || c.loadStarted {
		c.mu.Unlock()
		return ErrAlreadyLoaded
	}
	c.loadStarted = true
	c.mu.Unlock()

	assessment, err := c.client.FetchAssessment(ctx, c.assessmentID)
	if err != nil {
		return c.failLoad(fmt.Errorf("%w: %w", ErrLoadFailed, err))
	}

	questions, err := c.client.FetchQuestions(ctx, c.assessmentID)
	if err != nil {
		return c.failLoad(fmt.Errorf("%w: %w", ErrLoadFailed, err))
	}
	if len(questions) == 0 {
		return c.failLoad(fmt.Errorf("%w: %w", ErrLoadFailed, ErrEmptyQuestions))
	}

	c.mu.Lock()
	// The controller may have been torn down while the fetches were in
	// flight; a late resolution must not mutate it.
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}

	c.assessment = assessment
	c.questions = questions
	c.questionIndex = make(map[string]int, len(questions))
	for i, q := range questions {
		c.questionIndex[q.ID] = i
	}
	c.current = 0
	c.startedAt = c.now()
	if assessment.Timed() {
		deadline := c.startedAt.Add(assessment.TimeLimit())
		c.deadline = &deadline
		c.armCountdownLocked()
	}
	c.status = StatusReady
	c.mu.Unlock()

	c.logger.Info("Assessment session loaded",
		"session_id", c.id,
		"assessment_id", c.assessmentID,
		"user_id", c.userID,
		"questions_count", len(questions),
		"timed", assessment.Timed())

	limitSecs := 0
	if assessment.Timed() {
		limitSecs = int(assessment.TimeLimit().Seconds())
	}
	c.publish(events.EventSessionStarted, events.SessionStartedEvent{
		SessionID:     c.id,
		AssessmentID:  c.assessmentID,
		Title:         assessment.Title,
		QuestionCount: len(questions),
		Timed:         assessment.Timed(),
		TimeLimitSecs: limitSecs,
	})

	return nil
}

func (c *Controller) failLoad(err error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	c.status = StatusLoadFailed
	c.loadErr = err
	c.mu.Unlock()

	c.logger.Error("Assessment session load failed",
		"session_id", c.id,
		"assessment_id", c.assessmentID,
		"error", err)
	return err
}

// GoToQuestion sets the current index. Out-of-range indexes leave the
// session untouched.
func (c *Controller) GoToQuestion(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.questions) {
		return
	}
	c.current = index
}

// Next advances the current index by one, clamped to the last question.
func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current < len(c.questions)-1 {
		c.current++
	}
}

// Previous moves the current index back by one, clamped to zero.
func (c *Controller) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current > 0 {
		c.current--
	}
}

// RecordAnswer records an answer value for a question. Recording overwrites
// any prior value for the same question and never moves the current index.
// The question must belong to the loaded set and the value must match the
// shape the question's type declares.
func (c *Controller) RecordAnswer(questionID string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrSessionClosed
	}
	if c.status != StatusReady {
		switch c.submission {
		case Submitting:
			return ErrSubmissionInProgress
		case Submitted:
			return ErrAlreadySubmitted
		default:
			return ErrSessionNotReady
		}
	}

	idx, ok := c.questionIndex[questionID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}

	if err := c.validator.Answer().ValidateAnswer(&c.questions[idx], value); err != nil {
		return err
	}

	c.answers[questionID] = value
	return nil
}

// UnansweredCount returns how many loaded questions lack a recorded answer.
func (c *Controller) UnansweredCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.questions) - len(c.answers)
}

// Submit sends the attempt for grading. Forced marks a timer-triggered
// submission; it skips no internal step, the distinction only feeds the
// presentation layer and the published event. Submit is a guarded no-op
// unless the submission status is not_submitted, so a double click or a
// manual submit racing the final tick cannot submit twice. On failure the
// status reverts to not_submitted for a manual retry; the countdown is not
// re-armed.
func (c *Controller) Submit(ctx context.Context, forced bool) (*models.AttemptResult, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if c.status == StatusLoading || c.status == StatusLoadFailed {
		c.mu.Unlock()
		return nil, ErrSessionNotReady
	}
	switch c.submission {
	case Submitting:
		c.mu.Unlock()
		return nil, ErrSubmissionInProgress
	case Submitted:
		c.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}

	c.submission = Submitting
	c.status = StatusSubmitting
	if forced {
		c.timeExpired = true
	}
	// No further ticks once submission begins; a tick firing during
	// network latency must not trigger a second attempt.
	c.stopCountdownLocked()

	payload := c.buildPayloadLocked()
	payload.TimeTakenSeconds = int(c.now().Sub(c.startedAt).Seconds())
	answered := len(c.answers)
	total := len(c.questions)
	c.mu.Unlock()

	c.logger.Info("Submitting attempt",
		"session_id", c.id,
		"assessment_id", c.assessmentID,
		"forced", forced,
		"answered", answered,
		"total", total,
		"time_taken_seconds", payload.TimeTakenSeconds)

	result, err := c.client.SubmitAttempt(ctx, c.assessmentID, payload)

	c.mu.Lock()
	if err != nil {
		c.submission = NotSubmitted
		c.status = StatusReady
		c.lastSubmitErr = err
		// The time limit survives a failed manual submission: the deadline
		// still stands, so the countdown comes back. Only a timer-triggered
		// failure stays disarmed; expiry fires at most once.
		if c.deadline != nil && !c.timeExpired && !c.closed {
			c.armCountdownLocked()
		}
		c.mu.Unlock()

		c.logger.Error("Attempt submission failed",
			"session_id", c.id,
			"assessment_id", c.assessmentID,
			"forced", forced,
			"error", err)
		c.publish(events.EventAttemptSubmitFailed, events.AttemptSubmitFailedEvent{
			SessionID:    c.id,
			AssessmentID: c.assessmentID,
			Forced:       forced,
			Reason:       err.Error(),
		})
		return nil, fmt.Errorf("submission failed: %w", err)
	}

	c.submission = Submitted
	c.status = StatusSubmitted
	c.result = result
	c.lastSubmitErr = nil
	c.mu.Unlock()

	c.logger.Info("Attempt submitted",
		"session_id", c.id,
		"attempt_id", result.ID,
		"forced", forced)

	eventType := events.EventAttemptSubmitted
	if forced {
		eventType = events.EventAttemptAutoSubmitted
	}
	c.publish(eventType, events.AttemptSubmittedEvent{
		SessionID:        c.id,
		AssessmentID:     c.assessmentID,
		AttemptID:        result.ID,
		Forced:           forced,
		TimeTakenSeconds: payload.TimeTakenSeconds,
		AnsweredCount:    answered,
		QuestionCount:    total,
	})

	return result, nil
}

// Result returns the graded attempt once the session is submitted.
func (c *Controller) Result() *models.AttemptResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Close tears the session down: the countdown stops and any in-flight load
// is prevented from mutating state. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopCountdownLocked()
	c.mu.Unlock()

	c.logger.Info("Session closed", "session_id", c.id, "assessment_id", c.assessmentID)
}

// buildPayloadLocked assembles the submission payload. Every loaded question
// appears, in sequence order, with a nil answer when unanswered; an
// unanswered question is reportable state, not an omission.
func (c *Controller) buildPayloadLocked() *models.SubmitAttemptRequest {
	answers := make([]models.AttemptAnswer, 0, len(c.questions))
	for _, q := range c.questions {
		answers = append(answers, models.AttemptAnswer{
			QuestionID: q.ID,
			Answer:     c.answers[q.ID],
		})
	}
	return &models.SubmitAttemptRequest{Answers: answers}
}

func (c *Controller) publish(eventType events.EventType, data any) {
	if c.publisher == nil {
		return
	}
	event := events.NewSessionEvent(eventType, c.userID, data)
	if err := c.publisher.PublishSessionEvent(context.Background(), event); err != nil {
		c.logger.Warn("Failed to publish session event",
			"session_id", c.id,
			"event_type", eventType,
			"error", err)
	}
}
