package session

import "errors"

var (
	// Load lifecycle
	ErrLoadFailed     = errors.New("session load failed")
	ErrEmptyQuestions = errors.New("assessment has no questions")
	ErrAlreadyLoaded  = errors.New("session load already performed")
	ErrSessionClosed  = errors.New("session is closed")

	// Submission lifecycle
	ErrSessionNotReady      = errors.New("session is not ready")
	ErrSubmissionInProgress = errors.New("submission already in progress")
	ErrAlreadySubmitted     = errors.New("attempt already submitted")

	// Answer recording
	ErrUnknownQuestion = errors.New("question does not belong to this session")

	// Manager
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionAccessDenied = errors.New("session belongs to another user")
)

// IsTerminal reports whether err marks a state the session can never leave.
// Load failures are terminal; submission failures are not, the user may
// retry manually.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrLoadFailed) ||
		errors.Is(err, ErrEmptyQuestions) ||
		errors.Is(err, ErrSessionClosed) ||
		errors.Is(err, ErrAlreadySubmitted)
}
