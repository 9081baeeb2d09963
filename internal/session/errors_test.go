package session

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTerminal(t *testing.T) {
	terminal := []error{
		ErrLoadFailed,
		ErrEmptyQuestions,
		ErrSessionClosed,
		ErrAlreadySubmitted,
		fmt.Errorf("%w: %w", ErrLoadFailed, errors.New("connection refused")),
	}
	for _, err := range terminal {
		assert.True(t, IsTerminal(err), "expected terminal: %v", err)
	}

	recoverable := []error{
		ErrSubmissionInProgress,
		ErrSessionNotReady,
		ErrUnknownQuestion,
		errors.New("submission failed: timeout"),
	}
	for _, err := range recoverable {
		assert.False(t, IsTerminal(err), "expected recoverable: %v", err)
	}
}
