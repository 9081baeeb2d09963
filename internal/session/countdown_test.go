package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnsphere/assessment-client/internal/events"
)

func TestCountdown_InitializedFromTimeLimit(t *testing.T) {
	fx := newLoadedFixture(t, intPtr(2))

	remaining := fx.ctrl.RemainingSeconds()
	require.NotNil(t, remaining)
	assert.Equal(t, 120, *remaining, "counter starts at time_limit_minutes * 60")
}

func TestCountdown_ExactlySixtyTicksToAutoSubmit(t *testing.T) {
	fx := newLoadedFixture(t, intPtr(1))

	// 59 one-second ticks: countdown keeps running, nothing submitted.
	for i := 1; i <= 59; i++ {
		fx.clock.Advance(time.Second)
		finished := fx.ctrl.handleTick()
		require.False(t, finished, "tick %d must not finish the countdown", i)

		remaining := fx.ctrl.RemainingSeconds()
		require.NotNil(t, remaining)
		assert.Equal(t, 60-i, *remaining)
	}
	assert.Equal(t, 0, fx.client.calls())

	// Tick 60 reaches the deadline and triggers exactly one forced submit.
	fx.clock.Advance(time.Second)
	assert.True(t, fx.ctrl.handleTick())
	assert.Equal(t, 1, fx.client.calls())

	state := fx.ctrl.State()
	assert.Equal(t, Submitted, state.Submission)
	assert.True(t, state.TimeExpired)

	// A later manual submit is a no-op.
	_, err := fx.ctrl.Submit(context.Background(), false)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Equal(t, 1, fx.client.calls())
}

func TestCountdown_NeverGoesNegative(t *testing.T) {
	fx := newLoadedFixture(t, intPtr(1))

	fx.clock.Advance(5 * time.Minute)
	remaining := fx.ctrl.RemainingSeconds()
	require.NotNil(t, remaining)
	assert.Equal(t, 0, *remaining)
}

func TestCountdown_StopsOnceSubmissionBegins(t *testing.T) {
	fx := newLoadedFixture(t, intPtr(1))

	_, err := fx.ctrl.Submit(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, 1, fx.client.calls())

	// Ticks delivered during or after submission must not trigger a second
	// attempt, even past the deadline.
	fx.clock.Advance(2 * time.Minute)
	assert.True(t, fx.ctrl.handleTick())
	assert.Equal(t, 1, fx.client.calls())
}

func TestCountdown_StopsOnClose(t *testing.T) {
	fx := newLoadedFixture(t, intPtr(1))

	fx.ctrl.Close()
	fx.clock.Advance(2 * time.Minute)
	assert.True(t, fx.ctrl.handleTick(), "a closed session processes no ticks")
	assert.Equal(t, 0, fx.client.calls())
}

func TestCountdown_ForcedSubmitUsesRecordedAnswers(t *testing.T) {
	fx := newLoadedFixture(t, intPtr(1))
	require.NoError(t, fx.ctrl.RecordAnswer("q-2", true))

	fx.clock.Advance(time.Minute)
	require.True(t, fx.ctrl.handleTick())

	payload := fx.client.lastPayload()
	require.NotNil(t, payload)
	require.Len(t, payload.Answers, 3)
	assert.Nil(t, payload.Answers[0].Answer)
	assert.Equal(t, true, payload.Answers[1].Answer)
	assert.Nil(t, payload.Answers[2].Answer)
	assert.Equal(t, 60, payload.TimeTakenSeconds)

	published := fx.publisher.PublishedEvents()
	last := published[len(published)-1]
	assert.Equal(t, events.EventAttemptAutoSubmitted, last.Type)
}

func TestCountdown_TimerFailureRevertsWithoutRearming(t *testing.T) {
	fx := newLoadedFixture(t, intPtr(1))
	fx.client.submitErr = errors.New("service unavailable")

	fx.clock.Advance(time.Minute)
	require.True(t, fx.ctrl.handleTick(), "countdown stops regardless of the submission outcome")
	require.Equal(t, 1, fx.client.calls())

	state := fx.ctrl.State()
	assert.Equal(t, NotSubmitted, state.Submission, "status reverts so the session is not wedged")
	assert.True(t, state.TimeExpired, "expiry is still communicated to the user")
	assert.Contains(t, state.LastSubmitError, "service unavailable")

	// No automatic retry: further ticks do nothing.
	fx.clock.Advance(time.Minute)
	assert.True(t, fx.ctrl.handleTick())
	assert.Equal(t, 1, fx.client.calls())

	// The user retries manually and succeeds.
	fx.client.submitErr = nil
	result, err := fx.ctrl.Submit(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "attempt-1", result.ID)
	assert.True(t, fx.ctrl.State().TimeExpired)
}

func TestCountdown_SurvivesFailedManualSubmit(t *testing.T) {
	fx := newLoadedFixture(t, intPtr(1))
	fx.client.submitErr = errors.New("gateway timeout")

	// A failed manual submission before the deadline reverts the session;
	// the time limit is still in force.
	_, err := fx.ctrl.Submit(context.Background(), false)
	require.Error(t, err)

	state := fx.ctrl.State()
	require.Equal(t, NotSubmitted, state.Submission)
	assert.False(t, state.TimeExpired)

	// Expiry still auto-submits: the countdown goroutine is live again and
	// its next tick sees the deadline passed.
	fx.client.submitErr = nil
	fx.clock.Advance(2 * time.Minute)
	require.Eventually(t, func() bool { return fx.client.calls() == 2 },
		3*time.Second, 10*time.Millisecond, "expiry must auto-submit after a failed manual attempt")

	state = fx.ctrl.State()
	assert.Equal(t, Submitted, state.Submission)
	assert.True(t, state.TimeExpired)

	published := fx.publisher.PublishedEvents()
	assert.Equal(t, events.EventAttemptAutoSubmitted, published[len(published)-1].Type)
}

func TestCountdown_UntimedAssessmentHasNoCountdown(t *testing.T) {
	fx := newLoadedFixture(t, nil)

	assert.Nil(t, fx.ctrl.RemainingSeconds())
	fx.clock.Advance(24 * time.Hour)
	assert.True(t, fx.ctrl.handleTick(), "no deadline means no tick processing")
	assert.Equal(t, 0, fx.client.calls(), "automatic submission by time is impossible")
}
