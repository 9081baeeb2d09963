package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnsphere/assessment-client/internal/events"
	"github.com/learnsphere/assessment-client/internal/models"
	"github.com/learnsphere/assessment-client/internal/validator"
)

func newTestManager(fc *fakeClient) *Manager {
	publisher := events.NewMockEventPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewManager(fc, validator.New(), testLogger(), publisher)
}

func healthyFakeClient() *fakeClient {
	return &fakeClient{
		assessment: testAssessment(nil),
		questions:  threeQuestions(),
		result:     &models.AttemptResult{ID: "attempt-1"},
	}
}

func TestManager_StartAndGet(t *testing.T) {
	m := newTestManager(healthyFakeClient())

	ctrl, err := m.Start(context.Background(), "a-1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, ctrl)
	assert.Equal(t, 1, m.Count())

	got, err := m.Get(ctrl.ID(), "user-1")
	require.NoError(t, err)
	assert.Same(t, ctrl, got)
}

func TestManager_FailedLoadRegistersNothing(t *testing.T) {
	fc := healthyFakeClient()
	fc.fetchAssessmentErr = errors.New("not found")
	m := newTestManager(fc)

	_, err := m.Start(context.Background(), "a-404", "user-1")
	require.Error(t, err)
	assert.Equal(t, 0, m.Count())
}

func TestManager_OwnershipEnforced(t *testing.T) {
	m := newTestManager(healthyFakeClient())
	ctrl, err := m.Start(context.Background(), "a-1", "user-1")
	require.NoError(t, err)

	_, err = m.Get(ctrl.ID(), "user-2")
	assert.ErrorIs(t, err, ErrSessionAccessDenied)

	err = m.Close(ctrl.ID(), "user-2")
	assert.ErrorIs(t, err, ErrSessionAccessDenied)
	assert.Equal(t, 1, m.Count())
}

func TestManager_GetUnknownSession(t *testing.T) {
	m := newTestManager(healthyFakeClient())
	_, err := m.Get("missing", "user-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_CloseRemovesSession(t *testing.T) {
	m := newTestManager(healthyFakeClient())
	ctrl, err := m.Start(context.Background(), "a-1", "user-1")
	require.NoError(t, err)

	require.NoError(t, m.Close(ctrl.ID(), "user-1"))
	assert.Equal(t, 0, m.Count())

	_, err = m.Get(ctrl.ID(), "user-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// The controller itself is torn down.
	_, err = ctrl.Submit(context.Background(), false)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestManager_EachSessionIsIndependent(t *testing.T) {
	m := newTestManager(healthyFakeClient())

	first, err := m.Start(context.Background(), "a-1", "user-1")
	require.NoError(t, err)
	second, err := m.Start(context.Background(), "a-1", "user-1")
	require.NoError(t, err)
	require.NotEqual(t, first.ID(), second.ID())

	require.NoError(t, first.RecordAnswer("q-1", "Paris"))
	assert.Equal(t, 2, first.UnansweredCount())
	assert.Equal(t, 3, second.UnansweredCount(), "answers never leak across sessions")
}

func TestManager_CloseAll(t *testing.T) {
	m := newTestManager(healthyFakeClient())
	ctrl, err := m.Start(context.Background(), "a-1", "user-1")
	require.NoError(t, err)
	_, err = m.Start(context.Background(), "a-1", "user-2")
	require.NoError(t, err)

	m.CloseAll()
	assert.Equal(t, 0, m.Count())

	_, err = ctrl.Submit(context.Background(), false)
	assert.ErrorIs(t, err, ErrSessionClosed)
}
