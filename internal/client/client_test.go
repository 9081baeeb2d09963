package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnsphere/assessment-client/internal/models"
	"github.com/learnsphere/assessment-client/internal/utils"
)

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHTTPClient_FetchAssessment(t *testing.T) {
	limit := 30
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/assessments/a-1", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(models.Assessment{
			ID:               "a-1",
			Title:            "Go Fundamentals",
			TimeLimitMinutes: &limit,
			PassingScore:     70,
		})
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL, server.Client(), "token-1", testLogger())
	assessment, err := c.FetchAssessment(context.Background(), "a-1")
	require.NoError(t, err)
	assert.Equal(t, "Go Fundamentals", assessment.Title)
	require.NotNil(t, assessment.TimeLimitMinutes)
	assert.Equal(t, 30, *assessment.TimeLimitMinutes)
	assert.True(t, assessment.Timed())
}

func TestHTTPClient_FetchAssessmentNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Assessment not found"})
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL, server.Client(), "", testLogger())
	_, err := c.FetchAssessment(context.Background(), "a-404")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, ErrAssessmentNotFound)
	assert.Contains(t, err.Error(), "Assessment not found")
}

func TestHTTPClient_FetchQuestionsPreservesOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/assessments/a-1/questions", r.URL.Path)
		json.NewEncoder(w).Encode([]models.Question{
			{ID: "q-9", SequenceOrder: 1, Type: models.TrueFalse},
			{ID: "q-2", SequenceOrder: 2, Type: models.ShortAnswer},
			{ID: "q-5", SequenceOrder: 3, Type: models.MultipleChoice, Options: []string{"a", "b"}},
		})
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL, server.Client(), "", testLogger())
	questions, err := c.FetchQuestions(context.Background(), "a-1")
	require.NoError(t, err)
	require.Len(t, questions, 3)
	// Delivered order is preserved verbatim, no client-side re-sorting.
	assert.Equal(t, "q-9", questions[0].ID)
	assert.Equal(t, "q-2", questions[1].ID)
	assert.Equal(t, "q-5", questions[2].ID)
}

func TestHTTPClient_SubmitAttempt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/assessments/a-1/submit", r.URL.Path)

		var req models.SubmitAttemptRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Answers, 2)
		assert.Equal(t, 45, req.TimeTakenSeconds)
		assert.Nil(t, req.Answers[1].Answer)

		json.NewEncoder(w).Encode(models.AttemptResult{
			ID:              "attempt-7",
			ScorePercentage: 50,
			Passed:          false,
		})
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL, server.Client(), "", testLogger())
	result, err := c.SubmitAttempt(context.Background(), "a-1", &models.SubmitAttemptRequest{
		Answers: []models.AttemptAnswer{
			{QuestionID: "q-1", Answer: "b"},
			{QuestionID: "q-2", Answer: nil},
		},
		TimeTakenSeconds: 45,
	})
	require.NoError(t, err)
	assert.Equal(t, "attempt-7", result.ID)
}

func TestHTTPClient_SubmitAttemptValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "answers malformed"})
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL, server.Client(), "", testLogger())
	_, err := c.SubmitAttempt(context.Background(), "a-1", &models.SubmitAttemptRequest{})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.False(t, IsNetworkError(err))
}

func TestHTTPClient_NetworkFailures(t *testing.T) {
	t.Run("unreachable server", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // refuse connections

		c := NewHTTPClient(server.URL, http.DefaultClient, "", testLogger())
		_, err := c.FetchAssessment(context.Background(), "a-1")
		require.Error(t, err)
		assert.True(t, IsNetworkError(err))
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		c := NewHTTPClient(server.URL, server.Client(), "", testLogger())
		_, err := c.FetchQuestions(context.Background(), "a-1")
		require.Error(t, err)
		assert.True(t, IsNetworkError(err))
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not json"))
		}))
		defer server.Close()

		c := NewHTTPClient(server.URL, server.Client(), "", testLogger())
		_, err := c.FetchAssessment(context.Background(), "a-1")
		require.Error(t, err)
		assert.True(t, IsNetworkError(err))
	})
}
