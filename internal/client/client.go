package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/learnsphere/assessment-client/internal/models"
	"github.com/learnsphere/assessment-client/internal/utils"
)

// Client is the contract to the remote learning platform API. The session
// controller depends on these three operations and nothing else; transport
// and payload format are owned by this package.
type Client interface {
	// FetchAssessment retrieves assessment metadata. Fails with a not-found
	// or network error.
	FetchAssessment(ctx context.Context, assessmentID string) (*models.Assessment, error)

	// FetchQuestions retrieves the ordered question list for an assessment.
	// The order delivered by the service is preserved verbatim. An empty
	// list is a valid response here; the session layer decides what it means.
	FetchQuestions(ctx context.Context, assessmentID string) ([]models.Question, error)

	// SubmitAttempt sends the completed answer payload for grading and
	// returns the graded attempt.
	SubmitAttempt(ctx context.Context, assessmentID string, req *models.SubmitAttemptRequest) (*models.AttemptResult, error)
}

// HTTPClient implements Client against the learning platform's REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	authToken  string
	logger     utils.Logger
}

// NewHTTPClient creates a client for the API rooted at baseURL. The user's
// bearer token identifies the caller to the platform; authentication itself
// is owned by the platform, not this client.
func NewHTTPClient(baseURL string, httpClient *http.Client, authToken string, logger utils.Logger) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		authToken:  authToken,
		logger:     logger,
	}
}

func (c *HTTPClient) FetchAssessment(ctx context.Context, assessmentID string) (*models.Assessment, error) {
	var assessment models.Assessment

	path := fmt.Sprintf("/api/v1/assessments/%s", url.PathEscape(assessmentID))
	if err := c.get(ctx, "fetch_assessment", path, &assessment); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Kind == KindNotFound {
			apiErr.Err = ErrAssessmentNotFound
		}
		return nil, err
	}

	return &assessment, nil
}

func (c *HTTPClient) FetchQuestions(ctx context.Context, assessmentID string) ([]models.Question, error) {
	var questions []models.Question

	path := fmt.Sprintf("/api/v1/assessments/%s/questions", url.PathEscape(assessmentID))
	if err := c.get(ctx, "fetch_questions", path, &questions); err != nil {
		return nil, err
	}

	return questions, nil
}

func (c *HTTPClient) SubmitAttempt(ctx context.Context, assessmentID string, req *models.SubmitAttemptRequest) (*models.AttemptResult, error) {
	const op = "submit_attempt"

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submission payload: %w", err)
	}

	path := fmt.Sprintf("/api/v1/assessments/%s/submit", url.PathEscape(assessmentID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.setAuth(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Submission request failed",
			"assessment_id", assessmentID,
			"error", err)
		return nil, newNetworkError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.statusError(op, resp)
	}

	var result models.AttemptResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, newNetworkError(op, fmt.Errorf("failed to decode attempt result: %w", err))
	}

	c.logger.Info("Attempt submitted",
		"assessment_id", assessmentID,
		"attempt_id", result.ID,
		"answers_count", len(req.Answers))

	return &result, nil
}

func (c *HTTPClient) get(ctx context.Context, op, path string, dest any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	c.setAuth(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return newNetworkError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return newNetworkError(op, fmt.Errorf("failed to decode response: %w", err))
	}

	return nil
}

func (c *HTTPClient) setAuth(req *http.Request) {
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}

// statusError maps a non-2xx response to the error taxonomy. The body is
// read for the platform's detail message but never trusted beyond that.
func (c *HTTPClient) statusError(op string, resp *http.Response) *APIError {
	message := http.StatusText(resp.StatusCode)

	var detail struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if body, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		if json.Unmarshal(body, &detail) == nil {
			if detail.Detail != "" {
				message = detail.Detail
			} else if detail.Message != "" {
				message = detail.Message
			}
		}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return newStatusError(op, KindNotFound, resp.StatusCode, message)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return newStatusError(op, KindValidation, resp.StatusCode, message)
	default:
		return newStatusError(op, KindNetwork, resp.StatusCode, message)
	}
}
