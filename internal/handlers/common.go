package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/learnsphere/assessment-client/internal/client"
	apperrors "github.com/learnsphere/assessment-client/internal/errors"
	"github.com/learnsphere/assessment-client/internal/session"
	"github.com/learnsphere/assessment-client/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ConfirmationRequiredResponse asks the caller to confirm submitting with
// unanswered questions. The gate is caller-side; the session itself never
// blocks a submission over unanswered questions.
type ConfirmationRequiredResponse struct {
	Message         string `json:"message"`
	UnansweredCount int    `json:"unanswered_count"`
}

// ===== BASE HANDLER =====

// BaseHandler provides common logging and error mapping for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogError logs error details with request context
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"request_id", c.GetHeader("X-Request-ID"),
		"user_id", CurrentUserID(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)

	h.logger.LogError(err, message, fields...)
}

// handleSessionError maps session and collaborator errors to HTTP responses
func (h *BaseHandler) handleSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Session not found"})
	case errors.Is(err, session.ErrSessionAccessDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Session belongs to another user"})
	case errors.Is(err, session.ErrUnknownQuestion):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Question does not belong to this session",
			Details: err.Error(),
		})
	case errors.Is(err, session.ErrAlreadySubmitted):
		c.JSON(http.StatusConflict, ErrorResponse{Message: "Attempt already submitted"})
	case errors.Is(err, session.ErrSubmissionInProgress):
		c.JSON(http.StatusConflict, ErrorResponse{Message: "Submission already in progress"})
	case errors.Is(err, session.ErrSessionNotReady):
		c.JSON(http.StatusConflict, ErrorResponse{Message: "Session is not ready"})
	case errors.Is(err, session.ErrSessionClosed):
		c.JSON(http.StatusGone, ErrorResponse{Message: "Session is closed"})
	case errors.Is(err, session.ErrEmptyQuestions):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Assessment has no questions",
			Details: err.Error(),
		})
	case client.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Assessment not found",
			Details: err.Error(),
		})
	case client.IsValidationError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Submission rejected by the grading service",
			Details: err.Error(),
		})
	case isValidationError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
	default:
		// Collaborator network failures and everything unexpected.
		h.LogError(c, err, "Upstream request failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Learning platform request failed",
			Details: err.Error(),
		})
	}
}

func isValidationError(err error) bool {
	var ve apperrors.ValidationErrors
	var single *apperrors.ValidationError
	return errors.As(err, &ve) || errors.As(err, &single)
}

// ===== USER IDENTITY =====

const userIDKey = "user_id"

// RequireUser extracts the authenticated user's identifier from the
// X-User-ID header set by the platform's auth gateway. Authentication
// itself is owned by the platform; this service only needs an explicit
// identity to bind sessions to.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
			})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// CurrentUserID returns the user id bound by RequireUser, or "".
func CurrentUserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
