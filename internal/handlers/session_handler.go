package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/learnsphere/assessment-client/internal/export"
	"github.com/learnsphere/assessment-client/internal/session"
	"github.com/learnsphere/assessment-client/internal/utils"
	"github.com/learnsphere/assessment-client/internal/validator"
)

type SessionHandler struct {
	BaseHandler
	manager   *session.Manager
	validator *validator.Validator
}

func NewSessionHandler(manager *session.Manager, v *validator.Validator, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		manager:     manager,
		validator:   v,
	}
}

// ===== REQUEST STRUCTURES =====

type StartSessionRequest struct {
	AssessmentID string `json:"assessment_id" validate:"required"`
}

type NavigateRequest struct {
	// Exactly one of Index or Direction is used; Index wins when both are set.
	Index     *int   `json:"index" validate:"omitempty,min=0"`
	Direction string `json:"direction" validate:"omitempty,navigation_direction"`
}

type RecordAnswerRequest struct {
	Answer any `json:"answer" validate:"required"`
}

type SubmitRequest struct {
	ConfirmUnanswered bool `json:"confirm_unanswered"`
}

// StartSession creates a session for an assessment and loads its questions.
// A load failure is terminal: no session is registered and the failure
// reason is returned for display.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	userID := CurrentUserID(c)
	ctrl, err := h.manager.Start(c.Request.Context(), req.AssessmentID, userID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ctrl.State())
}

// GetSession returns the current session state snapshot
func (h *SessionHandler) GetSession(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.State())
}

// Navigate moves the current question pointer. Out-of-range targets are a
// no-op on the session; the returned state reflects whatever position the
// session settled on.
func (h *SessionHandler) Navigate(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}

	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	switch {
	case req.Index != nil:
		ctrl.GoToQuestion(*req.Index)
	case strings.EqualFold(req.Direction, "next"):
		ctrl.Next()
	case strings.EqualFold(req.Direction, "previous"):
		ctrl.Previous()
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Either index or direction is required",
		})
		return
	}

	c.JSON(http.StatusOK, ctrl.State())
}

// RecordAnswer records an answer for one question of the session
func (h *SessionHandler) RecordAnswer(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}

	questionID := strings.TrimSpace(c.Param("question_id"))
	if questionID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid question_id"})
		return
	}

	var req RecordAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	if req.Answer == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Answer value is required"})
		return
	}

	if err := ctrl.RecordAnswer(questionID, req.Answer); err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, ctrl.State())
}

// Submit sends the attempt for grading. When unanswered questions remain
// and the caller has not confirmed, it responds 409 with the unanswered
// count instead of submitting; the timer-triggered path inside the session
// never passes through this gate.
func (h *SessionHandler) Submit(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if unanswered := ctrl.UnansweredCount(); unanswered > 0 && !req.ConfirmUnanswered {
		c.JSON(http.StatusConflict, ConfirmationRequiredResponse{
			Message:         fmt.Sprintf("%d questions are unanswered; confirm to submit anyway", unanswered),
			UnansweredCount: unanswered,
		})
		return
	}

	result, err := ctrl.Submit(c.Request.Context(), false)
	if err != nil {
		// Submission failures revert the session to not_submitted; the
		// state in the response carries the inline error for display.
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Attempt submitted",
		Data:    gin.H{"attempt": result, "state": ctrl.State()},
	})
}

// DownloadReport streams the submitted attempt's xlsx report
func (h *SessionHandler) DownloadReport(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}

	state := ctrl.State()
	if state.Result == nil {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Report is available after submission",
		})
		return
	}

	report, err := export.BuildAttemptReport(state)
	if err != nil {
		h.LogError(c, err, "Failed to build attempt report", "session_id", state.SessionID)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to build report"})
		return
	}

	var buf bytes.Buffer
	if _, err := report.WriteTo(&buf); err != nil {
		h.LogError(c, err, "Failed to serialize attempt report", "session_id", state.SessionID)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to build report"})
		return
	}

	filename := export.ReportFilename(state.Result)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// CloseSession tears down a session, cancelling its countdown
func (h *SessionHandler) CloseSession(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("id"))
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid session id"})
		return
	}

	if err := h.manager.Close(sessionID, CurrentUserID(c)); err != nil {
		h.handleSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Session closed"})
}

func (h *SessionHandler) session(c *gin.Context) (*session.Controller, bool) {
	sessionID := strings.TrimSpace(c.Param("id"))
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid session id"})
		return nil, false
	}

	ctrl, err := h.manager.Get(sessionID, CurrentUserID(c))
	if err != nil {
		h.handleSessionError(c, err)
		return nil, false
	}
	return ctrl, true
}
