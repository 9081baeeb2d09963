package client

import (
	"errors"
	"fmt"
)

// ErrorKind classifies collaborator failures so callers can branch without
// inspecting transport details.
type ErrorKind string

const (
	KindNotFound   ErrorKind = "not_found"
	KindNetwork    ErrorKind = "network"
	KindValidation ErrorKind = "validation"
)

var (
	ErrAssessmentNotFound = errors.New("assessment not found")
)

// APIError is a failure returned by the remote learning platform API.
type APIError struct {
	Kind       ErrorKind `json:"kind"`
	Op         string    `json:"op"`
	StatusCode int       `json:"status_code,omitempty"`
	Message    string    `json:"message"`
	Err        error     `json:"-"`
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (%s, status %d)", e.Op, e.Message, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Kind)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func newNetworkError(op string, err error) *APIError {
	return &APIError{
		Kind:    KindNetwork,
		Op:      op,
		Message: err.Error(),
		Err:     err,
	}
}

func newStatusError(op string, kind ErrorKind, statusCode int, message string) *APIError {
	return &APIError{
		Kind:       kind,
		Op:         op,
		StatusCode: statusCode,
		Message:    message,
	}
}

// IsNotFound checks if error represents a "not found" response
func IsNotFound(err error) bool {
	if errors.Is(err, ErrAssessmentNotFound) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindNotFound
}

// IsNetworkError checks if error represents a transport or server failure
func IsNetworkError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindNetwork
}

// IsValidationError checks if error represents a payload rejected by the
// remote service
func IsValidationError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindValidation
}
