// Package apierrors provides structured API error responses.
package apierrors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jefferson-ssantos/monitor-ipu/internal/correlation"
)

// APIError is the wire shape of every error the API returns.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Details    any    `json:"details,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Write writes the error response, stamping the request's correlation ID.
func (e *APIError) Write(w http.ResponseWriter, r *http.Request) {
	e.RequestID = correlation.GetID(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	json.NewEncoder(w).Encode(e)
}

func NewBadRequestError(message string) *APIError {
	return &APIError{Code: "BAD_REQUEST", Message: message, StatusCode: http.StatusBadRequest}
}

func NewUnauthorizedError(message string) *APIError {
	return &APIError{Code: "UNAUTHORIZED", Message: message, StatusCode: http.StatusUnauthorized}
}

func NewForbiddenError(message string) *APIError {
	return &APIError{Code: "FORBIDDEN", Message: message, StatusCode: http.StatusForbidden}
}

func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		StatusCode: http.StatusNotFound,
	}
}

func NewValidationError(message string, details any) *APIError {
	return &APIError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func NewInternalError(message string) *APIError {
	return &APIError{Code: "INTERNAL_ERROR", Message: message, StatusCode: http.StatusInternalServerError}
}

// FromError converts any error into an APIError, hiding internals behind a
// generic message unless the error already is one.
func FromError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewInternalError("An unexpected error occurred")
}
