// internal/common/errors/handler.go
package errors

import (
	"net/http"
	"time"
)

// ErrorHandler normalizes pipeline errors and maps them onto HTTP responses.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// ErrorResponse is the JSON body returned for request-level failures.
type ErrorResponse struct {
	Success   bool      `json:"success"`
	ErrorCode string    `json:"error_code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Normalize ensures we always have a StandardError.
func (h *ErrorHandler) Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HandleRequestError logs the error and returns the status and body to send.
func (h *ErrorHandler) HandleRequestError(requestID string, err error) (int, ErrorResponse) {
	stdErr := h.Normalize(err)

	h.logger.Error("Request failed", map[string]interface{}{
		"requestId":     requestID,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	})

	return HTTPStatus(stdErr.Code), ErrorResponse{
		Success:   false,
		ErrorCode: string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Timestamp: stdErr.Timestamp,
	}
}

// HTTPStatus maps an error code to the status for the request-level response.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodePublisherUnknown:
		return http.StatusNotFound
	case ErrCodePublisherDisabled:
		return http.StatusForbidden
	case ErrCodeCatalogEmpty, ErrCodeCatalogLoadFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
