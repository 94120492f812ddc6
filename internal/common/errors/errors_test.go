// internal/common/errors/errors_test.go
package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Constructor Tests
// ==========================

func TestErrorConstructors(t *testing.T) {
	cause := fmt.Errorf("underlying failure")

	tests := []struct {
		name      string
		err       *StandardError
		code      ErrorCode
		retryable bool
	}{
		{name: "invalid request", err: NewInvalidRequestError("url missing"), code: ErrCodeInvalidRequest, retryable: false},
		{name: "publisher unknown", err: NewPublisherUnknownError("pub_x"), code: ErrCodePublisherUnknown, retryable: false},
		{name: "publisher disabled", err: NewPublisherDisabledError("pub_x"), code: ErrCodePublisherDisabled, retryable: false},
		{name: "catalog load failed", err: NewCatalogLoadFailedError("/data", cause), code: ErrCodeCatalogLoadFailed, retryable: false},
		{name: "catalog empty", err: NewCatalogEmptyError("/data"), code: ErrCodeCatalogEmpty, retryable: false},
		{name: "crawl submit failed", err: NewCrawlSubmitFailedError(cause), code: ErrCodeCrawlSubmitFailed, retryable: true},
		{name: "crawl fetch failed", err: NewCrawlFetchFailedError("run-1", cause), code: ErrCodeCrawlFetchFailed, retryable: true},
		{name: "styling failed", err: NewStylingFailedError("img://a", cause), code: ErrCodeStylingFailed, retryable: true},
		{name: "styling timeout", err: NewStylingTimeoutError("img://a"), code: ErrCodeStylingTimeout, retryable: false},
		{name: "cache read failed", err: NewCacheReadFailedError("key", cause), code: ErrCodeCacheReadFailed, retryable: true},
		{name: "impression insert failed", err: NewImpressionInsertFailedError(cause), code: ErrCodeImpressionInsertFailed, retryable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.retryable, tt.err.Retryable)
			assert.NotEmpty(t, tt.err.Message)
			assert.False(t, tt.err.Timestamp.IsZero())
		})
	}
}

func TestStandardError_Error(t *testing.T) {
	err := NewInvalidRequestError("bad payload")
	assert.Contains(t, err.Error(), "INVALID_REQUEST")
	assert.Contains(t, err.Error(), "validation")
}

// ==========================
// Retry Policy Tests
// ==========================

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeCrawlSubmitFailed, 3},
		{ErrCodeCrawlPollFailed, 3},
		{ErrCodeCrawlFetchFailed, 3},
		{ErrCodeDatabaseConnectionFailed, 3},
		{ErrCodeImpressionInsertFailed, 3},
		{ErrCodeCacheReadFailed, 2},
		{ErrCodeCacheWriteFailed, 2},
		{ErrCodeStylingFailed, 1},
		{ErrCodeStylingTimeout, 0},
		{ErrCodeInvalidRequest, 0},
		{ErrCodeCatalogEmpty, 0},
		{ErrCodeCrawlTimeout, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetRetryCount(tt.code))
			assert.Equal(t, tt.want > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodePublisherUnknown, "PUBLISHER"},
		{ErrCodeCatalogLoadFailed, "CATALOG"},
		{ErrCodeCrawlJobFailed, "CRAWL"},
		{ErrCodeStylingTimeout, "STYLING"},
		{ErrCodeCacheWriteFailed, "CACHE"},
		{ErrCodeDatabaseConnectionFailed, "DATABASE"},
		{ErrCodeImpressionInsertFailed, "DATABASE"},
		{ErrCodeInvalidRequest, "VALIDATION"},
		{"SOMETHING_ELSE", "OTHER"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorCategory(tt.code))
		})
	}
}

// ==========================
// HTTP Mapping Tests
// ==========================

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeInvalidRequest, http.StatusBadRequest},
		{ErrCodePublisherUnknown, http.StatusNotFound},
		{ErrCodePublisherDisabled, http.StatusForbidden},
		{ErrCodeCatalogEmpty, http.StatusServiceUnavailable},
		{ErrCodeCatalogLoadFailed, http.StatusServiceUnavailable},
		{ErrCodeCrawlSubmitFailed, http.StatusInternalServerError},
		{"UNKNOWN", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

// ==========================
// Handler Tests
// ==========================

type captureLogger struct {
	lastMsg    string
	lastFields map[string]interface{}
}

func (c *captureLogger) Error(msg string, fields map[string]interface{}) {
	c.lastMsg = msg
	c.lastFields = fields
}

func TestErrorHandler_HandleRequestError(t *testing.T) {
	log := &captureLogger{}
	h := NewErrorHandler(log)

	status, body := h.HandleRequestError("req-1", NewPublisherUnknownError("pub_x"))

	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, body.Success)
	assert.Equal(t, "PUBLISHER_UNKNOWN", body.ErrorCode)
	assert.NotEmpty(t, body.Message)
	assert.Equal(t, "req-1", log.lastFields["requestId"])
	assert.Equal(t, "PUBLISHER", log.lastFields["errorCategory"])
}

func TestErrorHandler_NormalizeWrapsPlainErrors(t *testing.T) {
	h := NewErrorHandler(&captureLogger{})

	status, body := h.HandleRequestError("req-1", fmt.Errorf("boom"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", body.ErrorCode)
	assert.Equal(t, "boom", body.Details)
}
