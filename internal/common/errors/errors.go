// Package errors provides standardized error handling for the ad serving pipeline.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrCodePublisherUnknown   ErrorCode = "PUBLISHER_UNKNOWN"
	ErrCodePublisherDisabled  ErrorCode = "PUBLISHER_DISABLED"

	ErrCodeCatalogLoadFailed ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeCatalogEmpty      ErrorCode = "CATALOG_EMPTY"

	ErrCodeCrawlSubmitFailed ErrorCode = "CRAWL_SUBMIT_FAILED"
	ErrCodeCrawlPollFailed   ErrorCode = "CRAWL_POLL_FAILED"
	ErrCodeCrawlTimeout      ErrorCode = "CRAWL_TIMEOUT"
	ErrCodeCrawlJobFailed    ErrorCode = "CRAWL_JOB_FAILED"
	ErrCodeCrawlFetchFailed  ErrorCode = "CRAWL_FETCH_FAILED"
	ErrCodeCrawlEmptyResults ErrorCode = "CRAWL_EMPTY_RESULTS"

	ErrCodeStylingFailed  ErrorCode = "STYLING_FAILED"
	ErrCodeStylingTimeout ErrorCode = "STYLING_TIMEOUT"

	ErrCodeCacheReadFailed  ErrorCode = "CACHE_READ_FAILED"
	ErrCodeCacheWriteFailed ErrorCode = "CACHE_WRITE_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeImpressionInsertFailed   ErrorCode = "IMPRESSION_INSERT_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidRequestError creates a non-retryable bad request error.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Ad request failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPublisherUnknownError creates a non-retryable unknown publisher error.
func NewPublisherUnknownError(publisherID string) *StandardError {
	return &StandardError{
		Code:      ErrCodePublisherUnknown,
		Message:   "Publisher not found in registry",
		Details:   fmt.Sprintf("publisherId: %s", publisherID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPublisherDisabledError creates a non-retryable disabled publisher error.
func NewPublisherDisabledError(publisherID string) *StandardError {
	return &StandardError{
		Code:      ErrCodePublisherDisabled,
		Message:   "Publisher is disabled",
		Details:   fmt.Sprintf("publisherId: %s", publisherID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogLoadFailedError creates a non-retryable catalog load error.
func NewCatalogLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogLoadFailed,
		Message:   "Product catalog load failed",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogEmptyError creates a non-retryable empty catalog error.
func NewCatalogEmptyError(path string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogEmpty,
		Message:   "Product catalog contains no products",
		Details:   fmt.Sprintf("path: %s", path),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCrawlSubmitFailedError creates a retryable crawl submission error.
func NewCrawlSubmitFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCrawlSubmitFailed,
		Message:   "Crawl job submission failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCrawlPollFailedError creates a retryable crawl status poll error.
func NewCrawlPollFailedError(runID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCrawlPollFailed,
		Message:   "Crawl status poll failed",
		Details:   fmt.Sprintf("runId: %s, error: %s", runID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCrawlTimeoutError creates a non-retryable (degrade, don't retry) crawl timeout error.
func NewCrawlTimeoutError(runID string, waited time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeCrawlTimeout,
		Message:   "Crawl job did not finish in time",
		Details:   fmt.Sprintf("runId: %s, waited: %s", runID, waited),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCrawlJobFailedError creates a non-retryable terminal crawl status error.
func NewCrawlJobFailedError(runID, status string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCrawlJobFailed,
		Message:   "Crawl job finished in a failed state",
		Details:   fmt.Sprintf("runId: %s, status: %s", runID, status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCrawlFetchFailedError creates a retryable results fetch error.
func NewCrawlFetchFailedError(runID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCrawlFetchFailed,
		Message:   "Crawl results fetch failed",
		Details:   fmt.Sprintf("runId: %s, error: %s", runID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCrawlEmptyResultsError creates a non-retryable empty results error.
func NewCrawlEmptyResultsError(runID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCrawlEmptyResults,
		Message:   "Crawl job returned no items",
		Details:   fmt.Sprintf("runId: %s", runID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStylingFailedError creates a retryable image styling error.
func NewStylingFailedError(imageURL string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStylingFailed,
		Message:   "Image styling call failed",
		Details:   fmt.Sprintf("imageUrl: %s, error: %s", imageURL, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStylingTimeoutError creates a non-retryable (fall back to original) styling timeout error.
func NewStylingTimeoutError(imageURL string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStylingTimeout,
		Message:   "Image styling call timed out",
		Details:   fmt.Sprintf("imageUrl: %s", imageURL),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheReadFailedError creates a retryable cache read error.
func NewCacheReadFailedError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheReadFailed,
		Message:   "Page context cache read failed",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheWriteFailedError creates a retryable cache write error.
func NewCacheWriteFailedError(key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheWriteFailed,
		Message:   "Page context cache write failed",
		Details:   fmt.Sprintf("key: %s, error: %s", key, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewImpressionInsertFailedError creates a retryable impression insert error.
func NewImpressionInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeImpressionInsertFailed,
		Message:   "Impression insert failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Retry Policy
// ==========================

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCrawlSubmitFailed,
		ErrCodeCrawlPollFailed,
		ErrCodeCrawlFetchFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeImpressionInsertFailed:
		return 3 // Retryable technical errors

	case ErrCodeCacheReadFailed,
		ErrCodeCacheWriteFailed:
		return 2

	case ErrCodeStylingFailed:
		return 1 // One retry, then fall back to the original image

	default:
		return 0 // Degrade or reject: no retry
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PUBLISHER"):
		return "PUBLISHER"
	case strings.Contains(codeStr, "CATALOG"):
		return "CATALOG"
	case strings.Contains(codeStr, "CRAWL"):
		return "CRAWL"
	case strings.Contains(codeStr, "STYLING"):
		return "STYLING"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "IMPRESSION"):
		return "DATABASE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
