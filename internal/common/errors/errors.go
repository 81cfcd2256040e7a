// Package errors provides standardized error handling for the chatbot service.
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
	ErrCodeEmptyMessage   ErrorCode = "EMPTY_MESSAGE"
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	ErrCodeFAQFetchFailed ErrorCode = "FAQ_FETCH_FAILED"
	ErrCodeFAQTimeout     ErrorCode = "FAQ_TIMEOUT"

	ErrCodeConversationLogFailed ErrorCode = "CONVERSATION_LOG_FAILED"
	ErrCodeTrackingFailed        ErrorCode = "TRACKING_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
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

// NewEmptyMessageError creates a non-retryable validation error for blank input.
func NewEmptyMessageError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyMessage,
		Message:   "Message cannot be empty",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError creates a non-retryable request validation error.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFAQFetchFailedError creates a retryable knowledge base fetch error.
func NewFAQFetchFailedError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFAQFetchFailed,
		Message:   "FAQ knowledge base unavailable",
		Details:   fmt.Sprintf("source: %s, error: %s", source, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewFAQTimeoutError creates a retryable knowledge base timeout error.
func NewFAQTimeoutError(source string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFAQTimeout,
		Message:   "FAQ knowledge base timeout",
		Details:   fmt.Sprintf("source: %s", source),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewConversationLogFailedError creates a retryable conversation persistence error.
func NewConversationLogFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeConversationLogFailed,
		Message:   "Conversation logging failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTrackingFailedError creates a retryable fallback tracking error.
func NewTrackingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTrackingFailed,
		Message:   "Unanswered query tracking failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
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

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatus maps an error code to the response status sent to clients.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeEmptyMessage, ErrCodeInvalidRequest:
		return 400
	case ErrCodeFAQFetchFailed, ErrCodeFAQTimeout:
		return 502
	default:
		return 500
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeFAQFetchFailed,
		ErrCodeConversationLogFailed,
		ErrCodeTrackingFailed,
		ErrCodeNotificationSendFailed:
		return 3 // Retryable technical errors

	case ErrCodeFAQTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Validation errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "FAQ"):
		return "KNOWLEDGE_BASE"
	case strings.Contains(codeStr, "CONVERSATION") || strings.Contains(codeStr, "TRACKING"):
		return "PERSISTENCE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "EMPTY") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
