// Package errors provides standardized error handling for the concierge workflow.
package errors

import (
	"errors"
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
	ErrCodeValidationBlocked    ErrorCode = "VALIDATION_BLOCKED"
	ErrCodePropertyNotFound     ErrorCode = "PROPERTY_NOT_FOUND"
	ErrCodeFormAlreadySubmitted ErrorCode = "FORM_ALREADY_SUBMITTED"
	ErrCodeFormNotFound         ErrorCode = "FORM_NOT_FOUND"
	ErrCodeInvalidFormKind      ErrorCode = "INVALID_FORM_KIND"
	ErrCodeInvalidStepMove      ErrorCode = "INVALID_STEP_MOVE"
	ErrCodeRequestBuildFailed   ErrorCode = "REQUEST_BUILD_FAILED"
	ErrCodeTransportFailed      ErrorCode = "NOTIFICATION_TRANSPORT_FAILED"
	ErrCodeWebhookURLMissing    ErrorCode = "WEBHOOK_URL_MISSING"
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

// NewValidationBlockedError signals that a form step transition was refused.
// It never crosses the workflow boundary as a fault; callers re-prompt.
func NewValidationBlockedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationBlocked,
		Message:   "Required fields missing or malformed for the current step",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPropertyNotFoundError creates a recoverable catalog lookup miss.
func NewPropertyNotFoundError(name string) *StandardError {
	return &StandardError{
		Code:      ErrCodePropertyNotFound,
		Message:   "Property not found in catalog",
		Details:   fmt.Sprintf("propertyName: %s", name),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFormAlreadySubmittedError rejects a second submit on a terminal wizard.
func NewFormAlreadySubmittedError(formID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFormAlreadySubmitted,
		Message:   "Form has already been submitted",
		Details:   fmt.Sprintf("formId: %s", formID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFormNotFoundError creates an error for an unknown form id.
func NewFormNotFoundError(formID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFormNotFound,
		Message:   "No active form with the given id",
		Details:   fmt.Sprintf("formId: %s", formID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFormKindError rejects an unrecognized form kind.
func NewInvalidFormKindError(kind string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFormKind,
		Message:   "Unsupported form kind",
		Details:   fmt.Sprintf("kind: %s", kind),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidStepMoveError rejects a retreat from the first step or an
// update on a terminal wizard.
func NewInvalidStepMoveError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidStepMove,
		Message:   "Step transition not allowed from the current state",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestBuildFailedError wraps a failure to construct the outbound payload.
func NewRequestBuildFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestBuildFailed,
		Message:   "Notification request construction failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportFailedError wraps a local transport failure during dispatch.
// The remote endpoint never reports processing failures; this covers only
// errors observable on our side of the wire.
func NewTransportFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransportFailed,
		Message:   "Notification request could not be transmitted",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWebhookURLMissingError is raised at startup when no endpoint is configured.
func NewWebhookURLMissingError() *StandardError {
	return &StandardError{
		Code:      ErrCodeWebhookURLMissing,
		Message:   "Webhook endpoint URL is not configured",
		Details:   "set notifications.webhook_url or WEBHOOK_URL",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// CodeOf extracts the ErrorCode from an error chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// IsRetryable reports whether the error is worth retrying locally.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "STEP"):
		return "VALIDATION"
	case strings.Contains(codeStr, "PROPERTY"):
		return "CATALOG"
	case strings.Contains(codeStr, "FORM"):
		return "FORM"
	case strings.Contains(codeStr, "TRANSPORT") || strings.Contains(codeStr, "WEBHOOK") || strings.Contains(codeStr, "REQUEST"):
		return "DISPATCH"
	default:
		return "OTHER"
	}
}
