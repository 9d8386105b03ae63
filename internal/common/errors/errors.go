// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInputValidationFailed   ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodeUnknownDomain           ErrorCode = "UNKNOWN_DOMAIN"
	ErrCodeApplicationNotFound     ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeInvalidStatusTransition ErrorCode = "INVALID_STATUS_TRANSITION"

	ErrCodeRecordFetchFailed  ErrorCode = "RECORD_FETCH_FAILED"
	ErrCodeStatusUpdateFailed ErrorCode = "STATUS_UPDATE_FAILED"
	ErrCodeStatusConflict     ErrorCode = "STATUS_CONFLICT"
	ErrCodeRecordSourceRO     ErrorCode = "RECORD_SOURCE_READ_ONLY"

	ErrCodeIndexingFailed         ErrorCode = "INDEXING_FAILED"
	ErrCodeSearchQueryFailed      ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeTimeout                ErrorCode = "TIMEOUT_ERROR"
	ErrCodeExternalService        ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
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
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func NewInputValidationFailedError(details string) *StandardError {
	return newError(ErrCodeInputValidationFailed, "Job input failed validation", details, false)
}

func NewUnknownDomainError(domain string) *StandardError {
	return newError(ErrCodeUnknownDomain, "Unknown application domain", fmt.Sprintf("domain: %s", domain), false)
}

func NewApplicationNotFoundError(domain, applicationID string) *StandardError {
	return newError(ErrCodeApplicationNotFound, "Application not found",
		fmt.Sprintf("domain: %s, applicationId: %s", domain, applicationID), false)
}

func NewInvalidStatusTransitionError(domain, from, to string) *StandardError {
	return newError(ErrCodeInvalidStatusTransition, "Status transition not allowed",
		fmt.Sprintf("domain: %s, from: %q, to: %q", domain, from, to), false)
}

func NewRecordFetchFailedError(err error) *StandardError {
	return newError(ErrCodeRecordFetchFailed, "Failed to fetch application record", err.Error(), true)
}

func NewStatusUpdateFailedError(err error) *StandardError {
	return newError(ErrCodeStatusUpdateFailed, "Failed to update application status", err.Error(), true)
}

// NewStatusConflictError reports a status that changed between read and
// write. A retry re-reads the record and plans again.
func NewStatusConflictError(domain, applicationID, observed string) *StandardError {
	return newError(ErrCodeStatusConflict, "Application status changed concurrently",
		fmt.Sprintf("domain: %s, applicationId: %s, observed: %q", domain, applicationID, observed), true)
}

func NewRecordSourceReadOnlyError(source string) *StandardError {
	return newError(ErrCodeRecordSourceRO, "Record source does not accept writes", fmt.Sprintf("source: %s", source), false)
}

func NewIndexingFailedError(err error) *StandardError {
	return newError(ErrCodeIndexingFailed, "Failed to index application progress", err.Error(), true)
}

func NewSearchQueryFailedError(err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Progress search failed", err.Error(), true)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

// As extracts a *StandardError from err's chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := As(err)
	return ok && stdErr.Code == code
}

// GetRetryCount returns how many times the workflow engine should retry a
// job that failed with code. Business errors are never retried.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeRecordFetchFailed,
		ErrCodeStatusUpdateFailed,
		ErrCodeStatusConflict,
		ErrCodeIndexingFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeTimeout:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError maps a StandardError to the error thrown to the engine.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory groups codes for dashboards and logs.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION"), code == ErrCodeUnknownDomain:
		return "INPUT"
	case code == ErrCodeInvalidStatusTransition, code == ErrCodeApplicationNotFound:
		return "BUSINESS"
	case strings.Contains(codeStr, "RECORD"), strings.Contains(codeStr, "STATUS"):
		return "DATA"
	case strings.Contains(codeStr, "INDEXING"), strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "TIMEOUT"), strings.Contains(codeStr, "EXTERNAL"):
		return "EXTERNAL"
	default:
		return "INTERNAL"
	}
}
