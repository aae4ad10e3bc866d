// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	ErrCodeProviderLookupFailed    ErrorCode = "PROVIDER_LOOKUP_FAILED"
	ErrCodeDestinationLookupFailed ErrorCode = "DESTINATION_LOOKUP_FAILED"
	ErrCodeSchemaProbeFailed       ErrorCode = "SCHEMA_PROBE_FAILED"

	ErrCodeUnsupportedDispatchMode ErrorCode = "UNSUPPORTED_DISPATCH_MODE"
	ErrCodeDispatchNotReady        ErrorCode = "DISPATCH_NOT_READY"

	ErrCodeEmailSendFailed    ErrorCode = "EMAIL_SEND_FAILED"
	ErrCodeAlertPublishFailed ErrorCode = "ALERT_PUBLISH_FAILED"

	ErrCodeEngineUnavailable ErrorCode = "ENGINE_UNAVAILABLE"
	ErrCodeEngineRejected    ErrorCode = "ENGINE_REJECTED"

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

// WithMetadata sets a metadata key and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
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

// NewInvalidInputError creates a non-retryable input validation error.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Job input failed validation", details, false)
}

// NewProviderLookupFailedError creates a retryable record store error for provider reads.
func NewProviderLookupFailedError(source string, err error) *StandardError {
	return newError(ErrCodeProviderLookupFailed, "Provider lookup failed",
		fmt.Sprintf("source: %s, error: %s", source, err.Error()), true)
}

// NewDestinationLookupFailedError creates a retryable record store error for outreach reads.
func NewDestinationLookupFailedError(quoteID string, err error) *StandardError {
	return newError(ErrCodeDestinationLookupFailed, "Destination lookup failed",
		fmt.Sprintf("quoteId: %s, error: %s", quoteID, err.Error()), true)
}

func NewSchemaProbeFailedError(table string, err error) *StandardError {
	return newError(ErrCodeSchemaProbeFailed, "Column availability probe failed",
		fmt.Sprintf("table: %s, error: %s", table, err.Error()), true)
}

// NewUnsupportedDispatchModeError creates a non-retryable error for a mode no adapter handles.
func NewUnsupportedDispatchModeError(mode string) *StandardError {
	return newError(ErrCodeUnsupportedDispatchMode, "No adapter for dispatch mode",
		fmt.Sprintf("mode: %q", mode), false)
}

// NewDispatchNotReadyError creates a non-retryable error listing the blocking reasons.
func NewDispatchNotReadyError(destinationID string, reasons []string) *StandardError {
	return newError(ErrCodeDispatchNotReady, "Destination is not ready to dispatch",
		fmt.Sprintf("destinationId: %s, reasons: %s", destinationID, strings.Join(reasons, "; ")), false)
}

// NewEmailSendFailedError creates a retryable email delivery error.
func NewEmailSendFailedError(err error) *StandardError {
	return newError(ErrCodeEmailSendFailed, "Email delivery failed", err.Error(), true)
}

func NewAlertPublishFailedError(err error) *StandardError {
	return newError(ErrCodeAlertPublishFailed, "Alert publish failed", err.Error(), true)
}

// NewEngineUnavailableError creates a retryable error for a Zeebe gateway
// that could not be reached or timed out.
func NewEngineUnavailableError(operation string, err error) *StandardError {
	return newError(ErrCodeEngineUnavailable, "Workflow engine unavailable",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

// NewEngineRejectedError creates a non-retryable error for a command the
// gateway refused (not found, already exists, permission denied).
func NewEngineRejectedError(operation string, err error) *StandardError {
	return newError(ErrCodeEngineRejected, "Workflow engine rejected command",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), false)
}

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:            "INVALID_INPUT",
	ErrCodeProviderLookupFailed:    "PROVIDER_LOOKUP_FAILED",
	ErrCodeDestinationLookupFailed: "DESTINATION_LOOKUP_FAILED",
	ErrCodeSchemaProbeFailed:       "SCHEMA_PROBE_FAILED",
	ErrCodeUnsupportedDispatchMode: "UNSUPPORTED_DISPATCH_MODE",
	ErrCodeDispatchNotReady:        "DISPATCH_NOT_READY",
	ErrCodeEmailSendFailed:         "EMAIL_SEND_FAILED",
	ErrCodeAlertPublishFailed:      "ALERT_PUBLISH_FAILED",
	ErrCodeEngineUnavailable:       "ENGINE_UNAVAILABLE",
	ErrCodeEngineRejected:          "ENGINE_REJECTED",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeProviderLookupFailed,
		ErrCodeDestinationLookupFailed,
		ErrCodeEmailSendFailed,
		ErrCodeEngineUnavailable:
		return 3

	case ErrCodeAlertPublishFailed,
		ErrCodeSchemaProbeFailed:
		return 2

	default:
		return 0 // business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
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
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "LOOKUP") || strings.Contains(codeStr, "SCHEMA"):
		return "RECORD_STORE"
	case strings.Contains(codeStr, "DISPATCH"):
		return "DISPATCH"
	case strings.Contains(codeStr, "EMAIL") || strings.Contains(codeStr, "ALERT"):
		return "DELIVERY"
	case strings.Contains(codeStr, "ENGINE"):
		return "WORKFLOW_ENGINE"
	default:
		return "OTHER"
	}
}
