// internal/common/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeInvalidInput, 0},
		{ErrCodeProviderLookupFailed, 3},
		{ErrCodeDestinationLookupFailed, 3},
		{ErrCodeSchemaProbeFailed, 2},
		{ErrCodeUnsupportedDispatchMode, 0},
		{ErrCodeDispatchNotReady, 0},
		{ErrCodeEmailSendFailed, 3},
		{ErrCodeAlertPublishFailed, 2},
		{ErrCodeEngineUnavailable, 3},
		{ErrCodeEngineRejected, 0},
		{ErrCodeInternal, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetRetryCount(tt.code))
			assert.Equal(t, tt.want > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewDispatchNotReadyError("dest-1", []string{"Missing provider email", "Missing RFQ URL"}).
		WithMetadata("destinationId", "dest-1")

	bpmn := ConvertToBPMNError(stdErr)

	assert.Equal(t, "DISPATCH_NOT_READY", bpmn.Code)
	assert.False(t, bpmn.Retryable)
	assert.Equal(t, 0, bpmn.Retries)
	assert.Contains(t, bpmn.Details, "Missing provider email; Missing RFQ URL")

	vars := bpmn.ToErrorVariables()
	assert.Equal(t, "DISPATCH_NOT_READY", vars["errorCode"])
	assert.Equal(t, "DISPATCH_NOT_READY", vars["originalErrorCode"])
	assert.Equal(t, "dest-1", vars["destinationId"])
}

func TestConvertToBPMNError_RetryableCodeMarkedNonRetryable(t *testing.T) {
	stdErr := NewEmailSendFailedError(stderrors.New("throttled"))
	stdErr.Retryable = false

	assert.Equal(t, 0, ConvertToBPMNError(stdErr).Retries)
}

func TestGetErrorCategory(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeInvalidInput:            "VALIDATION",
		ErrCodeProviderLookupFailed:    "RECORD_STORE",
		ErrCodeSchemaProbeFailed:       "RECORD_STORE",
		ErrCodeUnsupportedDispatchMode: "DISPATCH",
		ErrCodeDispatchNotReady:        "DISPATCH",
		ErrCodeEmailSendFailed:         "DELIVERY",
		ErrCodeAlertPublishFailed:      "DELIVERY",
		ErrCodeEngineUnavailable:       "WORKFLOW_ENGINE",
		ErrCodeInternal:                "OTHER",
	}
	for code, want := range tests {
		assert.Equal(t, want, GetErrorCategory(code), code)
	}
}

type recordingLogger struct {
	messages []string
	fields   []map[string]interface{}
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, msg)
	l.fields = append(l.fields, fields)
}

func TestNormalizeError(t *testing.T) {
	h := NewErrorHandler(&recordingLogger{})

	wrapped := fmt.Errorf("rank: %w", NewProviderLookupFailedError("postgres", stderrors.New("conn reset")))
	got := h.normalizeError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, ErrCodeProviderLookupFailed, got.Code)
	assert.True(t, got.Retryable)

	plain := h.normalizeError(stderrors.New("nil map"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "nil map", plain.Details)
	assert.False(t, plain.Retryable)
}

func TestRetryPlan(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		jobRetries  int32
		wantRetries int
		wantThrow   bool
	}{
		{"retryable with engine retries", NewEmailSendFailedError(stderrors.New("throttled")), 3, 3, false},
		{"engine has fewer retries", NewEmailSendFailedError(stderrors.New("throttled")), 1, 1, false},
		{"engine out of retries", NewEmailSendFailedError(stderrors.New("throttled")), 0, 0, true},
		{"business error", NewInvalidInputError("missing quoteId"), 3, 0, true},
		{"retryable code marked permanent", &StandardError{Code: ErrCodeProviderLookupFailed, Retryable: false}, 3, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retries, throw := retryPlan(ConvertToBPMNError(tt.err), tt.jobRetries)
			assert.Equal(t, tt.wantRetries, retries)
			assert.Equal(t, tt.wantThrow, throw)
		})
	}
}
