// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// ErrorHandler reports a failed job back to the engine.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleJobError fails the job with retries when the error code allows it
// and the engine has retries left. Otherwise it throws a BPMN error so the
// process can route on the code.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := h.normalizeError(err)
	bpmnErr := ConvertToBPMNError(stdErr)
	retries, throw := retryPlan(bpmnErr, job.Retries)

	h.logError(job, stdErr, bpmnErr, retries, throw)

	vars, marshalErr := json.Marshal(bpmnErr.ToErrorVariables())
	if marshalErr != nil {
		vars = nil
	}

	var sendErr error
	if throw {
		sendErr = h.throwBPMNError(ctx, client, job, bpmnErr, vars)
	} else {
		sendErr = h.failJob(ctx, client, job, bpmnErr, retries, vars)
	}
	if sendErr != nil {
		h.logger.Error("reporting job failure to engine failed", map[string]interface{}{
			"jobKey":    job.Key,
			"errorCode": bpmnErr.Code,
			"error":     sendErr.Error(),
		})
	}
}

// retryPlan returns the retries to hand back to the engine, or throw=true
// when the job should end in a BPMN error. jobRetries is what the engine
// has left and is never raised.
func retryPlan(bpmnErr *BPMNError, jobRetries int32) (retries int, throw bool) {
	if bpmnErr.Retries <= 0 || jobRetries <= 0 {
		return 0, true
	}
	retries = bpmnErr.Retries
	if int(jobRetries) < retries {
		retries = int(jobRetries)
	}
	return retries, false
}

// normalizeError unwraps a StandardError or wraps anything else as internal.
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func (h *ErrorHandler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError, retries int, vars []byte) error {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(int32(retries)).
		ErrorMessage(bpmnErr.Message)

	if vars != nil {
		if withVars, err := cmd.VariablesFromString(string(vars)); err == nil {
			_, err = withVars.Send(ctx)
			return err
		}
	}
	_, err := cmd.Send(ctx)
	return err
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError, vars []byte) error {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if vars != nil {
		if withVars, err := cmd.VariablesFromString(string(vars)); err == nil {
			_, err = withVars.Send(ctx)
			return err
		}
	}
	_, err := cmd.Send(ctx)
	return err
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError, retries int, throw bool) {
	fields := map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(stdErr.Code),
		"bpmnErrorCode":    bpmnErr.Code,
		"message":          bpmnErr.Message,
		"details":          stdErr.Details,
		"errorCategory":    GetErrorCategory(stdErr.Code),
		"retriesLeft":      retries,
		"thrown":           throw,
		"workflowInstance": job.ProcessInstanceKey,
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}
	h.logger.Error("job failed", fields)
}
