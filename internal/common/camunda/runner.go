// internal/common/camunda/runner.go
package camunda

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"rfq-dispatch-workers/internal/common/errors"
	"rfq-dispatch-workers/internal/common/logger"
	"rfq-dispatch-workers/internal/common/metrics"
	"rfq-dispatch-workers/internal/common/observability"
)

const reportTimeout = 10 * time.Second

// ExecuteFunc runs one job against its raw variables and returns the
// object to complete the job with.
type ExecuteFunc func(ctx context.Context, variables []byte) (interface{}, error)

// Runner drives a job through timeout, tracing, metrics, completion and
// the error taxonomy. Each worker owns one.
type Runner struct {
	taskType     string
	timeout      time.Duration
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
}

func NewRunner(taskType string, timeout time.Duration, log logger.Logger, obs *observability.Observability) *Runner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runner{
		taskType:     taskType,
		timeout:      timeout,
		logger:       log,
		errorHandler: errors.NewErrorHandler(log),
		obs:          obs,
	}
}

func (r *Runner) Run(client worker.JobClient, job entities.Job, exec ExecuteFunc) {
	start := time.Now()
	r.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	ctx, endSpan := r.obs.StartJobSpan(ctx, r.taskType, job.Key)

	output, err := exec(ctx, []byte(job.Variables))
	if err == nil {
		err = r.complete(ctx, client, job, output)
	}
	endSpan(err)

	elapsed := time.Since(start)
	if err != nil {
		metrics.ObserveJob(r.taskType, elapsed.Seconds(), string(errorCode(err)))
		r.obs.RecordJobProcessed(ctx, r.taskType, "failed")
		r.obs.RecordJobDuration(ctx, r.taskType, elapsed, "failed")
		// the job context may already be past its deadline
		reportCtx, cancelReport := context.WithTimeout(context.Background(), reportTimeout)
		defer cancelReport()
		r.errorHandler.HandleJobError(reportCtx, client, job, err)
		return
	}

	metrics.ObserveJob(r.taskType, elapsed.Seconds(), "")
	r.obs.RecordJobProcessed(ctx, r.taskType, "completed")
	r.obs.RecordJobDuration(ctx, r.taskType, elapsed, "completed")
	r.logger.Info("job completed", map[string]interface{}{
		"jobKey":     job.Key,
		"durationMs": elapsed.Milliseconds(),
	})
}

func (r *Runner) complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) error {
	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("marshal job output: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return mapZeebeError(err, "complete job", 0)
	}
	return nil
}

func errorCode(err error) errors.ErrorCode {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return errors.ErrCodeInternal
}
