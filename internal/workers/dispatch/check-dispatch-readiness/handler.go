// internal/workers/dispatch/check-dispatch-readiness/handler.go
package checkdispatchreadiness

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"rfq-dispatch-workers/internal/common/camunda"
	"rfq-dispatch-workers/internal/common/errors"
	"rfq-dispatch-workers/internal/common/logger"
	"rfq-dispatch-workers/internal/common/metrics"
	"rfq-dispatch-workers/internal/common/observability"
	"rfq-dispatch-workers/internal/common/validation"
	"rfq-dispatch-workers/internal/dispatch"
)

const TaskType = "check-dispatch-readiness"

type Handler struct {
	config   *Config
	reporter *dispatch.Reporter
	logger   logger.Logger
	runner   *camunda.Runner
}

// NewHandler builds the worker. A nil dedupe keeps diagnostics unique per
// process only.
func NewHandler(config *Config, dedupe dispatch.Deduper, log logger.Logger, obs *observability.Observability) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		reporter: dispatch.NewReporter(dedupe, log),
		logger:   log,
		runner:   camunda.NewRunner(TaskType, config.Timeout, log, obs),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.runner.Run(client, job, func(ctx context.Context, variables []byte) (interface{}, error) {
		var input Input
		if err := validation.Decode(InputSchema, variables, &input); err != nil {
			return nil, err
		}
		return h.Execute(ctx, &input)
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	destID := input.Destination.ID
	rd := dispatch.CheckReadiness(*input)

	logged := false
	if !rd.IsReady {
		for _, reason := range rd.Reasons {
			metrics.DispatchReadinessBlocked.WithLabelValues(reason).Inc()
		}
		logged = h.reporter.Report(ctx, destID, rd)

		if h.config.FailWhenNotReady {
			return nil, errors.NewDispatchNotReadyError(destID, rd.Reasons).
				WithMetadata("destinationId", destID).
				WithMetadata("mode", rd.Mode)
		}
	}

	return &Output{DestinationID: destID, Readiness: rd, DiagnosticLogged: logged}, nil
}
