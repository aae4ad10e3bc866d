// internal/workers/dispatch/build-outbound-dispatch/handler.go
package buildoutbounddispatch

import (
	"context"
	stderrors "errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"rfq-dispatch-workers/internal/common/camunda"
	"rfq-dispatch-workers/internal/common/errors"
	"rfq-dispatch-workers/internal/common/logger"
	"rfq-dispatch-workers/internal/common/metrics"
	"rfq-dispatch-workers/internal/common/observability"
	"rfq-dispatch-workers/internal/common/validation"
	"rfq-dispatch-workers/internal/dispatch"
)

const TaskType = "build-outbound-dispatch"

type Handler struct {
	config   *Config
	registry *dispatch.Registry
	newID    func() string
	logger   logger.Logger
	runner   *camunda.Runner
}

func NewHandler(config *Config, log logger.Logger, obs *observability.Observability) *Handler {
	registry := dispatch.DefaultRegistry()
	if config.EnableAPIAdapter {
		registry = dispatch.NewRegistry(append(registry.Adapters(), dispatch.APIAdapter{})...)
	}

	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		registry: registry,
		newID:    uuid.NewString,
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

// Execute renders a fresh dispatch. Nothing is cached between attempts so a
// retried send always reflects the current record state.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	args := *input
	if args.SubmissionURL == "" {
		args.SubmissionURL = h.config.DefaultSubmissionURL
	}

	out, err := h.registry.Build(args)
	if err != nil {
		if stderrors.Is(err, dispatch.ErrNoAdapter) {
			return nil, errors.NewUnsupportedDispatchModeError(dispatch.EffectiveMode(args.Destination, args.Provider)).
				WithMetadata("destinationId", args.Destination.ID)
		}
		return nil, err
	}

	id := h.newID()
	metrics.DispatchesBuilt.WithLabelValues(string(out.Mode)).Inc()
	h.logger.Info("dispatch built", map[string]interface{}{
		"dispatchId":    id,
		"destinationId": args.Destination.ID,
		"providerId":    args.Provider.ID,
		"mode":          string(out.Mode),
	})

	return &Output{DispatchID: id, DestinationID: args.Destination.ID, Dispatch: out}, nil
}
