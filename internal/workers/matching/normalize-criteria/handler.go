// internal/workers/matching/normalize-criteria/handler.go
package normalizecriteria

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"rfq-dispatch-workers/internal/common/camunda"
	"rfq-dispatch-workers/internal/common/logger"
	"rfq-dispatch-workers/internal/common/observability"
	"rfq-dispatch-workers/internal/common/validation"
	"rfq-dispatch-workers/internal/matching/criteria"
)

const TaskType = "normalize-criteria"

type Handler struct {
	config *Config
	logger logger.Logger
	runner *camunda.Runner
}

func NewHandler(config *Config, log logger.Logger, obs *observability.Observability) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		logger: log,
		runner: camunda.NewRunner(TaskType, config.Timeout, log, obs),
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

func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	c := criteria.Normalize(*input)

	h.logger.Debug("criteria normalized", map[string]interface{}{
		"hasProcess":  c.Process != nil,
		"hasState":    c.ShipToState != nil,
		"hasCountry":  c.ShipToCountry != nil,
		"hasQuantity": c.Quantity != nil,
	})

	return &Output{Criteria: c, HasFilterSignal: c.HasFilterSignal()}, nil
}
