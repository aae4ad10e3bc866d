// internal/workers/matching/assess-capability/handler.go
package assesscapability

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"rfq-dispatch-workers/internal/common/camunda"
	"rfq-dispatch-workers/internal/common/errors"
	"rfq-dispatch-workers/internal/common/logger"
	"rfq-dispatch-workers/internal/common/observability"
	"rfq-dispatch-workers/internal/common/validation"
	"rfq-dispatch-workers/internal/matching/capability"
	"rfq-dispatch-workers/internal/models"
	"rfq-dispatch-workers/internal/store"
)

const TaskType = "assess-capability"

// SchemaProber reports which capability columns exist.
type SchemaProber interface {
	Probe(ctx context.Context) (store.ProviderSchema, error)
}

type Handler struct {
	config *Config
	probe  SchemaProber
	logger logger.Logger
	runner *camunda.Runner
}

// NewHandler builds the worker. probe may be nil, in which case a provider
// without explicit availability is assessed against a fully migrated schema.
func NewHandler(config *Config, probe SchemaProber, log logger.Logger, obs *observability.Observability) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		probe:  probe,
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	availability, err := h.availability(ctx, input.Availability)
	if err != nil {
		return nil, err
	}

	provider := input.Provider
	provider.Availability = availability
	assessment := capability.Assess(capability.FromProvider(provider))

	h.logger.Info("capability assessed", map[string]interface{}{
		"providerId": provider.ID,
		"health":     string(assessment.Health),
	})

	return &Output{ProviderID: provider.ID, Assessment: assessment}, nil
}

func (h *Handler) availability(ctx context.Context, explicit *models.ColumnAvailability) (models.ColumnAvailability, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if h.probe == nil {
		return models.AllColumnsAvailable(), nil
	}
	schema, err := h.probe.Probe(ctx)
	if err != nil {
		return models.ColumnAvailability{}, errors.NewSchemaProbeFailedError("providers", err)
	}
	return schema.Availability, nil
}
