// internal/workers/matching/rank-providers/handler.go
package rankproviders

import (
	"context"
	"sort"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"rfq-dispatch-workers/internal/common/camunda"
	"rfq-dispatch-workers/internal/common/errors"
	"rfq-dispatch-workers/internal/common/logger"
	"rfq-dispatch-workers/internal/common/metrics"
	"rfq-dispatch-workers/internal/common/observability"
	"rfq-dispatch-workers/internal/common/validation"
	"rfq-dispatch-workers/internal/matching/criteria"
	"rfq-dispatch-workers/internal/matching/eligibility"
	"rfq-dispatch-workers/internal/models"
	"rfq-dispatch-workers/internal/store"
)

const (
	TaskType = "rank-providers"

	sourceInput = "input"
)

type SchemaProber interface {
	Probe(ctx context.Context) (store.ProviderSchema, error)
}

type Handler struct {
	config    *Config
	providers store.ProviderSource
	probe     SchemaProber
	logger    logger.Logger
	runner    *camunda.Runner
}

// NewHandler builds the worker. providers and probe may be nil; then every
// job must carry its providers.
func NewHandler(config *Config, providers store.ProviderSource, probe SchemaProber, log logger.Logger, obs *observability.Observability) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		providers: providers,
		probe:     probe,
		logger:    log,
		runner:    camunda.NewRunner(TaskType, config.Timeout, log, obs),
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
	c := resolveCriteria(input)

	providers, source, err := h.loadProviders(ctx, c, input)
	if err != nil {
		return nil, err
	}

	column := h.contactColumn(ctx, input.ContactEmailColumn, providers)
	ranking := eligibility.Rank(c, providers, eligibility.Options{
		ContactEmailColumn: column,
		Weights:            h.config.Weights,
		MinFuzzyTokenLen:   h.config.MinFuzzyTokenLen,
	})

	metrics.ProviderRankings.WithLabelValues(source).Inc()
	h.logger.Info("providers ranked", map[string]interface{}{
		"source":   source,
		"ranked":   len(ranking.RankedProviderIDs),
		"eligible": len(ranking.EligibleProviderIDs),
	})

	return &Output{
		Ranking:            ranking,
		Criteria:           c,
		Source:             source,
		ContactEmailColumn: column,
	}, nil
}

func resolveCriteria(input *Input) models.EligibilityCriteria {
	if input.Criteria != nil {
		return *input.Criteria
	}
	if input.RawCriteria != nil {
		return criteria.Normalize(*input.RawCriteria)
	}
	return models.EligibilityCriteria{}
}

func (h *Handler) loadProviders(ctx context.Context, c models.EligibilityCriteria, input *Input) ([]models.ProviderRecord, string, error) {
	if input.Providers != nil {
		return h.withAvailability(ctx, input.Providers), sourceInput, nil
	}
	if h.providers == nil {
		return nil, "", errors.NewInvalidInputError("providers are required when no provider source is configured")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}
	providers, err := h.providers.ListProviders(ctx, store.ProviderQuery{Criteria: c, Limit: limit})
	if err != nil {
		return nil, "", errors.NewProviderLookupFailedError(h.config.Source, err)
	}
	return providers, h.config.Source, nil
}

// withAvailability fills in column availability for providers that arrive
// without it: the probed schema when there is one, otherwise every column.
func (h *Handler) withAvailability(ctx context.Context, providers []models.ProviderRecord) []models.ProviderRecord {
	missing := false
	for _, p := range providers {
		if p.Availability == (models.ColumnAvailability{}) {
			missing = true
			break
		}
	}
	if !missing {
		return providers
	}

	fallback := models.AllColumnsAvailable()
	if h.probe != nil {
		schema, err := h.probe.Probe(ctx)
		if err == nil {
			fallback = schema.Availability
		} else {
			h.logger.Warn("schema probe failed, assuming every capability column", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	out := make([]models.ProviderRecord, len(providers))
	for i, p := range providers {
		if p.Availability == (models.ColumnAvailability{}) {
			p.Availability = fallback
		}
		out[i] = p
	}
	return out
}

// contactColumn resolves the contact-email column: explicit input, then the
// probed schema, then the columns the providers actually carry.
func (h *Handler) contactColumn(ctx context.Context, explicit string, providers []models.ProviderRecord) string {
	if explicit != "" {
		return explicit
	}
	if h.probe != nil {
		schema, err := h.probe.Probe(ctx)
		if err == nil {
			return schema.ContactEmailColumn
		}
		h.logger.Warn("schema probe failed, resolving contact column from records", map[string]interface{}{
			"error": err.Error(),
		})
	}

	seen := make(map[string]bool)
	var columns []string
	for _, p := range providers {
		for k := range p.Contact {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	sort.Strings(columns)
	return eligibility.ResolveContactEmailColumn(columns)
}
