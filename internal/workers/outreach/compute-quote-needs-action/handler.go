// internal/workers/outreach/compute-quote-needs-action/handler.go
package computequoteneedsaction

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"rfq-dispatch-workers/internal/common/camunda"
	"rfq-dispatch-workers/internal/common/errors"
	"rfq-dispatch-workers/internal/common/logger"
	"rfq-dispatch-workers/internal/common/observability"
	"rfq-dispatch-workers/internal/common/validation"
	"rfq-dispatch-workers/internal/models"
	"rfq-dispatch-workers/internal/outreach/sla"
	"rfq-dispatch-workers/internal/store"
)

const TaskType = "compute-quote-needs-action"

type Handler struct {
	config *Config
	source store.OutreachSource
	now    func() time.Time
	logger logger.Logger
	runner *camunda.Runner
}

func NewHandler(config *Config, source store.OutreachSource, log logger.Logger, obs *observability.Observability) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		source: source,
		now:    time.Now,
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
	dests, offers := input.Destinations, input.Offers
	if dests == nil {
		var err error
		dests, offers, err = h.load(ctx, input.QuoteID)
		if err != nil {
			return nil, err
		}
	}

	now := h.now().UTC()
	if input.Now != nil {
		now = input.Now.UTC()
	}

	summary := sla.ComputeQuoteNeedsAction(dests, offers, now, h.config.SLA)
	results := Evaluate(dests, offers, now, h.config.SLA)

	h.logger.Info("quote evaluated", map[string]interface{}{
		"quoteId":          input.QuoteID,
		"destinations":     summary.DestinationCount,
		"needsActionCount": summary.NeedsActionCount,
	})

	return &Output{
		QuoteID:     input.QuoteID,
		EvaluatedAt: now,
		Summary:     summary,
		Results:     results,
	}, nil
}

// Evaluate returns the per-destination results the summary was built from,
// with HasOffer derived from offers the same way.
func Evaluate(dests []models.DestinationRecord, offers []models.Offer, now time.Time, cfg sla.Config) []DestinationResult {
	offered := make(map[string]bool, len(offers))
	for _, o := range offers {
		if o.ProviderID != "" {
			offered[o.ProviderID] = true
		}
	}
	out := make([]DestinationResult, 0, len(dests))
	for _, d := range dests {
		d.HasOffer = d.ProviderID != "" && offered[d.ProviderID]
		out = append(out, DestinationResult{
			DestinationID: d.ID,
			Result:        sla.ComputeDestinationNeedsAction(d, now, cfg),
		})
	}
	return out
}

func (h *Handler) load(ctx context.Context, quoteID string) ([]models.DestinationRecord, []models.Offer, error) {
	if h.source == nil {
		return nil, nil, errors.NewInvalidInputError("destinations are required when no outreach store is configured")
	}
	if quoteID == "" {
		return nil, nil, errors.NewInvalidInputError("quoteId is required to load destinations")
	}

	dests, err := h.source.ListDestinations(ctx, quoteID)
	if err != nil {
		return nil, nil, errors.NewDestinationLookupFailedError(quoteID, err)
	}
	offers, err := h.source.ListOffers(ctx, quoteID)
	if err != nil {
		return nil, nil, errors.NewDestinationLookupFailedError(quoteID, err)
	}
	if dests == nil {
		dests = []models.DestinationRecord{}
	}
	return dests, offers, nil
}
