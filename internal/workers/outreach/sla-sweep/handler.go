// internal/workers/outreach/sla-sweep/handler.go
package slasweep

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"rfq-dispatch-workers/internal/common/camunda"
	"rfq-dispatch-workers/internal/common/errors"
	"rfq-dispatch-workers/internal/common/logger"
	"rfq-dispatch-workers/internal/common/metrics"
	"rfq-dispatch-workers/internal/common/observability"
	"rfq-dispatch-workers/internal/common/validation"
	"rfq-dispatch-workers/internal/outreach/sla"
	"rfq-dispatch-workers/internal/store"
)

const (
	TaskType = "sla-sweep"

	AlertType = "outreach.needs_action"
)

// AlertPublisher is satisfied by aws.AlertPublisher.
type AlertPublisher interface {
	Publish(ctx context.Context, alertType, subject string, payload interface{}) (string, error)
}

// AlertDeduper is satisfied by dispatch.Deduper. Seen reports whether the
// key was already recorded.
type AlertDeduper interface {
	Seen(ctx context.Context, key string) (bool, error)
}

type Handler struct {
	config    *Config
	source    store.OutreachSource
	publisher AlertPublisher
	dedupe    AlertDeduper
	now       func() time.Time
	newID     func() string
	logger    logger.Logger
	runner    *camunda.Runner
}

// NewHandler builds the sweep. publisher may be nil, in which case no
// alerts are sent. dedupe may be nil; then every sweep alerts on every
// overdue request.
func NewHandler(config *Config, source store.OutreachSource, publisher AlertPublisher, dedupe AlertDeduper, log logger.Logger, obs *observability.Observability) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		source:    source,
		publisher: publisher,
		dedupe:    dedupe,
		now:       time.Now,
		newID:     uuid.NewString,
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

type quoteResult struct {
	quoteID string
	summary sla.QuoteSummary
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if h.source == nil {
		return nil, errors.NewInvalidInputError("sla sweep requires an outreach store")
	}

	limit := h.config.Limit
	if input.Limit > 0 {
		limit = input.Limit
	}
	if limit <= 0 {
		limit = 500
	}
	now := h.now().UTC()
	if input.Now != nil {
		now = input.Now.UTC()
	}
	sweepID := h.newID()
	log := h.logger.WithFields(map[string]interface{}{"sweepId": sweepID})

	var (
		results []quoteResult
		failed  = []string{}
		scanned int
		after   string
	)
	for {
		page, err := h.source.ListOpenQuoteIDs(ctx, after, limit)
		if err != nil {
			return nil, errors.NewDestinationLookupFailedError("open quotes", err)
		}
		scanned += len(page)
		pageResults, pageFailed := h.evaluatePage(ctx, log, page, now)
		results = append(results, pageResults...)
		failed = append(failed, pageFailed...)
		if len(page) < limit {
			break
		}
		after = page[len(page)-1]
	}

	sort.Slice(results, func(i, j int) bool { return results[i].quoteID < results[j].quoteID })
	sort.Strings(failed)

	out := &Output{
		SweepID:       sweepID,
		EvaluatedAt:   now,
		QuotesScanned: scanned,
		QuotesFailed:  failed,
		ByReason: map[string]int{
			string(sla.ReasonError):         0,
			string(sla.ReasonQueuedTooLong): 0,
			string(sla.ReasonSentNoReply):   0,
		},
	}
	for _, r := range results {
		if r.summary.NeedsActionCount == 0 {
			continue
		}
		out.QuotesNeedingAction++
		out.NeedsActionTotal += r.summary.NeedsActionCount
		out.ByReason[string(sla.ReasonError)] += r.summary.ErrorsCount
		out.ByReason[string(sla.ReasonQueuedTooLong)] += r.summary.QueuedStaleCount
		out.ByReason[string(sla.ReasonSentNoReply)] += r.summary.NeedsReplyCount
		h.alert(ctx, log, out, QuoteAlert{SweepID: sweepID, QuoteID: r.quoteID, EvaluatedAt: now, Summary: r.summary})
	}

	for reason, count := range out.ByReason {
		metrics.DestinationsNeedingAction.WithLabelValues(reason).Set(float64(count))
	}
	metrics.SweepLastRun.SetToCurrentTime()

	log.Info("sla sweep finished", map[string]interface{}{
		"quotesScanned":       out.QuotesScanned,
		"quotesNeedingAction": out.QuotesNeedingAction,
		"quotesFailed":        len(out.QuotesFailed),
		"alertsPublished":     out.AlertsPublished,
		"alertsFailed":        out.AlertsFailed,
		"alertsSuppressed":    out.AlertsSuppressed,
	})

	if out.AlertsFailed > 0 && out.AlertsPublished == 0 {
		return nil, errors.NewAlertPublishFailedError(
			fmt.Errorf("all %d alerts of sweep %s failed", out.AlertsFailed, sweepID))
	}
	return out, nil
}

// evaluatePage evaluates one page of requests concurrently. A request that
// cannot be loaded is reported in failed and does not stop the page.
func (h *Handler) evaluatePage(ctx context.Context, log logger.Logger, quoteIDs []string, now time.Time) (results []quoteResult, failed []string) {
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency())
	for _, id := range quoteIDs {
		quoteID := id
		g.Go(func() error {
			summary, err := h.evaluate(gctx, quoteID, now)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn("quote evaluation failed", map[string]interface{}{
					"quoteId": quoteID,
					"error":   err.Error(),
				})
				failed = append(failed, quoteID)
				return nil
			}
			results = append(results, quoteResult{quoteID: quoteID, summary: summary})
			return nil
		})
	}
	_ = g.Wait()
	return results, failed
}

func (h *Handler) evaluate(ctx context.Context, quoteID string, now time.Time) (sla.QuoteSummary, error) {
	dests, err := h.source.ListDestinations(ctx, quoteID)
	if err != nil {
		return sla.QuoteSummary{}, err
	}
	offers, err := h.source.ListOffers(ctx, quoteID)
	if err != nil {
		return sla.QuoteSummary{}, err
	}
	return sla.ComputeQuoteNeedsAction(dests, offers, now, h.config.SLA), nil
}

func (h *Handler) alert(ctx context.Context, log logger.Logger, out *Output, a QuoteAlert) {
	if h.publisher == nil {
		return
	}
	if h.alreadyAlerted(ctx, log, a) {
		out.AlertsSuppressed++
		return
	}
	subject := fmt.Sprintf("RFQ %s: %d destination(s) need action", a.QuoteID, a.Summary.NeedsActionCount)
	messageID, err := h.publisher.Publish(ctx, AlertType, subject, a)
	if err != nil {
		out.AlertsFailed++
		log.Error("alert publish failed", map[string]interface{}{
			"quoteId": a.QuoteID,
			"error":   err.Error(),
		})
		return
	}
	out.AlertsPublished++
	log.Debug("alert published", map[string]interface{}{
		"quoteId":   a.QuoteID,
		"messageId": messageID,
	})
}

// alreadyAlerted reports whether the same set of overdue destinations was
// alerted for this request before, by this or another sweep. Dedupe
// failures let the alert through.
func (h *Handler) alreadyAlerted(ctx context.Context, log logger.Logger, a QuoteAlert) bool {
	if h.dedupe == nil {
		return false
	}
	seen, err := h.dedupe.Seen(ctx, alertKey(a))
	if err != nil {
		log.Warn("alert dedupe lookup failed", map[string]interface{}{
			"quoteId": a.QuoteID,
			"error":   err.Error(),
		})
		return false
	}
	return seen
}

func alertKey(a QuoteAlert) string {
	return "sla-alert:" + a.QuoteID + ":" + strings.Join(a.Summary.NeedsActionDestinations, ",")
}

func (h *Handler) concurrency() int {
	if h.config.Concurrency > 0 {
		return h.config.Concurrency
	}
	return 1
}
