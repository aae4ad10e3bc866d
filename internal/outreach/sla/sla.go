// Package sla decides whether an outreach destination needs a human to act.
package sla

import (
	"sort"
	"time"

	"rfq-dispatch-workers/internal/models"
)

type Reason string

const (
	ReasonError         Reason = "error"
	ReasonQueuedTooLong Reason = "queued_too_long"
	ReasonSentNoReply   Reason = "sent_no_reply"
)

type Config struct {
	QueuedMaxHours         float64 `json:"queuedMaxHours" mapstructure:"queued_max_hours"`
	SentNoReplyMaxHours    float64 `json:"sentNoReplyMaxHours" mapstructure:"sent_no_reply_max_hours"`
	ErrorAlwaysNeedsAction bool    `json:"errorAlwaysNeedsAction" mapstructure:"error_always_needs_action"`
}

func DefaultConfig() Config {
	return Config{QueuedMaxHours: 4, SentNoReplyMaxHours: 48, ErrorAlwaysNeedsAction: true}
}

type Result struct {
	NeedsAction bool    `json:"needsAction"`
	Reason      *Reason `json:"reason"`
	AgeHours    float64 `json:"ageHours"`
}

type QuoteSummary struct {
	DestinationCount        int      `json:"destinationCount"`
	NeedsActionCount        int      `json:"needsActionCount"`
	NeedsReplyCount         int      `json:"needsReplyCount"`
	ErrorsCount             int      `json:"errorsCount"`
	QueuedStaleCount        int      `json:"queuedStaleCount"`
	NeedsActionDestinations []string `json:"needsActionDestinationIds"`
}

// referenceTime walks the status-specific fallback chain and returns the
// first timestamp set.
func referenceTime(d models.DestinationRecord) *time.Time {
	var chain []*time.Time
	switch models.NormalizeDestinationStatus(string(d.Status)) {
	case models.StatusQueued:
		chain = []*time.Time{d.CreatedAt, d.LastStatusAt}
	case models.StatusSent, models.StatusSubmitted, models.StatusViewed:
		chain = []*time.Time{d.SentAt, d.LastStatusAt, d.CreatedAt}
	case models.StatusError:
		chain = []*time.Time{d.LastStatusAt, d.CreatedAt}
	default:
		chain = []*time.Time{d.LastStatusAt, d.CreatedAt, d.SentAt}
	}
	for _, t := range chain {
		if t != nil && !t.IsZero() {
			return t
		}
	}
	return nil
}

// AgeHours is the non-negative age of the destination's reference time.
func AgeHours(d models.DestinationRecord, now time.Time) float64 {
	ref := referenceTime(d)
	if ref == nil {
		return 0
	}
	age := now.Sub(*ref).Hours()
	if age < 0 {
		return 0
	}
	return age
}

// ComputeDestinationNeedsAction flags a queued destination older than
// QueuedMaxHours and an awaiting-reply one with no offer older than
// SentNoReplyMaxHours. Errors are flagged when ErrorAlwaysNeedsAction is set.
func ComputeDestinationNeedsAction(d models.DestinationRecord, now time.Time, cfg Config) Result {
	age := AgeHours(d, now)
	res := Result{AgeHours: age}

	switch models.NormalizeDestinationStatus(string(d.Status)) {
	case models.StatusError:
		if cfg.ErrorAlwaysNeedsAction {
			res.flag(ReasonError)
		}
	case models.StatusQueued:
		if age > cfg.QueuedMaxHours {
			res.flag(ReasonQueuedTooLong)
		}
	case models.StatusSent, models.StatusSubmitted, models.StatusViewed:
		if !d.HasOffer && age > cfg.SentNoReplyMaxHours {
			res.flag(ReasonSentNoReply)
		}
	}
	return res
}

func (r *Result) flag(reason Reason) {
	r.NeedsAction = true
	r.Reason = &reason
}

// ComputeQuoteNeedsAction evaluates every destination of one request.
// HasOffer is derived from the offers received, matched by provider id.
func ComputeQuoteNeedsAction(dests []models.DestinationRecord, offers []models.Offer, now time.Time, cfg Config) QuoteSummary {
	offered := make(map[string]bool, len(offers))
	for _, o := range offers {
		if o.ProviderID != "" {
			offered[o.ProviderID] = true
		}
	}

	summary := QuoteSummary{
		DestinationCount:        len(dests),
		NeedsActionDestinations: []string{},
	}
	for _, d := range dests {
		d.HasOffer = d.ProviderID != "" && offered[d.ProviderID]

		res := ComputeDestinationNeedsAction(d, now, cfg)
		if !res.NeedsAction {
			continue
		}
		summary.NeedsActionCount++
		summary.NeedsActionDestinations = append(summary.NeedsActionDestinations, d.ID)
		switch *res.Reason {
		case ReasonSentNoReply:
			summary.NeedsReplyCount++
		case ReasonError:
			summary.ErrorsCount++
		case ReasonQueuedTooLong:
			summary.QueuedStaleCount++
		}
	}
	sort.Strings(summary.NeedsActionDestinations)
	return summary
}
