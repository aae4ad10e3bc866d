package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfq-dispatch-workers/internal/models"
)

var now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func hoursAgo(h float64) *time.Time {
	t := now.Add(-time.Duration(h * float64(time.Hour)))
	return &t
}

func TestComputeDestinationNeedsAction(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name   string
		dest   models.DestinationRecord
		needs  bool
		reason Reason
		age    float64
	}{
		{
			name:   "queued past threshold",
			dest:   models.DestinationRecord{Status: models.StatusQueued, CreatedAt: hoursAgo(5)},
			needs:  true,
			reason: ReasonQueuedTooLong,
			age:    5,
		},
		{
			name: "queued at threshold",
			dest: models.DestinationRecord{Status: models.StatusQueued, CreatedAt: hoursAgo(4)},
			age:  4,
		},
		{
			name:   "queued falls back to last status",
			dest:   models.DestinationRecord{Status: models.StatusQueued, LastStatusAt: hoursAgo(6)},
			needs:  true,
			reason: ReasonQueuedTooLong,
			age:    6,
		},
		{
			name: "sent with offer never needs action",
			dest: models.DestinationRecord{Status: models.StatusSent, SentAt: hoursAgo(100), HasOffer: true},
			age:  100,
		},
		{
			name: "sent recently",
			dest: models.DestinationRecord{Status: models.StatusSent, SentAt: hoursAgo(10)},
			age:  10,
		},
		{
			name:   "viewed without reply",
			dest:   models.DestinationRecord{Status: models.StatusViewed, SentAt: hoursAgo(49), CreatedAt: hoursAgo(200)},
			needs:  true,
			reason: ReasonSentNoReply,
			age:    49,
		},
		{
			name:   "submitted uses created when nothing else",
			dest:   models.DestinationRecord{Status: models.StatusSubmitted, CreatedAt: hoursAgo(72)},
			needs:  true,
			reason: ReasonSentNoReply,
			age:    72,
		},
		{
			name:   "error at any age",
			dest:   models.DestinationRecord{Status: models.StatusError},
			needs:  true,
			reason: ReasonError,
		},
		{
			name: "quoted is terminal",
			dest: models.DestinationRecord{Status: models.StatusQuoted, CreatedAt: hoursAgo(500)},
			age:  500,
		},
		{
			name: "unknown status is draft",
			dest: models.DestinationRecord{Status: "paused", SentAt: hoursAgo(3)},
			age:  3,
		},
		{
			name: "future timestamp floors to zero",
			dest: models.DestinationRecord{Status: models.StatusQueued, CreatedAt: hoursAgo(-3)},
			age:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDestinationNeedsAction(tt.dest, now, cfg)
			assert.Equal(t, tt.needs, got.NeedsAction)
			if tt.needs {
				require.NotNil(t, got.Reason)
				assert.Equal(t, tt.reason, *got.Reason)
			} else {
				assert.Nil(t, got.Reason)
			}
			assert.InDelta(t, tt.age, got.AgeHours, 1e-9)
		})
	}
}

func TestComputeDestinationNeedsAction_ErrorToggle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ErrorAlwaysNeedsAction = false

	got := ComputeDestinationNeedsAction(models.DestinationRecord{Status: models.StatusError}, now, cfg)
	assert.False(t, got.NeedsAction)
}

func TestComputeDestinationNeedsAction_Idempotent(t *testing.T) {
	d := models.DestinationRecord{Status: models.StatusSent, SentAt: hoursAgo(60)}
	assert.Equal(t, ComputeDestinationNeedsAction(d, now, DefaultConfig()), ComputeDestinationNeedsAction(d, now, DefaultConfig()))
}

func createTestDestinations() []models.DestinationRecord {
	return []models.DestinationRecord{
		{ID: "d-1", ProviderID: "p-1", Status: models.StatusSent, SentAt: hoursAgo(60)},
		{ID: "d-2", ProviderID: "p-2", Status: models.StatusSent, SentAt: hoursAgo(60)},
		{ID: "d-3", ProviderID: "p-3", Status: models.StatusError},
		{ID: "d-4", ProviderID: "p-4", Status: models.StatusQueued, CreatedAt: hoursAgo(8)},
		{ID: "d-5", ProviderID: "p-5", Status: models.StatusDeclined, CreatedAt: hoursAgo(80)},
	}
}

func TestComputeQuoteNeedsAction(t *testing.T) {
	offers := []models.Offer{{ID: "o-1", ProviderID: "p-2"}}

	got := ComputeQuoteNeedsAction(createTestDestinations(), offers, now, DefaultConfig())

	assert.Equal(t, QuoteSummary{
		DestinationCount:        5,
		NeedsActionCount:        3,
		NeedsReplyCount:         1,
		ErrorsCount:             1,
		QueuedStaleCount:        1,
		NeedsActionDestinations: []string{"d-1", "d-3", "d-4"},
	}, got)
}

func TestComputeQuoteNeedsAction_IgnoresStoredHasOffer(t *testing.T) {
	dests := []models.DestinationRecord{
		{ID: "d-1", ProviderID: "p-1", Status: models.StatusSent, SentAt: hoursAgo(60), HasOffer: true},
	}
	got := ComputeQuoteNeedsAction(dests, nil, now, DefaultConfig())
	assert.Equal(t, 1, got.NeedsReplyCount)
}

func TestComputeQuoteNeedsAction_OrderIndependent(t *testing.T) {
	dests := createTestDestinations()
	reversed := make([]models.DestinationRecord, len(dests))
	for i, d := range dests {
		reversed[len(dests)-1-i] = d
	}

	a := ComputeQuoteNeedsAction(dests, nil, now, DefaultConfig())
	b := ComputeQuoteNeedsAction(reversed, nil, now, DefaultConfig())
	assert.Equal(t, a, b)
}

func TestComputeQuoteNeedsAction_Empty(t *testing.T) {
	got := ComputeQuoteNeedsAction(nil, nil, now, DefaultConfig())
	assert.Equal(t, 0, got.NeedsActionCount)
	assert.Equal(t, []string{}, got.NeedsActionDestinations)
}
