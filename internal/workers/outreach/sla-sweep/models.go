// internal/workers/outreach/sla-sweep/models.go
package slasweep

import (
	"time"

	"rfq-dispatch-workers/internal/outreach/sla"
)

const InputSchema = `{
  "type": "object",
  "properties": {
    "limit": {"type": ["integer", "null"], "minimum": 1},
    "now":   {"type": ["string", "null"], "format": "date-time"}
  }
}`

// Input carries an optional page size for walking the open requests. Every
// open request is evaluated whatever the page size.
type Input struct {
	Limit int        `json:"limit"`
	Now   *time.Time `json:"now"`
}

// QuoteAlert is the SNS payload for one request with overdue destinations.
type QuoteAlert struct {
	SweepID     string           `json:"sweepId"`
	QuoteID     string           `json:"quoteId"`
	EvaluatedAt time.Time        `json:"evaluatedAt"`
	Summary     sla.QuoteSummary `json:"summary"`
}

type Output struct {
	SweepID             string         `json:"sweepId"`
	EvaluatedAt         time.Time      `json:"evaluatedAt"`
	QuotesScanned       int            `json:"quotesScanned"`
	QuotesNeedingAction int            `json:"quotesNeedingAction"`
	NeedsActionTotal    int            `json:"needsActionTotal"`
	ByReason            map[string]int `json:"byReason"`
	QuotesFailed        []string       `json:"quotesFailed"`
	AlertsPublished     int            `json:"alertsPublished"`
	AlertsFailed        int            `json:"alertsFailed"`
	AlertsSuppressed    int            `json:"alertsSuppressed"`
}
