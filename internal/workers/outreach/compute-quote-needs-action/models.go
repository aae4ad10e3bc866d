// internal/workers/outreach/compute-quote-needs-action/models.go
package computequoteneedsaction

import (
	"time"

	"rfq-dispatch-workers/internal/models"
	"rfq-dispatch-workers/internal/outreach/sla"
)

const InputSchema = `{
  "type": "object",
  "properties": {
    "quoteId":      {"type": ["string", "null"]},
    "destinations": {"type": ["array", "null"], "items": {"type": "object", "required": ["id"]}},
    "offers":       {"type": ["array", "null"], "items": {"type": "object"}},
    "now":          {"type": ["string", "null"], "format": "date-time"}
  },
  "anyOf": [
    {"required": ["quoteId"], "properties": {"quoteId": {"type": "string", "minLength": 1}}},
    {"required": ["destinations"], "properties": {"destinations": {"type": "array"}}}
  ]
}`

// Input evaluates either the destinations passed in or, when they are
// absent, the destinations and offers stored for quoteId.
type Input struct {
	QuoteID      string                     `json:"quoteId"`
	Destinations []models.DestinationRecord `json:"destinations"`
	Offers       []models.Offer             `json:"offers"`
	Now          *time.Time                 `json:"now"`
}

type DestinationResult struct {
	DestinationID string `json:"destinationId"`
	sla.Result
}

type Output struct {
	QuoteID     string              `json:"quoteId"`
	EvaluatedAt time.Time           `json:"evaluatedAt"`
	Summary     sla.QuoteSummary    `json:"summary"`
	Results     []DestinationResult `json:"results"`
}
