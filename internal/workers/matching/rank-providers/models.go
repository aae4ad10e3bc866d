// internal/workers/matching/rank-providers/models.go
package rankproviders

import (
	"rfq-dispatch-workers/internal/matching/criteria"
	"rfq-dispatch-workers/internal/matching/eligibility"
	"rfq-dispatch-workers/internal/models"
)

const InputSchema = `{
  "type": "object",
  "properties": {
    "criteria":           {"type": ["object", "null"]},
    "rawCriteria":        {"type": ["object", "null"]},
    "providers":          {"type": ["array", "null"], "items": {"type": "object", "required": ["id"]}},
    "contactEmailColumn": {"type": ["string", "null"]},
    "limit":              {"type": ["integer", "null"], "minimum": 1, "maximum": 1000}
  }
}`

// Input takes either canonical criteria or raw request attributes. When
// providers is absent they are loaded from the configured provider source.
type Input struct {
	Criteria           *models.EligibilityCriteria `json:"criteria"`
	RawCriteria        *criteria.RawCriteria       `json:"rawCriteria"`
	Providers          []models.ProviderRecord     `json:"providers"`
	ContactEmailColumn string                      `json:"contactEmailColumn"`
	Limit              int                         `json:"limit"`
}

type Output struct {
	eligibility.Ranking
	Criteria           models.EligibilityCriteria `json:"criteria"`
	Source             string                     `json:"source"`
	ContactEmailColumn string                     `json:"contactEmailColumn"`
}
