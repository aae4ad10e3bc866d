// internal/workers/matching/normalize-criteria/models.go
package normalizecriteria

import (
	"rfq-dispatch-workers/internal/matching/criteria"
	"rfq-dispatch-workers/internal/models"
)

const InputSchema = `{
  "type": "object",
  "properties": {
    "process":    {"type": ["string", "null"]},
    "quantity":   {"type": ["string", "number", "null"]},
    "shipTo":     {"type": ["string", "null"]},
    "postalCode": {"type": ["string", "null"]}
  }
}`

type Input = criteria.RawCriteria

type Output struct {
	Criteria        models.EligibilityCriteria `json:"criteria"`
	HasFilterSignal bool                       `json:"hasFilterSignal"`
}
