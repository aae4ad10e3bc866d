// internal/workers/matching/assess-capability/models.go
package assesscapability

import (
	"rfq-dispatch-workers/internal/matching/capability"
	"rfq-dispatch-workers/internal/models"
)

const InputSchema = `{
  "type": "object",
  "required": ["provider"],
  "properties": {
    "provider": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id":        {"type": "string", "minLength": 1},
        "processes": {"type": ["array", "null"], "items": {"type": "string"}},
        "materials": {"type": ["array", "null"], "items": {"type": "string"}},
        "states":    {"type": ["array", "null"], "items": {"type": "string"}}
      }
    },
    "availability": {
      "type": ["object", "null"],
      "properties": {
        "processes": {"type": "boolean"},
        "materials": {"type": "boolean"},
        "geo":       {"type": "boolean"}
      }
    }
  }
}`

// Input carries the provider and, optionally, the column availability the
// caller already knows. Without it the worker probes the record store.
type Input struct {
	Provider     models.ProviderRecord      `json:"provider"`
	Availability *models.ColumnAvailability `json:"availability"`
}

type Output struct {
	ProviderID string                `json:"providerId"`
	Assessment capability.Assessment `json:"assessment"`
}
