// internal/workers/dispatch/check-dispatch-readiness/models.go
package checkdispatchreadiness

import "rfq-dispatch-workers/internal/dispatch"

const InputSchema = `{
  "type": "object",
  "required": ["destination", "provider"],
  "properties": {
    "destination": {"type": "object", "required": ["id"]},
    "provider":    {"type": "object", "required": ["id"]}
  }
}`

type Input = dispatch.ReadinessInput

type Output struct {
	DestinationID    string             `json:"destinationId"`
	Readiness        dispatch.Readiness `json:"readiness"`
	DiagnosticLogged bool               `json:"diagnosticLogged"`
}
