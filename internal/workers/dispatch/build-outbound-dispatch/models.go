// internal/workers/dispatch/build-outbound-dispatch/models.go
package buildoutbounddispatch

import (
	"rfq-dispatch-workers/internal/dispatch"
	"rfq-dispatch-workers/internal/models"
)

const InputSchema = `{
  "type": "object",
  "required": ["rfq", "provider", "destination"],
  "properties": {
    "rfq":         {"type": "object", "required": ["id"]},
    "provider":    {"type": "object", "required": ["id"]},
    "destination": {"type": "object", "required": ["id"]},
    "customer":    {"type": ["object", "null"]},
    "files": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {"name": {"type": "string"}, "url": {"type": "string"}}
      }
    },
    "submissionUrl": {"type": ["string", "null"]}
  }
}`

type Input = dispatch.BuildArgs

type Output struct {
	DispatchID    string                  `json:"dispatchId"`
	DestinationID string                  `json:"destinationId"`
	Dispatch      models.OutboundDispatch `json:"dispatch"`
}
