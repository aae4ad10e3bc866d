// internal/workers/dispatch/deliver-email-dispatch/models.go
package deliveremaildispatch

import (
	"time"

	"rfq-dispatch-workers/internal/models"
)

const InputSchema = `{
  "type": "object",
  "required": ["dispatchId", "to", "dispatch"],
  "properties": {
    "dispatchId": {"type": "string", "minLength": 1},
    "to":         {"type": "string", "minLength": 3},
    "replyTo":    {"type": ["string", "null"]},
    "dispatch": {
      "type": "object",
      "required": ["mode"],
      "properties": {"mode": {"type": "string"}}
    }
  }
}`

// Input is a dispatch built by build-outbound-dispatch plus the address
// check-dispatch-readiness resolved.
type Input struct {
	DispatchID string                  `json:"dispatchId"`
	To         string                  `json:"to"`
	ReplyTo    string                  `json:"replyTo"`
	Dispatch   models.OutboundDispatch `json:"dispatch"`
}

type Output struct {
	DispatchID string    `json:"dispatchId"`
	MessageID  string    `json:"messageId"`
	SentAt     time.Time `json:"sentAt"`
}
