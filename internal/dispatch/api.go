// internal/dispatch/api.go
package dispatch

import (
	"encoding/json"
	"fmt"

	"rfq-dispatch-workers/internal/models"
)

// APIAdapter is reserved for providers that accept RFQs over an API. It is
// not part of DefaultRegistry.
type APIAdapter struct{}

type apiPayload struct {
	RFQID         string            `json:"rfqId"`
	Title         string            `json:"title"`
	ProviderID    string            `json:"providerId"`
	DestinationID string            `json:"destinationId,omitempty"`
	PartSummary   string            `json:"partSummary"`
	Timing        string            `json:"timing"`
	Files         []models.FileLink `json:"files"`
	Requester     models.Customer   `json:"requester"`
	SubmissionURL string            `json:"submissionUrl,omitempty"`
	Questions     []string          `json:"questions"`
}

func (APIAdapter) Mode() models.DispatchMode { return models.DispatchAPI }

func (APIAdapter) Supports(p models.ProviderRecord) bool {
	return supportsMode(p, models.DispatchAPI)
}

func (APIAdapter) BuildOutbound(args BuildArgs) (models.OutboundDispatch, error) {
	files := args.Files
	if files == nil {
		files = []models.FileLink{}
	}

	raw, err := json.Marshal(apiPayload{
		RFQID:         args.RFQ.ID,
		Title:         args.RFQ.Title,
		ProviderID:    args.Provider.ID,
		DestinationID: args.Destination.ID,
		PartSummary:   PartSummary(args.RFQ),
		Timing:        TimingSummary(args.RFQ),
		Files:         files,
		Requester:     args.Customer,
		SubmissionURL: args.SubmissionURL,
		Questions:     QuestionChecklist(),
	})
	if err != nil {
		return models.OutboundDispatch{}, fmt.Errorf("marshal api payload: %w", err)
	}

	return models.OutboundDispatch{
		Mode: models.DispatchAPI,
		API:  &models.APIPayload{PayloadJSON: string(raw)},
	}, nil
}
