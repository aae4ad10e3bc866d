// internal/dispatch/webform.go
package dispatch

import (
	"strings"

	"rfq-dispatch-workers/internal/models"
)

// WebFormAdapter produces instructions for a person or browser automation
// filling in the provider's own RFQ form.
type WebFormAdapter struct{}

func (WebFormAdapter) Mode() models.DispatchMode { return models.DispatchWebForm }

func (WebFormAdapter) Supports(p models.ProviderRecord) bool {
	return supportsMode(p, models.DispatchWebForm)
}

func (WebFormAdapter) BuildOutbound(args BuildArgs) (models.OutboundDispatch, error) {
	formURL := resolveRFQURL(args.Destination, args.Provider)

	steps := make([]string, 0, 6)
	if formURL != "" {
		steps = append(steps, "Open the RFQ form at "+formURL+".")
	} else {
		steps = append(steps, "Open the provider's RFQ or contact form on their website.")
	}
	steps = append(steps,
		"Upload the files:\n"+FilesSection(args.Files),
		"Paste the part summary: "+PartSummary(args.RFQ)+"\nTiming: "+TimingSummary(args.RFQ),
		"Include the requester contact details: "+RequesterLine(args.Customer),
	)
	if url := strings.TrimSpace(args.SubmissionURL); url != "" {
		steps = append(steps, "Add the offer submission link: "+url)
	}
	steps = append(steps, "Ask the provider to answer:\n"+indent(numberedList(questionChecklist), "   "))

	return models.OutboundDispatch{
		Mode: models.DispatchWebForm,
		WebForm: &models.WebFormInstructions{
			WebFormURL:          formURL,
			WebFormInstructions: numberedList(steps),
		},
	}, nil
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
