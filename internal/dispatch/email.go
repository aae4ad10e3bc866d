// internal/dispatch/email.go
package dispatch

import (
	"strings"

	"rfq-dispatch-workers/internal/models"
)

type EmailAdapter struct{}

func (EmailAdapter) Mode() models.DispatchMode { return models.DispatchEmail }

func (EmailAdapter) Supports(p models.ProviderRecord) bool {
	return supportsMode(p, models.DispatchEmail)
}

func (EmailAdapter) BuildOutbound(args BuildArgs) (models.OutboundDispatch, error) {
	var b strings.Builder

	b.WriteString(providerGreeting(args.Provider))
	b.WriteString("\n\n")
	b.WriteString("We are sourcing the part below and would like your quote.\n\n")

	section(&b, "Part summary", PartSummary(args.RFQ))
	section(&b, "Timing", TimingSummary(args.RFQ))
	section(&b, "Files", FilesSection(args.Files))

	if url := strings.TrimSpace(args.SubmissionURL); url != "" {
		section(&b, "Submit your offer", "Submit your offer here: "+url)
	}

	section(&b, "Please let us know", numberedList(questionChecklist))
	section(&b, "Requested by", RequesterLine(args.Customer))

	b.WriteString("Reply to this email to respond. Thank you.")

	return models.OutboundDispatch{
		Mode: models.DispatchEmail,
		Email: &models.EmailMessage{
			Subject: subjectLine(args.RFQ),
			Body:    b.String(),
		},
	}, nil
}

func section(b *strings.Builder, header, content string) {
	b.WriteString(header)
	b.WriteString(":\n")
	b.WriteString(content)
	b.WriteString("\n\n")
}
