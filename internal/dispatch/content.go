// internal/dispatch/content.go
package dispatch

import (
	"fmt"
	"strings"

	"rfq-dispatch-workers/internal/models"
)

const (
	notSpecified = "Not specified"
	noFiles      = "No files available"
	dateLayout   = "January 2, 2006"
	summarySep   = " | "
	timingSep    = "; "
)

var questionChecklist = []string{
	"Can you meet the requested quantity and timing?",
	"What is your unit price, and are there setup or tooling costs?",
	"What lead time can you commit to?",
	"Do you have any questions or manufacturability concerns about the files?",
}

// QuestionChecklist returns a copy of the fixed questions every channel asks.
func QuestionChecklist() []string {
	out := make([]string, len(questionChecklist))
	copy(out, questionChecklist)
	return out
}

// PartSummary is the one-line part description shared by every adapter.
func PartSummary(rfq models.RFQ) string {
	var parts []string
	add := func(label, value string) {
		if v := strings.TrimSpace(value); v != "" {
			parts = append(parts, label+": "+v)
		}
	}
	add("Process", rfq.Process)
	add("Material", rfq.Material)
	add("Quantity", rfq.Quantity)
	add("Tolerance", rfq.Tolerance)
	add("Finish", rfq.Finish)
	if len(parts) == 0 {
		return notSpecified
	}
	return strings.Join(parts, summarySep)
}

func TimingSummary(rfq models.RFQ) string {
	var parts []string
	if rfq.LeadTime != nil && *rfq.LeadTime > 0 {
		unit := "business days"
		if *rfq.LeadTime == 1 {
			unit = "business day"
		}
		parts = append(parts, fmt.Sprintf("Lead time: %d %s", *rfq.LeadTime, unit))
	}
	if rfq.TargetDate != nil && !rfq.TargetDate.IsZero() {
		parts = append(parts, "Target date: "+rfq.TargetDate.UTC().Format(dateLayout))
	}
	if len(parts) == 0 {
		return notSpecified
	}
	return strings.Join(parts, timingSep)
}

// FilesSection lists file links one per line, skipping entries without a URL.
func FilesSection(files []models.FileLink) string {
	var lines []string
	for _, f := range files {
		url := strings.TrimSpace(f.URL)
		if url == "" {
			continue
		}
		name := strings.TrimSpace(f.Name)
		if name == "" {
			name = "File"
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", name, url))
	}
	if len(lines) == 0 {
		return noFiles
	}
	return strings.Join(lines, "\n")
}

func RequesterLine(c models.Customer) string {
	who := strings.TrimSpace(c.Name)
	if company := strings.TrimSpace(c.Company); company != "" {
		if who == "" {
			who = company
		} else {
			who = fmt.Sprintf("%s (%s)", who, company)
		}
	}

	var contact []string
	for _, v := range []string{c.Email, c.Phone} {
		if v = strings.TrimSpace(v); v != "" {
			contact = append(contact, v)
		}
	}

	switch {
	case who == "" && len(contact) == 0:
		return notSpecified
	case who == "":
		return strings.Join(contact, ", ")
	case len(contact) == 0:
		return who
	default:
		return who + ", " + strings.Join(contact, ", ")
	}
}

func subjectLine(rfq models.RFQ) string {
	title := strings.TrimSpace(rfq.Title)
	if title == "" {
		title = "Quote request"
	}

	var details []string
	for _, v := range []string{rfq.Process, rfq.Material} {
		if v = strings.TrimSpace(v); v != "" {
			details = append(details, v)
		}
	}
	if q := strings.TrimSpace(rfq.Quantity); q != "" {
		details = append(details, "Qty "+q)
	}

	if len(details) == 0 {
		return "RFQ: " + title
	}
	return fmt.Sprintf("RFQ: %s (%s)", title, strings.Join(details, ", "))
}

func numberedList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%d. %s", i+1, item)
	}
	return strings.Join(lines, "\n")
}

func providerGreeting(p models.ProviderRecord) string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return "Hello " + name + " team,"
	}
	return "Hello,"
}
