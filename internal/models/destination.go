// internal/models/destination.go
package models

import (
	"strings"
	"time"
)

type DestinationStatus string

const (
	StatusDraft     DestinationStatus = "draft"
	StatusQueued    DestinationStatus = "queued"
	StatusSent      DestinationStatus = "sent"
	StatusSubmitted DestinationStatus = "submitted"
	StatusViewed    DestinationStatus = "viewed"
	StatusQuoted    DestinationStatus = "quoted"
	StatusDeclined  DestinationStatus = "declined"
	StatusError     DestinationStatus = "error"
)

// NormalizeDestinationStatus lower-cases a raw status; anything unknown
// becomes draft.
func NormalizeDestinationStatus(raw string) DestinationStatus {
	switch s := DestinationStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusDraft, StatusQueued, StatusSent, StatusSubmitted, StatusViewed,
		StatusQuoted, StatusDeclined, StatusError:
		return s
	default:
		return StatusDraft
	}
}

// DestinationRecord is one provider targeted for outreach on one request.
type DestinationRecord struct {
	ID             string            `json:"id"`
	QuoteID        string            `json:"quoteId,omitempty"`
	Status         DestinationStatus `json:"status"`
	CreatedAt      *time.Time        `json:"created_at,omitempty"`
	SentAt         *time.Time        `json:"sent_at,omitempty"`
	LastStatusAt   *time.Time        `json:"last_status_at,omitempty"`
	ProviderID     string            `json:"provider_id"`
	HasOffer       bool              `json:"has_offer"`
	DispatchMode   string            `json:"dispatch_mode,omitempty"`
	EmailOverride  string            `json:"email_override,omitempty"`
	RFQURLOverride string            `json:"rfq_url_override,omitempty"`
}

// Offer is a provider offer actually received for a request.
type Offer struct {
	ID         string     `json:"id"`
	QuoteID    string     `json:"quoteId"`
	ProviderID string     `json:"providerId"`
	ReceivedAt *time.Time `json:"receivedAt,omitempty"`
}
