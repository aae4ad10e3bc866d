// internal/models/provider.go
package models

import (
	"strings"
	"time"
)

type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationVerified   VerificationStatus = "verified"
)

// ColumnAvailability reports which capability columns exist in the
// current deployment. A false flag means the column is not migrated yet,
// which is different from a provider leaving the column empty.
type ColumnAvailability struct {
	Processes bool `json:"processes"`
	Materials bool `json:"materials"`
	Geo       bool `json:"geo"`
}

// AllColumnsAvailable is the availability of a fully migrated schema.
func AllColumnsAvailable() ColumnAvailability {
	return ColumnAvailability{Processes: true, Materials: true, Geo: true}
}

type ProviderRecord struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Processes          []string           `json:"processes"`
	Materials          []string           `json:"materials"`
	Country            string             `json:"country"`
	States             []string           `json:"states"`
	IsActive           bool               `json:"isActive"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	Contact            map[string]string  `json:"contact,omitempty"` // email-like columns keyed by column name
	ContactedAt        *time.Time         `json:"contactedAt,omitempty"`
	DispatchMode       string             `json:"dispatchMode,omitempty"`
	QuotingMode        string             `json:"quotingMode,omitempty"` // legacy name for DispatchMode
	RFQURL             string             `json:"rfqUrl,omitempty"`
	Availability       ColumnAvailability `json:"availability"`
}

// ContactValue returns the trimmed value of a contact column, or "".
func (p ProviderRecord) ContactValue(column string) string {
	if column == "" || p.Contact == nil {
		return ""
	}
	return strings.TrimSpace(p.Contact[column])
}
