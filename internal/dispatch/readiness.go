// internal/dispatch/readiness.go
package dispatch

import (
	"fmt"
	"strings"

	"rfq-dispatch-workers/internal/models"
)

const (
	ReasonMissingEmail    = "Missing provider email"
	ReasonMissingRFQURL   = "Missing RFQ URL"
	ReasonUnsupportedMode = "Unsupported dispatch mode"
)

// ProviderEmailColumns are checked in order after the destination override.
var ProviderEmailColumns = []string{"contact_email", "email", "primary_email"}

type Fix struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// fixes is ordered by priority; the first reason present picks the fix.
var fixes = []struct {
	reason string
	fix    Fix
}{
	{ReasonMissingEmail, Fix{Label: "Add provider email", Action: "add_provider_email"}},
	{ReasonMissingRFQURL, Fix{Label: "Add RFQ URL", Action: "add_rfq_url"}},
	{ReasonUnsupportedMode, Fix{Label: "Set dispatch mode", Action: "set_dispatch_mode"}},
}

type ReadinessInput struct {
	Destination models.DestinationRecord `json:"destination"`
	Provider    models.ProviderRecord    `json:"provider"`
}

type Readiness struct {
	IsReady        bool     `json:"isReady"`
	Mode           string   `json:"mode"`
	Reasons        []string `json:"reasons"`
	RecommendedFix *Fix     `json:"recommendedFix,omitempty"`
	Email          string   `json:"email,omitempty"`
	RFQURL         string   `json:"rfqUrl,omitempty"`
}

// DiagnosticKey identifies a (destination, mode, reasons) combination.
func (r Readiness) DiagnosticKey(destinationID string) string {
	return fmt.Sprintf("%s|%s|%s", destinationID, r.Mode, strings.Join(r.Reasons, ","))
}

// CheckReadiness resolves the effective dispatch mode and the address that
// mode needs, and lists the reasons the destination cannot be sent yet.
func CheckReadiness(in ReadinessInput) Readiness {
	mode := EffectiveMode(in.Destination, in.Provider)
	out := Readiness{Mode: mode, Reasons: []string{}}

	switch models.DispatchMode(mode) {
	case models.DispatchEmail:
		out.Email = resolveEmail(in.Destination, in.Provider)
		if out.Email == "" {
			out.Reasons = append(out.Reasons, ReasonMissingEmail)
		}
	case models.DispatchWebForm:
		out.RFQURL = resolveRFQURL(in.Destination, in.Provider)
		if out.RFQURL == "" {
			out.Reasons = append(out.Reasons, ReasonMissingRFQURL)
		}
	default:
		out.Reasons = append(out.Reasons, ReasonUnsupportedMode)
	}

	out.IsReady = len(out.Reasons) == 0
	out.RecommendedFix = recommendFix(out.Reasons)
	return out
}

func recommendFix(reasons []string) *Fix {
	for _, f := range fixes {
		for _, r := range reasons {
			if r == f.reason {
				fix := f.fix
				return &fix
			}
		}
	}
	return nil
}

func resolveEmail(dest models.DestinationRecord, p models.ProviderRecord) string {
	if v := strings.TrimSpace(dest.EmailOverride); v != "" {
		return v
	}
	for _, col := range ProviderEmailColumns {
		if v := p.ContactValue(col); v != "" {
			return v
		}
	}
	return ""
}

func resolveRFQURL(dest models.DestinationRecord, p models.ProviderRecord) string {
	if v := strings.TrimSpace(dest.RFQURLOverride); v != "" {
		return v
	}
	return strings.TrimSpace(p.RFQURL)
}
