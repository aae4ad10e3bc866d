// internal/dispatch/mode.go
package dispatch

import (
	"strings"

	"rfq-dispatch-workers/internal/models"
)

// mailtoMode is an older spelling of email still found in provider rows.
const mailtoMode = "mailto"

var knownModes = []models.DispatchMode{models.DispatchEmail, models.DispatchWebForm, models.DispatchAPI}

// ResolveMode returns the first of dispatch_mode, quoting_mode that names a
// known channel. Unrecognised or missing values resolve to false.
func ResolveMode(p models.ProviderRecord) (models.DispatchMode, bool) {
	for _, raw := range []string{p.DispatchMode, p.QuotingMode} {
		if m, ok := ParseMode(raw); ok {
			return m, true
		}
	}
	return "", false
}

func ParseMode(raw string) (models.DispatchMode, bool) {
	v := models.DispatchMode(strings.ToLower(strings.TrimSpace(raw)))
	for _, m := range knownModes {
		if v == m {
			return m, true
		}
	}
	return "", false
}

// EffectiveMode is the mode a destination will actually be sent on. A
// destination-level mode wins over the provider fields and "mailto" counts
// as email. When nothing is recognised the first non-empty raw value is
// returned as-is so callers can report it.
func EffectiveMode(dest models.DestinationRecord, p models.ProviderRecord) string {
	unknown := ""
	for _, raw := range []string{dest.DispatchMode, p.DispatchMode, p.QuotingMode} {
		v := strings.ToLower(strings.TrimSpace(raw))
		if v == "" {
			continue
		}
		if v == mailtoMode {
			return string(models.DispatchEmail)
		}
		if m, ok := ParseMode(v); ok {
			return string(m)
		}
		if unknown == "" {
			unknown = v
		}
	}
	return unknown
}
