package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rfq-dispatch-workers/internal/models"
)

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name         string
		dispatchMode string
		quotingMode  string
		want         models.DispatchMode
		ok           bool
	}{
		{"dispatch mode wins", "web_form", "email", models.DispatchWebForm, true},
		{"legacy field used when current is empty", "", "Email", models.DispatchEmail, true},
		{"unknown current falls back to legacy", "fax", "api", models.DispatchAPI, true},
		{"mailto is not a channel", "mailto", "", "", false},
		{"missing", "", "", "", false},
		{"case and whitespace", "  WEB_FORM ", "", models.DispatchWebForm, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveMode(models.ProviderRecord{DispatchMode: tt.dispatchMode, QuotingMode: tt.quotingMode})
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name string
		dest string
		disp string
		quot string
		want string
	}{
		{"destination override", "web_form", "email", "", "web_form"},
		{"mailto on legacy field", "", "", "mailto", "email"},
		{"mailto on current field", "", "MAILTO", "web_form", "email"},
		{"unknown reported raw", "", "fax", "", "fax"},
		{"known after unknown", "", "fax", "email", "email"},
		{"nothing set", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveMode(
				models.DestinationRecord{DispatchMode: tt.dest},
				models.ProviderRecord{DispatchMode: tt.disp, QuotingMode: tt.quot},
			)
			assert.Equal(t, tt.want, got)
		})
	}
}
