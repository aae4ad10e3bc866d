package criteria

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		raw         RawCriteria
		wantProcess *string
		wantState   *string
		wantCountry *string
		wantQty     *int
	}{
		{
			name:        "city state country",
			raw:         RawCriteria{Process: "  CNC Machining ", Quantity: "550 units", ShipTo: "Los Angeles, CA, USA"},
			wantProcess: strPtr("cnc machining"),
			wantState:   strPtr("CA"),
			wantCountry: strPtr("US"),
			wantQty:     intPtr(550),
		},
		{
			name: "empty input is unconstrained",
			raw:  RawCriteria{},
		},
		{
			name:        "full state name and country name",
			raw:         RawCriteria{ShipTo: "Buffalo / New York / United States"},
			wantState:   strPtr("NY"),
			wantCountry: strPtr("US"),
		},
		{
			name:      "multi word state is not split",
			raw:       RawCriteria{ShipTo: "Charleston West Virginia"},
			wantState: strPtr("WV"),
		},
		{
			name:        "later tokens override earlier ones",
			raw:         RawCriteria{ShipTo: "TX | OK | Canada | Mexico"},
			wantState:   strPtr("OK"),
			wantCountry: strPtr("MX"),
		},
		{
			name:      "postal code fallback when country unset",
			raw:       RawCriteria{ShipTo: "Springfield", PostalCode: "IL 62701"},
			wantState: strPtr("IL"),
		},
		{
			name:        "postal code fallback when country is US",
			raw:         RawCriteria{ShipTo: "Springfield, USA", PostalCode: "MO"},
			wantState:   strPtr("MO"),
			wantCountry: strPtr("US"),
		},
		{
			name:        "postal code ignored for non US country",
			raw:         RawCriteria{ShipTo: "Toronto, Canada", PostalCode: "ON M5V"},
			wantCountry: strPtr("CA"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			assert.Equal(t, tt.wantProcess, got.Process)
			assert.Equal(t, tt.wantState, got.ShipToState)
			assert.Equal(t, tt.wantCountry, got.ShipToCountry)
			assert.Equal(t, tt.wantQty, got.Quantity)
		})
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want *int
	}{
		{"plain units", "550 units", intPtr(550)},
		{"thousands separator", "1,200 pcs", intPtr(1200)},
		{"decimal floors", "12.9", intPtr(12)},
		{"first run wins", "qty 40 (batches of 5)", intPtr(40)},
		{"float number", 7.8, intPtr(7)},
		{"int number", 25, intPtr(25)},
		{"json number", json.Number("300"), intPtr(300)},
		{"zero", "0", intPtr(0)},
		{"negative string", "-5", nil},
		{"negative number", -3.0, nil},
		{"no digits", "lots", nil},
		{"empty", "", nil},
		{"nil", nil, nil},
		{"unsupported type", []string{"1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuantity(tt.raw))
		})
	}
}

func TestNormalizeCountry(t *testing.T) {
	assert.Equal(t, "US", NormalizeCountry("usa"))
	assert.Equal(t, "US", NormalizeCountry("United States"))
	assert.Equal(t, "CA", NormalizeCountry("Canada"))
	assert.Equal(t, "MX", NormalizeCountry("mexico"))
	assert.Equal(t, "FR", NormalizeCountry(" fr "))
	assert.Equal(t, "", NormalizeCountry(""))
}

func TestNormalizeState(t *testing.T) {
	code, ok := NormalizeState("california")
	require.True(t, ok)
	assert.Equal(t, "CA", code)

	code, ok = NormalizeState("tx")
	require.True(t, ok)
	assert.Equal(t, "TX", code)

	_, ok = NormalizeState("Ontario")
	assert.False(t, ok)
}

func TestNormalizeStates(t *testing.T) {
	assert.Equal(t, []string{"TX", "CA"}, NormalizeStates([]string{"Texas", " ca ", "tx", "Ontario", ""}))
	assert.Empty(t, NormalizeStates(nil))
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := RawCriteria{Process: "Sheet Metal", Quantity: "2,500", ShipTo: "Austin, Texas, US"}
	assert.Equal(t, Normalize(raw), Normalize(raw))
}
