// Package criteria turns raw, free-text request attributes into canonical
// matching criteria. Everything here is pure: unparseable input degrades
// to nil fields, which callers treat as unconstrained.
package criteria

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"rfq-dispatch-workers/internal/models"
)

// RawCriteria holds request attributes as the record-store collaborator
// resolved them from quote and upload fields.
type RawCriteria struct {
	Process    string      `json:"process"`
	Quantity   interface{} `json:"quantity"`
	ShipTo     string      `json:"shipTo"`
	PostalCode string      `json:"postalCode"`
}

var numericRun = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?`)

// Normalize turns raw request attributes into canonical criteria. Ship-to
// text is parsed into a state and country where it can be.
func Normalize(raw RawCriteria) models.EligibilityCriteria {
	state, country := ParseShipTo(raw.ShipTo, raw.PostalCode)
	return models.EligibilityCriteria{
		Process:       NormalizeProcess(raw.Process),
		ShipToState:   state,
		ShipToCountry: country,
		Quantity:      ParseQuantity(raw.Quantity),
	}
}

// NormalizeProcess lower-cases and trims a process name. Blank yields nil.
func NormalizeProcess(raw string) *string {
	p := strings.ToLower(strings.TrimSpace(raw))
	if p == "" {
		return nil
	}
	return &p
}

// ParseQuantity coerces a quantity that may arrive as a number or as text
// like "1,200 pcs". Negative or unparseable values yield nil.
func ParseQuantity(raw interface{}) *int {
	var f float64
	switch v := raw.(type) {
	case nil:
		return nil
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case float32:
		f = float64(v)
	case float64:
		f = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		match := numericRun.FindString(v)
		if match == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	q := int(math.Min(math.Floor(f), math.MaxInt32))
	return &q
}
