// internal/models/criteria.go
package models

// EligibilityCriteria is the canonical form of a request's matching
// attributes. A nil field does not constrain eligibility.
type EligibilityCriteria struct {
	Process       *string `json:"process"`
	ShipToState   *string `json:"shipToState"`
	ShipToCountry *string `json:"shipToCountry"`
	Quantity      *int    `json:"quantity"`
}

// HasFilterSignal reports whether the criteria carry a process or
// geography signal that eligibility can filter on.
func (c EligibilityCriteria) HasFilterSignal() bool {
	return c.Process != nil || c.ShipToState != nil || c.ShipToCountry != nil
}

type EligibilityReason string

const (
	ReasonProcessMatch   EligibilityReason = "process_match"
	ReasonGeoMatch       EligibilityReason = "geo_match"
	ReasonKnownContact   EligibilityReason = "known_contact"
	ReasonVerifiedActive EligibilityReason = "verified_active"
)

type ProviderEligibilityMatch struct {
	ProviderID   string              `json:"providerId"`
	ProviderName string              `json:"providerName"`
	Reasons      []EligibilityReason `json:"reasons"`
	Eligible     bool                `json:"eligible"`
	Score        int                 `json:"score"`
}
