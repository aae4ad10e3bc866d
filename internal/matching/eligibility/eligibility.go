// Package eligibility decides which providers may appear in a request's
// candidate list and ranks them deterministically.
package eligibility

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"rfq-dispatch-workers/internal/matching/capability"
	"rfq-dispatch-workers/internal/matching/criteria"
	"rfq-dispatch-workers/internal/models"
)

// ContactEmailColumns are the provider columns that may hold a contact
// email, in resolution order.
var ContactEmailColumns = []string{"contact_email", "email", "primary_email"}

type Weights struct {
	ProcessMatch   int `json:"processMatch" mapstructure:"process_match"`
	GeoMatch       int `json:"geoMatch" mapstructure:"geo_match"`
	KnownContact   int `json:"knownContact" mapstructure:"known_contact"`
	VerifiedActive int `json:"verifiedActive" mapstructure:"verified_active"`
}

func DefaultWeights() Weights {
	return Weights{ProcessMatch: 4, GeoMatch: 3, KnownContact: 2, VerifiedActive: 1}
}

// withDefaults replaces non-positive overrides with the default weight.
func (w Weights) withDefaults() Weights {
	d := DefaultWeights()
	if w.ProcessMatch <= 0 {
		w.ProcessMatch = d.ProcessMatch
	}
	if w.GeoMatch <= 0 {
		w.GeoMatch = d.GeoMatch
	}
	if w.KnownContact <= 0 {
		w.KnownContact = d.KnownContact
	}
	if w.VerifiedActive <= 0 {
		w.VerifiedActive = d.VerifiedActive
	}
	return w
}

func (w Weights) of(reason models.EligibilityReason) int {
	switch reason {
	case models.ReasonProcessMatch:
		return w.ProcessMatch
	case models.ReasonGeoMatch:
		return w.GeoMatch
	case models.ReasonKnownContact:
		return w.KnownContact
	case models.ReasonVerifiedActive:
		return w.VerifiedActive
	}
	return 0
}

type Options struct {
	// ContactEmailColumn is the resolved contact-email column for this
	// environment; see ResolveContactEmailColumn.
	ContactEmailColumn string
	Weights            Weights
	// MinFuzzyTokenLen guards the contains-match on process names. Zero
	// keeps the permissive behaviour; exact matches always count.
	MinFuzzyTokenLen int
}

type RankedProvider struct {
	models.ProviderEligibilityMatch
	Capability capability.Assessment `json:"capability"`
}

type Ranking struct {
	RankedProviders     []RankedProvider `json:"rankedProviders"`
	RankedProviderIDs   []string         `json:"rankedProviderIds"`
	EligibleProviderIDs []string         `json:"eligibleProviderIds"`
}

// ResolveContactEmailColumn picks the first known contact-email column
// that exists in the environment, or "" when none does.
func ResolveContactEmailColumn(available []string) string {
	present := make(map[string]bool, len(available))
	for _, c := range available {
		present[strings.ToLower(strings.TrimSpace(c))] = true
	}
	for _, c := range ContactEmailColumns {
		if present[c] {
			return c
		}
	}
	return ""
}

// Rank scores every provider against the criteria and returns them in a
// stable order. A provider is eligible when it matches the process or the
// ship-to geography, or when the criteria carry no filter signal at all.
func Rank(c models.EligibilityCriteria, providers []models.ProviderRecord, opts Options) Ranking {
	weights := opts.Weights.withDefaults()
	filtering := c.HasFilterSignal()

	process := ""
	if c.Process != nil {
		process = strings.ToLower(strings.TrimSpace(*c.Process))
	}
	state := ""
	if c.ShipToState != nil {
		state, _ = criteria.NormalizeState(*c.ShipToState)
	}
	country := ""
	if c.ShipToCountry != nil {
		country = criteria.NormalizeCountry(*c.ShipToCountry)
	}

	ranked := make([]RankedProvider, 0, len(providers))
	for _, p := range providers {
		reasons := make([]models.EligibilityReason, 0, 4)

		processMatch := process != "" && fuzzyContains(process, normalizeProcesses(p.Processes), opts.MinFuzzyTokenLen)
		if processMatch {
			reasons = append(reasons, models.ReasonProcessMatch)
		}

		geoMatch := (country != "" && country == criteria.NormalizeCountry(p.Country)) ||
			(state != "" && containsString(criteria.NormalizeStates(p.States), state))
		if geoMatch {
			reasons = append(reasons, models.ReasonGeoMatch)
		}

		if p.ContactValue(opts.ContactEmailColumn) != "" || p.ContactedAt != nil {
			reasons = append(reasons, models.ReasonKnownContact)
		}

		if p.IsActive && p.VerificationStatus == models.VerificationVerified {
			reasons = append(reasons, models.ReasonVerifiedActive)
		}

		score := 0
		for _, r := range reasons {
			score += weights.of(r)
		}

		ranked = append(ranked, RankedProvider{
			ProviderEligibilityMatch: models.ProviderEligibilityMatch{
				ProviderID:   p.ID,
				ProviderName: p.Name,
				Reasons:      reasons,
				Eligible:     !filtering || processMatch || geoMatch,
				Score:        score,
			},
			Capability: capability.Assess(capability.FromProvider(p)),
		})
	}

	sortRanked(ranked)

	out := Ranking{
		RankedProviders:     ranked,
		RankedProviderIDs:   make([]string, 0, len(ranked)),
		EligibleProviderIDs: make([]string, 0, len(ranked)),
	}
	for _, r := range ranked {
		out.RankedProviderIDs = append(out.RankedProviderIDs, r.ProviderID)
		if r.Eligible {
			out.EligibleProviderIDs = append(out.EligibleProviderIDs, r.ProviderID)
		}
	}
	return out
}

// sortRanked orders eligible first, then by score, then by display name
// and id so that equal inputs always produce the same order.
func sortRanked(ranked []RankedProvider) {
	col := collate.New(language.English)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Eligible != b.Eligible {
			return a.Eligible
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if cmp := col.CompareString(a.ProviderName, b.ProviderName); cmp != 0 {
			return cmp < 0
		}
		return a.ProviderID < b.ProviderID
	})
}

func fuzzyContains(want string, have []string, minLen int) bool {
	for _, h := range have {
		if h == want {
			return true
		}
		shorter := len(want)
		if len(h) < shorter {
			shorter = len(h)
		}
		if shorter < minLen {
			continue
		}
		if strings.Contains(h, want) || strings.Contains(want, h) {
			return true
		}
	}
	return false
}

func normalizeProcesses(values []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
