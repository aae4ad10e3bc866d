// Package capability scores a provider's advertised capabilities across
// independent signals and derives a qualitative health tier.
package capability

import (
	"fmt"
	"math"
	"strings"

	"rfq-dispatch-workers/internal/matching/criteria"
	"rfq-dispatch-workers/internal/models"
)

type Health string

const (
	HealthMatch    Health = "match"
	HealthPartial  Health = "partial"
	HealthMismatch Health = "mismatch"
	HealthUnknown  Health = "unknown"
)

const (
	WeightProcesses = 60
	WeightMaterials = 20
	WeightGeo       = 20
)

// Input is a provider's capability columns plus whether each column
// exists in this environment.
type Input struct {
	Processes    []string                  `json:"processes"`
	Materials    []string                  `json:"materials"`
	Country      string                    `json:"country"`
	States       []string                  `json:"states"`
	Availability models.ColumnAvailability `json:"availability"`
}

// SignalResult keeps "column unavailable" apart from "column empty".
type SignalResult struct {
	Available bool   `json:"available"`
	Present   bool   `json:"present"`
	Weight    int    `json:"weight"`
	Earned    int    `json:"earned"`
	Note      string `json:"note,omitempty"`
}

type Signals struct {
	Processes SignalResult `json:"processes"`
	Materials SignalResult `json:"materials"`
	Geo       SignalResult `json:"geo"`
}

type Assessment struct {
	Health          Health   `json:"health"`
	Score           *int     `json:"score"`
	Signals         Signals  `json:"signals"`
	Matches         []string `json:"matches"`
	PartialMatches  []string `json:"partialMatches"`
	MismatchReasons []string `json:"mismatchReasons"`
}

// FromProvider takes the capability columns and their availability from a
// provider record.
func FromProvider(p models.ProviderRecord) Input {
	return Input{
		Processes:    p.Processes,
		Materials:    p.Materials,
		Country:      p.Country,
		States:       p.States,
		Availability: p.Availability,
	}
}

// Assess scores the columns that exist in this environment and derives a
// health tier. Missing processes are a mismatch, missing materials or
// geography only a partial match. When no column exists the score is nil
// and the health is unknown.
func Assess(in Input) Assessment {
	a := Assessment{
		Matches:         []string{},
		PartialMatches:  []string{},
		MismatchReasons: []string{},
	}

	processes := cleanList(in.Processes)
	materials := cleanList(in.Materials)
	states := criteria.NormalizeStates(in.States)
	country := criteria.NormalizeCountry(in.Country)

	a.Signals.Processes = a.evaluate(in.Availability.Processes, WeightProcesses, len(processes) > 0, true,
		"Processes: "+strings.Join(processes, ", "), "No processes listed")
	a.Signals.Materials = a.evaluate(in.Availability.Materials, WeightMaterials, len(materials) > 0, false,
		"Materials: "+strings.Join(materials, ", "), "No materials listed")
	a.Signals.Geo = a.evaluate(in.Availability.Geo, WeightGeo, country != "" || len(states) > 0, false,
		geoMatchNote(country, states), "No country or states listed")

	available, earned := 0, 0
	for _, s := range []SignalResult{a.Signals.Processes, a.Signals.Materials, a.Signals.Geo} {
		if s.Available {
			available += s.Weight
			earned += s.Earned
		}
	}

	if available > 0 {
		score := int(math.Round(100 * float64(earned) / float64(available)))
		a.Score = &score
	}

	switch {
	case a.Score == nil:
		a.Health = HealthUnknown
	case len(a.MismatchReasons) > 0:
		a.Health = HealthMismatch
	case len(a.PartialMatches) > 0:
		a.Health = HealthPartial
	default:
		a.Health = HealthMatch
	}
	return a
}

// evaluate records one signal. Only hard signals turn an empty column into
// a mismatch; soft signals degrade to a partial match.
func (a *Assessment) evaluate(available bool, weight int, present, hard bool, matchNote, missingNote string) SignalResult {
	r := SignalResult{Available: available, Weight: weight}
	if !available {
		return r
	}
	if present {
		r.Present = true
		r.Earned = weight
		r.Note = matchNote
		a.Matches = append(a.Matches, matchNote)
		return r
	}
	r.Note = missingNote
	if hard {
		a.MismatchReasons = append(a.MismatchReasons, missingNote)
	} else {
		a.PartialMatches = append(a.PartialMatches, missingNote)
	}
	return r
}

func geoMatchNote(country string, states []string) string {
	switch {
	case country != "" && len(states) > 0:
		return fmt.Sprintf("Geography: %s (%s)", country, strings.Join(states, ", "))
	case country != "":
		return "Geography: " + country
	default:
		return "Geography: " + strings.Join(states, ", ")
	}
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
