package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfq-dispatch-workers/internal/models"
)

func TestAssess(t *testing.T) {
	tests := []struct {
		name          string
		input         Input
		wantHealth    Health
		wantScore     *int
		wantMismatch  int
		wantPartial   int
		validateInput func(t *testing.T, a Assessment)
	}{
		{
			name:       "no columns available",
			input:      Input{},
			wantHealth: HealthUnknown,
			wantScore:  nil,
		},
		{
			name: "processes available but empty",
			input: Input{
				Processes:    []string{},
				Availability: models.ColumnAvailability{Processes: true},
			},
			wantHealth:   HealthMismatch,
			wantScore:    intPtr(0),
			wantMismatch: 1,
		},
		{
			name: "processes only, soft signals empty",
			input: Input{
				Processes:    []string{"CNC"},
				Materials:    []string{},
				Availability: models.AllColumnsAvailable(),
			},
			wantHealth:  HealthPartial,
			wantScore:   intPtr(60),
			wantPartial: 2,
		},
		{
			name: "full match",
			input: Input{
				Processes:    []string{"CNC", "Turning"},
				Materials:    []string{"6061 Aluminum"},
				Country:      "usa",
				States:       []string{"ca", "Texas"},
				Availability: models.AllColumnsAvailable(),
			},
			wantHealth: HealthMatch,
			wantScore:  intPtr(100),
			validateInput: func(t *testing.T, a Assessment) {
				assert.Equal(t, "Geography: US (CA, TX)", a.Signals.Geo.Note)
				assert.Len(t, a.Matches, 3)
			},
		},
		{
			name: "geo from states alone",
			input: Input{
				Processes:    []string{"Casting"},
				States:       []string{"OH"},
				Availability: models.ColumnAvailability{Processes: true, Geo: true},
			},
			wantHealth: HealthMatch,
			wantScore:  intPtr(100),
		},
		{
			name: "unavailable signal excluded from denominator",
			input: Input{
				Processes:    []string{"Injection Molding"},
				Materials:    nil,
				Availability: models.ColumnAvailability{Processes: true, Geo: true},
			},
			wantHealth:  HealthPartial,
			wantScore:   intPtr(75),
			wantPartial: 1,
			validateInput: func(t *testing.T, a Assessment) {
				assert.False(t, a.Signals.Materials.Available)
				assert.Empty(t, a.Signals.Materials.Note)
			},
		},
		{
			name: "unrecognized states do not count as geography",
			input: Input{
				Processes:    []string{"CNC"},
				States:       []string{"Ontario"},
				Availability: models.ColumnAvailability{Processes: true, Geo: true},
			},
			wantHealth:  HealthPartial,
			wantScore:   intPtr(75),
			wantPartial: 1,
		},
		{
			name: "mismatch outranks partial",
			input: Input{
				Availability: models.AllColumnsAvailable(),
			},
			wantHealth:   HealthMismatch,
			wantScore:    intPtr(0),
			wantMismatch: 1,
			wantPartial:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Assess(tt.input)
			assert.Equal(t, tt.wantHealth, a.Health)
			if tt.wantScore == nil {
				assert.Nil(t, a.Score)
			} else {
				require.NotNil(t, a.Score)
				assert.Equal(t, *tt.wantScore, *a.Score)
			}
			assert.Len(t, a.MismatchReasons, tt.wantMismatch)
			assert.Len(t, a.PartialMatches, tt.wantPartial)
			if tt.validateInput != nil {
				tt.validateInput(t, a)
			}
		})
	}
}

func TestFromProvider(t *testing.T) {
	p := models.ProviderRecord{
		ID:           "prov-1",
		Processes:    []string{"Laser Cutting"},
		Country:      "US",
		Availability: models.ColumnAvailability{Processes: true, Geo: true},
	}
	a := Assess(FromProvider(p))
	assert.Equal(t, HealthMatch, a.Health)
}

func intPtr(i int) *int { return &i }
