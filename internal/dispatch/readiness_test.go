package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfq-dispatch-workers/internal/common/logger"
	"rfq-dispatch-workers/internal/models"
)

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name     string
		dest     models.DestinationRecord
		provider models.ProviderRecord
		ready    bool
		mode     string
		reasons  []string
		fix      string
		email    string
	}{
		{
			name:     "email mode without any address",
			provider: models.ProviderRecord{DispatchMode: "email", Contact: map[string]string{"contact_email": " "}},
			mode:     "email",
			reasons:  []string{ReasonMissingEmail},
			fix:      "Add provider email",
		},
		{
			name:     "legacy mailto with email",
			provider: models.ProviderRecord{QuotingMode: "mailto", Contact: map[string]string{"primary_email": "rfq@shop.test"}},
			ready:    true,
			mode:     "email",
			reasons:  []string{},
			email:    "rfq@shop.test",
		},
		{
			name:     "email column priority",
			provider: models.ProviderRecord{DispatchMode: "email", Contact: map[string]string{"email": "b@shop.test", "contact_email": "a@shop.test"}},
			ready:    true,
			mode:     "email",
			reasons:  []string{},
			email:    "a@shop.test",
		},
		{
			name:     "destination override wins",
			dest:     models.DestinationRecord{EmailOverride: "buyer@shop.test"},
			provider: models.ProviderRecord{DispatchMode: "email", Contact: map[string]string{"email": "b@shop.test"}},
			ready:    true,
			mode:     "email",
			reasons:  []string{},
			email:    "buyer@shop.test",
		},
		{
			name:     "web form without url",
			provider: models.ProviderRecord{DispatchMode: "web_form"},
			mode:     "web_form",
			reasons:  []string{ReasonMissingRFQURL},
			fix:      "Add RFQ URL",
		},
		{
			name:     "web form with override url",
			dest:     models.DestinationRecord{RFQURLOverride: "https://shop.test/rfq"},
			provider: models.ProviderRecord{DispatchMode: "web_form"},
			ready:    true,
			mode:     "web_form",
			reasons:  []string{},
		},
		{
			name:     "api is not sendable",
			provider: models.ProviderRecord{DispatchMode: "api"},
			mode:     "api",
			reasons:  []string{ReasonUnsupportedMode},
			fix:      "Set dispatch mode",
		},
		{
			name:    "no mode at all",
			mode:    "",
			reasons: []string{ReasonUnsupportedMode},
			fix:     "Set dispatch mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckReadiness(ReadinessInput{Destination: tt.dest, Provider: tt.provider})
			assert.Equal(t, tt.ready, got.IsReady)
			assert.Equal(t, tt.mode, got.Mode)
			assert.Equal(t, tt.reasons, got.Reasons)
			if tt.fix == "" {
				assert.Nil(t, got.RecommendedFix)
			} else {
				require.NotNil(t, got.RecommendedFix)
				assert.Equal(t, tt.fix, got.RecommendedFix.Label)
			}
			if tt.email != "" {
				assert.Equal(t, tt.email, got.Email)
			}
		})
	}
}

func TestRecommendFix_Priority(t *testing.T) {
	fix := recommendFix([]string{ReasonUnsupportedMode, ReasonMissingRFQURL, ReasonMissingEmail})
	require.NotNil(t, fix)
	assert.Equal(t, "Add provider email", fix.Label)

	fix = recommendFix([]string{ReasonUnsupportedMode, ReasonMissingRFQURL})
	require.NotNil(t, fix)
	assert.Equal(t, "Add RFQ URL", fix.Label)
}

func TestDiagnosticKey(t *testing.T) {
	rd := CheckReadiness(ReadinessInput{Provider: models.ProviderRecord{DispatchMode: "email"}})
	assert.Equal(t, "dest-9|email|Missing provider email", rd.DiagnosticKey("dest-9"))
}

type failingDeduper struct{}

func (failingDeduper) Seen(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestReporter_LogsOncePerKey(t *testing.T) {
	ctx := context.Background()
	r := NewReporter(NewMemoryDeduper(), logger.NewTestLogger(t))

	blocked := CheckReadiness(ReadinessInput{Provider: models.ProviderRecord{DispatchMode: "web_form"}})
	assert.True(t, r.Report(ctx, "dest-1", blocked))
	assert.False(t, r.Report(ctx, "dest-1", blocked))
	assert.True(t, r.Report(ctx, "dest-2", blocked))

	ready := CheckReadiness(ReadinessInput{Provider: models.ProviderRecord{DispatchMode: "web_form", RFQURL: "https://x.test"}})
	assert.False(t, r.Report(ctx, "dest-3", ready))
}

func TestReporter_DedupeFailureStillReports(t *testing.T) {
	r := NewReporter(failingDeduper{}, logger.NewTestLogger(t))
	blocked := CheckReadiness(ReadinessInput{})
	assert.True(t, r.Report(context.Background(), "dest-1", blocked))
	assert.True(t, r.Report(context.Background(), "dest-1", blocked))
}

func TestMemoryDeduper_Concurrent(t *testing.T) {
	d := NewMemoryDeduper()
	var wg sync.WaitGroup
	var mu sync.Mutex
	first := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen, err := d.Seen(context.Background(), "k")
			assert.NoError(t, err)
			if !seen {
				mu.Lock()
				first++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, first)
}
