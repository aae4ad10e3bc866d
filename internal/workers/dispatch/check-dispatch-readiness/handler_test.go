// internal/workers/dispatch/check-dispatch-readiness/handler_test.go
package checkdispatchreadiness

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfq-dispatch-workers/internal/common/errors"
	"rfq-dispatch-workers/internal/common/logger"
	"rfq-dispatch-workers/internal/dispatch"
	"rfq-dispatch-workers/internal/models"
	"rfq-dispatch-workers/internal/store"
)

func input(destMode, email, rfqURL string) *Input {
	return &Input{
		Destination: models.DestinationRecord{ID: "dest-1", ProviderID: "prov-1", DispatchMode: destMode},
		Provider: models.ProviderRecord{
			ID:      "prov-1",
			RFQURL:  rfqURL,
			Contact: map[string]string{"contact_email": email},
		},
	}
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name        string
		in          *Input
		wantReady   bool
		wantReasons []string
		wantFix     string
	}{
		{"email ready", input("email", "q@acme.test", ""), true, []string{}, ""},
		{"email missing address", input("email", "", "https://acme.test"), false,
			[]string{dispatch.ReasonMissingEmail}, "add_provider_email"},
		{"web form ready", input("web_form", "", "https://acme.test/rfq"), true, []string{}, ""},
		{"web form missing url", input("web_form", "q@acme.test", ""), false,
			[]string{dispatch.ReasonMissingRFQURL}, "add_rfq_url"},
		{"no mode", input("", "q@acme.test", "https://acme.test"), false,
			[]string{dispatch.ReasonUnsupportedMode}, "set_dispatch_mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(LoadConfig(), nil, logger.NewTestLogger(t), nil)
			out, err := h.Execute(context.Background(), tt.in)
			require.NoError(t, err)

			assert.Equal(t, "dest-1", out.DestinationID)
			assert.Equal(t, tt.wantReady, out.Readiness.IsReady)
			assert.Equal(t, tt.wantReasons, out.Readiness.Reasons)
			assert.Equal(t, !tt.wantReady, out.DiagnosticLogged)
			if tt.wantFix == "" {
				assert.Nil(t, out.Readiness.RecommendedFix)
			} else {
				require.NotNil(t, out.Readiness.RecommendedFix)
				assert.Equal(t, tt.wantFix, out.Readiness.RecommendedFix.Action)
			}
		})
	}
}

func TestExecute_DiagnosticLoggedOncePerKey(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	dedupe := store.NewRedisDeduper(rdb, time.Hour)

	// two handlers stand in for two worker replicas sharing redis
	a := NewHandler(LoadConfig(), dedupe, logger.NewTestLogger(t), nil)
	b := NewHandler(LoadConfig(), dedupe, logger.NewTestLogger(t), nil)

	first, err := a.Execute(context.Background(), input("email", "", ""))
	require.NoError(t, err)
	assert.True(t, first.DiagnosticLogged)

	second, err := b.Execute(context.Background(), input("email", "", ""))
	require.NoError(t, err)
	assert.False(t, second.DiagnosticLogged)
	assert.Equal(t, first.Readiness, second.Readiness)

	// a different reason set is a new diagnostic
	third, err := a.Execute(context.Background(), input("web_form", "", ""))
	require.NoError(t, err)
	assert.True(t, third.DiagnosticLogged)
}

func TestExecute_FailWhenNotReady(t *testing.T) {
	cfg := LoadConfig()
	cfg.FailWhenNotReady = true
	h := NewHandler(cfg, nil, logger.NewTestLogger(t), nil)

	_, err := h.Execute(context.Background(), input("email", "", ""))

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeDispatchNotReady, stdErr.Code)
	assert.Equal(t, "email", stdErr.Metadata["mode"])
	assert.Equal(t, 0, errors.GetRetryCount(stdErr.Code))

	out, err := h.Execute(context.Background(), input("email", "q@acme.test", ""))
	require.NoError(t, err)
	assert.True(t, out.Readiness.IsReady)
}
