// internal/workers/dispatch/build-outbound-dispatch/handler_test.go
package buildoutbounddispatch

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfq-dispatch-workers/internal/common/errors"
	"rfq-dispatch-workers/internal/common/logger"
	"rfq-dispatch-workers/internal/common/validation"
	"rfq-dispatch-workers/internal/models"
)

const testVariables = `{
  "rfq": {"id": "rfq-1", "title": "Pump housing", "process": "CNC machining", "material": "6061", "quantity": "250"},
  "provider": {"id": "prov-1", "name": "Acme", "dispatchMode": "%s", "rfqUrl": "https://acme.test/rfq",
               "contact": {"email": "quotes@acme.test"}},
  "destination": {"id": "dest-1", "provider_id": "prov-1"},
  "customer": {"name": "Dana Lee", "company": "Flowworks", "email": "dana@flowworks.test"},
  "files": [{"name": "housing.step", "url": "https://files.test/housing.step"}]
}`

func decodeInput(t *testing.T, mode string) *Input {
	var input Input
	raw := []byte(fmt.Sprintf(testVariables, mode))
	require.NoError(t, validation.Decode(InputSchema, raw, &input))
	return &input
}

func newTestHandler(t *testing.T, cfg *Config) *Handler {
	h := NewHandler(cfg, logger.NewTestLogger(t), nil)
	h.newID = func() string { return "dispatch-1" }
	return h
}

func TestExecute_Modes(t *testing.T) {
	tests := []struct {
		mode     string
		wantMode models.DispatchMode
	}{
		{"email", models.DispatchEmail},
		{"mailto", models.DispatchEmail},
		{"web_form", models.DispatchWebForm},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			h := newTestHandler(t, LoadConfig())
			out, err := h.Execute(context.Background(), decodeInput(t, tt.mode))
			require.NoError(t, err)

			assert.Equal(t, "dispatch-1", out.DispatchID)
			assert.Equal(t, "dest-1", out.DestinationID)
			assert.Equal(t, tt.wantMode, out.Dispatch.Mode)
			switch tt.wantMode {
			case models.DispatchEmail:
				require.NotNil(t, out.Dispatch.Email)
				assert.Nil(t, out.Dispatch.WebForm)
				assert.Contains(t, out.Dispatch.Email.Body, "housing.step: https://files.test/housing.step")
			case models.DispatchWebForm:
				require.NotNil(t, out.Dispatch.WebForm)
				assert.Equal(t, "https://acme.test/rfq", out.Dispatch.WebForm.WebFormURL)
			}
		})
	}
}

func TestExecute_DefaultSubmissionURL(t *testing.T) {
	cfg := LoadConfig()
	cfg.DefaultSubmissionURL = "https://portal.test/offers"
	h := newTestHandler(t, cfg)

	out, err := h.Execute(context.Background(), decodeInput(t, "email"))
	require.NoError(t, err)
	assert.Contains(t, out.Dispatch.Email.Body, "https://portal.test/offers")
}

func TestExecute_APIAdapterIsOptIn(t *testing.T) {
	h := newTestHandler(t, LoadConfig())
	_, err := h.Execute(context.Background(), decodeInput(t, "api"))

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeUnsupportedDispatchMode, stdErr.Code)
	assert.Equal(t, "dest-1", stdErr.Metadata["destinationId"])

	cfg := LoadConfig()
	cfg.EnableAPIAdapter = true
	out, err := newTestHandler(t, cfg).Execute(context.Background(), decodeInput(t, "api"))
	require.NoError(t, err)
	assert.Equal(t, models.DispatchAPI, out.Dispatch.Mode)
	require.NotNil(t, out.Dispatch.API)
	assert.Contains(t, out.Dispatch.API.PayloadJSON, `"rfqId":"rfq-1"`)
}

func TestExecute_UnknownMode(t *testing.T) {
	h := newTestHandler(t, LoadConfig())
	_, err := h.Execute(context.Background(), decodeInput(t, "fax"))

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeUnsupportedDispatchMode, stdErr.Code)
	assert.Contains(t, stdErr.Details, `"fax"`)
}

func TestInputSchema_RequiresDestination(t *testing.T) {
	var input Input
	err := validation.Decode(InputSchema, []byte(`{"rfq":{"id":"r"},"provider":{"id":"p"}}`), &input)
	assert.Error(t, err)
}
