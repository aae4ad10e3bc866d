package dispatch

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfq-dispatch-workers/internal/models"
)

func createTestArgs(mode string) BuildArgs {
	lead := 10
	target := time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC)
	return BuildArgs{
		RFQ: models.RFQ{
			ID:         "rfq-1",
			Title:      "Pump housing",
			Process:    "CNC machining",
			Material:   "6061-T6 aluminum",
			Quantity:   "250",
			Tolerance:  "+/- 0.005 in",
			Finish:     "Clear anodize",
			LeadTime:   &lead,
			TargetDate: &target,
		},
		Provider: models.ProviderRecord{
			ID:           "prov-1",
			Name:         "Acme Machining",
			DispatchMode: mode,
			RFQURL:       "https://acme.test/rfq",
			Contact:      map[string]string{"email": "quotes@acme.test"},
		},
		Destination: models.DestinationRecord{ID: "dest-1", ProviderID: "prov-1"},
		Customer:    models.Customer{Name: "Dana Lee", Company: "Flowworks", Email: "dana@flowworks.test", Phone: "555-0100"},
		Files: []models.FileLink{
			{Name: "housing.step", URL: "https://files.test/housing.step"},
			{Name: "no-url.pdf"},
		},
		SubmissionURL: "https://portal.test/offers/rfq-1",
	}
}

func TestContentHelpers(t *testing.T) {
	args := createTestArgs("email")

	assert.Equal(t,
		"Process: CNC machining | Material: 6061-T6 aluminum | Quantity: 250 | Tolerance: +/- 0.005 in | Finish: Clear anodize",
		PartSummary(args.RFQ))
	assert.Equal(t, "Lead time: 10 business days; Target date: November 3, 2026", TimingSummary(args.RFQ))
	assert.Equal(t, "- housing.step: https://files.test/housing.step", FilesSection(args.Files))
	assert.Equal(t, "Dana Lee (Flowworks), dana@flowworks.test, 555-0100", RequesterLine(args.Customer))
	assert.Len(t, QuestionChecklist(), 4)

	assert.Equal(t, "Not specified", PartSummary(models.RFQ{}))
	assert.Equal(t, "Not specified", TimingSummary(models.RFQ{}))
	assert.Equal(t, "No files available", FilesSection(nil))
	assert.Equal(t, "Not specified", RequesterLine(models.Customer{}))
	assert.Equal(t, "ops@flowworks.test", RequesterLine(models.Customer{Email: "ops@flowworks.test"}))
}

func TestQuestionChecklist_ReturnsCopy(t *testing.T) {
	q := QuestionChecklist()
	q[0] = "changed"
	assert.NotEqual(t, "changed", QuestionChecklist()[0])
}

func TestEmailAdapter_BuildOutbound(t *testing.T) {
	args := createTestArgs("email")

	out, err := EmailAdapter{}.BuildOutbound(args)
	require.NoError(t, err)
	require.NotNil(t, out.Email)
	assert.Equal(t, models.DispatchEmail, out.Mode)
	assert.Nil(t, out.WebForm)
	assert.Nil(t, out.API)

	assert.Equal(t, "RFQ: Pump housing (CNC machining, 6061-T6 aluminum, Qty 250)", out.Email.Subject)
	body := out.Email.Body
	assert.True(t, strings.HasPrefix(body, "Hello Acme Machining team,"))
	assert.Contains(t, body, "Part summary:\n"+PartSummary(args.RFQ))
	assert.Contains(t, body, "Timing:\n"+TimingSummary(args.RFQ))
	assert.Contains(t, body, "Files:\n- housing.step")
	assert.Contains(t, body, "Submit your offer here: https://portal.test/offers/rfq-1")
	assert.Contains(t, body, "4. "+QuestionChecklist()[3])
	assert.True(t, strings.HasSuffix(body, "Reply to this email to respond. Thank you."))
}

func TestEmailAdapter_EmptySectionsKeepHeaders(t *testing.T) {
	out, err := EmailAdapter{}.BuildOutbound(BuildArgs{})
	require.NoError(t, err)

	body := out.Email.Body
	assert.Equal(t, "RFQ: Quote request", out.Email.Subject)
	assert.True(t, strings.HasPrefix(body, "Hello,"))
	assert.Contains(t, body, "Part summary:\nNot specified")
	assert.Contains(t, body, "Timing:\nNot specified")
	assert.Contains(t, body, "Files:\nNo files available")
	assert.NotContains(t, body, "Submit your offer here")
}

func TestWebFormAdapter_BuildOutbound(t *testing.T) {
	args := createTestArgs("web_form")

	out, err := WebFormAdapter{}.BuildOutbound(args)
	require.NoError(t, err)
	require.NotNil(t, out.WebForm)
	assert.Equal(t, models.DispatchWebForm, out.Mode)
	assert.Equal(t, "https://acme.test/rfq", out.WebForm.WebFormURL)

	steps := out.WebForm.WebFormInstructions
	assert.True(t, strings.HasPrefix(steps, "1. Open the RFQ form at https://acme.test/rfq."))
	assert.Contains(t, steps, "Add the offer submission link: https://portal.test/offers/rfq-1")
	assert.Contains(t, steps, RequesterLine(args.Customer))
	for _, q := range QuestionChecklist() {
		assert.Contains(t, steps, q)
	}

	args.Destination.RFQURLOverride = "https://acme.test/special"
	out, err = WebFormAdapter{}.BuildOutbound(args)
	require.NoError(t, err)
	assert.Equal(t, "https://acme.test/special", out.WebForm.WebFormURL)
}

func TestWebFormAdapter_GenericFallback(t *testing.T) {
	out, err := WebFormAdapter{}.BuildOutbound(BuildArgs{})
	require.NoError(t, err)
	assert.Empty(t, out.WebForm.WebFormURL)
	assert.Contains(t, out.WebForm.WebFormInstructions, "Open the provider's RFQ or contact form")
	assert.Contains(t, out.WebForm.WebFormInstructions, "No files available")
}

func TestAdapters_ShareSummaryText(t *testing.T) {
	args := createTestArgs("email")

	email, err := EmailAdapter{}.BuildOutbound(args)
	require.NoError(t, err)
	form, err := WebFormAdapter{}.BuildOutbound(args)
	require.NoError(t, err)

	for _, text := range []string{PartSummary(args.RFQ), TimingSummary(args.RFQ)} {
		assert.Contains(t, email.Email.Body, text)
		assert.Contains(t, form.WebForm.WebFormInstructions, text)
	}
}

func TestAPIAdapter_BuildOutbound(t *testing.T) {
	args := createTestArgs("api")
	args.Files = nil

	out, err := APIAdapter{}.BuildOutbound(args)
	require.NoError(t, err)
	require.NotNil(t, out.API)
	assert.Equal(t, models.DispatchAPI, out.Mode)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out.API.PayloadJSON), &payload))
	assert.Equal(t, "rfq-1", payload["rfqId"])
	assert.Equal(t, PartSummary(args.RFQ), payload["partSummary"])
	assert.Equal(t, []interface{}{}, payload["files"])
	assert.Len(t, payload["questions"], 4)
}

func TestRegistry(t *testing.T) {
	reg := DefaultRegistry()
	require.Len(t, reg.Adapters(), 2)

	a, ok := reg.Resolve(models.ProviderRecord{QuotingMode: "web_form"})
	require.True(t, ok)
	assert.Equal(t, models.DispatchWebForm, a.Mode())

	_, ok = reg.Resolve(models.ProviderRecord{DispatchMode: "api"})
	assert.False(t, ok, "api adapter is reserved")

	withAPI := NewRegistry(EmailAdapter{}, WebFormAdapter{}, APIAdapter{})
	a, ok = withAPI.Resolve(models.ProviderRecord{DispatchMode: "api"})
	require.True(t, ok)
	assert.Equal(t, models.DispatchAPI, a.Mode())

	_, ok = reg.ForMode("fax")
	assert.False(t, ok)
}

func TestRegistry_Build(t *testing.T) {
	reg := DefaultRegistry()

	args := createTestArgs("")
	args.Provider.QuotingMode = "mailto"
	out, err := reg.Build(args)
	require.NoError(t, err)
	assert.Equal(t, models.DispatchEmail, out.Mode)

	args = createTestArgs("fax")
	_, err = reg.Build(args)
	assert.ErrorIs(t, err, ErrNoAdapter)
}
