package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/remedytax/intake-engine/internal/audit"
	"github.com/remedytax/intake-engine/internal/model"
	"github.com/remedytax/intake-engine/internal/payment"
	"github.com/remedytax/intake-engine/internal/wizard"
)

// stubGateway approves everything unless told to decline charges.
type stubGateway struct {
	declineCharge bool
}

func (g *stubGateway) CreateCustomer(context.Context, payment.Customer) (string, error) {
	return "cust-1", nil
}

func (g *stubGateway) Charge(_ context.Context, _ string, amountCents int64, currency, _ string) (*payment.ChargeReceipt, error) {
	if g.declineCharge {
		return nil, errors.New("card declined")
	}
	return &payment.ChargeReceipt{PaymentID: "pay-1", AmountCents: amountCents, Currency: currency, Status: "COMPLETED"}, nil
}

func (g *stubGateway) StoreCard(context.Context, string, string, string) (string, error) {
	return "card-1", nil
}

func (g *stubGateway) ChargeDelayed(_ context.Context, _ string, amountCents int64, _ string, delay time.Duration, _, _ string) (*payment.ScheduledChargeReceipt, error) {
	return &payment.ScheduledChargeReceipt{PaymentID: "pay-2", AmountCents: amountCents, Delay: delay}, nil
}

func newTestHandler(gw payment.Gateway) *Handler {
	log := zap.NewNop()
	return New(
		wizard.New(),
		payment.NewCollector(gw, log, nil),
		audit.New("", log),
		log,
	)
}

func do(h *Handler, method, uri, body string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	h.Serve(&ctx)
	return &ctx
}

func decodeStep(t *testing.T, ctx *fasthttp.RequestCtx) stepResponse {
	t.Helper()
	var resp stepResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	return resp
}

func TestCreateSession(t *testing.T) {
	h := newTestHandler(&stubGateway{})

	ctx := do(h, fasthttp.MethodPost, "/sessions", "")
	require.Equal(t, fasthttp.StatusCreated, ctx.Response.StatusCode())

	resp := decodeStep(t, ctx)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, model.StepBankruptcyCheck, resp.CurrentStep)
	require.NotNil(t, resp.Form)
}

func TestUnknownSessionIs404(t *testing.T) {
	h := newTestHandler(&stubGateway{})
	ctx := do(h, fasthttp.MethodGet, "/sessions/nope", "")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

func TestNextAdvancesAndBlocks(t *testing.T) {
	h := newTestHandler(&stubGateway{})
	created := decodeStep(t, do(h, fasthttp.MethodPost, "/sessions", ""))

	ctx := do(h, fasthttp.MethodPost, "/sessions/"+created.SessionID+"/next",
		`{"bankruptcyStatus":"no"}`)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	resp := decodeStep(t, ctx)
	assert.True(t, resp.Advanced)
	assert.Equal(t, model.StepFilingStatus, resp.CurrentStep)

	// A blocked submission keeps the step and reports why.
	ctx = do(h, fasthttp.MethodPost, "/sessions/"+created.SessionID+"/next", `{}`)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	resp = decodeStep(t, ctx)
	assert.False(t, resp.Advanced)
	assert.Equal(t, model.StepFilingStatus, resp.CurrentStep)
	require.NotEmpty(t, resp.Messages)
	assert.True(t, model.HasBlocking(resp.Messages))
}

func TestPreviousRetreatsKeepingForm(t *testing.T) {
	h := newTestHandler(&stubGateway{})
	created := decodeStep(t, do(h, fasthttp.MethodPost, "/sessions", ""))
	do(h, fasthttp.MethodPost, "/sessions/"+created.SessionID+"/next", `{"bankruptcyStatus":"no"}`)

	ctx := do(h, fasthttp.MethodPost, "/sessions/"+created.SessionID+"/previous", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	resp := decodeStep(t, ctx)
	assert.Equal(t, model.StepBankruptcyCheck, resp.CurrentStep)
	assert.Equal(t, model.AnswerNo, resp.Form.BankruptcyStatus)

	// Already at the first step.
	ctx = do(h, fasthttp.MethodPost, "/sessions/"+created.SessionID+"/previous", "")
	assert.Equal(t, fasthttp.StatusConflict, ctx.Response.StatusCode())
}

func TestDeleteSessionDestroysForm(t *testing.T) {
	h := newTestHandler(&stubGateway{})
	created := decodeStep(t, do(h, fasthttp.MethodPost, "/sessions", ""))

	ctx := do(h, fasthttp.MethodDelete, "/sessions/"+created.SessionID, "")
	assert.Equal(t, fasthttp.StatusNoContent, ctx.Response.StatusCode())

	ctx = do(h, fasthttp.MethodGet, "/sessions/"+created.SessionID, "")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

// paymentReady puts a session directly on the payment step with a priced form.
func paymentReady(t *testing.T, h *Handler) *Session {
	t.Helper()
	sess := h.store.Create(h.engine.First())
	sess.Form.Client = model.PersonInfo{
		FirstName: "Ada", LastName: "Quill", Phone: "555-0100", Email: "ada@example.com",
	}
	sess.Form.PaymentOption = model.PaymentFull
	sess.Form.FirstPaymentAmount = decimal.NewFromInt(500)
	sess.Step = model.StepPaymentCollection
	return sess
}

func TestPaymentSuccessMovesToConfirmation(t *testing.T) {
	h := newTestHandler(&stubGateway{})
	sess := paymentReady(t, h)

	ctx := do(h, fasthttp.MethodPost, "/sessions/"+sess.ID+"/payment", `{"sourceId":"tok-1"}`)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp paymentResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, payment.OutcomeSucceeded, resp.Outcome)
	assert.Equal(t, model.StepConfirmation, resp.CurrentStep)
	assert.Equal(t, "pay-1", resp.PaymentID)
	assert.Equal(t, model.StepConfirmation, sess.Step)
}

func TestPaymentDeclineKeepsStep(t *testing.T) {
	h := newTestHandler(&stubGateway{declineCharge: true})
	sess := paymentReady(t, h)

	ctx := do(h, fasthttp.MethodPost, "/sessions/"+sess.ID+"/payment", `{"sourceId":"tok-1"}`)
	assert.Equal(t, fasthttp.StatusPaymentRequired, ctx.Response.StatusCode())

	var resp paymentResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, payment.OutcomeFailed, resp.Outcome)
	assert.Equal(t, payment.StageFirstCharge, resp.FailedStage)
	assert.Equal(t, model.StepPaymentCollection, sess.Step)
}

func TestPaymentRequiresToken(t *testing.T) {
	h := newTestHandler(&stubGateway{})
	sess := paymentReady(t, h)

	ctx := do(h, fasthttp.MethodPost, "/sessions/"+sess.ID+"/payment", `{}`)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestPaymentOnlyAtPaymentStep(t *testing.T) {
	h := newTestHandler(&stubGateway{})
	created := decodeStep(t, do(h, fasthttp.MethodPost, "/sessions", ""))

	ctx := do(h, fasthttp.MethodPost, "/sessions/"+created.SessionID+"/payment", `{"sourceId":"tok-1"}`)
	assert.Equal(t, fasthttp.StatusConflict, ctx.Response.StatusCode())
}

func TestStepViewAttachesDerivedContent(t *testing.T) {
	h := newTestHandler(&stubGateway{})
	sess := h.store.Create(h.engine.First())
	sess.Form.HouseholdSize = 2
	sess.Step = model.StepReviewAndConfirm

	ctx := do(h, fasthttp.MethodGet, "/sessions/"+sess.ID, "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	resp := decodeStep(t, ctx)
	assert.Equal(t, "1411.00", resp.TotalExpenses)

	sess.Step = model.StepEligibilityResult
	resp = decodeStep(t, do(h, fasthttp.MethodGet, "/sessions/"+sess.ID, ""))
	require.NotEmpty(t, resp.Programs)
	assert.Equal(t, "oic", resp.Programs[0].ID)

	sess.Form.PaymentOption = model.PaymentFull
	sess.Step = model.StepAgreementSigning
	resp = decodeStep(t, do(h, fasthttp.MethodGet, "/sessions/"+sess.ID, ""))
	assert.Contains(t, resp.IRSFormsDescription, "Form 8821")
	assert.NotEmpty(t, resp.EstimatedResolutionDate)
}
