package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/remedytax/intake-engine/internal/model"
)

// fakeGateway records every call and fails at the configured stage.
type fakeGateway struct {
	failAt Stage

	customers []Customer
	charges   []fakeCharge
	cards     []string
	scheduled []fakeScheduled
	idemKeys  []string
}

type fakeCharge struct {
	token       string
	amountCents int64
	currency    string
}

type fakeScheduled struct {
	cardID      string
	amountCents int64
	delay       time.Duration
	customerID  string
}

var errGatewayDown = errors.New("gateway unavailable")

func (g *fakeGateway) CreateCustomer(_ context.Context, c Customer) (string, error) {
	if g.failAt == StageCustomer {
		return "", errGatewayDown
	}
	g.customers = append(g.customers, c)
	return "cust-1", nil
}

func (g *fakeGateway) Charge(_ context.Context, token string, amountCents int64, currency, idempotencyKey string) (*ChargeReceipt, error) {
	if g.failAt == StageFirstCharge {
		return nil, errGatewayDown
	}
	g.charges = append(g.charges, fakeCharge{token: token, amountCents: amountCents, currency: currency})
	g.idemKeys = append(g.idemKeys, idempotencyKey)
	return &ChargeReceipt{PaymentID: "pay-1", AmountCents: amountCents, Currency: currency, Status: "COMPLETED"}, nil
}

func (g *fakeGateway) StoreCard(_ context.Context, token, customerID, idempotencyKey string) (string, error) {
	if g.failAt == StageStoreCard {
		return "", errGatewayDown
	}
	g.cards = append(g.cards, token)
	g.idemKeys = append(g.idemKeys, idempotencyKey)
	return "card-1", nil
}

func (g *fakeGateway) ChargeDelayed(_ context.Context, cardID string, amountCents int64, currency string, delay time.Duration, customerID, idempotencyKey string) (*ScheduledChargeReceipt, error) {
	if g.failAt == StageSchedule {
		return nil, errGatewayDown
	}
	g.scheduled = append(g.scheduled, fakeScheduled{cardID: cardID, amountCents: amountCents, delay: delay, customerID: customerID})
	g.idemKeys = append(g.idemKeys, idempotencyKey)
	return &ScheduledChargeReceipt{PaymentID: "pay-2", AmountCents: amountCents, Delay: delay}, nil
}

func splitForm() *model.FormState {
	f := model.NewFormState()
	f.Client = model.PersonInfo{
		FirstName: "Ada", LastName: "Quill",
		Phone: "555-0100", Email: "ada@example.com",
	}
	f.PaymentOption = model.PaymentSplit
	f.FirstPaymentAmount = decimal.NewFromInt(250)
	f.SecondPaymentAmount = decimal.NewFromInt(250)
	return f
}

func TestCollectFullPayment(t *testing.T) {
	gw := &fakeGateway{}
	f := splitForm()
	f.PaymentOption = model.PaymentFull
	f.FirstPaymentAmount = decimal.NewFromInt(500)
	f.SecondPaymentAmount = decimal.Zero

	c := NewCollector(gw, zap.NewNop(), nil)
	res := c.Collect(context.Background(), f, "tok-1")

	require.Equal(t, OutcomeSucceeded, res.Outcome)
	assert.Equal(t, "cust-1", res.CustomerID)
	require.Len(t, gw.charges, 1)
	assert.Equal(t, int64(50000), gw.charges[0].amountCents)
	assert.Equal(t, Currency, gw.charges[0].currency)
	assert.Equal(t, "tok-1", gw.charges[0].token)
	// Full payment never touches card storage or scheduling.
	assert.Empty(t, gw.cards)
	assert.Empty(t, gw.scheduled)
}

func TestCollectSplitPayment(t *testing.T) {
	gw := &fakeGateway{}
	now := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	f := splitForm()
	f.SecondPaymentDate = "2026-03-12" // ten days out

	c := NewCollector(gw, zap.NewNop(), func() time.Time { return now })
	res := c.Collect(context.Background(), f, "tok-1")

	require.Equal(t, OutcomeSucceeded, res.Outcome)
	require.NotNil(t, res.First)
	require.NotNil(t, res.Scheduled)

	require.Len(t, gw.charges, 1)
	assert.Equal(t, int64(25000), gw.charges[0].amountCents)

	require.Len(t, gw.cards, 1)
	assert.Equal(t, "tok-1", gw.cards[0])

	require.Len(t, gw.scheduled, 1)
	s := gw.scheduled[0]
	assert.Equal(t, "card-1", s.cardID)
	assert.Equal(t, "cust-1", s.customerID)
	assert.Equal(t, int64(25000), s.amountCents)
	assert.Equal(t, 10*24*time.Hour, s.delay)

	// Each call carries its own idempotency key.
	seen := map[string]bool{}
	for _, k := range gw.idemKeys {
		require.NotEmpty(t, k)
		assert.False(t, seen[k], "idempotency key reused")
		seen[k] = true
	}
}

func TestCollectFirstChargeFailureAbortsProtocol(t *testing.T) {
	gw := &fakeGateway{failAt: StageFirstCharge}
	f := splitForm()
	f.SecondPaymentDate = "2026-03-12"

	c := NewCollector(gw, zap.NewNop(), nil)
	res := c.Collect(context.Background(), f, "tok-1")

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, StageFirstCharge, res.FailedStage)
	assert.ErrorIs(t, res.Err, errGatewayDown)
	// Nothing downstream of the failed charge runs.
	assert.Empty(t, gw.cards)
	assert.Empty(t, gw.scheduled)
}

func TestCollectCustomerFailure(t *testing.T) {
	gw := &fakeGateway{failAt: StageCustomer}
	c := NewCollector(gw, zap.NewNop(), nil)
	res := c.Collect(context.Background(), splitForm(), "tok-1")

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, StageCustomer, res.FailedStage)
	assert.Empty(t, gw.charges)
}

func TestCollectScheduleFailureIsPartial(t *testing.T) {
	gw := &fakeGateway{failAt: StageSchedule}
	f := splitForm()
	f.SecondPaymentDate = "2026-03-12"

	c := NewCollector(gw, zap.NewNop(), nil)
	res := c.Collect(context.Background(), f, "tok-1")

	assert.Equal(t, OutcomePartial, res.Outcome)
	assert.Equal(t, StageSchedule, res.FailedStage)
	// The first charge went through and is reported.
	require.NotNil(t, res.First)
	assert.Equal(t, "pay-1", res.First.PaymentID)
}

func TestCollectStoreCardFailureIsPartial(t *testing.T) {
	gw := &fakeGateway{failAt: StageStoreCard}
	f := splitForm()
	f.SecondPaymentDate = "2026-03-12"

	c := NewCollector(gw, zap.NewNop(), nil)
	res := c.Collect(context.Background(), f, "tok-1")

	assert.Equal(t, OutcomePartial, res.Outcome)
	assert.Equal(t, StageStoreCard, res.FailedStage)
	assert.Empty(t, gw.scheduled)
}

func TestDelayClampedToZeroForPastDates(t *testing.T) {
	gw := &fakeGateway{}
	now := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	f := splitForm()
	f.SecondPaymentDate = "2026-02-20"

	c := NewCollector(gw, zap.NewNop(), func() time.Time { return now })
	res := c.Collect(context.Background(), f, "tok-1")

	require.Equal(t, OutcomeSucceeded, res.Outcome)
	require.Len(t, gw.scheduled, 1)
	assert.Equal(t, time.Duration(0), gw.scheduled[0].delay)
}

func TestCents(t *testing.T) {
	assert.Equal(t, int64(50000), Cents(decimal.NewFromInt(500)))
	assert.Equal(t, int64(25000), Cents(decimal.RequireFromString("250.00")))
	assert.Equal(t, int64(12345), Cents(decimal.RequireFromString("123.45")))
}
