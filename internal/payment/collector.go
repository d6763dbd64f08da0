package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/remedytax/intake-engine/internal/model"
)

// Stage names the point in the split protocol where a failure occurred.
type Stage string

const (
	StageCustomer    Stage = "customer"
	StageFirstCharge Stage = "first-charge"
	StageStoreCard   Stage = "store-card"
	StageSchedule    Stage = "schedule"
)

// Outcome classifies the overall result of a collection attempt.
type Outcome string

const (
	// OutcomeFailed means no money moved.
	OutcomeFailed Outcome = "FAILED"
	// OutcomePartial means the first charge succeeded but the second could
	// not be stored or scheduled; the client has paid half the retainer.
	OutcomePartial Outcome = "FIRST_PAID_SCHEDULE_FAILED"
	// OutcomeSucceeded means every required charge completed or was scheduled.
	OutcomeSucceeded Outcome = "SUCCEEDED"
)

// Result reports a collection attempt. FailedStage and Err are set unless the
// outcome is OutcomeSucceeded.
type Result struct {
	Outcome     Outcome                 `json:"outcome"`
	CustomerID  string                  `json:"customerId,omitempty"`
	First       *ChargeReceipt          `json:"first,omitempty"`
	Scheduled   *ScheduledChargeReceipt `json:"scheduled,omitempty"`
	FailedStage Stage                   `json:"failedStage,omitempty"`
	Err         error                   `json:"-"`
}

// Currency for all retainer charges.
const Currency = "USD"

// Collector runs the charge protocol against a Gateway: create customer,
// charge the first amount with the one-time token, then for split payments
// store the card and schedule the remainder.
type Collector struct {
	gw  Gateway
	log *zap.Logger
	now func() time.Time
}

// NewCollector builds a collector. A nil clock defaults to time.Now.
func NewCollector(gw Gateway, log *zap.Logger, now func() time.Time) *Collector {
	if now == nil {
		now = time.Now
	}
	return &Collector{gw: gw, log: log, now: now}
}

// Collect executes the payment for the session's form using a one-time card
// token. No retries: a failed charge returns control to the payment step.
func (c *Collector) Collect(ctx context.Context, f *model.FormState, token string) Result {
	cust := Customer{
		Email:     f.Client.Email,
		FirstName: f.Client.FirstName,
		LastName:  f.Client.LastName,
		Phone:     f.Client.Phone,
	}

	customerID, err := c.gw.CreateCustomer(ctx, cust)
	if err != nil {
		c.log.Warn("customer creation failed", zap.Error(err))
		return Result{Outcome: OutcomeFailed, FailedStage: StageCustomer,
			Err: fmt.Errorf("create customer: %w", err)}
	}

	firstCents := Cents(f.FirstPaymentAmount)
	first, err := c.gw.Charge(ctx, token, firstCents, Currency, uuid.NewString())
	if err != nil {
		c.log.Warn("first payment failed", zap.Error(err), zap.Int64("amountCents", firstCents))
		return Result{Outcome: OutcomeFailed, CustomerID: customerID, FailedStage: StageFirstCharge,
			Err: fmt.Errorf("first payment: %w", err)}
	}

	if f.PaymentOption != model.PaymentSplit {
		c.log.Info("payment collected", zap.String("paymentId", first.PaymentID))
		return Result{Outcome: OutcomeSucceeded, CustomerID: customerID, First: first}
	}

	cardID, err := c.gw.StoreCard(ctx, token, customerID, uuid.NewString())
	if err != nil {
		c.log.Warn("card storage failed after first payment", zap.Error(err))
		return Result{Outcome: OutcomePartial, CustomerID: customerID, First: first,
			FailedStage: StageStoreCard, Err: fmt.Errorf("store card: %w", err)}
	}

	delay := c.delayUntilSecondPayment(f.SecondPaymentDate)
	secondCents := Cents(f.SecondPaymentAmount)
	scheduled, err := c.gw.ChargeDelayed(ctx, cardID, secondCents, Currency, delay, customerID, uuid.NewString())
	if err != nil {
		c.log.Warn("second payment scheduling failed", zap.Error(err),
			zap.Duration("delay", delay), zap.Int64("amountCents", secondCents))
		return Result{Outcome: OutcomePartial, CustomerID: customerID, First: first,
			FailedStage: StageSchedule, Err: fmt.Errorf("schedule second payment: %w", err)}
	}

	c.log.Info("split payment collected",
		zap.String("firstPaymentId", first.PaymentID),
		zap.String("scheduledPaymentId", scheduled.PaymentID),
		zap.Duration("delay", delay))
	return Result{Outcome: OutcomeSucceeded, CustomerID: customerID, First: first, Scheduled: scheduled}
}

// delayUntilSecondPayment computes the schedule delay, clamped to zero when
// the chosen date is not in the future.
func (c *Collector) delayUntilSecondPayment(date string) time.Duration {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0
	}
	d := t.Sub(c.now())
	if d < 0 {
		return 0
	}
	return d
}
