// Package payment adapts the intake flow to an external card-payment
// gateway: an immediate charge plus an optional stored-card delayed charge.
package payment

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrTimeout marks a gateway call that exceeded the bounded call timeout.
var ErrTimeout = errors.New("payment gateway timeout")

// Customer identifies the paying client at the gateway.
type Customer struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// ChargeReceipt is the gateway's record of a completed charge.
type ChargeReceipt struct {
	PaymentID   string `json:"paymentId"`
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
}

// ScheduledChargeReceipt records a charge accepted for delayed capture.
type ScheduledChargeReceipt struct {
	PaymentID   string        `json:"paymentId"`
	AmountCents int64         `json:"amountCents"`
	Delay       time.Duration `json:"delay"`
}

// Tokenizer converts raw card input into an opaque one-time token. Raw card
// data never reaches this service: implementations live in the client (the
// gateway's web SDK with the public low-privilege key); server-side code
// consumes only the resulting token.
type Tokenizer interface {
	Tokenize(ctx context.Context, cardholderName string) (string, error)
}

// Gateway is the outbound contract the payment step depends on. Every call
// is idempotent under retry with the same idempotency key.
type Gateway interface {
	CreateCustomer(ctx context.Context, c Customer) (customerID string, err error)
	Charge(ctx context.Context, token string, amountCents int64, currency, idempotencyKey string) (*ChargeReceipt, error)
	StoreCard(ctx context.Context, token, customerID, idempotencyKey string) (cardID string, err error)
	ChargeDelayed(ctx context.Context, cardID string, amountCents int64, currency string, delay time.Duration, customerID, idempotencyKey string) (*ScheduledChargeReceipt, error)
}

var hundred = decimal.NewFromInt(100)

// Cents converts a major-unit amount to minor units. This is the only place
// amounts become integers; splitting happens upstream on decimals so halved
// retainers cannot drift.
func Cents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).IntPart()
}
