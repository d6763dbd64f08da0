package wizard

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/remedytax/intake-engine/internal/model"
)

// Retainer pricing. The online assessment discount is fixed.
var (
	RetainerBase     = decimal.NewFromInt(600)
	RetainerDiscount = decimal.NewFromInt(100)
	TotalRetainerDue = RetainerBase.Sub(RetainerDiscount)
)

// resolutionLeadDays is the estimated number of business days between full
// payment and a resolution plan.
const resolutionLeadDays = 7

// PaymentAmounts returns the first and second charge amounts for a payment
// option. Split payments halve the retainer exactly; the two amounts always
// sum to TotalRetainerDue.
func PaymentAmounts(option string) (first, second decimal.Decimal, err error) {
	switch option {
	case model.PaymentFull:
		return TotalRetainerDue, decimal.Zero, nil
	case model.PaymentSplit:
		first = TotalRetainerDue.Div(decimal.NewFromInt(2))
		return first, TotalRetainerDue.Sub(first), nil
	default:
		return decimal.Zero, decimal.Zero, fmt.Errorf("unknown payment option %q", option)
	}
}

// EstimatedResolutionDate returns the displayed estimate: seven business days
// after the second payment date for split payments, or after today for full
// payment.
func EstimatedResolutionDate(f *model.FormState, now time.Time) (time.Time, error) {
	start := now
	if f.PaymentOption == model.PaymentSplit {
		d, ok := parseDate(f.SecondPaymentDate)
		if !ok {
			return time.Time{}, fmt.Errorf("invalid second payment date %q", f.SecondPaymentDate)
		}
		start = d
	}
	return AddBusinessDays(start, resolutionLeadDays), nil
}

// retainerGate validates the retainer selection and derives the payment
// amount fields, keeping first+second equal to the total due.
func retainerGate(f *model.FormState, now time.Time) []model.Message {
	if f.PaymentOption == "" {
		return []model.Message{model.Blocking("PAYMENT_OPTION_REQUIRED", "Choose a payment option")}
	}
	first, second, err := PaymentAmounts(f.PaymentOption)
	if err != nil {
		return []model.Message{model.Blocking("PAYMENT_OPTION_INVALID", err.Error())}
	}
	if f.PaymentOption == model.PaymentSplit {
		d, ok := parseDate(f.SecondPaymentDate)
		if !ok {
			return []model.Message{model.Blocking("SECOND_PAYMENT_DATE_REQUIRED",
				"Select a second payment date")}
		}
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if d.Before(today) {
			return []model.Message{model.Blocking("SECOND_PAYMENT_DATE_PAST",
				"The second payment date cannot be before today")}
		}
	}
	f.FirstPaymentAmount = first
	f.SecondPaymentAmount = second
	return nil
}
