// Package expense derives the household cost-of-living allowance and totals
// the itemized monthly expense fields.
package expense

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/remedytax/intake-engine/internal/model"
)

// householdAllowances is the fixed food/clothing/miscellaneous allowance by
// household size.
var householdAllowances = map[int]int64{
	1: 808,
	2: 1411,
	3: 1677,
	4: 2027,
	5: 2413,
	6: 2799,
	7: 3188,
	8: 3571,
}

// MaxHouseholdSize is the largest household size the allowance table covers.
const MaxHouseholdSize = 8

// AllowanceFor returns the tabulated allowance for the given household size.
// Sizes outside 1..8 are an input error, never extrapolated.
func AllowanceFor(householdSize int) (decimal.Decimal, error) {
	v, ok := householdAllowances[householdSize]
	if !ok {
		return decimal.Zero, fmt.Errorf("household size %d out of range 1-%d", householdSize, MaxHouseholdSize)
	}
	return decimal.NewFromInt(v), nil
}

// TotalExpenses sums the household allowance and every itemized field whose
// category is enabled. Stale values under a disabled category are excluded.
func TotalExpenses(f *model.FormState) (decimal.Decimal, error) {
	total, err := AllowanceFor(f.HouseholdSize)
	if err != nil {
		return decimal.Zero, err
	}
	e := f.Expenses
	if e.HousingEnabled {
		total = total.Add(e.Rent).Add(e.Mortgage).Add(e.Utilities).Add(e.Cable)
	}
	if e.AutoEnabled {
		total = total.Add(e.CarPayment).Add(e.PublicTransport).Add(e.VehicleInsurance).Add(e.Gasoline)
	}
	if e.HealthcareEnabled {
		total = total.Add(e.HealthInsurance).Add(e.Prescriptions).Add(e.Copays)
	}
	if e.OtherEnabled {
		total = total.Add(e.ChildCare).Add(e.CourtPayments).Add(e.LifeInsurance)
	}
	return total, nil
}
