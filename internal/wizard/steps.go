package wizard

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/remedytax/intake-engine/internal/model"
	"github.com/remedytax/intake-engine/internal/rules"
)

// Step binds a screen to its patch decoder, its navigation gate and an
// optional skip predicate. Sequencing lives entirely in the ordered table;
// screens never decide their own successor.
type Step struct {
	ID model.StepID

	// Apply decodes the step's raw patch and merges it into the form,
	// returning any messages produced by the merge itself.
	Apply func(f *model.FormState, raw json.RawMessage) ([]model.Message, error)

	// Gate is evaluated fresh after every merge; any blocking message keeps
	// the step pointer where it is.
	Gate func(f *model.FormState) []model.Message

	// Skip, when set and true, removes the step from the path entirely.
	Skip func(f *model.FormState) bool
}

type patch interface {
	Apply(f *model.FormState) []model.Message
}

func decodeAndApply[P any, PP interface {
	*P
	patch
}](f *model.FormState, raw json.RawMessage) ([]model.Message, error) {
	var p P
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("invalid step payload: %w", err)
		}
	}
	return PP(&p).Apply(f), nil
}

func noPatch(_ *model.FormState, raw json.RawMessage) ([]model.Message, error) {
	if len(raw) > 0 && string(raw) != "null" && string(raw) != "{}" {
		return nil, fmt.Errorf("step accepts no payload")
	}
	return nil, nil
}

func passGate(*model.FormState) []model.Message { return nil }

// stepTable builds the full ordered flow. The clock feeds the retainer gate's
// minimum-date check.
func stepTable(now func() time.Time) []Step {
	return []Step{
		{
			ID:    model.StepBankruptcyCheck,
			Apply: decodeAndApply[model.BankruptcyPatch],
			Gate:  rules.BankruptcyGate,
		},
		{
			ID:    model.StepFilingStatus,
			Apply: decodeAndApply[model.FilingStatusPatch],
			Gate:  rules.FilingStatusGate,
		},
		{
			ID:    model.StepTaxActions,
			Apply: decodeAndApply[model.TaxActionsPatch],
			Gate:  rules.TaxActionsGate,
		},
		{
			ID:    model.StepDebtDetails,
			Apply: decodeAndApply[model.DebtDetailsPatch],
			Gate:  rules.DebtDetailsGate,
		},
		{
			ID:    model.StepIncomeDetails,
			Apply: decodeAndApply[model.IncomeDetailsPatch],
			Gate:  rules.IncomeDetailsGate,
		},
		{
			ID:    model.StepExpenseDetails,
			Apply: decodeAndApply[model.ExpenseDetailsPatch],
			Gate:  rules.ExpenseDetailsGate,
		},
		{
			ID:    model.StepAssetDetails,
			Apply: decodeAndApply[model.AssetDetailsPatch],
			Gate:  rules.AssetDetailsGate,
		},
		{
			ID:    model.StepReviewAndConfirm,
			Apply: decodeAndApply[model.ReviewPatch],
			Gate:  rules.ReviewGate,
		},
		{
			// Submit performs no merge; leaving it runs the processing
			// sequence before the eligibility result is shown.
			ID:    model.StepSubmit,
			Apply: noPatch,
			Gate:  passGate,
		},
		{
			ID:    model.StepEligibilityResult,
			Apply: noPatch,
			Gate:  passGate,
		},
		{
			ID:    model.StepPersonalDetails,
			Apply: decodeAndApply[model.PersonalDetailsPatch],
			Gate:  rules.PersonalDetailsGate,
		},
		{
			ID:    model.StepBusinessDetails,
			Apply: decodeAndApply[model.BusinessDetailsPatch],
			Gate:  rules.BusinessDetailsGate,
			Skip: func(f *model.FormState) bool {
				return !f.HasBusiness()
			},
		},
		{
			ID:    model.StepRetainerSelection,
			Apply: decodeAndApply[model.RetainerPatch],
			Gate: func(f *model.FormState) []model.Message {
				return retainerGate(f, now())
			},
		},
		{
			ID:    model.StepAgreementSigning,
			Apply: decodeAndApply[model.AgreementPatch],
			Gate:  rules.AgreementGate,
		},
		{
			// Terminal for navigation; the payment handler owns the
			// transition to Confirmation.
			ID:    model.StepPaymentCollection,
			Apply: noPatch,
			Gate:  passGate,
		},
		{
			ID:    model.StepConfirmation,
			Apply: noPatch,
			Gate:  passGate,
		},
	}
}
