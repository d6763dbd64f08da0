// Package rules holds the eligibility predicates evaluated against the
// accumulated form. Every predicate is pure and independent of the others;
// which predicates gate which step is decided by the wizard's step table.
package rules

import (
	"github.com/shopspring/decimal"

	"github.com/remedytax/intake-engine/internal/model"
)

// MinimumDebt is the smallest tax debt the firm takes on.
var MinimumDebt = decimal.NewFromInt(5000)

// MaximumExistingPlan is the monthly IRS payment above which an existing
// installment plan no longer disqualifies a client.
var MaximumExistingPlan = decimal.NewFromInt(300)

// IsBankrupt reports the terminal bankruptcy hard-stop.
func IsBankrupt(f *model.FormState) bool {
	return f.BankruptcyStatus == model.AnswerYes
}

// IsStateOnlyDebt reports the state-only hard-stop. Mixed federal and state
// debt is a warning elsewhere, never a block.
func IsStateOnlyDebt(f *model.FormState) bool {
	return f.TaxType == model.TaxTypeState
}

// IsDebtTooLow is true when a debt amount has been entered and falls below
// the intake minimum. An absent amount is a missing-field condition instead.
func IsDebtTooLow(f *model.FormState) bool {
	return f.DebtAmount != nil && f.DebtAmount.LessThan(MinimumDebt)
}

// IsPaymentPlanTooLow is true when the client is on an existing IRS plan
// paying a small positive monthly amount.
func IsPaymentPlanTooLow(f *model.FormState) bool {
	if f.HasPaymentPlan != model.AnswerYes || f.MonthlyPayment == nil {
		return false
	}
	m := *f.MonthlyPayment
	return m.IsPositive() && m.LessThanOrEqual(MaximumExistingPlan)
}

// NoticeRequiresCertification is true when IRS notices were selected but the
// certified-delivery question is unanswered.
func NoticeRequiresCertification(f *model.FormState) bool {
	return f.HasAction(model.ActionNotices) && f.IsNoticeCertified == ""
}

// BusinessDebtRequiresTaxType is true when business debt is declared without
// any business tax liability type.
func BusinessDebtRequiresTaxType(f *model.FormState) bool {
	return f.DebtType == model.DebtPersonalBusiness && len(f.BusinessTaxTypes) == 0
}

// Message codes shared between the gates and the API surface.
const (
	CodeBankruptcyBlocked     = "BANKRUPTCY_BLOCKED"
	CodeStateOnlyDebt         = "STATE_ONLY_DEBT"
	CodeMixedJurisdiction     = "MIXED_JURISDICTION"
	CodeDebtTooLow            = "DEBT_TOO_LOW"
	CodePaymentPlanTooLow     = "PAYMENT_PLAN_TOO_LOW"
	CodeNoticeNotCertified    = "NOTICE_CERTIFICATION_REQUIRED"
	CodeBusinessTaxTypeNeeded = "BUSINESS_TAX_TYPE_REQUIRED"
	CodeFieldRequired         = "FIELD_REQUIRED"
	CodeNotConfirmed          = "CONFIRMATION_REQUIRED"
	CodeAgreementsIncomplete  = "AGREEMENTS_INCOMPLETE"
)

// Required flags a missing mandatory field.
func Required(field string) model.Message {
	return model.Blocking(CodeFieldRequired, field+" is required")
}

// BankruptcyGate blocks when the client is in bankruptcy or has not answered.
func BankruptcyGate(f *model.FormState) []model.Message {
	if IsBankrupt(f) {
		return []model.Message{model.Blocking(CodeBankruptcyBlocked,
			"We cannot assist until your bankruptcy status is discharged")}
	}
	if f.BankruptcyStatus == "" {
		return []model.Message{Required("bankruptcyStatus")}
	}
	return nil
}

// FilingStatusGate requires the three filing questions.
func FilingStatusGate(f *model.FormState) []model.Message {
	var msgs []model.Message
	if f.FilingStatus == "" {
		msgs = append(msgs, Required("filingStatus"))
	}
	if f.TaxFilings == "" {
		msgs = append(msgs, Required("taxFilings"))
	}
	if f.MultipleYears == "" {
		msgs = append(msgs, Required("multipleYears"))
	}
	return msgs
}

// TaxActionsGate requires at least one action and certification for notices.
func TaxActionsGate(f *model.FormState) []model.Message {
	var msgs []model.Message
	if len(f.SelectedActions) == 0 {
		msgs = append(msgs, Required("selectedActions"))
	}
	if NoticeRequiresCertification(f) {
		msgs = append(msgs, model.Blocking(CodeNoticeNotCertified,
			"Was the notice certified? An answer is required"))
	}
	return msgs
}

// DebtDetailsGate enforces the hard-stops and required fields for the debt
// screen. Low debt and low existing plan payments block rather than warn.
func DebtDetailsGate(f *model.FormState) []model.Message {
	var msgs []model.Message
	if f.DebtType == "" {
		msgs = append(msgs, Required("debtType"))
	}
	if BusinessDebtRequiresTaxType(f) {
		msgs = append(msgs, model.Blocking(CodeBusinessTaxTypeNeeded,
			"Select at least one business tax liability type"))
	}
	switch {
	case f.TaxType == "":
		msgs = append(msgs, Required("taxType"))
	case IsStateOnlyDebt(f):
		msgs = append(msgs, model.Blocking(CodeStateOnlyDebt,
			"We specialize in Federal IRS cases only and do not take on state cases"))
	case f.TaxType == model.TaxTypeBoth:
		msgs = append(msgs, model.Warning(CodeMixedJurisdiction,
			"We can proceed with the federal portion of your tax debt only"))
	}
	switch {
	case f.DebtAmount == nil:
		msgs = append(msgs, Required("debtAmount"))
	case IsDebtTooLow(f):
		msgs = append(msgs, model.Blocking(CodeDebtTooLow,
			"We do not take on clients who owe less than $5,000"))
	}
	switch {
	case f.HasPaymentPlan == "":
		msgs = append(msgs, Required("hasPaymentPlan"))
	case f.HasPaymentPlan == model.AnswerYes && f.MonthlyPayment == nil:
		msgs = append(msgs, Required("monthlyPayment"))
	case IsPaymentPlanTooLow(f):
		msgs = append(msgs, model.Blocking(CodePaymentPlanTooLow,
			"We do not take on clients already paying the IRS that amount monthly"))
	}
	return msgs
}

// IncomeDetailsGate requires an income type and a monthly income figure.
func IncomeDetailsGate(f *model.FormState) []model.Message {
	var msgs []model.Message
	if len(f.IncomeTypes) == 0 {
		msgs = append(msgs, Required("incomeTypes"))
	}
	if f.MonthlyIncome == nil {
		msgs = append(msgs, Required("monthlyIncome"))
	}
	return msgs
}

// ExpenseDetailsGate requires a household size.
func ExpenseDetailsGate(f *model.FormState) []model.Message {
	if f.HouseholdSize == 0 {
		return []model.Message{Required("householdSize")}
	}
	return nil
}

// AssetDetailsGate requires at least one asset bucket.
func AssetDetailsGate(f *model.FormState) []model.Message {
	if len(f.SelectedAssets) == 0 {
		return []model.Message{Required("selectedAssets")}
	}
	return nil
}

// ReviewGate requires the explicit accuracy confirmation.
func ReviewGate(f *model.FormState) []model.Message {
	if !f.Confirmed {
		return []model.Message{model.Blocking(CodeNotConfirmed,
			"Please confirm the information you provided is accurate")}
	}
	return nil
}

// PersonalDetailsGate requires the client identity fields (and, for joint
// filers, the spouse's).
func PersonalDetailsGate(f *model.FormState) []model.Message {
	var msgs []model.Message
	msgs = append(msgs, personGate("client", &f.Client)...)
	if f.Address.Street == "" || f.Address.City == "" || f.Address.State == "" || f.Address.ZipCode == "" {
		msgs = append(msgs, Required("address"))
	}
	if f.HasSpouse() {
		if f.Spouse == nil {
			msgs = append(msgs, Required("spouse"))
		} else {
			msgs = append(msgs, personGate("spouse", f.Spouse)...)
		}
	}
	return msgs
}

func personGate(prefix string, p *model.PersonInfo) []model.Message {
	var msgs []model.Message
	if p.FirstName == "" {
		msgs = append(msgs, Required(prefix+".firstName"))
	}
	if p.LastName == "" {
		msgs = append(msgs, Required(prefix+".lastName"))
	}
	if p.DateOfBirth == "" {
		msgs = append(msgs, Required(prefix+".dateOfBirth"))
	}
	if p.SSN == "" {
		msgs = append(msgs, Required(prefix+".ssn"))
	}
	if p.Phone == "" {
		msgs = append(msgs, Required(prefix+".phone"))
	}
	if p.Email == "" {
		msgs = append(msgs, Required(prefix+".email"))
	}
	return msgs
}

// BusinessDetailsGate requires the business identity fields.
func BusinessDetailsGate(f *model.FormState) []model.Message {
	if f.Business == nil {
		return []model.Message{Required("business")}
	}
	var msgs []model.Message
	if f.Business.Name == "" {
		msgs = append(msgs, Required("business.name"))
	}
	if f.Business.EIN == "" {
		msgs = append(msgs, Required("business.ein"))
	}
	if f.Business.Type == "" {
		msgs = append(msgs, Required("business.type"))
	}
	return msgs
}

// AgreementGate requires every document to be accepted.
func AgreementGate(f *model.FormState) []model.Message {
	a := f.Agreements
	if a.TermsAccepted && a.IRSFormsAccepted && a.ComplianceAccepted {
		return nil
	}
	return []model.Message{model.Blocking(CodeAgreementsIncomplete,
		"All agreements must be reviewed and accepted")}
}
