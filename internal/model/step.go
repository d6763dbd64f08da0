package model

// StepID identifies a screen in the intake flow.
type StepID string

// Pre-qualification steps, in order.
const (
	StepBankruptcyCheck   StepID = "BankruptcyCheck"
	StepFilingStatus      StepID = "FilingStatus"
	StepTaxActions        StepID = "TaxActions"
	StepDebtDetails       StepID = "DebtDetails"
	StepIncomeDetails     StepID = "IncomeDetails"
	StepExpenseDetails    StepID = "ExpenseDetails"
	StepAssetDetails      StepID = "AssetDetails"
	StepReviewAndConfirm  StepID = "ReviewAndConfirm"
	StepSubmit            StepID = "Submit"
	StepEligibilityResult StepID = "EligibilityResult"
)

// Intake sub-wizard steps, entered after a successful eligibility result.
const (
	StepPersonalDetails   StepID = "PersonalDetails"
	StepBusinessDetails   StepID = "BusinessDetails"
	StepRetainerSelection StepID = "RetainerSelection"
	StepAgreementSigning  StepID = "AgreementSigning"
	StepPaymentCollection StepID = "PaymentCollection"
	StepConfirmation      StepID = "Confirmation"
)
