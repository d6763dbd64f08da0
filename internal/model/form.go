package model

import (
	"github.com/shopspring/decimal"
)

// Answer values for the pre-qualification questions.
const (
	AnswerYes = "yes"
	AnswerNo  = "no"
)

// Filing statuses.
const (
	FilingSingle          = "single"
	FilingMarriedJoint    = "married-joint"
	FilingMarriedSeparate = "married-separate"
	FilingHeadOfHousehold = "head"
	FilingQualifiedWidow  = "widow"
)

// Tax filing statuses.
const (
	TaxFilingsUpToDate = "up-to-date"
	TaxFilingsMissed   = "missed"
	TaxFilingsUnsure   = "unsure"
)

// IRS actions a client may have encountered.
const (
	ActionNotices     = "notices"
	ActionGarnishment = "garnishment"
	ActionLevy        = "levy"
	ActionLien        = "lien"
	ActionAgent       = "agent"
)

// Debt types.
const (
	DebtPersonal         = "personal"
	DebtPersonalBusiness = "personal-business"
)

// Business tax liability types.
const (
	BusinessTaxIncome  = "income"
	BusinessTaxPayroll = "payroll"
	BusinessTaxSales   = "sales"
)

// Tax jurisdiction types.
const (
	TaxTypeFederal = "federal"
	TaxTypeState   = "state"
	TaxTypeBoth    = "both"
)

// Income types.
const (
	IncomeEmployment = "employment"
	IncomeRetirement = "retirement"
	IncomeOther      = "other"
)

// Asset categories and their ordinal value buckets.
const (
	AssetBankAccounts  = "bankAccounts"
	AssetInvestments   = "investments"
	AssetRetirement    = "retirement"
	AssetRealEstate    = "realEstate"
	AssetLifeInsurance = "lifeInsurance"
)

// AssetRanges lists the five value buckets a client picks from, in order.
var AssetRanges = []string{
	"$0 - $5,000",
	"$5,000 - $10,000",
	"$10,000 - $25,000",
	"$25,000 - $50,000",
	"$50,000 - $100,000+",
}

// Payment options for the retainer.
const (
	PaymentFull  = "full"
	PaymentSplit = "split"
)

// Agreement document identifiers.
const (
	DocTerms      = "terms"
	DocIRSForms   = "irs-forms"
	DocCompliance = "compliance"
)

// PersonInfo identifies the client or their spouse.
type PersonInfo struct {
	FirstName   string `json:"firstName"`
	MiddleName  string `json:"middleName,omitempty"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

// Address is a US mailing address.
type Address struct {
	Street  string `json:"street"`
	Unit    string `json:"unit,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// BusinessInfo describes the client's business when business debt is involved.
type BusinessInfo struct {
	Name    string  `json:"name"`
	EIN     string  `json:"ein"`
	Type    string  `json:"type"`
	Address Address `json:"address"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email"`
}

// Expenses holds the itemized monthly expense fields. Each category is gated
// by an Enabled flag; fields under a disabled category keep their last value
// but are excluded from totals.
type Expenses struct {
	HousingEnabled bool            `json:"housingEnabled"`
	Rent           decimal.Decimal `json:"rent"`
	Mortgage       decimal.Decimal `json:"mortgage"`
	Utilities      decimal.Decimal `json:"utilities"`
	Cable          decimal.Decimal `json:"cable"`

	AutoEnabled      bool            `json:"autoEnabled"`
	CarPayment       decimal.Decimal `json:"carPayment"`
	PublicTransport  decimal.Decimal `json:"publicTransport"`
	VehicleInsurance decimal.Decimal `json:"vehicleInsurance"`
	Gasoline         decimal.Decimal `json:"gasoline"`

	HealthcareEnabled bool            `json:"healthcareEnabled"`
	HealthInsurance   decimal.Decimal `json:"healthInsurance"`
	Prescriptions     decimal.Decimal `json:"prescriptions"`
	Copays            decimal.Decimal `json:"copays"`

	OtherEnabled  bool            `json:"otherEnabled"`
	ChildCare     decimal.Decimal `json:"childCare"`
	CourtPayments decimal.Decimal `json:"courtPayments"`
	LifeInsurance decimal.Decimal `json:"lifeInsurance"`
}

// Agreements tracks which legal documents have been opened and accepted.
// A document may only be accepted after it has been viewed.
type Agreements struct {
	TermsViewed        bool `json:"termsViewed"`
	TermsAccepted      bool `json:"termsAccepted"`
	IRSFormsViewed     bool `json:"irsFormsViewed"`
	IRSFormsAccepted   bool `json:"irsFormsAccepted"`
	ComplianceViewed   bool `json:"complianceViewed"`
	ComplianceAccepted bool `json:"complianceAccepted"`
}

// FormState is the accumulated record of every answer collected during a
// session. It only grows: step submissions overwrite fields, Previous never
// clears them. Optional numeric answers are nil until provided.
type FormState struct {
	BankruptcyStatus string `json:"bankruptcyStatus"`

	FilingStatus  string `json:"filingStatus"`
	TaxFilings    string `json:"taxFilings"`
	MultipleYears string `json:"multipleYears"`

	SelectedActions   []string `json:"selectedActions"`
	IsNoticeCertified string   `json:"isNoticeCertified"`

	DebtType         string           `json:"debtType"`
	BusinessTaxTypes []string         `json:"businessTaxTypes"`
	TaxType          string           `json:"taxType"`
	DebtAmount       *decimal.Decimal `json:"debtAmount"`
	HasPaymentPlan   string           `json:"hasPaymentPlan"`
	MonthlyPayment   *decimal.Decimal `json:"monthlyPayment"`

	IncomeTypes         []string         `json:"incomeTypes"`
	MonthlyIncome       *decimal.Decimal `json:"monthlyIncome"`
	SpouseMonthlyIncome *decimal.Decimal `json:"spouseMonthlyIncome"`

	HouseholdSize int      `json:"householdSize"`
	Expenses      Expenses `json:"expenses"`

	SelectedAssets map[string]string `json:"selectedAssets"`

	Confirmed bool `json:"confirmed"`

	Client   PersonInfo    `json:"client"`
	Address  Address       `json:"address"`
	Spouse   *PersonInfo   `json:"spouse,omitempty"`
	Business *BusinessInfo `json:"business,omitempty"`

	PaymentOption     string `json:"paymentOption"`
	SecondPaymentDate string `json:"secondPaymentDate"`

	Agreements Agreements `json:"agreements"`

	FirstPaymentAmount  decimal.Decimal `json:"firstPaymentAmount"`
	SecondPaymentAmount decimal.Decimal `json:"secondPaymentAmount"`
}

// NewFormState returns an empty form for a new session.
func NewFormState() *FormState {
	return &FormState{
		SelectedAssets: map[string]string{},
	}
}

// HasAction reports whether the given IRS action was selected.
func (f *FormState) HasAction(action string) bool {
	return contains(f.SelectedActions, action)
}

// HasSpouse reports whether spouse information is in scope. Spouse fields are
// collected only for joint filers; for every other filing status they are
// treated as absent.
func (f *FormState) HasSpouse() bool {
	return f.FilingStatus == FilingMarriedJoint
}

// HasBusiness reports whether the case includes business debt.
func (f *FormState) HasBusiness() bool {
	return f.DebtType == DebtPersonalBusiness
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// addToSet appends v if absent, preserving insertion order.
func addToSet(set []string, v string) []string {
	if contains(set, v) {
		return set
	}
	return append(set, v)
}

// removeFromSet drops v if present.
func removeFromSet(set []string, v string) []string {
	out := set[:0]
	for _, s := range set {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
