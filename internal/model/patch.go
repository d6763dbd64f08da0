package model

import (
	"github.com/shopspring/decimal"
)

// Step patches carry one screen's submission. Each patch overwrites only the
// fields it names; set-valued fields use explicit add/remove lists so a
// partial submission can never wipe a previously selected value.
//
// Apply merges the patch into the form and returns any messages produced by
// the merge itself (gate evaluation happens separately and fresh).

// BankruptcyPatch answers the initial bankruptcy question.
type BankruptcyPatch struct {
	BankruptcyStatus *string `json:"bankruptcyStatus"`
}

func (p *BankruptcyPatch) Apply(f *FormState) []Message {
	if p.BankruptcyStatus != nil {
		f.BankruptcyStatus = *p.BankruptcyStatus
	}
	return nil
}

// FilingStatusPatch covers filing status, filing currency and multi-year debt.
type FilingStatusPatch struct {
	FilingStatus  *string `json:"filingStatus"`
	TaxFilings    *string `json:"taxFilings"`
	MultipleYears *string `json:"multipleYears"`
}

func (p *FilingStatusPatch) Apply(f *FormState) []Message {
	if p.FilingStatus != nil {
		f.FilingStatus = *p.FilingStatus
		if f.FilingStatus != FilingMarriedJoint {
			// Spouse data is out of scope for non-joint filers; drop it so it
			// can never leak into submission payloads.
			f.SpouseMonthlyIncome = nil
			f.Spouse = nil
		}
	}
	if p.TaxFilings != nil {
		f.TaxFilings = *p.TaxFilings
	}
	if p.MultipleYears != nil {
		f.MultipleYears = *p.MultipleYears
	}
	return nil
}

// TaxActionsPatch toggles encountered IRS actions.
type TaxActionsPatch struct {
	AddActions        []string `json:"addActions"`
	RemoveActions     []string `json:"removeActions"`
	IsNoticeCertified *string  `json:"isNoticeCertified"`
}

func (p *TaxActionsPatch) Apply(f *FormState) []Message {
	for _, a := range p.AddActions {
		f.SelectedActions = addToSet(f.SelectedActions, a)
	}
	for _, a := range p.RemoveActions {
		f.SelectedActions = removeFromSet(f.SelectedActions, a)
		if a == ActionNotices {
			f.IsNoticeCertified = ""
		}
	}
	if p.IsNoticeCertified != nil {
		f.IsNoticeCertified = *p.IsNoticeCertified
	}
	return nil
}

// DebtDetailsPatch covers debt type, jurisdiction, amount and payment plan.
type DebtDetailsPatch struct {
	DebtType               *string          `json:"debtType"`
	AddBusinessTaxTypes    []string         `json:"addBusinessTaxTypes"`
	RemoveBusinessTaxTypes []string         `json:"removeBusinessTaxTypes"`
	TaxType                *string          `json:"taxType"`
	DebtAmount             *decimal.Decimal `json:"debtAmount"`
	HasPaymentPlan         *string          `json:"hasPaymentPlan"`
	MonthlyPayment         *decimal.Decimal `json:"monthlyPayment"`
}

func (p *DebtDetailsPatch) Apply(f *FormState) []Message {
	if p.DebtType != nil {
		f.DebtType = *p.DebtType
	}
	for _, t := range p.AddBusinessTaxTypes {
		f.BusinessTaxTypes = addToSet(f.BusinessTaxTypes, t)
	}
	for _, t := range p.RemoveBusinessTaxTypes {
		f.BusinessTaxTypes = removeFromSet(f.BusinessTaxTypes, t)
	}
	if p.TaxType != nil {
		f.TaxType = *p.TaxType
	}
	if p.DebtAmount != nil {
		f.DebtAmount = p.DebtAmount
	}
	if p.HasPaymentPlan != nil {
		f.HasPaymentPlan = *p.HasPaymentPlan
	}
	if p.MonthlyPayment != nil {
		f.MonthlyPayment = p.MonthlyPayment
	}
	if f.HasPaymentPlan == AnswerNo {
		f.MonthlyPayment = nil
	}
	return nil
}

// IncomeDetailsPatch covers income types and monthly amounts.
type IncomeDetailsPatch struct {
	AddIncomeTypes      []string         `json:"addIncomeTypes"`
	RemoveIncomeTypes   []string         `json:"removeIncomeTypes"`
	MonthlyIncome       *decimal.Decimal `json:"monthlyIncome"`
	SpouseMonthlyIncome *decimal.Decimal `json:"spouseMonthlyIncome"`
}

func (p *IncomeDetailsPatch) Apply(f *FormState) []Message {
	for _, t := range p.AddIncomeTypes {
		f.IncomeTypes = addToSet(f.IncomeTypes, t)
	}
	for _, t := range p.RemoveIncomeTypes {
		f.IncomeTypes = removeFromSet(f.IncomeTypes, t)
	}
	if p.MonthlyIncome != nil {
		f.MonthlyIncome = p.MonthlyIncome
	}
	if p.SpouseMonthlyIncome != nil && f.HasSpouse() {
		f.SpouseMonthlyIncome = p.SpouseMonthlyIncome
	}
	return nil
}

// ExpenseDetailsPatch covers household size and the itemized expense fields.
type ExpenseDetailsPatch struct {
	HouseholdSize *int `json:"householdSize"`

	HousingEnabled *bool            `json:"housingEnabled"`
	Rent           *decimal.Decimal `json:"rent"`
	Mortgage       *decimal.Decimal `json:"mortgage"`
	Utilities      *decimal.Decimal `json:"utilities"`
	Cable          *decimal.Decimal `json:"cable"`

	AutoEnabled      *bool            `json:"autoEnabled"`
	CarPayment       *decimal.Decimal `json:"carPayment"`
	PublicTransport  *decimal.Decimal `json:"publicTransport"`
	VehicleInsurance *decimal.Decimal `json:"vehicleInsurance"`
	Gasoline         *decimal.Decimal `json:"gasoline"`

	HealthcareEnabled *bool            `json:"healthcareEnabled"`
	HealthInsurance   *decimal.Decimal `json:"healthInsurance"`
	Prescriptions     *decimal.Decimal `json:"prescriptions"`
	Copays            *decimal.Decimal `json:"copays"`

	OtherEnabled  *bool            `json:"otherEnabled"`
	ChildCare     *decimal.Decimal `json:"childCare"`
	CourtPayments *decimal.Decimal `json:"courtPayments"`
	LifeInsurance *decimal.Decimal `json:"lifeInsurance"`
}

func (p *ExpenseDetailsPatch) Apply(f *FormState) []Message {
	e := &f.Expenses
	if p.HouseholdSize != nil {
		f.HouseholdSize = *p.HouseholdSize
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setDec := func(dst *decimal.Decimal, src *decimal.Decimal) {
		if src != nil {
			*dst = *src
		}
	}
	setBool(&e.HousingEnabled, p.HousingEnabled)
	setDec(&e.Rent, p.Rent)
	setDec(&e.Mortgage, p.Mortgage)
	setDec(&e.Utilities, p.Utilities)
	setDec(&e.Cable, p.Cable)

	setBool(&e.AutoEnabled, p.AutoEnabled)
	setDec(&e.CarPayment, p.CarPayment)
	setDec(&e.PublicTransport, p.PublicTransport)
	setDec(&e.VehicleInsurance, p.VehicleInsurance)
	setDec(&e.Gasoline, p.Gasoline)

	setBool(&e.HealthcareEnabled, p.HealthcareEnabled)
	setDec(&e.HealthInsurance, p.HealthInsurance)
	setDec(&e.Prescriptions, p.Prescriptions)
	setDec(&e.Copays, p.Copays)

	setBool(&e.OtherEnabled, p.OtherEnabled)
	setDec(&e.ChildCare, p.ChildCare)
	setDec(&e.CourtPayments, p.CourtPayments)
	setDec(&e.LifeInsurance, p.LifeInsurance)
	return nil
}

// AssetDetailsPatch merges chosen asset buckets per category.
type AssetDetailsPatch struct {
	Assets map[string]string `json:"assets"`
}

func (p *AssetDetailsPatch) Apply(f *FormState) []Message {
	if f.SelectedAssets == nil {
		f.SelectedAssets = map[string]string{}
	}
	for k, v := range p.Assets {
		if v == "" {
			delete(f.SelectedAssets, k)
			continue
		}
		f.SelectedAssets[k] = v
	}
	return nil
}

// ReviewPatch records the explicit accuracy confirmation.
type ReviewPatch struct {
	Confirmed *bool `json:"confirmed"`
}

func (p *ReviewPatch) Apply(f *FormState) []Message {
	if p.Confirmed != nil {
		f.Confirmed = *p.Confirmed
	}
	return nil
}

// PersonalDetailsPatch collects client, address and (for joint filers) spouse
// identity fields.
type PersonalDetailsPatch struct {
	Client  *PersonInfo `json:"client"`
	Address *Address    `json:"address"`
	Spouse  *PersonInfo `json:"spouse"`
}

func (p *PersonalDetailsPatch) Apply(f *FormState) []Message {
	if p.Client != nil {
		f.Client = *p.Client
	}
	if p.Address != nil {
		f.Address = *p.Address
	}
	if p.Spouse != nil && f.HasSpouse() {
		s := *p.Spouse
		f.Spouse = &s
	}
	return nil
}

// BusinessDetailsPatch collects business identity fields.
type BusinessDetailsPatch struct {
	Business *BusinessInfo `json:"business"`
}

func (p *BusinessDetailsPatch) Apply(f *FormState) []Message {
	if p.Business != nil {
		b := *p.Business
		f.Business = &b
	}
	return nil
}

// RetainerPatch records the chosen payment option and, for split payments,
// the second payment date. Payment amounts are derived by the engine.
type RetainerPatch struct {
	PaymentOption     *string `json:"paymentOption"`
	SecondPaymentDate *string `json:"secondPaymentDate"`
}

func (p *RetainerPatch) Apply(f *FormState) []Message {
	if p.PaymentOption != nil {
		f.PaymentOption = *p.PaymentOption
	}
	if p.SecondPaymentDate != nil {
		f.SecondPaymentDate = *p.SecondPaymentDate
	}
	return nil
}

// AgreementPatch carries view and accept operations on the legal documents.
// Accepting a document that has not been opened is refused with a blocking
// message and leaves the checkbox unchecked.
type AgreementPatch struct {
	View   []string `json:"view"`
	Accept []string `json:"accept"`
}

func (p *AgreementPatch) Apply(f *FormState) []Message {
	a := &f.Agreements
	for _, doc := range p.View {
		switch doc {
		case DocTerms:
			a.TermsViewed = true
		case DocIRSForms:
			a.IRSFormsViewed = true
		case DocCompliance:
			a.ComplianceViewed = true
		}
	}
	var msgs []Message
	for _, doc := range p.Accept {
		switch doc {
		case DocTerms:
			if !a.TermsViewed {
				msgs = append(msgs, Blocking("AGREEMENT_NOT_VIEWED",
					"Please read the Terms & Conditions before accepting"))
				continue
			}
			a.TermsAccepted = true
		case DocIRSForms:
			if !a.IRSFormsViewed {
				msgs = append(msgs, Blocking("AGREEMENT_NOT_VIEWED",
					"Please review the IRS forms before accepting"))
				continue
			}
			a.IRSFormsAccepted = true
		case DocCompliance:
			if !a.ComplianceViewed {
				msgs = append(msgs, Blocking("AGREEMENT_NOT_VIEWED",
					"Please review the compliance questions before accepting"))
				continue
			}
			a.ComplianceAccepted = true
		}
	}
	return msgs
}
