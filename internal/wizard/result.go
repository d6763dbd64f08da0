package wizard

import "github.com/remedytax/intake-engine/internal/model"

// Program is one relief program, service or strategy listed on the
// eligibility result screen.
type Program struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

var standardPrograms = []Program{
	{ID: "oic", Title: "Offer in Compromise (OIC)"},
	{ID: "cnc", Title: "Currently Non-Collectible Status (CNC)"},
	{ID: "pa", Title: "Penalty Abatement (PA)"},
	{ID: "ppia", Title: "Partial Payment Installment Agreement (PPIA)"},
	{ID: "amended-returns", Title: "Amended Returns"},
	{ID: "ia-negotiations", Title: "Installment Agreement Negotiations"},
}

// ReliefPrograms selects the programs shown on a successful eligibility
// result. The standard set always applies; filing and collection-action
// answers add the rest.
func ReliefPrograms(f *model.FormState) []Program {
	programs := append([]Program(nil), standardPrograms...)
	missedFilings := f.TaxFilings == model.TaxFilingsMissed
	if missedFilings {
		programs = append(programs, Program{ID: "federal-tax-filing", Title: "Federal Tax Filing"})
	}
	if missedFilings && f.HasBusiness() {
		programs = append(programs,
			Program{ID: "business-tax-filing", Title: "Business Tax Filing"},
			Program{ID: "employment-tax-filings", Title: "Employment Tax Filings"},
		)
	}
	if f.HasAction(model.ActionGarnishment) {
		programs = append(programs, Program{ID: "garnishment-removal", Title: "Garnishment Removal"})
	}
	if f.HasAction(model.ActionLevy) {
		programs = append(programs, Program{ID: "levy-removal", Title: "Levy Removal"})
	}
	return programs
}

// IRSFormsDescription summarizes which authorization forms apply to the case.
// Forms 8821 and 2848 always apply; spouse and business variants are added
// for joint filers and business debt.
func IRSFormsDescription(f *model.FormState) string {
	switch {
	case f.HasSpouse() && f.HasBusiness():
		return "Forms 8821, 2848 Spouse, 2848 Business: Tax Information Authorization; " +
			"Forms 2848, 2848 Spouse, 2848 Business: Power of Attorney & Declaration of Representative"
	case f.HasSpouse():
		return "Forms 8821 & 2848 Spouse: Tax Information Authorization; " +
			"Forms 2848 & 2848 Spouse: Power of Attorney & Declaration of Representative"
	case f.HasBusiness():
		return "Forms 8821 & 2848 Business: Tax Information Authorization; " +
			"Forms 2848 & 2848 Business: Power of Attorney & Declaration of Representative"
	default:
		return "Form 8821: Tax Information Authorization; " +
			"Form 2848: Power of Attorney & Declaration of Representative"
	}
}
