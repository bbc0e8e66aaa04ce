package models

// InputParameters holds the purchase, financing and operating assumptions of one model run.
// Fractions are expressed as decimals (0.05 = 5%), the interest rate as an annual percent.
type InputParameters struct {
	PurchasePrice     float64 `json:"purchase_price" yaml:"purchase_price"`
	DownPayment       float64 `json:"down_payment" yaml:"down_payment"`
	ClosingCosts      float64 `json:"closing_costs" yaml:"closing_costs"`
	InterestRate      float64 `json:"interest_rate" yaml:"interest_rate"`
	LoanTermYears     int     `json:"loan_term_years" yaml:"loan_term_years"`
	MonthlyRent       float64 `json:"monthly_rent" yaml:"monthly_rent"`
	RentGrowth        float64 `json:"rent_growth" yaml:"rent_growth"`
	Vacancy           float64 `json:"vacancy" yaml:"vacancy"`
	OperatingExpenses float64 `json:"operating_expenses" yaml:"operating_expenses"`
	HoldingYears      int     `json:"holding_years" yaml:"holding_years"`
	ExitGrowth        float64 `json:"exit_growth" yaml:"exit_growth"`
}

// LoanPrincipal is the financed part of the purchase price
func (p InputParameters) LoanPrincipal() float64 {
	return p.PurchasePrice * (1 - p.DownPayment)
}

// EquityInvested is the cash paid at acquisition: down payment plus closing costs
func (p InputParameters) EquityInvested() float64 {
	return p.PurchasePrice*p.DownPayment + p.PurchasePrice*p.ClosingCosts
}

// LoanTermMonths returns the number of monthly loan payments
func (p InputParameters) LoanTermMonths() int {
	return p.LoanTermYears * 12
}
