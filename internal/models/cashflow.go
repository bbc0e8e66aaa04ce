package models

// CashFlowYear represents one year of the projection. Year 0 is the acquisition.
type CashFlowYear struct {
	Year               int     `json:"year"`
	GrossRent          float64 `json:"gross_rent"`
	VacancyLoss        float64 `json:"vacancy_loss"`
	EffectiveRent      float64 `json:"effective_rent"`
	OperatingExpenses  float64 `json:"operating_expenses"`
	NOI                float64 `json:"noi"`
	DebtService        float64 `json:"debt_service"`
	LeveredCashFlow    float64 `json:"levered_cash_flow"`
	SaleProceeds       float64 `json:"sale_proceeds"`
	TotalCashFlow      float64 `json:"total_cash_flow"`
	CumulativeCashFlow float64 `json:"cumulative_cash_flow"`
}

// Exit describes the sale at the end of the holding period
type Exit struct {
	Month       int     `json:"month"`
	SalePrice   float64 `json:"sale_price"`
	LoanBalance float64 `json:"loan_balance"`
	NetProceeds float64 `json:"net_proceeds"`
}
