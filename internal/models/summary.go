package models

// IRRStatus tells whether the internal rate of return could be determined
type IRRStatus string

const (
	IRRConverged     IRRStatus = "converged"
	IRRNoSignChange  IRRStatus = "no_sign_change"
	IRRNonConvergent IRRStatus = "non_convergent"
)

// IRR is the levered annual internal rate of return. Percent is meaningful only when Defined.
type IRR struct {
	Percent    float64   `json:"percent"`
	Status     IRRStatus `json:"status"`
	Iterations int       `json:"iterations"`
}

// Defined reports whether the solver found a root
func (i IRR) Defined() bool {
	return i.Status == IRRConverged
}

// Breakeven is the first year with non-negative cumulative cash flow
type Breakeven struct {
	Year    int  `json:"year"`
	Reached bool `json:"reached"`
}

// SummaryMetrics holds the return metrics of a model run
type SummaryMetrics struct {
	EquityInvested     float64   `json:"equity_invested"`
	TotalDistributions float64   `json:"total_distributions"`
	NetSaleProceeds    float64   `json:"net_sale_proceeds"`
	MOIC               float64   `json:"moic"`
	ROIPercent         float64   `json:"roi_percent"`
	IRR                IRR       `json:"irr"`
	Breakeven          Breakeven `json:"breakeven"`
}

// ModelResult is the full output of one model run
type ModelResult struct {
	Input          InputParameters   `json:"input"`
	MonthlyPayment float64           `json:"monthly_payment"`
	Amortization   []AmortizationRow `json:"amortization"`
	CashFlows      []CashFlowYear    `json:"cash_flows"`
	Exit           Exit              `json:"exit"`
	Summary        SummaryMetrics    `json:"summary"`
}
