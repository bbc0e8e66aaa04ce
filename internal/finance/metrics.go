package finance

import (
	"github.com/Dan9191/apartment-model/internal/models"
)

// Summarize reduces a projection to its return metrics
func Summarize(proj Projection, solver IRRSolver) models.SummaryMetrics {
	equity := proj.EquityInvested

	flows := make([]float64, len(proj.Years))
	var distributions float64
	for i, y := range proj.Years {
		flows[i] = y.TotalCashFlow
		if y.Year > 0 {
			distributions += y.TotalCashFlow
		}
	}

	moic := distributions / equity

	return models.SummaryMetrics{
		EquityInvested:     equity,
		TotalDistributions: distributions,
		NetSaleProceeds:    proj.Exit.NetProceeds,
		MOIC:               moic,
		ROIPercent:         (moic - 1) * 100,
		IRR:                solver.Solve(flows),
		Breakeven:          FindBreakeven(proj.Years),
	}
}

// FindBreakeven returns the first year whose cumulative cash flow is non-negative
func FindBreakeven(years []models.CashFlowYear) models.Breakeven {
	for _, y := range years {
		if y.CumulativeCashFlow >= 0 {
			return models.Breakeven{Year: y.Year, Reached: true}
		}
	}
	return models.Breakeven{}
}
