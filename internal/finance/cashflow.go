package finance

import (
	"math"

	"github.com/Dan9191/apartment-model/internal/models"
)

// Projection is the yearly cash-flow series with the acquisition and exit figures it was seeded from
type Projection struct {
	EquityInvested float64
	Years          []models.CashFlowYear
	Exit           models.Exit
}

// ProjectCashFlows derives years 0..holding. The scheduler must be bound to the
// loan principal and term of p.
func ProjectCashFlows(p models.InputParameters, s *Scheduler) Projection {
	equity := p.EquityInvested()
	years := make([]models.CashFlowYear, 0, p.HoldingYears+1)
	years = append(years, models.CashFlowYear{
		Year:               0,
		LeveredCashFlow:    -equity,
		TotalCashFlow:      -equity,
		CumulativeCashFlow: -equity,
	})

	exit := exitAt(p, s)
	cumulative := -equity
	for y := 1; y <= p.HoldingYears; y++ {
		gross := 12 * p.MonthlyRent * math.Pow(1+p.RentGrowth, float64(y-1))
		vacancy := -gross * p.Vacancy
		effective := gross + vacancy
		opex := -gross * p.OperatingExpenses
		noi := effective + opex
		debtService := annualDebtService(s, y)
		levered := noi - debtService

		var sale float64
		if y == p.HoldingYears {
			sale = exit.NetProceeds
		}
		total := levered + sale
		cumulative += total

		years = append(years, models.CashFlowYear{
			Year:               y,
			GrossRent:          gross,
			VacancyLoss:        vacancy,
			EffectiveRent:      effective,
			OperatingExpenses:  opex,
			NOI:                noi,
			DebtService:        debtService,
			LeveredCashFlow:    levered,
			SaleProceeds:       sale,
			TotalCashFlow:      total,
			CumulativeCashFlow: cumulative,
		})
	}

	return Projection{EquityInvested: equity, Years: years, Exit: exit}
}

// exitAt values the sale at the end of the last holding year
func exitAt(p models.InputParameters, s *Scheduler) models.Exit {
	month := p.HoldingYears * 12
	price := p.PurchasePrice * math.Pow(1+p.ExitGrowth, float64(p.HoldingYears))
	balance := s.BalanceAt(month)
	return models.Exit{
		Month:       month,
		SalePrice:   price,
		LoanBalance: balance,
		NetProceeds: price - balance,
	}
}

// annualDebtService is twelve fixed payments while the loan runs and 0 once it is
// retired. Terms are whole years, so no year is partly financed.
func annualDebtService(s *Scheduler, year int) float64 {
	if year*12 > s.Months() {
		return 0
	}
	return 12 * s.Payment()
}
