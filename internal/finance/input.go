package finance

import (
	"fmt"
	"math"

	"github.com/Dan9191/apartment-model/internal/models"
)

const (
	// MaxYears bounds the loan term and the holding period
	MaxYears = 100
	// MaxAmount bounds the purchase price and every amount derived from the
	// assumptions, so yearly sums stay finite
	MaxAmount = 1e15
)

// ValidateInput checks every assumption once, before any computation.
// Downstream stages rely on it and do not re-validate.
func ValidateInput(p models.InputParameters) error {
	floats := []struct {
		field string
		value float64
	}{
		{"purchase_price", p.PurchasePrice},
		{"down_payment", p.DownPayment},
		{"closing_costs", p.ClosingCosts},
		{"interest_rate", p.InterestRate},
		{"monthly_rent", p.MonthlyRent},
		{"rent_growth", p.RentGrowth},
		{"vacancy", p.Vacancy},
		{"operating_expenses", p.OperatingExpenses},
		{"exit_growth", p.ExitGrowth},
	}
	for _, f := range floats {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return invalid(f.field, "must be a finite number")
		}
	}

	switch {
	case p.PurchasePrice <= 0:
		return invalid("purchase_price", "must be positive")
	case p.PurchasePrice > MaxAmount:
		return invalid("purchase_price", "is too large")
	case p.DownPayment < 0 || p.DownPayment >= 1:
		return invalid("down_payment", "must be in [0, 1)")
	case p.ClosingCosts < 0:
		return invalid("closing_costs", "must not be negative")
	case p.InterestRate < 0:
		return invalid("interest_rate", "must not be negative")
	case p.LoanTermYears <= 0:
		return invalid("loan_term_years", "must be positive")
	case p.LoanTermYears > MaxYears:
		return invalid("loan_term_years", fmt.Sprintf("must not exceed %d", MaxYears))
	case p.MonthlyRent <= 0:
		return invalid("monthly_rent", "must be positive")
	case p.RentGrowth <= -1:
		return invalid("rent_growth", "must be greater than -1")
	case p.Vacancy < 0 || p.Vacancy > 1:
		return invalid("vacancy", "must be in [0, 1]")
	case p.OperatingExpenses < 0 || p.OperatingExpenses > 1:
		return invalid("operating_expenses", "must be in [0, 1]")
	case p.HoldingYears <= 0:
		return invalid("holding_years", "must be positive")
	case p.HoldingYears > MaxYears:
		return invalid("holding_years", fmt.Sprintf("must not exceed %d", MaxYears))
	case p.ExitGrowth <= -1:
		return invalid("exit_growth", "must be greater than -1")
	case p.EquityInvested() <= 0:
		return invalid("down_payment", "and closing_costs must not both be zero")
	}
	return validateDerived(p)
}

// validateDerived rejects assumptions whose projected amounts leave the
// representable range even though each input is finite on its own
func validateDerived(p models.InputParameters) error {
	amounts := []struct {
		field string
		value float64
	}{
		{"closing_costs", p.EquityInvested()},
		{"monthly_rent", 12 * p.MonthlyRent},
		{"rent_growth", 12 * p.MonthlyRent * math.Pow(1+p.RentGrowth, float64(p.HoldingYears-1))},
		{"exit_growth", p.PurchasePrice * math.Pow(1+p.ExitGrowth, float64(p.HoldingYears))},
		{"interest_rate", 12 * annuityPayment(p.LoanPrincipal(), p.InterestRate/100/12, p.LoanTermMonths())},
	}
	for _, a := range amounts {
		if math.IsNaN(a.value) || a.value > MaxAmount {
			return invalid(a.field, "leads to amounts that are too large")
		}
	}
	return nil
}
