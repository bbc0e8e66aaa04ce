package finance

import (
	"math"
	"testing"

	"github.com/Dan9191/apartment-model/internal/models"
)

func assertClose(t *testing.T, want, got, tol float64, description string) {
	t.Helper()
	if math.Abs(want-got) > tol {
		t.Errorf("%s: expected %.8f, got %.8f (diff: %.3g)", description, want, got, got-want)
	}
}

// defaultInput mirrors the stock assumption set of the model
func defaultInput() models.InputParameters {
	return models.InputParameters{
		PurchasePrice:     3_500_000,
		DownPayment:       0.30,
		ClosingCosts:      0.06,
		InterestRate:      10.0,
		LoanTermYears:     20,
		MonthlyRent:       25_000,
		RentGrowth:        0.03,
		Vacancy:           0.05,
		OperatingExpenses: 0.25,
		HoldingYears:      10,
		ExitGrowth:        0.02,
	}
}
