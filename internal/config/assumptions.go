package config

import (
	"fmt"
	"os"

	"github.com/Dan9191/apartment-model/internal/finance"
	"github.com/Dan9191/apartment-model/internal/models"
	"gopkg.in/yaml.v2"
)

// Assumptions is the default assumption set offered to clients. It is a value:
// callers get their own copy and cannot alter what other scenarios see.
type Assumptions struct {
	params models.InputParameters
}

// BuiltinAssumptions returns the stock apartment scenario
func BuiltinAssumptions() Assumptions {
	return Assumptions{params: models.InputParameters{
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
	}}
}

// LoadAssumptions reads defaults from a YAML file. Keys missing from the file keep
// their built-in values; an empty path returns the built-ins. The merged set must
// pass the same validation as a model run.
func LoadAssumptions(path string) (Assumptions, error) {
	a := BuiltinAssumptions()
	if path == "" {
		return a, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Assumptions{}, fmt.Errorf("failed to read assumptions file: %w", err)
	}
	params := a.params
	if err := yaml.Unmarshal(raw, &params); err != nil {
		return Assumptions{}, fmt.Errorf("failed to parse assumptions file: %w", err)
	}
	if err := finance.ValidateInput(params); err != nil {
		return Assumptions{}, fmt.Errorf("assumptions file %s: %w", path, err)
	}
	return Assumptions{params: params}, nil
}

// Params returns a copy of the default parameters
func (a Assumptions) Params() models.InputParameters {
	return a.params
}
