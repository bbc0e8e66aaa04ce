package finance

import (
	"iter"
	"math"
	"slices"

	"github.com/Dan9191/apartment-model/internal/models"
)

// Scheduler derives the fixed-payment schedule of a single-rate loan
type Scheduler struct {
	principal float64
	rate      float64 // monthly
	months    int
	payment   float64
}

// NewScheduler binds a scheduler to a principal, an annual rate in percent and a term in months
func NewScheduler(principal, annualRatePct float64, months int) (*Scheduler, error) {
	if !(principal > 0) || math.IsInf(principal, 0) {
		return nil, invalid("principal", "must be positive")
	}
	if !(annualRatePct >= 0) || math.IsInf(annualRatePct, 0) {
		return nil, invalid("interest_rate", "must not be negative")
	}
	if months <= 0 {
		return nil, invalid("term", "must be positive")
	}

	r := annualRatePct / 100 / 12
	return &Scheduler{
		principal: principal,
		rate:      r,
		months:    months,
		payment:   annuityPayment(principal, r, months),
	}, nil
}

// annuityPayment is the fixed payment retiring principal over months at monthly rate r
func annuityPayment(principal, r float64, months int) float64 {
	if r == 0 {
		return principal / float64(months)
	}
	return r * principal / (1 - math.Pow(1+r, -float64(months)))
}

// Payment returns the fixed monthly payment
func (s *Scheduler) Payment() float64 { return s.payment }

// MonthlyRate returns the periodic rate as a decimal
func (s *Scheduler) MonthlyRate() float64 { return s.rate }

// Months returns the loan term in months
func (s *Scheduler) Months() int { return s.months }

// Principal returns the amount borrowed
func (s *Scheduler) Principal() float64 { return s.principal }

// Schedule yields one row per month. Every call starts over from the full principal.
// The last payment retires whatever balance is left, so rounding residue never
// survives the term.
func (s *Scheduler) Schedule() iter.Seq[models.AmortizationRow] {
	return func(yield func(models.AmortizationRow) bool) {
		balance := s.principal
		for t := 1; t <= s.months; t++ {
			interest := balance * s.rate
			payment := s.payment
			principal := payment - interest
			if t == s.months {
				principal = balance
				payment = principal + interest
			}
			balance -= principal
			row := models.AmortizationRow{
				Period:    t,
				Payment:   payment,
				Principal: principal,
				Interest:  interest,
				Balance:   balance,
			}
			if !yield(row) {
				return
			}
		}
	}
}

// Rows materializes the whole schedule
func (s *Scheduler) Rows() []models.AmortizationRow {
	return slices.Collect(s.Schedule())
}

// BalanceAt returns the outstanding balance after month payments using the closed form.
// Months before the first payment return the principal, months at or after the term return 0.
func (s *Scheduler) BalanceAt(month int) float64 {
	if month <= 0 {
		return s.principal
	}
	if month >= s.months {
		return 0
	}
	t := float64(month)
	if s.rate == 0 {
		return s.principal - s.payment*t
	}
	growth := math.Pow(1+s.rate, t)
	return s.principal*growth - s.payment*(growth-1)/s.rate
}
