// Package finance computes the economics of a leveraged apartment purchase:
// the loan amortization schedule, the yearly cash-flow projection with a
// terminal sale, and the summary return metrics.
//
// Every function here is a deterministic transform of its inputs with no
// shared state, so independent models may be evaluated concurrently.
package finance

import (
	"github.com/Dan9191/apartment-model/internal/models"
)

// Model is a validated set of assumptions bound to its loan scheduler
type Model struct {
	input     models.InputParameters
	scheduler *Scheduler
	solver    IRRSolver
}

// Option tunes a Model
type Option func(*Model)

// WithIRRSolver replaces the default IRR solver settings
func WithIRRSolver(s IRRSolver) Option {
	return func(m *Model) {
		m.solver = s
	}
}

// NewModel validates the assumptions and prepares the loan schedule
func NewModel(p models.InputParameters, opts ...Option) (*Model, error) {
	if err := ValidateInput(p); err != nil {
		return nil, err
	}
	scheduler, err := NewScheduler(p.LoanPrincipal(), p.InterestRate, p.LoanTermMonths())
	if err != nil {
		return nil, err
	}

	m := &Model{input: p, scheduler: scheduler, solver: DefaultIRRSolver()}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Input returns the assumptions the model was built from
func (m *Model) Input() models.InputParameters { return m.input }

// Scheduler returns the loan scheduler
func (m *Model) Scheduler() *Scheduler { return m.scheduler }

// Project runs the cash-flow projection
func (m *Model) Project() Projection {
	return ProjectCashFlows(m.input, m.scheduler)
}

// Summary runs the projection and reduces it to metrics, without materializing the schedule
func (m *Model) Summary() models.SummaryMetrics {
	return Summarize(m.Project(), m.solver)
}

// Run executes the whole pipeline
func (m *Model) Run() models.ModelResult {
	proj := m.Project()
	return models.ModelResult{
		Input:          m.input,
		MonthlyPayment: m.scheduler.Payment(),
		Amortization:   m.scheduler.Rows(),
		CashFlows:      proj.Years,
		Exit:           proj.Exit,
		Summary:        Summarize(proj, m.solver),
	}
}
