package finance

import (
	"math"

	"github.com/Dan9191/apartment-model/internal/models"
)

// IRRSolver finds the rate at which the net present value of a yearly cash-flow
// series is zero. Newton's method runs first from Guess; when it leaves the
// bracket or stalls, bisection over [Lower, Upper] takes over.
//
// A rate is accepted once |NPV| < Tolerance × max(1, max|flow|), so the result
// does not depend on the currency unit of the flows.
type IRRSolver struct {
	Guess         float64
	Tolerance     float64 // relative to the largest flow
	MaxIterations int
	Lower         float64
	Upper         float64
}

// DefaultIRRSolver returns the solver settings used when nothing is configured
func DefaultIRRSolver() IRRSolver {
	return IRRSolver{
		Guess:         0.1,
		Tolerance:     1e-7,
		MaxIterations: 200,
		Lower:         -0.99,
		Upper:         10,
	}
}

// NPV discounts flows[t] by (1+rate)^t
func NPV(rate float64, flows []float64) float64 {
	var npv float64
	discount := 1.0
	for _, cf := range flows {
		npv += cf / discount
		discount *= 1 + rate
	}
	return npv
}

// npvDerivative is d(NPV)/d(rate)
func npvDerivative(rate float64, flows []float64) float64 {
	var d float64
	for t, cf := range flows {
		if t == 0 {
			continue
		}
		d -= float64(t) * cf / math.Pow(1+rate, float64(t+1))
	}
	return d
}

// Solve returns the IRR of flows as a percent along with the outcome status
func (s IRRSolver) Solve(flows []float64) models.IRR {
	if !hasSignChange(flows) {
		return models.IRR{Status: models.IRRNoSignChange}
	}

	threshold := s.threshold(flows)
	rate := s.Guess
	iterations := 0
	for iterations < s.MaxIterations {
		iterations++
		npv := NPV(rate, flows)
		if math.Abs(npv) < threshold {
			return converged(rate, iterations)
		}
		d := npvDerivative(rate, flows)
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			break
		}
		next := rate - npv/d
		if math.IsNaN(next) || next <= s.Lower || next >= s.Upper {
			break
		}
		if next == rate {
			break
		}
		rate = next
	}

	return s.bisect(flows, threshold, iterations)
}

// threshold scales Tolerance to the magnitude of the flows
func (s IRRSolver) threshold(flows []float64) float64 {
	scale := 1.0
	for _, cf := range flows {
		scale = math.Max(scale, math.Abs(cf))
	}
	return s.Tolerance * scale
}

func (s IRRSolver) bisect(flows []float64, threshold float64, iterations int) models.IRR {
	lo, hi := s.Lower, s.Upper
	npvLo, npvHi := NPV(lo, flows), NPV(hi, flows)
	if math.Abs(npvLo) < threshold {
		return converged(lo, iterations)
	}
	if math.Abs(npvHi) < threshold {
		return converged(hi, iterations)
	}
	if math.Signbit(npvLo) == math.Signbit(npvHi) {
		return models.IRR{Status: models.IRRNonConvergent, Iterations: iterations}
	}

	for iterations < s.MaxIterations {
		iterations++
		mid := lo + (hi-lo)/2
		npvMid := NPV(mid, flows)
		if math.Abs(npvMid) < threshold {
			return converged(mid, iterations)
		}
		// The sign change now sits between adjacent floats
		if mid == lo || mid == hi {
			return converged(mid, iterations)
		}
		if math.Signbit(npvMid) == math.Signbit(npvLo) {
			lo, npvLo = mid, npvMid
		} else {
			hi = mid
		}
	}
	return models.IRR{Status: models.IRRNonConvergent, Iterations: iterations}
}

func converged(rate float64, iterations int) models.IRR {
	return models.IRR{Percent: rate * 100, Status: models.IRRConverged, Iterations: iterations}
}

func hasSignChange(flows []float64) bool {
	var pos, neg bool
	for _, cf := range flows {
		switch {
		case cf > 0:
			pos = true
		case cf < 0:
			neg = true
		}
	}
	return pos && neg
}
