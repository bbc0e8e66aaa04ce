package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/Dan9191/apartment-model/internal/finance"
	"github.com/Dan9191/apartment-model/internal/models"
	"github.com/Dan9191/apartment-model/internal/utils"
	"golang.org/x/sync/errgroup"
)

// MaxSweepPoints bounds the number of values in one sensitivity sweep
const MaxSweepPoints = 50

// RunRequest is a model run, optionally priced at the current key rate
type RunRequest struct {
	models.InputParameters
	UseKeyRate bool `json:"use_key_rate"`
}

// DefaultAssumptions returns the configured default assumption set
func (s *Service) DefaultAssumptions() models.InputParameters {
	return s.assumptions.Params()
}

// KeyRate returns the current key rate including the bank margin
func (s *Service) KeyRate(ctx context.Context) (float64, error) {
	rate, err := s.rates.GetKeyRate(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get key rate: %w", err)
	}
	return rate, nil
}

// RunModel computes the full model. Results are cached by input fingerprint since
// the pipeline is deterministic.
func (s *Service) RunModel(ctx context.Context, req RunRequest) (*models.ModelResult, error) {
	params := req.InputParameters
	if req.UseKeyRate {
		rate, err := s.KeyRate(ctx)
		if err != nil {
			return nil, err
		}
		params.InterestRate = rate
	}

	model, err := finance.NewModel(params, finance.WithIRRSolver(s.config.IRR))
	if err != nil {
		return nil, err
	}

	key, err := s.cacheKey(params)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.cachedResult(ctx, key); ok {
		return cached, nil
	}

	result := model.Run()
	if !result.Summary.IRR.Defined() {
		s.log.Warnf("IRR undefined for run %s: %s", key[:12], result.Summary.IRR.Status)
	}
	s.storeResult(ctx, key, &result)

	return &result, nil
}

// Sweep evaluates the base assumptions once per value of the varied parameter.
// Points are computed concurrently and returned in request order.
func (s *Service) Sweep(ctx context.Context, req models.SweepRequest) (*models.SweepResult, error) {
	if len(req.Values) == 0 || len(req.Values) > MaxSweepPoints {
		return nil, fmt.Errorf("%w: a sweep needs between 1 and %d values", ErrInvalidRequest, MaxSweepPoints)
	}
	if _, ok := sweepSetters[req.Parameter]; !ok {
		return nil, fmt.Errorf("%w: unknown sweep parameter %q", ErrInvalidRequest, req.Parameter)
	}

	points := make([]models.SweepPoint, len(req.Values))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.SweepWorkers)
	for i, value := range req.Values {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			points[i] = s.sweepPoint(req.Base, req.Parameter, value)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Infof("Sweep over %s computed %d points", req.Parameter, len(points))
	return &models.SweepResult{Parameter: req.Parameter, Points: points}, nil
}

func (s *Service) sweepPoint(base models.InputParameters, parameter string, value float64) models.SweepPoint {
	point := models.SweepPoint{Value: value}
	params, err := applySweepValue(base, parameter, value)
	if err != nil {
		point.Error = err.Error()
		return point
	}
	model, err := finance.NewModel(params, finance.WithIRRSolver(s.config.IRR))
	if err != nil {
		point.Error = err.Error()
		return point
	}
	summary := model.Summary()
	point.Summary = &summary
	return point
}

var sweepSetters = map[string]func(p *models.InputParameters, v float64) error{
	"purchase_price":     func(p *models.InputParameters, v float64) error { p.PurchasePrice = v; return nil },
	"down_payment":       func(p *models.InputParameters, v float64) error { p.DownPayment = v; return nil },
	"closing_costs":      func(p *models.InputParameters, v float64) error { p.ClosingCosts = v; return nil },
	"interest_rate":      func(p *models.InputParameters, v float64) error { p.InterestRate = v; return nil },
	"monthly_rent":       func(p *models.InputParameters, v float64) error { p.MonthlyRent = v; return nil },
	"rent_growth":        func(p *models.InputParameters, v float64) error { p.RentGrowth = v; return nil },
	"vacancy":            func(p *models.InputParameters, v float64) error { p.Vacancy = v; return nil },
	"operating_expenses": func(p *models.InputParameters, v float64) error { p.OperatingExpenses = v; return nil },
	"exit_growth":        func(p *models.InputParameters, v float64) error { p.ExitGrowth = v; return nil },
	"loan_term_years":    func(p *models.InputParameters, v float64) error { return setYears(&p.LoanTermYears, v) },
	"holding_years":      func(p *models.InputParameters, v float64) error { return setYears(&p.HoldingYears, v) },
}

func setYears(dst *int, v float64) error {
	if v != math.Trunc(v) || math.Abs(v) > 1000 {
		return fmt.Errorf("%w: years must be a whole number, got %v", finance.ErrInvalidInput, v)
	}
	*dst = int(v)
	return nil
}

func applySweepValue(base models.InputParameters, parameter string, value float64) (models.InputParameters, error) {
	set, ok := sweepSetters[parameter]
	if !ok {
		return base, fmt.Errorf("%w: unknown sweep parameter %q", ErrInvalidRequest, parameter)
	}
	if err := set(&base, value); err != nil {
		return base, err
	}
	return base, nil
}

func (s *Service) cacheKey(p models.InputParameters) (string, error) {
	fp, err := utils.Fingerprint(p)
	if err != nil {
		return "", err
	}
	irr := s.config.IRR
	return fmt.Sprintf("%s:%g:%g:%d:%g:%g", fp, irr.Guess, irr.Tolerance, irr.MaxIterations, irr.Lower, irr.Upper), nil
}

func (s *Service) cachedResult(ctx context.Context, key string) (*models.ModelResult, bool) {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warnf("Cache read failed: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var result models.ModelResult
	if err := json.Unmarshal(raw, &result); err != nil {
		s.log.Warnf("Discarding unreadable cache entry: %v", err)
		return nil, false
	}
	return &result, true
}

func (s *Service) storeResult(ctx context.Context, key string, result *models.ModelResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		s.log.Warnf("Failed to encode result for cache: %v", err)
		return
	}
	if err := s.cache.Set(ctx, key, raw); err != nil {
		s.log.Warnf("Cache write failed: %v", err)
	}
}
