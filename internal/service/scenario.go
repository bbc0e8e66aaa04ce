package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dan9191/apartment-model/internal/finance"
	"github.com/Dan9191/apartment-model/internal/models"
	"github.com/Dan9191/apartment-model/internal/utils"
)

// SaveScenarioRequest describes a scenario to persist
type SaveScenarioRequest struct {
	Name     string                 `json:"name"`
	Input    models.InputParameters `json:"input"`
	Floating bool                   `json:"floating"`
}

// ScenarioDetail is a stored scenario with its freshly recomputed result
type ScenarioDetail struct {
	Scenario *models.Scenario   `json:"scenario"`
	Result   models.ModelResult `json:"result"`
}

// SaveScenario validates, evaluates and stores a scenario for the user.
// Floating scenarios are priced at the current key rate.
func (s *Service) SaveScenario(ctx context.Context, userID int64, req SaveScenarioRequest) (*models.Scenario, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: scenario name is required", ErrInvalidRequest)
	}

	params := req.Input
	if req.Floating {
		rate, err := s.KeyRate(ctx)
		if err != nil {
			return nil, err
		}
		params.InterestRate = rate
	}

	sc := &models.Scenario{UserID: userID, Name: name, Floating: req.Floating}
	if err := s.evaluate(sc, params); err != nil {
		return nil, err
	}
	if err := s.repo.CreateScenario(ctx, sc); err != nil {
		return nil, err
	}

	s.log.Infof("Scenario %d saved for user %d: %s", sc.ID, userID, sc.Name)
	return sc, nil
}

// ListScenarios returns the user's scenarios
func (s *Service) ListScenarios(ctx context.Context, userID int64) ([]*models.Scenario, error) {
	scenarios, err := s.repo.ListScenariosByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if scenarios == nil {
		scenarios = []*models.Scenario{}
	}
	return scenarios, nil
}

// GetScenario loads one of the user's scenarios and recomputes the full model from its inputs
func (s *Service) GetScenario(ctx context.Context, userID, id int64) (*ScenarioDetail, error) {
	sc, err := s.ownedScenario(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !utils.VerifyHMAC(sc.Input, sc.HMAC, s.config.HMACSecret) {
		s.log.Errorf("Scenario %d failed signature verification", sc.ID)
		return nil, fmt.Errorf("scenario %d: %w", sc.ID, ErrTampered)
	}

	model, err := finance.NewModel(sc.Input, finance.WithIRRSolver(s.config.IRR))
	if err != nil {
		return nil, err
	}
	return &ScenarioDetail{Scenario: sc, Result: model.Run()}, nil
}

// DeleteScenario removes one of the user's scenarios
func (s *Service) DeleteScenario(ctx context.Context, userID, id int64) error {
	if _, err := s.ownedScenario(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteScenario(ctx, id); err != nil {
		return err
	}
	s.log.Infof("Scenario %d deleted by user %d", id, userID)
	return nil
}

func (s *Service) ownedScenario(ctx context.Context, userID, id int64) (*models.Scenario, error) {
	sc, err := s.repo.FindScenarioByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sc.UserID != userID {
		return nil, fmt.Errorf("scenario %d: %w", id, ErrForbidden)
	}
	return sc, nil
}

// evaluate computes the summary and signature of sc for the given assumptions
func (s *Service) evaluate(sc *models.Scenario, params models.InputParameters) error {
	model, err := finance.NewModel(params, finance.WithIRRSolver(s.config.IRR))
	if err != nil {
		return err
	}
	signature, err := utils.GenerateHMAC(params, s.config.HMACSecret)
	if err != nil {
		return err
	}
	sc.Input = params
	sc.Summary = model.Summary()
	sc.HMAC = signature
	return nil
}
