package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Dan9191/apartment-model/internal/models"
	"github.com/robfig/cron/v3"
)

const refreshTimeout = 5 * time.Minute

// StartRefresh schedules RevalueFloating on the configured cron schedule.
// The caller stops the returned scheduler on shutdown.
func (s *Service) StartRefresh(schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if _, err := s.RevalueFloating(ctx); err != nil {
			s.log.Errorf("Scheduled revaluation failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	c.Start()
	s.log.Infof("Key rate refresh scheduled: %s", schedule)
	return c, nil
}

// RevalueFloating reprices every floating scenario at the current key rate and
// alerts owners whose IRR moved beyond the configured threshold. It returns the
// number of scenarios updated.
func (s *Service) RevalueFloating(ctx context.Context) (int, error) {
	rate, err := s.KeyRate(ctx)
	if err != nil {
		return 0, err
	}

	scenarios, err := s.repo.ListFloatingScenarios(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, stored := range scenarios {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		if stored.Input.InterestRate == rate {
			continue
		}

		sc := *stored
		previous := stored.Summary
		params := stored.Input
		params.InterestRate = rate
		if err := s.evaluate(&sc, params); err != nil {
			s.log.Warnf("Scenario %d cannot be revalued at %.2f%%: %v", sc.ID, rate, err)
			continue
		}
		if err := s.repo.UpdateScenario(ctx, &sc); err != nil {
			return updated, fmt.Errorf("failed to revalue scenario %d: %w", sc.ID, err)
		}
		updated++

		if s.irrMoved(previous.IRR, sc.Summary.IRR) {
			s.alertOwner(ctx, &sc, previous)
		}
	}

	s.log.Infof("Revalued %d of %d floating scenarios at %.2f%%", updated, len(scenarios), rate)
	return updated, nil
}

func (s *Service) irrMoved(before, after models.IRR) bool {
	if before.Defined() != after.Defined() {
		return true
	}
	if !after.Defined() {
		return false
	}
	return math.Abs(after.Percent-before.Percent) > s.config.IRRChangeAlert
}

// alertOwner is best effort: a failed email never fails the revaluation
func (s *Service) alertOwner(ctx context.Context, sc *models.Scenario, previous models.SummaryMetrics) {
	user, err := s.repo.FindUserByID(ctx, sc.UserID)
	if err != nil {
		s.log.Warnf("Owner of scenario %d not found: %v", sc.ID, err)
		return
	}
	if err := s.notifier.SendRevaluationAlert(user.Email, user.Username, sc, previous); err != nil {
		s.log.Warnf("Revaluation alert for scenario %d not delivered: %v", sc.ID, err)
	}
}
