package service

import (
	"context"
	"fmt"
	"strings"

	"picktrack/models"
	"picktrack/oddsmath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type pickService struct {
	uowFactory UnitOfWorkFactory
}

// NewPickService creates a new pick service
func NewPickService(uowFactory UnitOfWorkFactory) PickService {
	return &pickService{
		uowFactory: uowFactory,
	}
}

func (s *pickService) CreatePick(ctx context.Context, pick *models.Pick) (*models.Pick, error) {
	if strings.TrimSpace(pick.HomeTeam) == "" || strings.TrimSpace(pick.AwayTeam) == "" {
		return nil, NewValidationError("homeTeam and awayTeam are required")
	}
	if strings.TrimSpace(pick.Selection) == "" {
		return nil, NewValidationError("selection is required")
	}
	if pick.Odds == 0 {
		return nil, NewValidationError("odds must be a nonzero American price")
	}
	if pick.Stake.LessThan(decimal.Zero) {
		return nil, NewValidationError("stake cannot be negative")
	}
	switch pick.Market {
	case models.MarketMoneyline:
		// no line
	case models.MarketSpread, models.MarketTotal:
		if pick.Line == nil {
			return nil, NewValidationError("%s picks require a line", pick.Market)
		}
	default:
		return nil, NewValidationError("unknown market %q", pick.Market)
	}

	if pick.ID == uuid.Nil {
		pick.ID = uuid.New()
	}
	pick.Status = models.StatusPending
	pick.OutcomeDetail = ""
	pick.SettledAt = nil

	// Derived pricing fields are fixed at creation time.
	p, err := oddsmath.ImpliedProbability(pick.Odds)
	if err != nil {
		return nil, NewValidationError("odds must be a nonzero American price")
	}
	pick.ImpliedProbability = p
	pick.ToWin = oddsmath.PayoutOnWin(pick.Stake, pick.Odds)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.PickRepository().Create(ctx, pick); err != nil {
		return nil, fmt.Errorf("failed to create pick: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return pick, nil
}

func (s *pickService) ListPicks(ctx context.Context, status *models.PickStatus, limit int) ([]*models.Pick, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	picks, err := uow.PickRepository().List(ctx, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}

	return picks, nil
}
