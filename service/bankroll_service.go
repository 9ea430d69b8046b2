package service

import (
	"context"
	"fmt"

	"picktrack/models"

	"github.com/shopspring/decimal"
)

type bankrollService struct {
	uowFactory       UnitOfWorkFactory
	startingBankroll decimal.Decimal
}

// NewBankrollService creates a new bankroll service. The starting bankroll is
// the constant the ledger sum is applied to.
func NewBankrollService(uowFactory UnitOfWorkFactory, startingBankroll decimal.Decimal) BankrollService {
	return &bankrollService{
		uowFactory:       uowFactory,
		startingBankroll: startingBankroll,
	}
}

func (s *bankrollService) Summary(ctx context.Context) (*models.BankrollSummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	sum, err := uow.LedgerRepository().Sum(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger: %w", err)
	}

	counts, err := uow.PickRepository().CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count picks: %w", err)
	}

	return &models.BankrollSummary{
		StartingBankroll: s.startingBankroll,
		LedgerSum:        sum,
		CurrentBankroll:  s.startingBankroll.Add(sum),
		PendingCount:     counts[models.StatusPending],
		WonCount:         counts[models.StatusWon],
		LostCount:        counts[models.StatusLost],
		PushCount:        counts[models.StatusPush],
		VoidCount:        counts[models.StatusVoid],
	}, nil
}

func (s *bankrollService) Ledger(ctx context.Context, limit int) ([]*models.BankrollTransaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	txns, err := uow.LedgerRepository().List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger: %w", err)
	}

	return txns, nil
}
