package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"picktrack/events"
	"picktrack/grading"
	"picktrack/models"
	"picktrack/oddsmath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// MatchWindow bounds how far a pick's start time may sit from a supplied
// event start time for team-pair matching.
const MatchWindow = 12 * time.Hour

type settlementService struct {
	uowFactory UnitOfWorkFactory
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uowFactory UnitOfWorkFactory) SettlementService {
	return &settlementService{
		uowFactory: uowFactory,
	}
}

func (s *settlementService) GradePick(ctx context.Context, pickID uuid.UUID, homeScore, awayScore int, stakeOverride *decimal.Decimal) (*models.SettlementResult, error) {
	if pickID == uuid.Nil {
		return nil, NewValidationError("pickId is required")
	}

	pick, err := s.settleOne(ctx, pickID, homeScore, awayScore, stakeOverride)
	if err != nil {
		return nil, err
	}

	return &models.SettlementResult{OK: true, Count: 1, Data: []*models.Pick{pick}}, nil
}

func (s *settlementService) GradeMatchup(ctx context.Context, homeTeam, awayTeam string, startTime *time.Time, homeScore, awayScore int) (*models.SettlementResult, error) {
	homeTeam = strings.TrimSpace(homeTeam)
	awayTeam = strings.TrimSpace(awayTeam)
	if homeTeam == "" || awayTeam == "" {
		return nil, NewValidationError("homeTeam and awayTeam are required")
	}

	var window *TimeWindow
	if startTime != nil {
		window = &TimeWindow{
			From: startTime.Add(-MatchWindow),
			To:   startTime.Add(MatchWindow),
		}
	}

	ids, err := s.findPendingIDs(ctx, homeTeam, awayTeam, window)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, NewNotFoundError("no pending picks match %s @ %s", awayTeam, homeTeam)
	}

	// One unit of work per pick: a failure partway leaves a settled prefix
	// and untouched remainder, mirroring independent per-pick writes.
	settled := make([]*models.Pick, 0, len(ids))
	for _, id := range ids {
		pick, err := s.settleOne(ctx, id, homeScore, awayScore, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to settle pick %s: %w", id, err)
		}
		settled = append(settled, pick)
	}

	return &models.SettlementResult{OK: true, Count: len(settled), Data: settled}, nil
}

func (s *settlementService) GradeBulk(ctx context.Context, items []models.BulkGradeItem) (*models.BulkGradeResult, error) {
	result := &models.BulkGradeResult{
		OK:      true,
		Total:   len(items),
		Results: make([]models.BulkGradeItemResult, 0, len(items)),
	}

	// Items are graded sequentially in input order so per-item error indices
	// stay meaningful to the caller.
	for _, item := range items {
		itemResult := models.BulkGradeItemResult{PickID: item.PickID}

		if item.PickID == uuid.Nil {
			itemResult.Error = "pickId is required"
			result.Results = append(result.Results, itemResult)
			continue
		}

		pick, err := s.settleOne(ctx, item.PickID, item.HomeScore, item.AwayScore, nil)
		if err != nil {
			itemResult.Error = err.Error()
			result.Results = append(result.Results, itemResult)
			continue
		}

		itemResult.OK = true
		itemResult.Data = pick
		result.Graded++
		result.Results = append(result.Results, itemResult)
	}

	return result, nil
}

func (s *settlementService) Undo(ctx context.Context, pickID uuid.UUID) (*models.Pick, error) {
	if pickID == uuid.Nil {
		return nil, NewValidationError("pickId is required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	pick, err := uow.PickRepository().GetByID(ctx, pickID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pick: %w", err)
	}
	if pick == nil {
		return nil, NewNotFoundError("pick %s not found", pickID)
	}
	if pick.Status == models.StatusPending {
		return nil, NewValidationError("pick %s is not settled", pickID)
	}

	previousStatus := pick.Status

	// A won pick realized a payout; negate whatever this pick has netted on
	// the ledger with a new reversal row. History is never edited.
	if pick.Status == models.StatusWon {
		txns, err := uow.LedgerRepository().GetByPick(ctx, pick.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load ledger entries: %w", err)
		}

		net := decimal.Zero
		for _, txn := range txns {
			net = net.Add(txn.Amount)
		}

		if !net.IsZero() {
			reversal := &models.BankrollTransaction{
				Type:   models.TransactionTypeReversal,
				Amount: net.Neg(),
				PickID: &pick.ID,
				Note:   fmt.Sprintf("undo settlement of pick %s", pick.ID),
			}
			if err := RecordLedgerEntry(ctx, uow, reversal); err != nil {
				return nil, err
			}
		}
	}

	pick.Status = models.StatusPending
	pick.OutcomeDetail = ""
	pick.SettledAt = nil

	if err := uow.PickRepository().UpdateSettlement(ctx, pick); err != nil {
		return nil, fmt.Errorf("failed to reset pick: %w", err)
	}

	uow.EventBus().Publish(events.PickUnsettledEvent{
		PickID:         pick.ID,
		PreviousStatus: previousStatus,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"pickID":         pick.ID,
		"previousStatus": previousStatus,
	}).Info("Settlement undone")

	return pick, nil
}

// settleOne grades and persists a single pick inside its own unit of work.
func (s *settlementService) settleOne(ctx context.Context, pickID uuid.UUID, homeScore, awayScore int, stakeOverride *decimal.Decimal) (*models.Pick, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	pick, err := uow.PickRepository().GetByID(ctx, pickID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pick: %w", err)
	}
	if pick == nil {
		return nil, NewNotFoundError("pick %s not found", pickID)
	}
	if pick.Status != models.StatusPending {
		return nil, &AlreadySettledError{PickID: pick.ID, Status: pick.Status}
	}

	outcome := grading.Grade(pick, homeScore, awayScore)

	now := time.Now().UTC()
	pick.Status = outcome.Status
	pick.OutcomeDetail = outcome.Detail
	pick.SettledAt = &now

	if err := uow.PickRepository().UpdateSettlement(ctx, pick); err != nil {
		return nil, fmt.Errorf("failed to update pick: %w", err)
	}

	// Only wins post to the ledger; losses and pushes leave no row. Current
	// bankroll is reconstructed as starting bankroll plus ledger sum.
	if outcome.Status == models.StatusWon {
		stake := pick.Stake
		if stakeOverride != nil {
			stake = *stakeOverride
		}

		txn := &models.BankrollTransaction{
			Type:   models.TransactionTypeBetWin,
			Amount: oddsmath.PayoutOnWin(stake, pick.Odds),
			PickID: &pick.ID,
			Note:   fmt.Sprintf("%s %s settled won", pick.Market, pick.Selection),
		}
		if err := RecordLedgerEntry(ctx, uow, txn); err != nil {
			return nil, err
		}
	}

	uow.EventBus().Publish(events.PickSettledEvent{
		PickID:    pick.ID,
		Market:    pick.Market,
		Status:    pick.Status,
		Detail:    pick.OutcomeDetail,
		HomeScore: homeScore,
		AwayScore: awayScore,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return pick, nil
}

// findPendingIDs runs the team-pair query in a read-only unit of work.
func (s *settlementService) findPendingIDs(ctx context.Context, homeTeam, awayTeam string, window *TimeWindow) ([]uuid.UUID, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	picks, err := uow.PickRepository().FindPending(ctx, homeTeam, awayTeam, window)
	if err != nil {
		return nil, fmt.Errorf("failed to find pending picks: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(picks))
	for _, pick := range picks {
		ids = append(ids, pick.ID)
	}
	return ids, nil
}
