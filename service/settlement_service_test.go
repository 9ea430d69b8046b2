package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"picktrack/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type settlementFixture struct {
	factory    *MockUnitOfWorkFactory
	uow        *MockUnitOfWork
	pickRepo   *MockPickRepository
	ledgerRepo *MockLedgerRepository
	eventBus   *MockEventPublisher
	service    SettlementService
}

func newSettlementFixture() *settlementFixture {
	f := &settlementFixture{
		factory:    new(MockUnitOfWorkFactory),
		uow:        new(MockUnitOfWork),
		pickRepo:   new(MockPickRepository),
		ledgerRepo: new(MockLedgerRepository),
		eventBus:   new(MockEventPublisher),
	}
	f.uow.SetRepositories(f.pickRepo, f.ledgerRepo, f.eventBus)
	f.factory.On("Create").Return(f.uow)
	f.service = NewSettlementService(f.factory)
	return f
}

func (f *settlementFixture) expectTransaction(ctx context.Context) {
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Commit").Return(nil)
	f.uow.On("Rollback").Return(nil)
}

func pendingPick(id uuid.UUID, market models.Market, selection string, line *float64, odds int, stake int64) *models.Pick {
	return &models.Pick{
		ID:        id,
		Sport:     "baseball",
		League:    "MLB",
		HomeTeam:  "Yankees",
		AwayTeam:  "Red Sox",
		StartTime: time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC),
		Market:    market,
		Selection: selection,
		Line:      line,
		Odds:      odds,
		Stake:     decimal.NewFromInt(stake),
		Status:    models.StatusPending,
	}
}

func TestSettlementService_GradePick_WonWritesLedger(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()
	f.expectTransaction(ctx)

	pickID := uuid.New()
	pick := pendingPick(pickID, models.MarketMoneyline, "home", nil, +200, 10)

	f.pickRepo.On("GetByID", ctx, pickID).Return(pick, nil)
	f.pickRepo.On("UpdateSettlement", ctx, mock.MatchedBy(func(p *models.Pick) bool {
		return p.ID == pickID &&
			p.Status == models.StatusWon &&
			p.OutcomeDetail == "Red Sox 3 @ Yankees 5" &&
			p.SettledAt != nil
	})).Return(nil)

	// Stake 10 at +200 pays exactly 20.
	f.ledgerRepo.On("Append", ctx, mock.MatchedBy(func(txn *models.BankrollTransaction) bool {
		return txn.Type == models.TransactionTypeBetWin &&
			txn.Amount.Equal(decimal.NewFromInt(20)) &&
			txn.PickID != nil && *txn.PickID == pickID
	})).Return(nil)

	f.eventBus.On("Publish", mock.AnythingOfType("events.BankrollChangeEvent")).Return()
	f.eventBus.On("Publish", mock.AnythingOfType("events.PickSettledEvent")).Return()

	result, err := f.service.GradePick(ctx, pickID, 5, 3, nil)

	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, 1, result.Count)
	require.Len(t, result.Data, 1)
	assert.Equal(t, models.StatusWon, result.Data[0].Status)

	f.pickRepo.AssertExpectations(t)
	f.ledgerRepo.AssertExpectations(t)
	f.ledgerRepo.AssertNumberOfCalls(t, "Append", 1)
	f.eventBus.AssertExpectations(t)
}

func TestSettlementService_GradePick_LostWritesNoLedger(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()
	f.expectTransaction(ctx)

	pickID := uuid.New()
	pick := pendingPick(pickID, models.MarketMoneyline, "home", nil, -120, 50)

	f.pickRepo.On("GetByID", ctx, pickID).Return(pick, nil)
	f.pickRepo.On("UpdateSettlement", ctx, mock.MatchedBy(func(p *models.Pick) bool {
		return p.Status == models.StatusLost
	})).Return(nil)
	f.eventBus.On("Publish", mock.AnythingOfType("events.PickSettledEvent")).Return()

	result, err := f.service.GradePick(ctx, pickID, 3, 5, nil)

	require.NoError(t, err)
	assert.Equal(t, models.StatusLost, result.Data[0].Status)

	// Asymmetric ledger: losses post nothing.
	f.ledgerRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestSettlementService_GradePick_VoidStillSettles(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()
	f.expectTransaction(ctx)

	pickID := uuid.New()
	// Total market with no line cannot be graded; it settles void.
	pick := pendingPick(pickID, models.MarketTotal, "Over", nil, -110, 25)

	f.pickRepo.On("GetByID", ctx, pickID).Return(pick, nil)
	f.pickRepo.On("UpdateSettlement", ctx, mock.MatchedBy(func(p *models.Pick) bool {
		return p.Status == models.StatusVoid && p.SettledAt != nil
	})).Return(nil)
	f.eventBus.On("Publish", mock.AnythingOfType("events.PickSettledEvent")).Return()

	result, err := f.service.GradePick(ctx, pickID, 5, 4, nil)

	require.NoError(t, err)
	assert.Equal(t, models.StatusVoid, result.Data[0].Status)
	assert.Contains(t, result.Data[0].OutcomeDetail, "no total line")
	f.ledgerRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestSettlementService_GradePick_StakeOverride(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()
	f.expectTransaction(ctx)

	pickID := uuid.New()
	pick := pendingPick(pickID, models.MarketMoneyline, "home", nil, +150, 10)

	f.pickRepo.On("GetByID", ctx, pickID).Return(pick, nil)
	f.pickRepo.On("UpdateSettlement", ctx, mock.Anything).Return(nil)

	// Override of 100 at +150 pays 150 regardless of the stored stake.
	f.ledgerRepo.On("Append", ctx, mock.MatchedBy(func(txn *models.BankrollTransaction) bool {
		return txn.Amount.Equal(decimal.NewFromInt(150))
	})).Return(nil)
	f.eventBus.On("Publish", mock.Anything).Return()

	override := decimal.NewFromInt(100)
	_, err := f.service.GradePick(ctx, pickID, 5, 3, &override)

	require.NoError(t, err)
	f.ledgerRepo.AssertExpectations(t)
}

func TestSettlementService_GradePick_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)

	pickID := uuid.New()
	f.pickRepo.On("GetByID", ctx, pickID).Return(nil, nil)

	_, err := f.service.GradePick(ctx, pickID, 5, 3, nil)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	f.pickRepo.AssertNotCalled(t, "UpdateSettlement", mock.Anything, mock.Anything)
}

func TestSettlementService_GradePick_AlreadySettled(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)

	pickID := uuid.New()
	pick := pendingPick(pickID, models.MarketMoneyline, "home", nil, +200, 10)
	pick.Status = models.StatusWon

	f.pickRepo.On("GetByID", ctx, pickID).Return(pick, nil)

	_, err := f.service.GradePick(ctx, pickID, 5, 3, nil)

	var settled *AlreadySettledError
	require.ErrorAs(t, err, &settled)
	assert.Equal(t, models.StatusWon, settled.Status)
	f.pickRepo.AssertNotCalled(t, "UpdateSettlement", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit")
}

func TestSettlementService_GradeMatchup(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()
	f.expectTransaction(ctx)

	first := pendingPick(uuid.New(), models.MarketMoneyline, "home", nil, +100, 10)
	line := 1.5
	second := pendingPick(uuid.New(), models.MarketSpread, "away", &line, -110, 20)

	start := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)
	f.pickRepo.On("FindPending", ctx, "Yankees", "Red Sox", mock.MatchedBy(func(w *TimeWindow) bool {
		return w != nil &&
			w.From.Equal(start.Add(-12*time.Hour)) &&
			w.To.Equal(start.Add(12*time.Hour))
	})).Return([]*models.Pick{first, second}, nil)

	f.pickRepo.On("GetByID", ctx, first.ID).Return(first, nil)
	f.pickRepo.On("GetByID", ctx, second.ID).Return(second, nil)
	f.pickRepo.On("UpdateSettlement", ctx, mock.Anything).Return(nil)
	f.ledgerRepo.On("Append", ctx, mock.Anything).Return(nil)
	f.eventBus.On("Publish", mock.Anything).Return()

	result, err := f.service.GradeMatchup(ctx, "Yankees", "Red Sox", &start, 5, 3)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	// home ML wins; away +1.5 adjusts 3 to 4.5, still short of 5
	assert.Equal(t, models.StatusWon, result.Data[0].Status)
	assert.Equal(t, models.StatusLost, result.Data[1].Status)
}

func TestSettlementService_GradeMatchup_NoMatches(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)

	f.pickRepo.On("FindPending", ctx, "Yankees", "Red Sox", (*TimeWindow)(nil)).
		Return([]*models.Pick{}, nil)

	_, err := f.service.GradeMatchup(ctx, "Yankees", "Red Sox", nil, 5, 3)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestSettlementService_GradeMatchup_MissingTeams(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()

	_, err := f.service.GradeMatchup(ctx, "", "Red Sox", nil, 5, 3)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	f.uow.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestSettlementService_GradeBulk_PartialSuccessPreservesOrder(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()
	f.expectTransaction(ctx)

	good1 := pendingPick(uuid.New(), models.MarketMoneyline, "home", nil, +100, 10)
	good2 := pendingPick(uuid.New(), models.MarketMoneyline, "away", nil, +100, 10)
	missing := uuid.New()

	f.pickRepo.On("GetByID", ctx, good1.ID).Return(good1, nil)
	f.pickRepo.On("GetByID", ctx, missing).Return(nil, nil)
	f.pickRepo.On("GetByID", ctx, good2.ID).Return(good2, nil)
	f.pickRepo.On("UpdateSettlement", ctx, mock.Anything).Return(nil)
	f.ledgerRepo.On("Append", ctx, mock.Anything).Return(nil)
	f.eventBus.On("Publish", mock.Anything).Return()

	items := []models.BulkGradeItem{
		{PickID: good1.ID, HomeScore: 5, AwayScore: 3},
		{PickID: missing, HomeScore: 1, AwayScore: 2},
		{PickID: good2.ID, HomeScore: 5, AwayScore: 3},
	}

	result, err := f.service.GradeBulk(ctx, items)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Graded)
	assert.Equal(t, 3, result.Total)
	require.Len(t, result.Results, 3)

	assert.True(t, result.Results[0].OK)
	assert.Equal(t, good1.ID, result.Results[0].PickID)

	assert.False(t, result.Results[1].OK)
	assert.Equal(t, missing, result.Results[1].PickID)
	assert.Contains(t, result.Results[1].Error, "not found")

	assert.True(t, result.Results[2].OK)
	assert.Equal(t, good2.ID, result.Results[2].PickID)
}

func TestSettlementService_GradeBulk_EmptyBatch(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()

	result, err := f.service.GradeBulk(ctx, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Graded)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Results)
}

func TestSettlementService_Undo_WonPickWritesReversal(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()
	f.expectTransaction(ctx)

	pickID := uuid.New()
	settledAt := time.Now().UTC()
	pick := pendingPick(pickID, models.MarketMoneyline, "home", nil, +200, 10)
	pick.Status = models.StatusWon
	pick.OutcomeDetail = "Red Sox 3 @ Yankees 5"
	pick.SettledAt = &settledAt

	win := &models.BankrollTransaction{
		ID:     7,
		Type:   models.TransactionTypeBetWin,
		Amount: decimal.NewFromInt(20),
		PickID: &pickID,
	}
	f.ledgerRepo.On("GetByPick", ctx, pickID).Return([]*models.BankrollTransaction{win}, nil)

	f.ledgerRepo.On("Append", ctx, mock.MatchedBy(func(txn *models.BankrollTransaction) bool {
		return txn.Type == models.TransactionTypeReversal &&
			txn.Amount.Equal(decimal.NewFromInt(-20)) &&
			txn.PickID != nil && *txn.PickID == pickID
	})).Return(nil)

	f.pickRepo.On("GetByID", ctx, pickID).Return(pick, nil)
	f.pickRepo.On("UpdateSettlement", ctx, mock.MatchedBy(func(p *models.Pick) bool {
		return p.Status == models.StatusPending &&
			p.OutcomeDetail == "" &&
			p.SettledAt == nil
	})).Return(nil)

	f.eventBus.On("Publish", mock.AnythingOfType("events.BankrollChangeEvent")).Return()
	f.eventBus.On("Publish", mock.AnythingOfType("events.PickUnsettledEvent")).Return()

	result, err := f.service.Undo(ctx, pickID)

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, result.Status)
	f.ledgerRepo.AssertExpectations(t)
}

func TestSettlementService_Undo_LostPickWritesNoReversal(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()
	f.expectTransaction(ctx)

	pickID := uuid.New()
	pick := pendingPick(pickID, models.MarketMoneyline, "home", nil, +200, 10)
	pick.Status = models.StatusLost

	f.pickRepo.On("GetByID", ctx, pickID).Return(pick, nil)
	f.pickRepo.On("UpdateSettlement", ctx, mock.Anything).Return(nil)
	f.eventBus.On("Publish", mock.AnythingOfType("events.PickUnsettledEvent")).Return()

	result, err := f.service.Undo(ctx, pickID)

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, result.Status)
	f.ledgerRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.ledgerRepo.AssertNotCalled(t, "GetByPick", mock.Anything, mock.Anything)
}

func TestSettlementService_Undo_PendingPickRejected(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)

	pickID := uuid.New()
	pick := pendingPick(pickID, models.MarketMoneyline, "home", nil, +200, 10)

	f.pickRepo.On("GetByID", ctx, pickID).Return(pick, nil)

	_, err := f.service.Undo(ctx, pickID)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	f.uow.AssertNotCalled(t, "Commit")
}

func TestSettlementService_GradePick_RepositoryError(t *testing.T) {
	ctx := context.Background()
	f := newSettlementFixture()
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)

	pickID := uuid.New()
	f.pickRepo.On("GetByID", ctx, pickID).Return(nil, errors.New("connection reset"))

	_, err := f.service.GradePick(ctx, pickID, 5, 3, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	f.uow.AssertNotCalled(t, "Commit")
}
