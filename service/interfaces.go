package service

import (
	"context"
	"time"

	"picktrack/events"
	"picktrack/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimeWindow bounds a start-time query, inclusive on both ends.
type TimeWindow struct {
	From time.Time
	To   time.Time
}

// PickRepository defines the interface for pick data access
type PickRepository interface {
	// Create inserts a new pick
	Create(ctx context.Context, pick *models.Pick) error

	// GetByID retrieves a pick by its ID, returning nil when absent
	GetByID(ctx context.Context, id uuid.UUID) (*models.Pick, error)

	// FindPending returns all pending picks for a home/away team pair,
	// matched case-insensitively, optionally bounded by a start-time window
	FindPending(ctx context.Context, homeTeam, awayTeam string, window *TimeWindow) ([]*models.Pick, error)

	// List returns picks, newest first, optionally filtered by status
	List(ctx context.Context, status *models.PickStatus, limit int) ([]*models.Pick, error)

	// UpdateSettlement persists a pick's status, outcome detail and settled-at time
	UpdateSettlement(ctx context.Context, pick *models.Pick) error

	// CountByStatus returns the number of picks in each status
	CountByStatus(ctx context.Context) (map[models.PickStatus]int, error)
}

// LedgerRepository defines the interface for the append-only bankroll ledger
type LedgerRepository interface {
	// Append writes a new ledger row. Rows are never updated or deleted.
	Append(ctx context.Context, txn *models.BankrollTransaction) error

	// GetByPick returns all ledger rows referencing a pick, oldest first
	GetByPick(ctx context.Context, pickID uuid.UUID) ([]*models.BankrollTransaction, error)

	// Sum returns the signed sum of all ledger amounts
	Sum(ctx context.Context) (decimal.Decimal, error)

	// List returns ledger rows, newest first
	List(ctx context.Context, limit int) ([]*models.BankrollTransaction, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	PickRepository() PickRepository
	LedgerRepository() LedgerRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// SettlementService grades picks against final scores and realizes the
// bankroll side effect. It is the only component permitted to change a pick's
// status, outcome detail and settled-at time.
type SettlementService interface {
	// GradePick settles a single pick by id. stakeOverride, when non-nil,
	// substitutes the pick's stake for payout computation only.
	GradePick(ctx context.Context, pickID uuid.UUID, homeScore, awayScore int, stakeOverride *decimal.Decimal) (*models.SettlementResult, error)

	// GradeMatchup settles all pending picks matching a team pair, within
	// ±12h of startTime when one is supplied.
	GradeMatchup(ctx context.Context, homeTeam, awayTeam string, startTime *time.Time, homeScore, awayScore int) (*models.SettlementResult, error)

	// GradeBulk grades a list of items sequentially; one bad item never
	// aborts the batch, and results preserve input order.
	GradeBulk(ctx context.Context, items []models.BulkGradeItem) (*models.BulkGradeResult, error)

	// Undo reverses a settlement: a won pick gets a negating reversal ledger
	// row, then the pick returns to pending.
	Undo(ctx context.Context, pickID uuid.UUID) (*models.Pick, error)
}

// PickService covers the thin create/list surface that feeds the grader
type PickService interface {
	// CreatePick validates and stores a new pending pick, deriving implied
	// probability and to-win from its price
	CreatePick(ctx context.Context, pick *models.Pick) (*models.Pick, error)

	// ListPicks returns picks, optionally filtered by status
	ListPicks(ctx context.Context, status *models.PickStatus, limit int) ([]*models.Pick, error)
}

// BankrollService reconstructs the bankroll from the ledger
type BankrollService interface {
	// Summary returns starting bankroll, ledger sum, current bankroll and
	// outcome counts
	Summary(ctx context.Context) (*models.BankrollSummary, error)

	// Ledger returns recent ledger rows, newest first
	Ledger(ctx context.Context, limit int) ([]*models.BankrollTransaction, error)
}
