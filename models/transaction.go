package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of bankroll change
type TransactionType string

const (
	TransactionTypeBetWin     TransactionType = "bet_win"
	TransactionTypeBetLoss    TransactionType = "bet_loss"
	TransactionTypeBetPush    TransactionType = "bet_push"
	TransactionTypeAdjustment TransactionType = "adjustment"
	TransactionTypeReversal   TransactionType = "reversal"
)

// BankrollTransaction is an immutable ledger entry representing a realized
// bankroll change. Rows are append-only; undoing a settlement writes a
// negating reversal row rather than touching history.
type BankrollTransaction struct {
	ID        int64           `db:"id" json:"id"`
	Type      TransactionType `db:"transaction_type" json:"type"`
	Amount    decimal.Decimal `db:"amount" json:"amount"` // signed, in units
	PickID    *uuid.UUID      `db:"pick_id" json:"pickId,omitempty"`
	Note      string          `db:"note" json:"note"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
}
