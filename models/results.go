package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementResult is returned to callers of the single-pick grading paths
type SettlementResult struct {
	OK    bool    `json:"ok"`
	Count int     `json:"count"`
	Data  []*Pick `json:"data"`
}

// BulkGradeItem is one entry in a bulk grading request
type BulkGradeItem struct {
	PickID    uuid.UUID `json:"pickId"`
	HomeScore int       `json:"homeScore"`
	AwayScore int       `json:"awayScore"`
}

// BulkGradeItemResult reports the outcome of grading a single bulk item.
// Exactly one of Data and Error is set.
type BulkGradeItemResult struct {
	PickID uuid.UUID `json:"pickId"`
	OK     bool      `json:"ok"`
	Data   *Pick     `json:"data,omitempty"`
	Error  string    `json:"error,omitempty"`
}

// BulkGradeResult aggregates a bulk grading run. Results preserve input order
// so per-item errors remain meaningful to the caller.
type BulkGradeResult struct {
	OK      bool                  `json:"ok"`
	Graded  int                   `json:"graded"`
	Total   int                   `json:"total"`
	Results []BulkGradeItemResult `json:"results"`
}

// BankrollSummary is the reconciliation view over the ledger: current bankroll
// equals the starting bankroll plus the sum of all transaction amounts.
type BankrollSummary struct {
	StartingBankroll decimal.Decimal `json:"startingBankroll"`
	LedgerSum        decimal.Decimal `json:"ledgerSum"`
	CurrentBankroll  decimal.Decimal `json:"currentBankroll"`

	// Outcome counts let derived views account for completed-but-unlogged
	// losses and pushes (only wins post ledger rows).
	PendingCount int `json:"pendingCount"`
	WonCount     int `json:"wonCount"`
	LostCount    int `json:"lostCount"`
	PushCount    int `json:"pushCount"`
	VoidCount    int `json:"voidCount"`
}
