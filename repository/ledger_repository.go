package repository

import (
	"context"
	"fmt"

	"picktrack/database"
	"picktrack/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LedgerRepository implements the service.LedgerRepository interface. The
// bankroll_transactions table is append-only; no update or delete statement
// exists anywhere in this package.
type LedgerRepository struct {
	q queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// newLedgerRepositoryWithTx creates a new ledger repository with a transaction
func newLedgerRepositoryWithTx(tx queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// Append writes a new ledger row
func (r *LedgerRepository) Append(ctx context.Context, txn *models.BankrollTransaction) error {
	query := `
		INSERT INTO bankroll_transactions (transaction_type, amount, pick_id, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		txn.Type,
		txn.Amount,
		txn.PickID,
		txn.Note,
	).Scan(&txn.ID, &txn.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to append %s ledger entry: %w", txn.Type, err)
	}

	return nil
}

// GetByPick returns all ledger rows referencing a pick, oldest first
func (r *LedgerRepository) GetByPick(ctx context.Context, pickID uuid.UUID) ([]*models.BankrollTransaction, error) {
	query := `
		SELECT id, transaction_type, amount, pick_id, note, created_at
		FROM bankroll_transactions
		WHERE pick_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.q.Query(ctx, query, pickID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries for pick %s: %w", pickID, err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Sum returns the signed sum of all ledger amounts
func (r *LedgerRepository) Sum(ctx context.Context) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM bankroll_transactions`

	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum ledger: %w", err)
	}

	return sum, nil
}

// List returns ledger rows, newest first
func (r *LedgerRepository) List(ctx context.Context, limit int) ([]*models.BankrollTransaction, error) {
	query := `
		SELECT id, transaction_type, amount, pick_id, note, created_at
		FROM bankroll_transactions
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*models.BankrollTransaction, error) {
	var txns []*models.BankrollTransaction
	for rows.Next() {
		var txn models.BankrollTransaction
		err := rows.Scan(
			&txn.ID,
			&txn.Type,
			&txn.Amount,
			&txn.PickID,
			&txn.Note,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		txns = append(txns, &txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return txns, nil
}
