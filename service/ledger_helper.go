package service

import (
	"context"
	"fmt"

	"picktrack/events"
	"picktrack/models"
)

// RecordLedgerEntry appends a bankroll transaction and queues the matching
// event. This is the single entry point for all ledger writes in the system.
func RecordLedgerEntry(ctx context.Context, uow UnitOfWork, txn *models.BankrollTransaction) error {
	if err := uow.LedgerRepository().Append(ctx, txn); err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	// Flushed to subscribers only after the transaction commits
	uow.EventBus().Publish(events.BankrollChangeEvent{
		TransactionType: txn.Type,
		Amount:          txn.Amount,
		PickID:          txn.PickID,
	})

	return nil
}
