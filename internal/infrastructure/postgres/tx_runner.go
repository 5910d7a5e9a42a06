package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/audit"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/stock"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
)

// Ensure TxRunner implements the engines' transaction ports.
var _ stock.TxRunner = (*TxRunner)(nil)
var _ audit.TxRunner = (*TxRunner)(nil)

// TxRunner executes callbacks inside a PostgreSQL transaction, handing them
// repositories bound to that transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner over the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run opens a transaction with the stock-mutation repositories; Commit on
// success, Rollback on any error.
func (r *TxRunner) Run(ctx context.Context, fn func(
	items repository.ItemRepository,
	txns repository.TransactionRepository,
	seqs repository.SequenceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewItemRepository(tx), NewTransactionRepository(tx), NewSequenceRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunAudit opens a transaction with the reconciliation repositories.
func (r *TxRunner) RunAudit(ctx context.Context, fn func(
	audits repository.AuditRepository,
	items repository.ItemRepository,
	txns repository.TransactionRepository,
	seqs repository.SequenceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewAuditRepository(tx), NewItemRepository(tx), NewTransactionRepository(tx), NewSequenceRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
