// Package stock implements the stock mutation engine: the only write path to
// item quantities. Every entry point runs as one transaction that locks the
// item row, mutates the aggregate and condition buckets, and appends exactly
// one ledger transaction.
package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/numbering"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/pkg/logger"
)

// Engine applies typed stock transactions to items. It owns no state beyond
// its collaborators; per-item serialization comes from the row lock taken
// inside each transaction.
type Engine struct {
	tx        TxRunner
	numbering *numbering.Service
	notifier  Notifier
	log       *logger.Logger
}

// NewEngine builds the engine. A nil notifier disables events.
func NewEngine(tx TxRunner, numbering *numbering.Service, notifier Notifier, log *logger.Logger) *Engine {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Engine{tx: tx, numbering: numbering, notifier: notifier, log: log}
}

// Correlation carries the optional references an OUT transaction records
// about where the stock went.
type Correlation struct {
	EmployeeID   string
	EquipmentID  string
	ProjectID    string
	ToLocationID string
}

// mutateBuckets reports whether a condition-scoped movement should touch the
// item's buckets. Unpartitioned legacy items stay aggregate-only unless they
// are empty, in which case the first conditioned receipt starts partitioning
// them.
func mutateBuckets(item *entity.Item, c entity.Condition) bool {
	return c.Partitioning() && (item.Partitioned() || item.Quantity.IsZero())
}

// applyBucketDelta folds a movement's signed quantity into the item's
// buckets so the partition sum keeps tracking the aggregate. A named
// condition hits its own bucket; an unconditioned movement on a partitioned
// item is absorbed the way audit adjustments are (credit to NEW, debit
// drained in canonical order). Unpartitioned non-empty items stay
// aggregate-only.
func applyBucketDelta(item *entity.Item, c entity.Condition, delta decimal.Decimal) {
	if mutateBuckets(item, c) {
		item.AddConditionQty(c, delta)
		return
	}
	absorbDifference(item, delta)
}

// newTransaction assembles a ledger row with identity and timestamps filled
// in; type-specific fields are set by the caller.
func (e *Engine) newTransaction(itemID, txnType, number, createdBy string) *entity.Transaction {
	now := time.Now()
	return &entity.Transaction{
		ID:              uuid.New().String(),
		Number:          number,
		ItemID:          itemID,
		Type:            txnType,
		CreatedBy:       createdBy,
		TransactionDate: now,
		CreatedAt:       now,
	}
}

// lockItem fetches the item under a row lock and rejects unknown ids.
func lockItem(ctx context.Context, items repository.ItemRepository, id string) (*entity.Item, error) {
	item, err := items.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// commitItem re-checks the quantity invariants and writes the item back.
func commitItem(ctx context.Context, items repository.ItemRepository, item *entity.Item) error {
	item.RecalculateTotalValue()
	if err := item.CheckInvariants(); err != nil {
		return err
	}
	item.UpdatedAt = time.Now()
	return items.Update(ctx, item)
}

func (e *Engine) logApplied(txn *entity.Transaction) {
	e.log.Info().
		Str("transaction", txn.Number).
		Str("type", txn.Type).
		Str("item_id", txn.ItemID).
		Str("quantity", txn.Quantity.String()).
		Str("after", txn.QuantityAfter.String()).
		Msg("stock transaction applied")
}
