package stock

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
)

// AdjustmentInput overwrites an item's quantity with a counted value.
type AdjustmentInput struct {
	ItemID         string
	TargetQuantity decimal.Decimal
	Notes          string
	CreatedBy      string
}

// ApplyAdjustment runs AdjustInTx in its own transaction.
func (e *Engine) ApplyAdjustment(ctx context.Context, in AdjustmentInput) (*entity.Transaction, error) {
	var txn *entity.Transaction
	err := e.tx.Run(ctx, func(
		items repository.ItemRepository,
		txns repository.TransactionRepository,
		seqs repository.SequenceRepository,
	) error {
		var err error
		txn, err = e.AdjustInTx(ctx, items, txns, seqs, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	if txn != nil {
		e.logApplied(txn)
		e.notifier.StockMovement(ctx, txn)
	}
	return txn, nil
}

// AdjustInTx executes a reconciliation overwrite using repositories bound to
// the caller's open transaction (audit apply runs it together with the
// audit-line bookkeeping). The item's quantity is set to the target outright;
// the ADJUST transaction records the jump with a positive magnitude. Returns
// a nil transaction when the item already sits at the target.
func (e *Engine) AdjustInTx(
	ctx context.Context,
	items repository.ItemRepository,
	txns repository.TransactionRepository,
	seqs repository.SequenceRepository,
	in AdjustmentInput,
) (*entity.Transaction, error) {
	if in.TargetQuantity.IsNegative() {
		return nil, fmt.Errorf("%w: target quantity must not be negative", domain.ErrValidation)
	}

	item, err := lockItem(ctx, items, in.ItemID)
	if err != nil {
		return nil, err
	}

	before := item.Quantity
	jump := in.TargetQuantity.Sub(before)
	if jump.IsZero() {
		return nil, nil
	}

	absorbDifference(item, jump)
	item.Quantity = in.TargetQuantity
	if err := commitItem(ctx, items, item); err != nil {
		return nil, err
	}

	number, err := e.numbering.WithSequences(seqs).NextTransactionNumber(ctx, entity.TransactionTypeADJUST)
	if err != nil {
		return nil, err
	}
	txn := e.newTransaction(item.ID, entity.TransactionTypeADJUST, number, in.CreatedBy)
	txn.Quantity = jump.Abs()
	txn.QuantityBefore = before
	txn.QuantityAfter = in.TargetQuantity
	txn.UnitPrice = item.UnitPrice
	txn.Notes = in.Notes
	if err := txns.Create(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// absorbDifference folds a signed quantity delta into the condition buckets
// of a partitioned item so the partition sum keeps matching the aggregate. A
// credit lands in the NEW bucket; a debit drains the buckets in canonical
// order, each floored at zero. Unpartitioned items stay aggregate-only.
// Shared by reconciliation overwrites and unconditioned movements.
func absorbDifference(item *entity.Item, delta decimal.Decimal) {
	if !item.Partitioned() {
		return
	}
	if delta.IsPositive() {
		item.QtyNew = item.QtyNew.Add(delta)
		return
	}
	remaining := delta.Neg()
	for _, c := range entity.Conditions {
		if remaining.IsZero() {
			break
		}
		take := decimal.Min(item.ConditionQty(c), remaining)
		item.AddConditionQty(c, take.Neg())
		remaining = remaining.Sub(take)
	}
}
