package stock

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
	domainstock "github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/stock"
)

// ReceiptInput describes an incoming stock receipt.
type ReceiptInput struct {
	ItemID    string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Condition entity.Condition
	Notes     string
	CreatedBy string
}

// ApplyReceipt books quantity into an item: recomputes the weighted-average
// unit price, credits the chosen condition bucket (or absorbs an
// unconditioned receipt into NEW on a partitioned item) and the aggregate,
// and appends an IN transaction, all in one atomic commit.
func (e *Engine) ApplyReceipt(ctx context.Context, in ReceiptInput) (*entity.Transaction, error) {
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: receipt quantity must be positive", domain.ErrValidation)
	}
	if in.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unit price must not be negative", domain.ErrValidation)
	}
	if !in.Condition.Valid() {
		return nil, fmt.Errorf("%w: unknown condition %q", domain.ErrValidation, in.Condition)
	}

	var txn *entity.Transaction
	err := e.tx.Run(ctx, func(
		items repository.ItemRepository,
		txns repository.TransactionRepository,
		seqs repository.SequenceRepository,
	) error {
		item, err := lockItem(ctx, items, in.ItemID)
		if err != nil {
			return err
		}

		before := item.Quantity
		item.UnitPrice = domainstock.WeightedAverageCost(item.Quantity, item.UnitPrice, in.Quantity, in.UnitPrice)
		applyBucketDelta(item, in.Condition, in.Quantity)
		item.Quantity = item.Quantity.Add(in.Quantity)
		if err := commitItem(ctx, items, item); err != nil {
			return err
		}

		number, err := e.numbering.WithSequences(seqs).NextTransactionNumber(ctx, entity.TransactionTypeIN)
		if err != nil {
			return err
		}
		txn = e.newTransaction(item.ID, entity.TransactionTypeIN, number, in.CreatedBy)
		txn.Condition = in.Condition
		txn.Quantity = in.Quantity
		txn.QuantityBefore = before
		txn.QuantityAfter = item.Quantity
		txn.UnitPrice = in.UnitPrice
		txn.Notes = in.Notes
		return txns.Create(ctx, txn)
	})
	if err != nil {
		return nil, err
	}

	e.logApplied(txn)
	e.notifier.StockMovement(ctx, txn)
	return txn, nil
}
