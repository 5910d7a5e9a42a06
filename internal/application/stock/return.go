package stock

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
)

// ReturnInput reverses part of a previously issued OUT transaction.
type ReturnInput struct {
	OriginTransactionID string
	Quantity            decimal.Decimal
	Notes               string
	CreatedBy           string
}

// ApplyReturn books quantity back into the item the originating OUT drew
// from. Multiple partial returns against the same OUT are permitted, but
// their sum can never exceed the OUT's quantity; the remaining returnable
// balance is computed under the item row lock so concurrent returns cannot
// both slip under the bound.
func (e *Engine) ApplyReturn(ctx context.Context, in ReturnInput) (*entity.Transaction, error) {
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: return quantity must be positive", domain.ErrValidation)
	}
	if in.OriginTransactionID == "" {
		return nil, fmt.Errorf("%w: origin transaction required", domain.ErrValidation)
	}

	var txn *entity.Transaction
	err := e.tx.Run(ctx, func(
		items repository.ItemRepository,
		txns repository.TransactionRepository,
		seqs repository.SequenceRepository,
	) error {
		origin, err := txns.GetByID(ctx, in.OriginTransactionID)
		if err != nil {
			return err
		}
		if origin == nil {
			return domain.ErrNotFound
		}
		if origin.Type != entity.TransactionTypeOUT {
			return fmt.Errorf("%w: transaction %s is %s, only OUT transactions can be returned",
				domain.ErrValidation, origin.Number, origin.Type)
		}

		item, err := lockItem(ctx, items, origin.ItemID)
		if err != nil {
			return err
		}

		alreadyReturned, err := txns.SumReturnedQuantity(ctx, origin.ID)
		if err != nil {
			return err
		}
		returnable := origin.Quantity.Sub(alreadyReturned)
		if in.Quantity.GreaterThan(returnable) {
			return &domain.OverReturnError{
				OriginTransactionID: origin.ID,
				Requested:           in.Quantity,
				Returnable:          returnable,
			}
		}

		before := item.Quantity
		applyBucketDelta(item, origin.Condition, in.Quantity)
		item.Quantity = item.Quantity.Add(in.Quantity)
		if err := commitItem(ctx, items, item); err != nil {
			return err
		}

		number, err := e.numbering.WithSequences(seqs).NextTransactionNumber(ctx, entity.TransactionTypeRETURN)
		if err != nil {
			return err
		}
		txn = e.newTransaction(item.ID, entity.TransactionTypeRETURN, number, in.CreatedBy)
		txn.Condition = origin.Condition
		txn.Quantity = in.Quantity
		txn.QuantityBefore = before
		txn.QuantityAfter = item.Quantity
		txn.UnitPrice = item.UnitPrice
		txn.OriginTxnID = origin.ID
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
