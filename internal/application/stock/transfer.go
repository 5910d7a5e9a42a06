package stock

import (
	"context"
	"fmt"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
)

// TransferInput relocates an item to another storage location.
type TransferInput struct {
	ItemID       string
	ToLocationID string
	Notes        string
	CreatedBy    string
}

// ApplyTransfer moves the item's entire current quantity to the destination
// location. Partial transfers are not representable; the documented
// workaround is issue-then-receive at the new location. Transferring to the
// current location fails with ErrLocationUnchanged; an empty item cannot be
// transferred.
func (e *Engine) ApplyTransfer(ctx context.Context, in TransferInput) (*entity.Transaction, error) {
	if in.ToLocationID == "" {
		return nil, fmt.Errorf("%w: destination location required", domain.ErrValidation)
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
		if item.LocationID == in.ToLocationID {
			return domain.ErrLocationUnchanged
		}
		// Ledger quantities are positive magnitudes; an empty item has
		// nothing to move.
		if !item.Quantity.IsPositive() {
			return fmt.Errorf("%w: item %s has no stock to transfer", domain.ErrValidation, item.Code)
		}

		from := item.LocationID
		item.LocationID = in.ToLocationID
		if err := commitItem(ctx, items, item); err != nil {
			return err
		}

		number, err := e.numbering.WithSequences(seqs).NextTransactionNumber(ctx, entity.TransactionTypeTRANSFER)
		if err != nil {
			return err
		}
		txn = e.newTransaction(item.ID, entity.TransactionTypeTRANSFER, number, in.CreatedBy)
		txn.Quantity = item.Quantity // full quantity at the moment of transfer
		txn.QuantityBefore = item.Quantity
		txn.QuantityAfter = item.Quantity
		txn.UnitPrice = item.UnitPrice
		txn.FromLocationID = from
		txn.ToLocationID = in.ToLocationID
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
