package stock

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
)

// IssueInput describes a stock issue to an employee, a piece of equipment, a
// project or another destination.
type IssueInput struct {
	ItemID      string
	Condition   entity.Condition
	Quantity    decimal.Decimal
	Correlation Correlation
	Notes       string
	CreatedBy   string
}

// ApplyIssue draws quantity out of an item. The availability check runs
// against the selected condition bucket for partitioned items and against
// the aggregate for legacy unpartitioned ones; a would-be-negative issue is
// rejected with InsufficientStockError and leaves state untouched.
func (e *Engine) ApplyIssue(ctx context.Context, in IssueInput) (*entity.Transaction, error) {
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: issue quantity must be positive", domain.ErrValidation)
	}
	if !in.Condition.Valid() {
		return nil, fmt.Errorf("%w: unknown condition %q", domain.ErrValidation, in.Condition)
	}

	var (
		txn     *entity.Transaction
		low     bool
		lowItem entity.Item
	)
	err := e.tx.Run(ctx, func(
		items repository.ItemRepository,
		txns repository.TransactionRepository,
		seqs repository.SequenceRepository,
	) error {
		item, err := lockItem(ctx, items, in.ItemID)
		if err != nil {
			return err
		}

		available := item.AvailableFor(in.Condition)
		if in.Quantity.GreaterThan(available) {
			return &domain.InsufficientStockError{
				ItemID:    item.ID,
				Condition: string(in.Condition),
				Requested: in.Quantity,
				Available: available,
			}
		}

		before := item.Quantity
		applyBucketDelta(item, in.Condition, in.Quantity.Neg())
		item.Quantity = item.Quantity.Sub(in.Quantity)
		if err := commitItem(ctx, items, item); err != nil {
			return err
		}

		number, err := e.numbering.WithSequences(seqs).NextTransactionNumber(ctx, entity.TransactionTypeOUT)
		if err != nil {
			return err
		}
		txn = e.newTransaction(item.ID, entity.TransactionTypeOUT, number, in.CreatedBy)
		txn.Condition = in.Condition
		txn.Quantity = in.Quantity
		txn.QuantityBefore = before
		txn.QuantityAfter = item.Quantity
		txn.UnitPrice = item.UnitPrice
		txn.EmployeeID = in.Correlation.EmployeeID
		txn.EquipmentID = in.Correlation.EquipmentID
		txn.ProjectID = in.Correlation.ProjectID
		txn.ToLocationID = in.Correlation.ToLocationID
		txn.Notes = in.Notes
		if err := txns.Create(ctx, txn); err != nil {
			return err
		}

		if item.MinQuantity.IsPositive() && item.Quantity.LessThanOrEqual(item.MinQuantity) {
			low = true
			lowItem = *item
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logApplied(txn)
	e.notifier.StockMovement(ctx, txn)
	if low {
		e.notifier.LowStock(ctx, &lowItem)
	}
	return txn, nil
}
