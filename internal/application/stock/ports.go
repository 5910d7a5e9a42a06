package stock

import (
	"context"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
)

// TxRunner executes a function inside one database transaction, handing it
// repositories bound to that transaction. It guarantees the item update and
// the ledger insert commit together or not at all.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.ItemRepository,
		txns repository.TransactionRepository,
		seqs repository.SequenceRepository,
	) error) error
}

// Notifier receives fire-and-forget events after a mutation commits.
// Implementations must never fail the mutation: delivery errors are theirs to
// swallow and log.
type Notifier interface {
	StockMovement(ctx context.Context, txn *entity.Transaction)
	LowStock(ctx context.Context, item *entity.Item)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) StockMovement(context.Context, *entity.Transaction) {}
func (NopNotifier) LowStock(context.Context, *entity.Item)             {}
