package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
)

// TransactionFilter narrows ledger listings for the reporting side.
type TransactionFilter struct {
	Type   string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// TransactionRepository is the append-only persistence port for the stock
// ledger. Rows are immutable: there is no update or delete.
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	// SumReturnedQuantity totals the quantities of RETURN transactions whose
	// origin is the given OUT transaction.
	SumReturnedQuantity(ctx context.Context, originTxnID string) (decimal.Decimal, error)
	ListByItem(ctx context.Context, itemID string, filter TransactionFilter) ([]*entity.Transaction, error)
}
