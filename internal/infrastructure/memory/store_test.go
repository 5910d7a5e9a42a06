package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/infrastructure/memory"
)

func seedTransactions(t *testing.T, store *memory.Store, itemID string, n int) {
	t.Helper()
	err := store.Run(context.Background(), func(
		_ repository.ItemRepository,
		txns repository.TransactionRepository,
		_ repository.SequenceRepository,
	) error {
		for i := 0; i < n; i++ {
			txn := &entity.Transaction{
				ID:              fmt.Sprintf("txn-%03d", i),
				Number:          fmt.Sprintf("IN-20250101-%04d", i+1),
				ItemID:          itemID,
				Type:            entity.TransactionTypeIN,
				Quantity:        decimal.NewFromInt(1),
				TransactionDate: time.Now(),
				CreatedBy:       "tester",
			}
			if err := txns.Create(context.Background(), txn); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestListByItem_UnsetLimitPagesAtFifty(t *testing.T) {
	store := memory.NewStore()
	seedTransactions(t, store, "item-1", 60)
	ctx := context.Background()

	page, err := store.Transactions().ListByItem(ctx, "item-1", repository.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, page, 50, "an unset limit pages at 50, same as the postgres repository")
	assert.Equal(t, "txn-059", page[0].ID, "newest first")

	rest, err := store.Transactions().ListByItem(ctx, "item-1", repository.TransactionFilter{
		Limit: 10, Offset: 55,
	})
	require.NoError(t, err)
	assert.Len(t, rest, 5)
}
