package numbering_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/numbering"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/infrastructure/memory"
)

func fixedClock() func() time.Time {
	at := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestNextTransactionNumber_FormatAndSequence(t *testing.T) {
	store := memory.NewStore()
	svc := numbering.New(store.Sequences()).WithClock(fixedClock())
	ctx := context.Background()

	n1, err := svc.NextTransactionNumber(ctx, entity.TransactionTypeIN)
	require.NoError(t, err)
	n2, err := svc.NextTransactionNumber(ctx, entity.TransactionTypeIN)
	require.NoError(t, err)

	assert.Equal(t, "IN-20250315-0001", n1)
	assert.Equal(t, "IN-20250315-0002", n2)
}

func TestNextTransactionNumber_CountersIndependentPerType(t *testing.T) {
	store := memory.NewStore()
	svc := numbering.New(store.Sequences()).WithClock(fixedClock())
	ctx := context.Background()

	_, err := svc.NextTransactionNumber(ctx, entity.TransactionTypeIN)
	require.NoError(t, err)
	out, err := svc.NextTransactionNumber(ctx, entity.TransactionTypeOUT)
	require.NoError(t, err)

	assert.Equal(t, "OUT-20250315-0001", out, "each type counts from one")
}

func TestNextTransactionNumber_RejectsUnknownType(t *testing.T) {
	store := memory.NewStore()
	svc := numbering.New(store.Sequences())

	_, err := svc.NextTransactionNumber(context.Background(), "SIDEWAYS")
	assert.Error(t, err)
}

func TestNextAuditNumber_Format(t *testing.T) {
	store := memory.NewStore()
	svc := numbering.New(store.Sequences()).WithClock(fixedClock())

	n, err := svc.NextAuditNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AUD-20250315-0001", n)
}

func TestNextItemCode_SeedsFromExistingCodes(t *testing.T) {
	store := memory.NewStore()
	store.SeedItem(&entity.Item{ID: "a", Code: "REP-00041", Quantity: decimal.Zero, Active: true})
	svc := numbering.New(store.Sequences())

	code, err := svc.NextItemCode(context.Background(), "REP", store.Items())
	require.NoError(t, err)
	assert.Equal(t, "REP-00042", code, "counter must continue above pre-existing codes")

	code, err = svc.NextItemCode(context.Background(), "REP", store.Items())
	require.NoError(t, err)
	assert.Equal(t, "REP-00043", code)
}

func TestNextItemCode_EmptyPrefixRejected(t *testing.T) {
	store := memory.NewStore()
	svc := numbering.New(store.Sequences())

	_, err := svc.NextItemCode(context.Background(), "", store.Items())
	assert.Error(t, err)
}
