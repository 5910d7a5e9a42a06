package repository

import (
	"context"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
)

// ItemFilter narrows active-item listings (audit scope resolution).
type ItemFilter struct {
	CategoryID string
	LocationID string
}

// ItemRepository is the persistence port for catalog items. The ledger only
// reads catalog metadata; quantity fields are written through Update under
// per-item serialization.
type ItemRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Item, error)
	// GetForUpdate locks the item row for the duration of the enclosing
	// transaction (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	// Update persists quantities, price, value and location, guarded by the
	// optimistic Version the item was read at. A stale version yields
	// *domain.ConcurrencyConflictError.
	Update(ctx context.Context, item *entity.Item) error
	// ListActiveIDs returns ids of active items matching the filter, ordered
	// by item code.
	ListActiveIDs(ctx context.Context, filter ItemFilter) ([]string, error)
	// MaxCodeSequence returns the highest numeric suffix of existing codes
	// under the given prefix, 0 when none exist.
	MaxCodeSequence(ctx context.Context, prefix string) (int64, error)
}
