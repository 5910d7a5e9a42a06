package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `
	id, code, name, barcode, category_id, location_id, unit,
	quantity, qty_new, qty_used, qty_refurbished, qty_import,
	min_quantity, unit_price, total_value, active, version, created_at, updated_at`

// ItemRepo is the PostgreSQL adapter for items. Works with a pool or a tx
// (Querier).
type ItemRepo struct {
	q Querier
}

// NewItemRepository builds the adapter.
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var (
		i       entity.Item
		barcode *string
	)
	err := row.Scan(
		&i.ID, &i.Code, &i.Name, &barcode, &i.CategoryID, &i.LocationID, &i.Unit,
		&i.Quantity, &i.QtyNew, &i.QtyUsed, &i.QtyRefurbished, &i.QtyImport,
		&i.MinQuantity, &i.UnitPrice, &i.TotalValue, &i.Active, &i.Version,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	if barcode != nil {
		i.Barcode = *barcode
	}
	return &i, nil
}

// GetByID returns the item or nil when unknown.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
}

// GetByCode returns the item with the given code or nil.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	return scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE code = $1`, code))
}

// GetByBarcode returns the item with the given barcode or nil.
func (r *ItemRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Item, error) {
	return scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE barcode = $1`, barcode))
}

// GetForUpdate locks the item row for the enclosing transaction.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id))
}

// Update writes the mutable fields guarded by the optimistic version. A
// stale version yields *domain.ConcurrencyConflictError.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE items SET
			location_id = $1, quantity = $2,
			qty_new = $3, qty_used = $4, qty_refurbished = $5, qty_import = $6,
			min_quantity = $7, unit_price = $8, total_value = $9, active = $10,
			version = version + 1, updated_at = now()
		WHERE id = $11 AND version = $12`,
		item.LocationID, item.Quantity,
		item.QtyNew, item.QtyUsed, item.QtyRefurbished, item.QtyImport,
		item.MinQuantity, item.UnitPrice, item.TotalValue, item.Active,
		item.ID, item.Version,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.ConcurrencyConflictError{ItemID: item.ID}
	}
	item.Version++
	return nil
}

// ListActiveIDs returns ids of active items matching the filter, ordered by
// code for a stable audit walk.
func (r *ItemRepo) ListActiveIDs(ctx context.Context, filter repository.ItemFilter) ([]string, error) {
	query := `SELECT id FROM items WHERE active`
	args := []any{}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.LocationID != "" {
		args = append(args, filter.LocationID)
		query += fmt.Sprintf(" AND location_id = $%d", len(args))
	}
	query += " ORDER BY code"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active items: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan item id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MaxCodeSequence returns the highest numeric suffix among codes of the form
// {prefix}-{digits}, 0 when none exist.
func (r *ItemRepo) MaxCodeSequence(ctx context.Context, prefix string) (int64, error) {
	var max int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(MAX(split_part(code, '-', 2)::BIGINT), 0)
		FROM items
		WHERE code LIKE $1 || '-%' AND split_part(code, '-', 2) ~ '^[0-9]+$'`,
		prefix,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max code sequence: %w", err)
	}
	return max, nil
}
