package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const txnColumns = `
	id, number, item_id, type, condition, quantity, quantity_before, quantity_after,
	unit_price, from_location_id, to_location_id, origin_txn_id,
	employee_id, equipment_id, project_id, notes, created_by, transaction_date, created_at`

// TransactionRepo is the PostgreSQL adapter for the append-only stock
// ledger. There is deliberately no update or delete.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository builds the adapter.
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create appends one ledger row. A duplicate number surfaces as
// domain.ErrDuplicate.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	var origin *string
	if t.OriginTxnID != "" {
		origin = &t.OriginTxnID
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_transactions (`+txnColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		t.ID, t.Number, t.ItemID, t.Type, string(t.Condition),
		t.Quantity, t.QuantityBefore, t.QuantityAfter,
		t.UnitPrice, t.FromLocationID, t.ToLocationID, origin,
		t.EmployeeID, t.EquipmentID, t.ProjectID, t.Notes, t.CreatedBy,
		t.TransactionDate, t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction number %s", domain.ErrDuplicate, t.Number)
		}
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func scanTxn(row pgx.Row) (*entity.Transaction, error) {
	var (
		t         entity.Transaction
		condition string
		origin    *string
	)
	err := row.Scan(
		&t.ID, &t.Number, &t.ItemID, &t.Type, &condition,
		&t.Quantity, &t.QuantityBefore, &t.QuantityAfter,
		&t.UnitPrice, &t.FromLocationID, &t.ToLocationID, &origin,
		&t.EmployeeID, &t.EquipmentID, &t.ProjectID, &t.Notes, &t.CreatedBy,
		&t.TransactionDate, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	t.Condition = entity.Condition(condition)
	if origin != nil {
		t.OriginTxnID = *origin
	}
	return &t, nil
}

// GetByID returns the ledger row or nil.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	return scanTxn(r.q.QueryRow(ctx, `SELECT `+txnColumns+` FROM stock_transactions WHERE id = $1`, id))
}

// SumReturnedQuantity totals RETURN quantities against one OUT transaction.
func (r *TransactionRepo) SumReturnedQuantity(ctx context.Context, originTxnID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_transactions
		WHERE type = $1 AND origin_txn_id = $2`,
		entity.TransactionTypeRETURN, originTxnID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum returned quantity: %w", err)
	}
	return sum, nil
}

// ListByItem lists an item's ledger, newest first.
func (r *TransactionRepo) ListByItem(ctx context.Context, itemID string, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM stock_transactions WHERE item_id = $1`
	args := []any{itemID}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND transaction_date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND transaction_date <= $%d", len(args))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY transaction_date DESC, created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var list []*entity.Transaction
	for rows.Next() {
		t, err := scanTxn(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
