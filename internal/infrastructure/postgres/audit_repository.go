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

var _ repository.AuditRepository = (*AuditRepo)(nil)

const auditColumns = `
	id, number, type, category_id, location_id, status, item_ids, next_index,
	current_item_id, current_system_qty, total_items, items_checked,
	items_with_diff, total_shortage, total_surplus, created_by, audit_date,
	created_at, updated_at`

const auditItemColumns = `
	id, audit_id, item_id, item_code, item_name, system_quantity,
	actual_quantity, difference, has_discrepancy, discrepancy_type,
	adjustment_txn_id, created_at`

// AuditRepo is the PostgreSQL adapter for count sessions.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository builds the adapter.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create persists a new audit header.
func (r *AuditRepo) Create(ctx context.Context, a *entity.Audit) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO audits (`+auditColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		a.ID, a.Number, a.Type, a.CategoryID, a.LocationID, a.Status,
		a.ItemIDs, a.NextIndex, a.CurrentItemID, a.CurrentSystemQty,
		a.TotalItems, a.ItemsChecked, a.ItemsWithDiff,
		a.TotalShortage, a.TotalSurplus, a.CreatedBy, a.AuditDate,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: audit number %s", domain.ErrDuplicate, a.Number)
		}
		return fmt.Errorf("create audit: %w", err)
	}
	return nil
}

func scanAudit(row pgx.Row) (*entity.Audit, error) {
	var a entity.Audit
	err := row.Scan(
		&a.ID, &a.Number, &a.Type, &a.CategoryID, &a.LocationID, &a.Status,
		&a.ItemIDs, &a.NextIndex, &a.CurrentItemID, &a.CurrentSystemQty,
		&a.TotalItems, &a.ItemsChecked, &a.ItemsWithDiff,
		&a.TotalShortage, &a.TotalSurplus, &a.CreatedBy, &a.AuditDate,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan audit: %w", err)
	}
	return &a, nil
}

// GetByID returns the audit or nil.
func (r *AuditRepo) GetByID(ctx context.Context, id string) (*entity.Audit, error) {
	return scanAudit(r.q.QueryRow(ctx, `SELECT `+auditColumns+` FROM audits WHERE id = $1`, id))
}

// GetForUpdate locks the audit row for the enclosing transaction.
func (r *AuditRepo) GetForUpdate(ctx context.Context, id string) (*entity.Audit, error) {
	return scanAudit(r.q.QueryRow(ctx, `SELECT `+auditColumns+` FROM audits WHERE id = $1 FOR UPDATE`, id))
}

// Update persists the mutable audit header fields (cursor, counters,
// status).
func (r *AuditRepo) Update(ctx context.Context, a *entity.Audit) error {
	_, err := r.q.Exec(ctx, `
		UPDATE audits SET
			status = $1, next_index = $2, current_item_id = $3,
			current_system_qty = $4, items_checked = $5, items_with_diff = $6,
			total_shortage = $7, total_surplus = $8, updated_at = $9
		WHERE id = $10`,
		a.Status, a.NextIndex, a.CurrentItemID,
		a.CurrentSystemQty, a.ItemsChecked, a.ItemsWithDiff,
		a.TotalShortage, a.TotalSurplus, a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("update audit: %w", err)
	}
	return nil
}

// List returns audit headers, newest first.
func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]*entity.Audit, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+auditColumns+` FROM audits ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	defer rows.Close()

	var list []*entity.Audit
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// CreateItem persists one counted line.
func (r *AuditRepo) CreateItem(ctx context.Context, it *entity.AuditItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_items (`+auditItemColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		it.ID, it.AuditID, it.ItemID, it.ItemCode, it.ItemName,
		it.SystemQuantity, it.ActualQuantity, it.Difference,
		it.HasDiscrepancy, it.DiscrepancyType, it.AdjustmentTxnID, it.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: item %s already counted in audit %s", domain.ErrDuplicate, it.ItemID, it.AuditID)
		}
		return fmt.Errorf("create audit item: %w", err)
	}
	return nil
}

func scanAuditItem(row pgx.Row) (*entity.AuditItem, error) {
	var it entity.AuditItem
	err := row.Scan(
		&it.ID, &it.AuditID, &it.ItemID, &it.ItemCode, &it.ItemName,
		&it.SystemQuantity, &it.ActualQuantity, &it.Difference,
		&it.HasDiscrepancy, &it.DiscrepancyType, &it.AdjustmentTxnID, &it.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan audit item: %w", err)
	}
	return &it, nil
}

// ListItems returns the counted lines of an audit in count order.
func (r *AuditRepo) ListItems(ctx context.Context, auditID string) ([]*entity.AuditItem, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+auditItemColumns+` FROM audit_items WHERE audit_id = $1 ORDER BY created_at`,
		auditID)
	if err != nil {
		return nil, fmt.Errorf("list audit items: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditItem
	for rows.Next() {
		it, err := scanAuditItem(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// ListUnadjustedDiscrepancies returns discrepant lines not yet reconciled.
func (r *AuditRepo) ListUnadjustedDiscrepancies(ctx context.Context, auditID string) ([]*entity.AuditItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+auditItemColumns+`
		FROM audit_items
		WHERE audit_id = $1 AND has_discrepancy AND adjustment_txn_id = ''
		ORDER BY created_at`,
		auditID)
	if err != nil {
		return nil, fmt.Errorf("list unadjusted discrepancies: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditItem
	for rows.Next() {
		it, err := scanAuditItem(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// MarkItemAdjusted stamps the corrective transaction id on a line, only if
// it has not been stamped before. Returns false when another apply won.
func (r *AuditRepo) MarkItemAdjusted(ctx context.Context, auditItemID, txnID string) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE audit_items SET adjustment_txn_id = $1 WHERE id = $2 AND adjustment_txn_id = ''`,
		txnID, auditItemID)
	if err != nil {
		return false, fmt.Errorf("mark audit item adjusted: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
