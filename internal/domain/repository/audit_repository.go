package repository

import (
	"context"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
)

// AuditRepository persists count sessions and their counted lines. Audit
// headers are mutable while IN_PROGRESS (cursor, counters, status);
// AuditItems are written once and only their adjustment marker is ever set.
type AuditRepository interface {
	Create(ctx context.Context, audit *entity.Audit) error
	GetByID(ctx context.Context, id string) (*entity.Audit, error)
	// GetForUpdate locks the audit row for the enclosing transaction.
	GetForUpdate(ctx context.Context, id string) (*entity.Audit, error)
	Update(ctx context.Context, audit *entity.Audit) error
	List(ctx context.Context, limit, offset int) ([]*entity.Audit, error)

	CreateItem(ctx context.Context, item *entity.AuditItem) error
	ListItems(ctx context.Context, auditID string) ([]*entity.AuditItem, error)
	// ListUnadjustedDiscrepancies returns discrepant lines whose corrective
	// ADJUST transaction has not been written yet.
	ListUnadjustedDiscrepancies(ctx context.Context, auditID string) ([]*entity.AuditItem, error)
	// MarkItemAdjusted stamps the adjustment transaction id on an audit line,
	// but only if no other apply got there first. Returns false when the line
	// was already adjusted.
	MarkItemAdjusted(ctx context.Context, auditItemID, txnID string) (bool, error)
}
