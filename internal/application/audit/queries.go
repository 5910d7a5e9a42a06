package audit

import (
	"context"
	"fmt"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
)

// Read paths run in their own short transaction; they never touch the
// cursor.

// Get fetches one audit.
func (e *Engine) Get(ctx context.Context, auditID string) (*entity.Audit, error) {
	var out *entity.Audit
	err := e.tx.RunAudit(ctx, func(
		audits repository.AuditRepository,
		_ repository.ItemRepository,
		_ repository.TransactionRepository,
		_ repository.SequenceRepository,
	) error {
		a, err := audits.GetByID(ctx, auditID)
		if err != nil {
			return fmt.Errorf("get audit: %w", err)
		}
		if a == nil {
			return fmt.Errorf("%w: audit %s", domain.ErrNotFound, auditID)
		}
		out = a
		return nil
	})
	return out, err
}

// List returns sessions newest first.
func (e *Engine) List(ctx context.Context, limit, offset int) ([]*entity.Audit, error) {
	var out []*entity.Audit
	err := e.tx.RunAudit(ctx, func(
		audits repository.AuditRepository,
		_ repository.ItemRepository,
		_ repository.TransactionRepository,
		_ repository.SequenceRepository,
	) error {
		list, err := audits.List(ctx, limit, offset)
		if err != nil {
			return fmt.Errorf("list audits: %w", err)
		}
		out = list
		return nil
	})
	return out, err
}

// ListItems returns the counted lines of a session in count order.
func (e *Engine) ListItems(ctx context.Context, auditID string) ([]*entity.AuditItem, error) {
	var out []*entity.AuditItem
	err := e.tx.RunAudit(ctx, func(
		audits repository.AuditRepository,
		_ repository.ItemRepository,
		_ repository.TransactionRepository,
		_ repository.SequenceRepository,
	) error {
		a, err := audits.GetByID(ctx, auditID)
		if err != nil {
			return fmt.Errorf("get audit: %w", err)
		}
		if a == nil {
			return fmt.Errorf("%w: audit %s", domain.ErrNotFound, auditID)
		}
		list, err := audits.ListItems(ctx, auditID)
		if err != nil {
			return fmt.Errorf("list audit items: %w", err)
		}
		out = list
		return nil
	})
	return out, err
}
