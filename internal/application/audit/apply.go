package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/stock"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
)

// errLineAlreadyAdjusted aborts a per-line transaction when a concurrent or
// earlier apply already wrote the corrective transaction for that line.
var errLineAlreadyAdjusted = errors.New("audit line already adjusted")

// Apply reconciles every discrepant counted line by overwriting the item's
// quantity with the counted value and committing one ADJUST transaction per
// line. It requires the walk to be exhausted and the audit IN_PROGRESS;
// double apply and apply-after-cancel fail with InvalidAuditStateError.
//
// No lock spans the whole reconciliation: each line runs in its own short
// transaction (item row lock + ADJUST insert + line marker), so an apply
// interrupted midway resumes without duplicating adjustments.
func (e *Engine) Apply(ctx context.Context, auditID string, appliedBy string) (*entity.Audit, error) {
	var (
		audit *entity.Audit
		lines []*entity.AuditItem
	)
	err := e.tx.RunAudit(ctx, func(
		audits repository.AuditRepository,
		_ repository.ItemRepository,
		_ repository.TransactionRepository,
		_ repository.SequenceRepository,
	) error {
		var err error
		audit, err = e.lockInProgress(ctx, audits, auditID, "apply")
		if err != nil {
			return err
		}
		if !audit.Exhausted() {
			return &domain.InvalidAuditStateError{
				AuditID: audit.ID, Status: audit.Status,
				Reason: fmt.Sprintf("walk not finished: %d of %d items visited", audit.NextIndex, len(audit.ItemIDs)),
			}
		}
		lines, err = audits.ListUnadjustedDiscrepancies(ctx, audit.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	adjusted := 0
	for _, line := range lines {
		if err := e.applyLine(ctx, audit, line, appliedBy); err != nil {
			if errors.Is(err, errLineAlreadyAdjusted) {
				continue
			}
			return nil, fmt.Errorf("apply audit %s item %s: %w", audit.Number, line.ItemCode, err)
		}
		adjusted++
	}

	err = e.tx.RunAudit(ctx, func(
		audits repository.AuditRepository,
		_ repository.ItemRepository,
		_ repository.TransactionRepository,
		_ repository.SequenceRepository,
	) error {
		var err error
		audit, err = e.lockInProgress(ctx, audits, auditID, "complete")
		if err != nil {
			return err
		}
		audit.Status = entity.AuditStatusCompleted
		audit.UpdatedAt = time.Now()
		return audits.Update(ctx, audit)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("audit", audit.Number).
		Int("adjusted", adjusted).
		Int("items_with_diff", audit.ItemsWithDiff).
		Msg("audit applied")
	e.notifier.AuditCompleted(ctx, audit)
	return audit, nil
}

// applyLine runs one per-item atomic section: overwrite the quantity through
// the stock engine and stamp the line, or back out entirely.
func (e *Engine) applyLine(ctx context.Context, audit *entity.Audit, line *entity.AuditItem, appliedBy string) error {
	return e.tx.RunAudit(ctx, func(
		audits repository.AuditRepository,
		items repository.ItemRepository,
		txns repository.TransactionRepository,
		seqs repository.SequenceRepository,
	) error {
		// The audit may have been cancelled between the opening transaction
		// and this line; adjustments only land under an IN_PROGRESS audit.
		if _, err := e.lockInProgress(ctx, audits, audit.ID, "apply"); err != nil {
			return err
		}
		txn, err := e.stock.AdjustInTx(ctx, items, txns, seqs, stock.AdjustmentInput{
			ItemID:         line.ItemID,
			TargetQuantity: line.ActualQuantity,
			Notes:          "physical count " + audit.Number,
			CreatedBy:      appliedBy,
		})
		if err != nil {
			return err
		}
		txnID := entity.AdjustmentNone // item already at the counted value
		if txn != nil {
			txnID = txn.ID
		}
		ok, err := audits.MarkItemAdjusted(ctx, line.ID, txnID)
		if err != nil {
			return err
		}
		if !ok {
			return errLineAlreadyAdjusted
		}
		return nil
	})
}
