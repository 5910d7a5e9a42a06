// Package audit implements the physical-count reconciliation engine: a
// persisted state machine that walks a snapshot of items, records counted
// quantities against the system quantities observed at presentation time,
// and finally writes corrective ADJUST transactions through the stock
// engine.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/numbering"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/stock"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/pkg/logger"
)

// Engine orchestrates count sessions. All cursor state lives on the Audit
// row, so an interrupted session resumes exactly where it stopped; nothing is
// held in process memory between calls.
type Engine struct {
	tx        TxRunner
	stock     *stock.Engine
	numbering *numbering.Service
	notifier  Notifier
	log       *logger.Logger
}

// NewEngine builds the reconciliation engine. A nil notifier disables events.
func NewEngine(tx TxRunner, stockEngine *stock.Engine, numbering *numbering.Service, notifier Notifier, log *logger.Logger) *Engine {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Engine{tx: tx, stock: stockEngine, numbering: numbering, notifier: notifier, log: log}
}

// StartInput opens a count session over a scope.
type StartInput struct {
	Type       string // FULL, CATEGORY, LOCATION, SINGLE_ITEM
	CategoryID string // CATEGORY scope
	LocationID string // LOCATION scope
	ItemID     string // SINGLE_ITEM scope
	CreatedBy  string
}

// Start resolves the ordered item snapshot for the scope and creates the
// audit in IN_PROGRESS with its cursor at the first item.
func (e *Engine) Start(ctx context.Context, in StartInput) (*entity.Audit, error) {
	var filter repository.ItemFilter
	switch in.Type {
	case entity.AuditTypeFull:
	case entity.AuditTypeCategory:
		if in.CategoryID == "" {
			return nil, fmt.Errorf("%w: category scope requires a category id", domain.ErrValidation)
		}
		filter.CategoryID = in.CategoryID
	case entity.AuditTypeLocation:
		if in.LocationID == "" {
			return nil, fmt.Errorf("%w: location scope requires a location id", domain.ErrValidation)
		}
		filter.LocationID = in.LocationID
	case entity.AuditTypeSingleItem:
		if in.ItemID == "" {
			return nil, fmt.Errorf("%w: single-item scope requires an item id", domain.ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: unknown audit type %q", domain.ErrValidation, in.Type)
	}

	var audit *entity.Audit
	err := e.tx.RunAudit(ctx, func(
		audits repository.AuditRepository,
		items repository.ItemRepository,
		_ repository.TransactionRepository,
		seqs repository.SequenceRepository,
	) error {
		var (
			ids []string
			err error
		)
		if in.Type == entity.AuditTypeSingleItem {
			item, err := items.GetByID(ctx, in.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}
			ids = []string{item.ID}
		} else {
			ids, err = items.ListActiveIDs(ctx, filter)
			if err != nil {
				return err
			}
		}

		number, err := e.numbering.WithSequences(seqs).NextAuditNumber(ctx)
		if err != nil {
			return err
		}
		now := time.Now()
		audit = &entity.Audit{
			ID:            uuid.New().String(),
			Number:        number,
			Type:          in.Type,
			CategoryID:    in.CategoryID,
			LocationID:    in.LocationID,
			Status:        entity.AuditStatusInProgress,
			ItemIDs:       ids,
			TotalItems:    len(ids),
			TotalShortage: decimal.Zero,
			TotalSurplus:  decimal.Zero,
			CreatedBy:     in.CreatedBy,
			AuditDate:     now,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		return audits.Create(ctx, audit)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("audit", audit.Number).
		Str("type", audit.Type).
		Int("total_items", audit.TotalItems).
		Msg("audit started")
	return audit, nil
}

// NextItem presents the next item of the walk to the counter and binds the
// system quantity observed right now; the later count is compared against
// this observation, never a re-read. Re-invoking without counting or
// skipping re-presents the same item with the originally bound quantity.
// Returns a nil item when the walk is exhausted.
func (e *Engine) NextItem(ctx context.Context, auditID string) (*entity.Item, *entity.Audit, error) {
	var (
		audit *entity.Audit
		item  *entity.Item
	)
	err := e.tx.RunAudit(ctx, func(
		audits repository.AuditRepository,
		items repository.ItemRepository,
		_ repository.TransactionRepository,
		_ repository.SequenceRepository,
	) error {
		var err error
		audit, err = e.lockInProgress(ctx, audits, auditID, "present next item")
		if err != nil {
			return err
		}

		// Resume: an item was presented but neither counted nor skipped.
		if audit.CurrentItemID != "" {
			item, err = items.GetByID(ctx, audit.CurrentItemID)
			return err
		}

		// Items deactivated between snapshot and presentation drop out of
		// the walk silently.
		for audit.NextIndex < len(audit.ItemIDs) {
			candidate, err := items.GetByID(ctx, audit.ItemIDs[audit.NextIndex])
			if err != nil {
				return err
			}
			audit.NextIndex++
			if candidate == nil || !candidate.Active {
				continue
			}
			item = candidate
			audit.CurrentItemID = candidate.ID
			audit.CurrentSystemQty = candidate.Quantity
			break
		}
		audit.UpdatedAt = time.Now()
		return audits.Update(ctx, audit)
	})
	if err != nil {
		return nil, nil, err
	}
	return item, audit, nil
}

// RecordCount stores the physically counted quantity for the presented item,
// classifies the discrepancy against the bound system quantity and advances
// the walk. The AuditItem is immutable once written.
func (e *Engine) RecordCount(ctx context.Context, auditID, itemID string, actual decimal.Decimal) (*entity.AuditItem, error) {
	if actual.IsNegative() {
		return nil, fmt.Errorf("%w: counted quantity must not be negative", domain.ErrValidation)
	}

	var line *entity.AuditItem
	err := e.tx.RunAudit(ctx, func(
		audits repository.AuditRepository,
		items repository.ItemRepository,
		_ repository.TransactionRepository,
		_ repository.SequenceRepository,
	) error {
		audit, err := e.lockInProgress(ctx, audits, auditID, "record count")
		if err != nil {
			return err
		}
		if audit.CurrentItemID == "" {
			return &domain.InvalidAuditStateError{
				AuditID: audit.ID, Status: audit.Status,
				Reason: "no item presented; call next first",
			}
		}
		if itemID != audit.CurrentItemID {
			return fmt.Errorf("%w: count is for item %s but %s is presented",
				domain.ErrValidation, itemID, audit.CurrentItemID)
		}

		item, err := items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		diff := actual.Sub(audit.CurrentSystemQty)
		line = &entity.AuditItem{
			ID:              uuid.New().String(),
			AuditID:         audit.ID,
			ItemID:          item.ID,
			ItemCode:        item.Code,
			ItemName:        item.Name,
			SystemQuantity:  audit.CurrentSystemQty,
			ActualQuantity:  actual,
			Difference:      diff,
			HasDiscrepancy:  !diff.IsZero(),
			DiscrepancyType: entity.ClassifyDifference(diff),
			CreatedAt:       time.Now(),
		}
		if err := audits.CreateItem(ctx, line); err != nil {
			return err
		}

		audit.ItemsChecked++
		switch line.DiscrepancyType {
		case entity.DiscrepancySurplus:
			audit.ItemsWithDiff++
			audit.TotalSurplus = audit.TotalSurplus.Add(diff)
		case entity.DiscrepancyShortage:
			audit.ItemsWithDiff++
			audit.TotalShortage = audit.TotalShortage.Add(diff.Abs())
		}
		audit.CurrentItemID = ""
		audit.CurrentSystemQty = decimal.Zero
		audit.UpdatedAt = time.Now()
		return audits.Update(ctx, audit)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// Skip advances the walk past the presented item without recording a count;
// the skipped item is excluded from itemsChecked and from adjustment.
func (e *Engine) Skip(ctx context.Context, auditID string) (*entity.Audit, error) {
	var audit *entity.Audit
	err := e.tx.RunAudit(ctx, func(
		audits repository.AuditRepository,
		_ repository.ItemRepository,
		_ repository.TransactionRepository,
		_ repository.SequenceRepository,
	) error {
		var err error
		audit, err = e.lockInProgress(ctx, audits, auditID, "skip item")
		if err != nil {
			return err
		}
		switch {
		case audit.CurrentItemID != "":
			audit.CurrentItemID = ""
			audit.CurrentSystemQty = decimal.Zero
		case audit.NextIndex < len(audit.ItemIDs):
			audit.NextIndex++
		default:
			return &domain.InvalidAuditStateError{
				AuditID: audit.ID, Status: audit.Status,
				Reason: "walk already finished",
			}
		}
		audit.UpdatedAt = time.Now()
		return audits.Update(ctx, audit)
	})
	if err != nil {
		return nil, err
	}
	return audit, nil
}

// Cancel terminates an in-progress session without touching any item.
// Recorded AuditItems are retained as history only.
func (e *Engine) Cancel(ctx context.Context, auditID string) (*entity.Audit, error) {
	var audit *entity.Audit
	err := e.tx.RunAudit(ctx, func(
		audits repository.AuditRepository,
		_ repository.ItemRepository,
		_ repository.TransactionRepository,
		_ repository.SequenceRepository,
	) error {
		var err error
		audit, err = e.lockInProgress(ctx, audits, auditID, "cancel")
		if err != nil {
			return err
		}
		audit.Status = entity.AuditStatusCancelled
		audit.CurrentItemID = ""
		audit.CurrentSystemQty = decimal.Zero
		audit.UpdatedAt = time.Now()
		return audits.Update(ctx, audit)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().Str("audit", audit.Number).Msg("audit cancelled")
	return audit, nil
}

// lockInProgress fetches the audit under a row lock and rejects terminal
// states: COMPLETED and CANCELLED admit no further transitions.
func (e *Engine) lockInProgress(ctx context.Context, audits repository.AuditRepository, auditID, op string) (*entity.Audit, error) {
	audit, err := audits.GetForUpdate(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if audit == nil {
		return nil, domain.ErrNotFound
	}
	if audit.Status != entity.AuditStatusInProgress {
		return nil, &domain.InvalidAuditStateError{AuditID: audit.ID, Status: audit.Status, Reason: op + " requires IN_PROGRESS"}
	}
	return audit, nil
}
