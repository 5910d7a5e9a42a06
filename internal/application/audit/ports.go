package audit

import (
	"context"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
)

// TxRunner executes a function inside one database transaction with the
// repositories the reconciliation engine needs bound to it.
type TxRunner interface {
	RunAudit(ctx context.Context, fn func(
		audits repository.AuditRepository,
		items repository.ItemRepository,
		txns repository.TransactionRepository,
		seqs repository.SequenceRepository,
	) error) error
}

// Notifier receives fire-and-forget audit events. Delivery failure never
// rolls back the audit.
type Notifier interface {
	AuditCompleted(ctx context.Context, audit *entity.Audit)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) AuditCompleted(context.Context, *entity.Audit) {}
