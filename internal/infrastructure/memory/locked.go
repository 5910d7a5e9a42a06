package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
)

// The locked* wrappers take the store mutex per call so read paths outside a
// transaction see consistent state.

type lockedItemRepo struct{ s *Store }

func (r *lockedItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&itemRepo{r.s.st}).GetByID(ctx, id)
}

func (r *lockedItemRepo) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&itemRepo{r.s.st}).GetByCode(ctx, code)
}

func (r *lockedItemRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&itemRepo{r.s.st}).GetByBarcode(ctx, barcode)
}

func (r *lockedItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&itemRepo{r.s.st}).GetForUpdate(ctx, id)
}

func (r *lockedItemRepo) Update(ctx context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&itemRepo{r.s.st}).Update(ctx, item)
}

func (r *lockedItemRepo) ListActiveIDs(ctx context.Context, filter repository.ItemFilter) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&itemRepo{r.s.st}).ListActiveIDs(ctx, filter)
}

func (r *lockedItemRepo) MaxCodeSequence(ctx context.Context, prefix string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&itemRepo{r.s.st}).MaxCodeSequence(ctx, prefix)
}

type lockedTxnRepo struct{ s *Store }

func (r *lockedTxnRepo) Create(ctx context.Context, t *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&txnRepo{r.s.st}).Create(ctx, t)
}

func (r *lockedTxnRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&txnRepo{r.s.st}).GetByID(ctx, id)
}

func (r *lockedTxnRepo) SumReturnedQuantity(ctx context.Context, originTxnID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&txnRepo{r.s.st}).SumReturnedQuantity(ctx, originTxnID)
}

func (r *lockedTxnRepo) ListByItem(ctx context.Context, itemID string, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&txnRepo{r.s.st}).ListByItem(ctx, itemID, filter)
}

type lockedAuditRepo struct{ s *Store }

func (r *lockedAuditRepo) Create(ctx context.Context, a *entity.Audit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&auditRepo{r.s.st}).Create(ctx, a)
}

func (r *lockedAuditRepo) GetByID(ctx context.Context, id string) (*entity.Audit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&auditRepo{r.s.st}).GetByID(ctx, id)
}

func (r *lockedAuditRepo) GetForUpdate(ctx context.Context, id string) (*entity.Audit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&auditRepo{r.s.st}).GetForUpdate(ctx, id)
}

func (r *lockedAuditRepo) Update(ctx context.Context, a *entity.Audit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&auditRepo{r.s.st}).Update(ctx, a)
}

func (r *lockedAuditRepo) List(ctx context.Context, limit, offset int) ([]*entity.Audit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&auditRepo{r.s.st}).List(ctx, limit, offset)
}

func (r *lockedAuditRepo) CreateItem(ctx context.Context, it *entity.AuditItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&auditRepo{r.s.st}).CreateItem(ctx, it)
}

func (r *lockedAuditRepo) ListItems(ctx context.Context, auditID string) ([]*entity.AuditItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&auditRepo{r.s.st}).ListItems(ctx, auditID)
}

func (r *lockedAuditRepo) ListUnadjustedDiscrepancies(ctx context.Context, auditID string) ([]*entity.AuditItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&auditRepo{r.s.st}).ListUnadjustedDiscrepancies(ctx, auditID)
}

func (r *lockedAuditRepo) MarkItemAdjusted(ctx context.Context, auditItemID, txnID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&auditRepo{r.s.st}).MarkItemAdjusted(ctx, auditItemID, txnID)
}

type lockedSeqRepo struct{ s *Store }

func (r *lockedSeqRepo) Next(ctx context.Context, key string, seed int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&seqRepo{r.s.st}).Next(ctx, key, seed)
}
