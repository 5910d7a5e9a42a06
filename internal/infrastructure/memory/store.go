// Package memory implements the persistence ports on plain maps guarded by
// one mutex. It backs the engine test suites and local development runs
// without a database. Transactions are emulated by snapshotting the state
// before the callback and restoring it when the callback fails, which gives
// the same all-or-nothing semantics the PostgreSQL runner provides.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/audit"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/stock"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
)

var _ stock.TxRunner = (*Store)(nil)
var _ audit.TxRunner = (*Store)(nil)

type state struct {
	items      map[string]*entity.Item
	txns       map[string]*entity.Transaction
	txnOrder   []string
	audits     map[string]*entity.Audit
	auditItems map[string]*entity.AuditItem
	itemOrder  []string // audit item insertion order
	sequences  map[string]int64
}

func newState() *state {
	return &state{
		items:      map[string]*entity.Item{},
		txns:       map[string]*entity.Transaction{},
		audits:     map[string]*entity.Audit{},
		auditItems: map[string]*entity.AuditItem{},
		sequences:  map[string]int64{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, it := range s.items {
		cp := *it
		c.items[id] = &cp
	}
	for id, t := range s.txns {
		cp := *t
		c.txns[id] = &cp
	}
	c.txnOrder = append([]string(nil), s.txnOrder...)
	for id, a := range s.audits {
		cp := *a
		cp.ItemIDs = append([]string(nil), a.ItemIDs...)
		c.audits[id] = &cp
	}
	for id, ai := range s.auditItems {
		cp := *ai
		c.auditItems[id] = &cp
	}
	c.itemOrder = append([]string(nil), s.itemOrder...)
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

// Store holds all entities in memory. The mutex serializes every
// transaction, which trivially satisfies per-item ordering.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{st: newState()}
}

// SeedItem inserts an item directly, bypassing the engines. Catalog
// management owns item creation in production; tests and dev mode seed here.
func (s *Store) SeedItem(item *entity.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *item
	if cp.TotalValue.IsZero() {
		cp.RecalculateTotalValue()
	}
	s.st.items[cp.ID] = &cp
}

// Run implements stock.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(
	items repository.ItemRepository,
	txns repository.TransactionRepository,
	seqs repository.SequenceRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	backup := s.st.clone()
	if err := fn(&itemRepo{s.st}, &txnRepo{s.st}, &seqRepo{s.st}); err != nil {
		s.st = backup
		return err
	}
	return nil
}

// RunAudit implements audit.TxRunner.
func (s *Store) RunAudit(ctx context.Context, fn func(
	audits repository.AuditRepository,
	items repository.ItemRepository,
	txns repository.TransactionRepository,
	seqs repository.SequenceRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	backup := s.st.clone()
	if err := fn(&auditRepo{s.st}, &itemRepo{s.st}, &txnRepo{s.st}, &seqRepo{s.st}); err != nil {
		s.st = backup
		return err
	}
	return nil
}

// Items returns repository access outside a transaction (read paths).
func (s *Store) Items() repository.ItemRepository { return &lockedItemRepo{s} }

// Transactions returns repository access outside a transaction.
func (s *Store) Transactions() repository.TransactionRepository { return &lockedTxnRepo{s} }

// Audits returns repository access outside a transaction.
func (s *Store) Audits() repository.AuditRepository { return &lockedAuditRepo{s} }

// Sequences returns repository access outside a transaction.
func (s *Store) Sequences() repository.SequenceRepository { return &lockedSeqRepo{s} }

// ── item repository ──

type itemRepo struct{ st *state }

func (r *itemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	if it, ok := r.st.items[id]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, nil
}

func (r *itemRepo) GetByCode(_ context.Context, code string) (*entity.Item, error) {
	for _, it := range r.st.items {
		if it.Code == code {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *itemRepo) GetByBarcode(_ context.Context, barcode string) (*entity.Item, error) {
	for _, it := range r.st.items {
		if it.Barcode != "" && it.Barcode == barcode {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	// The store mutex already serializes the whole transaction.
	return r.GetByID(ctx, id)
}

func (r *itemRepo) Update(_ context.Context, item *entity.Item) error {
	current, ok := r.st.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if current.Version != item.Version {
		return &domain.ConcurrencyConflictError{ItemID: item.ID}
	}
	cp := *item
	cp.Version++
	r.st.items[item.ID] = &cp
	item.Version = cp.Version
	return nil
}

func (r *itemRepo) ListActiveIDs(_ context.Context, filter repository.ItemFilter) ([]string, error) {
	type pair struct{ code, id string }
	var pairs []pair
	for _, it := range r.st.items {
		if !it.Active {
			continue
		}
		if filter.CategoryID != "" && it.CategoryID != filter.CategoryID {
			continue
		}
		if filter.LocationID != "" && it.LocationID != filter.LocationID {
			continue
		}
		pairs = append(pairs, pair{it.Code, it.ID})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].code < pairs[j].code })
	ids := make([]string, len(pairs))
	for i, p := range pairs {
		ids[i] = p.id
	}
	return ids, nil
}

func (r *itemRepo) MaxCodeSequence(_ context.Context, prefix string) (int64, error) {
	var max int64
	for _, it := range r.st.items {
		rest, ok := strings.CutPrefix(it.Code, prefix+"-")
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}

// ── transaction repository ──

type txnRepo struct{ st *state }

func (r *txnRepo) Create(_ context.Context, t *entity.Transaction) error {
	for _, existing := range r.st.txns {
		if existing.Number == t.Number {
			return domain.ErrDuplicate
		}
	}
	cp := *t
	r.st.txns[t.ID] = &cp
	r.st.txnOrder = append(r.st.txnOrder, t.ID)
	return nil
}

func (r *txnRepo) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	if t, ok := r.st.txns[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (r *txnRepo) SumReturnedQuantity(_ context.Context, originTxnID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range r.st.txns {
		if t.Type == entity.TransactionTypeRETURN && t.OriginTxnID == originTxnID {
			sum = sum.Add(t.Quantity)
		}
	}
	return sum, nil
}

func (r *txnRepo) ListByItem(_ context.Context, itemID string, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	var list []*entity.Transaction
	for i := len(r.st.txnOrder) - 1; i >= 0; i-- { // newest first
		t := r.st.txns[r.st.txnOrder[i]]
		if t.ItemID != itemID {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.From != nil && t.TransactionDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && t.TransactionDate.After(*filter.To) {
			continue
		}
		cp := *t
		list = append(list, &cp)
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(list) {
			return nil, nil
		}
		list = list[filter.Offset:]
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50 // same page cap as the postgres repository
	}
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// ── audit repository ──

type auditRepo struct{ st *state }

func (r *auditRepo) Create(_ context.Context, a *entity.Audit) error {
	cp := *a
	cp.ItemIDs = append([]string(nil), a.ItemIDs...)
	r.st.audits[a.ID] = &cp
	return nil
}

func (r *auditRepo) GetByID(_ context.Context, id string) (*entity.Audit, error) {
	if a, ok := r.st.audits[id]; ok {
		cp := *a
		cp.ItemIDs = append([]string(nil), a.ItemIDs...)
		return &cp, nil
	}
	return nil, nil
}

func (r *auditRepo) GetForUpdate(ctx context.Context, id string) (*entity.Audit, error) {
	return r.GetByID(ctx, id)
}

func (r *auditRepo) Update(_ context.Context, a *entity.Audit) error {
	if _, ok := r.st.audits[a.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *a
	cp.ItemIDs = append([]string(nil), a.ItemIDs...)
	r.st.audits[a.ID] = &cp
	return nil
}

func (r *auditRepo) List(_ context.Context, limit, offset int) ([]*entity.Audit, error) {
	var list []*entity.Audit
	for _, a := range r.st.audits {
		cp := *a
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if offset > 0 {
		if offset >= len(list) {
			return nil, nil
		}
		list = list[offset:]
	}
	if limit <= 0 {
		limit = 20
	}
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (r *auditRepo) CreateItem(_ context.Context, it *entity.AuditItem) error {
	for _, existing := range r.st.auditItems {
		if existing.AuditID == it.AuditID && existing.ItemID == it.ItemID {
			return domain.ErrDuplicate
		}
	}
	cp := *it
	r.st.auditItems[it.ID] = &cp
	r.st.itemOrder = append(r.st.itemOrder, it.ID)
	return nil
}

func (r *auditRepo) ListItems(_ context.Context, auditID string) ([]*entity.AuditItem, error) {
	var list []*entity.AuditItem
	for _, id := range r.st.itemOrder {
		it := r.st.auditItems[id]
		if it.AuditID == auditID {
			cp := *it
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *auditRepo) ListUnadjustedDiscrepancies(_ context.Context, auditID string) ([]*entity.AuditItem, error) {
	var list []*entity.AuditItem
	for _, id := range r.st.itemOrder {
		it := r.st.auditItems[id]
		if it.AuditID == auditID && it.HasDiscrepancy && it.AdjustmentTxnID == "" {
			cp := *it
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *auditRepo) MarkItemAdjusted(_ context.Context, auditItemID, txnID string) (bool, error) {
	it, ok := r.st.auditItems[auditItemID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if it.AdjustmentTxnID != "" {
		return false, nil
	}
	it.AdjustmentTxnID = txnID
	return true, nil
}

// ── sequence repository ──

type seqRepo struct{ st *state }

func (r *seqRepo) Next(_ context.Context, key string, seed int64) (int64, error) {
	v := r.st.sequences[key]
	if seed > v {
		v = seed
	}
	v++
	r.st.sequences[key] = v
	return v, nil
}
