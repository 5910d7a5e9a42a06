package audit_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/audit"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/numbering"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/stock"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/entity"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/domain/repository"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/infrastructure/memory"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/pkg/logger"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type completedRecorder struct {
	completed []*entity.Audit
}

func (r *completedRecorder) AuditCompleted(_ context.Context, a *entity.Audit) {
	r.completed = append(r.completed, a)
}

func newTestEngines(t *testing.T) (*audit.Engine, *stock.Engine, *memory.Store, *completedRecorder) {
	t.Helper()
	store := memory.NewStore()
	svc := numbering.New(store.Sequences())
	stockEngine := stock.NewEngine(store, svc, nil, logger.Nop())
	recorder := &completedRecorder{}
	auditEngine := audit.NewEngine(store, stockEngine, svc, recorder, logger.Nop())
	return auditEngine, stockEngine, store, recorder
}

func seedItem(store *memory.Store, id, code string, qty string) {
	q := d(qty)
	store.SeedItem(&entity.Item{
		ID: id, Code: code, Name: "part " + code, Unit: "pcs",
		Quantity: q, QtyNew: q, UnitPrice: d("2"), Active: true,
	})
}

func startFullAudit(t *testing.T, engine *audit.Engine) *entity.Audit {
	t.Helper()
	a, err := engine.Start(context.Background(), audit.StartInput{
		Type: entity.AuditTypeFull, CreatedBy: "auditor",
	})
	require.NoError(t, err)
	return a
}

// countAll walks the whole snapshot, recording the given actual quantity for
// every item (keyed by item id; missing key means count the system quantity).
func countAll(t *testing.T, engine *audit.Engine, auditID string, actuals map[string]decimal.Decimal) {
	t.Helper()
	ctx := context.Background()
	for {
		item, _, err := engine.NextItem(ctx, auditID)
		require.NoError(t, err)
		if item == nil {
			return
		}
		actual, ok := actuals[item.ID]
		if !ok {
			actual = item.Quantity
		}
		_, err = engine.RecordCount(ctx, auditID, item.ID, actual)
		require.NoError(t, err)
	}
}

func TestStart_SnapshotsActiveItemsInCodeOrder(t *testing.T) {
	engine, _, store, _ := newTestEngines(t)
	seedItem(store, "b", "REP-00002", "5")
	seedItem(store, "a", "REP-00001", "3")
	store.SeedItem(&entity.Item{ID: "x", Code: "REP-00003", Name: "inactive", Quantity: d("1"), Active: false})

	a := startFullAudit(t, engine)

	assert.Equal(t, entity.AuditStatusInProgress, a.Status)
	assert.Equal(t, 2, a.TotalItems, "inactive items stay out of the snapshot")
	assert.Regexp(t, `^AUD-\d{8}-\d{4}$`, a.Number)
}

func TestStart_ScopeValidation(t *testing.T) {
	engine, _, _, _ := newTestEngines(t)
	ctx := context.Background()

	_, err := engine.Start(ctx, audit.StartInput{Type: entity.AuditTypeCategory, CreatedBy: "auditor"})
	assert.ErrorIs(t, err, domain.ErrValidation, "category scope needs a category id")

	_, err = engine.Start(ctx, audit.StartInput{Type: "WEEKLY", CreatedBy: "auditor"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = engine.Start(ctx, audit.StartInput{
		Type: entity.AuditTypeSingleItem, ItemID: "ghost", CreatedBy: "auditor",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNextItem_RepresentsSameItemUntilCounted(t *testing.T) {
	engine, _, store, _ := newTestEngines(t)
	seedItem(store, "a", "REP-00001", "3")
	a := startFullAudit(t, engine)
	ctx := context.Background()

	first, _, err := engine.NextItem(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	again, _, err := engine.NextItem(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, first.ID, again.ID, "an uncounted presentation must be repeated")
}

func TestRecordCount_BindsSystemQuantityAtPresentation(t *testing.T) {
	engine, stockEngine, store, _ := newTestEngines(t)
	seedItem(store, "a", "REP-00001", "10")
	a := startFullAudit(t, engine)
	ctx := context.Background()

	item, _, err := engine.NextItem(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, item)

	// Stock moves between presentation and count; the discrepancy is still
	// judged against the quantity bound at presentation time.
	_, err = stockEngine.ApplyIssue(ctx, stock.IssueInput{
		ItemID: "a", Condition: entity.ConditionNew, Quantity: d("2"), CreatedBy: "tester",
	})
	require.NoError(t, err)

	line, err := engine.RecordCount(ctx, a.ID, "a", d("10"))
	require.NoError(t, err)
	assert.True(t, line.SystemQuantity.Equal(d("10")))
	assert.False(t, line.HasDiscrepancy)
}

func TestRecordCount_RequiresPresentedItem(t *testing.T) {
	engine, _, store, _ := newTestEngines(t)
	seedItem(store, "a", "REP-00001", "3")
	seedItem(store, "b", "REP-00002", "5")
	a := startFullAudit(t, engine)
	ctx := context.Background()

	var stateErr *domain.InvalidAuditStateError
	_, err := engine.RecordCount(ctx, a.ID, "a", d("3"))
	require.ErrorAs(t, err, &stateErr, "counting before any presentation must fail")

	item, _, err := engine.NextItem(ctx, a.ID)
	require.NoError(t, err)

	_, err = engine.RecordCount(ctx, a.ID, "b", d("5"))
	assert.ErrorIs(t, err, domain.ErrValidation, "count must name the presented item")

	_, err = engine.RecordCount(ctx, a.ID, item.ID, d("-1"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSkip_ExcludesItemFromCountAndAdjustment(t *testing.T) {
	engine, _, store, _ := newTestEngines(t)
	seedItem(store, "a", "REP-00001", "3")
	seedItem(store, "b", "REP-00002", "5")
	a := startFullAudit(t, engine)
	ctx := context.Background()

	first, _, err := engine.NextItem(ctx, a.ID)
	require.NoError(t, err)
	_, err = engine.Skip(ctx, a.ID)
	require.NoError(t, err)

	second, _, err := engine.NextItem(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)

	_, err = engine.RecordCount(ctx, a.ID, second.ID, second.Quantity)
	require.NoError(t, err)

	done, err := engine.Apply(ctx, a.ID, "auditor")
	require.NoError(t, err)
	assert.Equal(t, 1, done.ItemsChecked, "the skipped item is not counted")

	skipped, err := store.Items().GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, skipped.Quantity.Equal(first.Quantity), "skip must never adjust")
}

func TestApply_WritesAdjustTransactionsForDiscrepancies(t *testing.T) {
	engine, _, store, recorder := newTestEngines(t)
	seedItem(store, "a", "REP-00001", "50")
	seedItem(store, "b", "REP-00002", "7")
	a := startFullAudit(t, engine)
	ctx := context.Background()

	countAll(t, engine, a.ID, map[string]decimal.Decimal{"a": d("42")})

	done, err := engine.Apply(ctx, a.ID, "auditor")
	require.NoError(t, err)
	assert.Equal(t, entity.AuditStatusCompleted, done.Status)
	assert.Equal(t, 2, done.ItemsChecked)
	assert.Equal(t, 1, done.ItemsWithDiff)
	assert.True(t, done.TotalShortage.Equal(d("8")))
	assert.True(t, done.TotalSurplus.IsZero())
	require.Len(t, recorder.completed, 1)

	item, err := store.Items().GetByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, item.Quantity.Equal(d("42")))

	history, err := store.Transactions().ListByItem(ctx, "a", repository.TransactionFilter{
		Type: entity.TransactionTypeADJUST,
	})
	require.NoError(t, err)
	require.Len(t, history, 1)
	adjust := history[0]
	assert.True(t, adjust.Quantity.Equal(d("8")))
	assert.True(t, adjust.QuantityBefore.Equal(d("50")))
	assert.True(t, adjust.QuantityAfter.Equal(d("42")))

	// The matching item gets no ADJUST.
	clean, err := store.Transactions().ListByItem(ctx, "b", repository.TransactionFilter{
		Type: entity.TransactionTypeADJUST,
	})
	require.NoError(t, err)
	assert.Empty(t, clean)

	// The line carries the corrective transaction id.
	lines, err := engine.ListItems(ctx, a.ID)
	require.NoError(t, err)
	for _, line := range lines {
		if line.ItemID == "a" {
			assert.Equal(t, adjust.ID, line.AdjustmentTxnID)
		}
	}
}

func TestApply_RequiresExhaustedWalk(t *testing.T) {
	engine, _, store, _ := newTestEngines(t)
	seedItem(store, "a", "REP-00001", "3")
	a := startFullAudit(t, engine)

	var stateErr *domain.InvalidAuditStateError
	_, err := engine.Apply(context.Background(), a.ID, "auditor")
	assert.ErrorAs(t, err, &stateErr)
}

func TestApply_SecondApplyRejected(t *testing.T) {
	engine, _, store, _ := newTestEngines(t)
	seedItem(store, "a", "REP-00001", "3")
	a := startFullAudit(t, engine)
	ctx := context.Background()

	countAll(t, engine, a.ID, nil)
	_, err := engine.Apply(ctx, a.ID, "auditor")
	require.NoError(t, err)

	var stateErr *domain.InvalidAuditStateError
	_, err = engine.Apply(ctx, a.ID, "auditor")
	assert.ErrorAs(t, err, &stateErr, "a completed audit admits no further transitions")
}

// interposingRunner passes transactions through to the store, invoking hook
// just before the nth one.
type interposingRunner struct {
	inner audit.TxRunner
	hook  func()
	at    int
	calls int
}

func (r *interposingRunner) RunAudit(ctx context.Context, fn func(
	repository.AuditRepository,
	repository.ItemRepository,
	repository.TransactionRepository,
	repository.SequenceRepository,
) error) error {
	r.calls++
	if r.hook != nil && r.calls == r.at {
		r.hook()
	}
	return r.inner.RunAudit(ctx, fn)
}

func TestApply_StopsWhenAuditCancelledMidway(t *testing.T) {
	engine, _, store, _ := newTestEngines(t)
	seedItem(store, "a", "REP-00001", "50")
	a := startFullAudit(t, engine)
	ctx := context.Background()

	countAll(t, engine, a.ID, map[string]decimal.Decimal{"a": d("42")})

	// A concurrent session cancels the audit after apply's opening
	// transaction, before the first per-item transaction runs.
	runner := &interposingRunner{inner: store, at: 2, hook: func() {
		_, err := engine.Cancel(ctx, a.ID)
		require.NoError(t, err)
	}}
	svc := numbering.New(store.Sequences())
	applier := audit.NewEngine(runner, stock.NewEngine(store, svc, nil, logger.Nop()), svc, nil, logger.Nop())

	var stateErr *domain.InvalidAuditStateError
	_, err := applier.Apply(ctx, a.ID, "auditor")
	require.ErrorAs(t, err, &stateErr)

	item, err := store.Items().GetByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, item.Quantity.Equal(d("50")), "no adjustment may land under a cancelled audit")

	history, err := store.Transactions().ListByItem(ctx, "a", repository.TransactionFilter{
		Type: entity.TransactionTypeADJUST,
	})
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCancel_LeavesItemsUntouched(t *testing.T) {
	engine, _, store, _ := newTestEngines(t)
	seedItem(store, "a", "REP-00001", "50")
	a := startFullAudit(t, engine)
	ctx := context.Background()

	item, _, err := engine.NextItem(ctx, a.ID)
	require.NoError(t, err)
	_, err = engine.RecordCount(ctx, a.ID, item.ID, d("42"))
	require.NoError(t, err)

	cancelled, err := engine.Cancel(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditStatusCancelled, cancelled.Status)

	after, err := store.Items().GetByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, after.Quantity.Equal(d("50")), "cancel must not adjust anything")

	var stateErr *domain.InvalidAuditStateError
	_, _, err = engine.NextItem(ctx, a.ID)
	assert.ErrorAs(t, err, &stateErr)
	_, err = engine.Apply(ctx, a.ID, "auditor")
	assert.ErrorAs(t, err, &stateErr)
}

func TestNextItem_SkipsItemsDeactivatedAfterSnapshot(t *testing.T) {
	engine, _, store, _ := newTestEngines(t)
	seedItem(store, "a", "REP-00001", "3")
	seedItem(store, "b", "REP-00002", "5")
	a := startFullAudit(t, engine)
	ctx := context.Background()

	// Deactivate the first item after the snapshot was taken.
	first, err := store.Items().GetByID(ctx, "a")
	require.NoError(t, err)
	first.Active = false
	require.NoError(t, store.Items().Update(ctx, first))

	item, _, err := engine.NextItem(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "b", item.ID, "deactivated items drop out of the walk")
}

func TestSingleItemAudit_WalksExactlyOneItem(t *testing.T) {
	engine, _, store, _ := newTestEngines(t)
	seedItem(store, "a", "REP-00001", "3")
	seedItem(store, "b", "REP-00002", "5")

	a, err := engine.Start(context.Background(), audit.StartInput{
		Type: entity.AuditTypeSingleItem, ItemID: "b", CreatedBy: "auditor",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, a.TotalItems)

	countAll(t, engine, a.ID, nil)
	done, err := engine.Apply(context.Background(), a.ID, "auditor")
	require.NoError(t, err)
	assert.Equal(t, 1, done.ItemsChecked)
}
