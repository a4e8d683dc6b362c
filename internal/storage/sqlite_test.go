package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldbooks/veld/internal/model"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "veld-test.db")
	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testRule(name string) *model.Rule {
	return &model.Rule{
		Name:        name,
		Description: "test rule",
		Strategy:    model.StrategyContains,
		Pattern:     "INSURANCE",
		AccountCode: "8800",
		Priority:    50,
		Confidence:  0.9,
		Origin:      model.OriginPersisted,
		Active:      true,
	}
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := newTestStorage(t)
	// Running migrations again must be a no-op.
	require.NoError(t, store.Migrate(context.Background()))
}

func TestRules_RoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	rule := testRule("Insurance Premiums")
	require.NoError(t, store.CreateRule(ctx, rule))
	assert.NotZero(t, rule.ID)

	got, err := store.GetRuleByName(ctx, "Insurance Premiums")
	require.NoError(t, err)
	assert.Equal(t, rule.Name, got.Name)
	assert.Equal(t, rule.Strategy, got.Strategy)
	assert.Equal(t, rule.Pattern, got.Pattern)
	assert.Equal(t, rule.AccountCode, got.AccountCode)
	assert.Equal(t, rule.Priority, got.Priority)
	assert.InDelta(t, rule.Confidence, got.Confidence, 1e-9)
	assert.Equal(t, rule.Origin, got.Origin)
	assert.True(t, got.Active)
}

func TestCreateRule_DuplicateName(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.CreateRule(ctx, testRule("Insurance Premiums")))
	err := store.CreateRule(ctx, testRule("Insurance Premiums"))
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestCreateRule_InvalidRule(t *testing.T) {
	store := newTestStorage(t)

	rule := testRule("Broken")
	rule.Pattern = ""
	err := store.CreateRule(context.Background(), rule)
	assert.Error(t, err)
}

func TestUpdateRule(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	rule := testRule("Insurance Premiums")
	require.NoError(t, store.CreateRule(ctx, rule))

	rule.Priority = 75
	rule.AccountCode = "6400"
	require.NoError(t, store.UpdateRule(ctx, rule))

	got, err := store.GetRuleByName(ctx, "Insurance Premiums")
	require.NoError(t, err)
	assert.Equal(t, 75, got.Priority)
	assert.Equal(t, "6400", got.AccountCode)
}

func TestUpdateRule_NotFound(t *testing.T) {
	store := newTestStorage(t)
	err := store.UpdateRule(context.Background(), testRule("Missing"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeactivateRule(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.CreateRule(ctx, testRule("Insurance Premiums")))
	require.NoError(t, store.DeactivateRule(ctx, "Insurance Premiums"))

	got, err := store.GetRuleByName(ctx, "Insurance Premiums")
	require.NoError(t, err)
	assert.False(t, got.Active)

	// Listing still returns the inactive rule.
	rules, err := store.ListRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)
}

func TestDeactivateRule_NotFound(t *testing.T) {
	store := newTestStorage(t)
	err := store.DeactivateRule(context.Background(), "Missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func testTransactions() []model.Transaction {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []model.Transaction{
		{ID: "t1", Description: "SALARY PAYMENT M DLAMINI", Amount: decimal.NewFromInt(12000), Date: base},
		{ID: "t2", Description: "IB TRANSFER TO *****2689327", Amount: decimal.NewFromInt(5000), Date: base.AddDate(0, 0, 1)},
		{ID: "t3", Description: "XYZ UNKNOWN VENDOR 99213", Amount: decimal.RequireFromString("750.50"), Date: base.AddDate(0, 0, 2)},
	}
}

func TestTransactions_SaveAndList(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTransactions(ctx, testTransactions()))

	got, err := store.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "t1", got[0].ID)
	assert.True(t, got[2].Amount.Equal(decimal.RequireFromString("750.50")))

	one, err := store.GetTransaction(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, "IB TRANSFER TO *****2689327", one.Description)
}

func TestSaveTransactions_ReplayOverwrites(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	txns := testTransactions()
	require.NoError(t, store.SaveTransactions(ctx, txns))
	txns[0].Description = "SALARY PAYMENT M DLAMINI MARCH"
	require.NoError(t, store.SaveTransactions(ctx, txns))

	got, err := store.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "SALARY PAYMENT M DLAMINI MARCH", got[0].Description)
}

func TestClassifications_RoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTransactions(ctx, testTransactions()))

	toClassify, err := store.ListTransactionsToClassify(ctx)
	require.NoError(t, err)
	require.Len(t, toClassify, 3)

	c := &model.Classification{
		Description:  "SALARY PAYMENT M DLAMINI",
		AccountCode:  "8100",
		RuleName:     "Salary Payments",
		Detail:       "salary payment dlamini",
		Confidence:   0.8,
		ClassifiedAt: time.Now().UTC(),
	}
	require.NoError(t, store.SaveClassification(ctx, "t1", c))

	got, err := store.GetClassification(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "8100", got.Classification.AccountCode)
	assert.Equal(t, "Salary Payments", got.Classification.RuleName)
	assert.False(t, got.Classification.IsFallback)
	assert.Equal(t, "t1", got.Transaction.ID)

	toClassify, err = store.ListTransactionsToClassify(ctx)
	require.NoError(t, err)
	require.Len(t, toClassify, 2)
}

func TestSaveClassification_UnknownTransaction(t *testing.T) {
	store := newTestStorage(t)
	err := store.SaveClassification(context.Background(), "missing", &model.Classification{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListUnclassified(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTransactions(ctx, testTransactions()))

	require.NoError(t, store.SaveClassification(ctx, "t1", &model.Classification{
		Description: "SALARY PAYMENT M DLAMINI", AccountCode: "8100",
		RuleName: "Salary Payments", ClassifiedAt: time.Now().UTC(),
	}))
	require.NoError(t, store.SaveClassification(ctx, "t3", &model.Classification{
		Description: "XYZ UNKNOWN VENDOR 99213", IsFallback: true,
		ClassifiedAt: time.Now().UTC(),
	}))

	unclassified, err := store.ListUnclassified(ctx, 0)
	require.NoError(t, err)
	require.Len(t, unclassified, 1)
	assert.Equal(t, "t3", unclassified[0].Transaction.ID)

	limited, err := store.ListUnclassified(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	byAccount, err := store.ListByAccountCode(ctx, "8100")
	require.NoError(t, err)
	require.Len(t, byAccount, 1)
	assert.Equal(t, "t1", byAccount[0].Transaction.ID)
}

func TestApplyBulkClassification(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTransactions(ctx, testTransactions()))
	require.NoError(t, store.SaveClassification(ctx, "t3", &model.Classification{
		Description: "XYZ UNKNOWN VENDOR 99213", IsFallback: true,
		ClassifiedAt: time.Now().UTC(),
	}))

	updated, err := store.ApplyBulkClassification(ctx, "batch-1", "6500", "", []string{"t2", "t3"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	got, err := store.GetClassification(ctx, "t3")
	require.NoError(t, err)
	assert.Equal(t, "6500", got.Classification.AccountCode)
	assert.False(t, got.Classification.IsFallback)

	// Replaying the same batch ID must not double-count.
	updated, err = store.ApplyBulkClassification(ctx, "batch-1", "6500", "", []string{"t2", "t3"})
	require.NoError(t, err)
	assert.Zero(t, updated)

	// Unknown transaction IDs are skipped, not errors.
	updated, err = store.ApplyBulkClassification(ctx, "batch-2", "6500", "", []string{"missing"})
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestApplyBulkClassification_EmptyBatchID(t *testing.T) {
	store := newTestStorage(t)
	_, err := store.ApplyBulkClassification(context.Background(), "", "6500", "", []string{"t1"})
	assert.ErrorIs(t, err, ErrInvalidBatchID)
}
