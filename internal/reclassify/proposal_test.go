package reclassify

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldbooks/veld/internal/model"
	"github.com/veldbooks/veld/internal/registry"
	"github.com/veldbooks/veld/internal/service"
)

func seededStore(t *testing.T) *service.MockStorage {
	t.Helper()
	ctx := context.Background()
	store := service.NewMockStorage()

	txns := []model.Transaction{
		{ID: "t1", Description: "INSURANCE CHAUKE XG JAN 100021", Amount: decimal.NewFromInt(1500), Date: time.Now()},
		{ID: "t2", Description: "INSURANCE CHAUKE XG FEB 100177", Amount: decimal.NewFromInt(1500), Date: time.Now()},
		{ID: "t3", Description: "FUEL ENGEN N1 NORTH", Amount: decimal.NewFromInt(900), Date: time.Now()},
		{ID: "t4", Description: "INSURANCE SANTAM PREMIUM 88812", Amount: decimal.NewFromInt(2200), Date: time.Now()},
	}
	require.NoError(t, store.SaveTransactions(ctx, txns))

	for _, txn := range txns {
		c := model.Classification{Description: txn.Description, IsFallback: true, ClassifiedAt: time.Now()}
		require.NoError(t, store.SaveClassification(ctx, txn.ID, &c))
	}
	return store
}

func testHelper(t *testing.T) (*Helper, *service.MockStorage) {
	t.Helper()
	reg, err := registry.NewWithDefaults()
	require.NoError(t, err)
	store := seededStore(t)
	return NewHelper(store, reg), store
}

func TestHelper_Propose(t *testing.T) {
	helper, _ := testHelper(t)

	p, err := helper.Propose(context.Background(), "INSURANCE CHAUKE XG 772281", "8100", 10)
	require.NoError(t, err)

	assert.Equal(t, StateProposed, p.State)
	assert.Equal(t, "insurance chauke xg", p.KeyPattern)
	assert.Equal(t, []string{"t1", "t2"}, p.TransactionIDs)
	assert.NotEmpty(t, p.ID)
}

func TestHelper_ProposeUnknownAccount(t *testing.T) {
	helper, _ := testHelper(t)

	_, err := helper.Propose(context.Background(), "INSURANCE CHAUKE", "6666", 10)
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestProposal_StateMachine(t *testing.T) {
	t.Run("confirm then apply", func(t *testing.T) {
		helper, store := testHelper(t)
		ctx := context.Background()

		p, err := helper.Propose(ctx, "INSURANCE CHAUKE XG", "8100", 10)
		require.NoError(t, err)
		require.NoError(t, p.Confirm())

		updated, err := helper.Apply(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated)
		assert.Equal(t, StateApplied, p.State)

		got, err := store.GetClassification(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, "8100", got.Classification.AccountCode)
		assert.False(t, got.Classification.IsFallback)
	})

	t.Run("apply without confirmation is rejected", func(t *testing.T) {
		helper, _ := testHelper(t)

		p, err := helper.Propose(context.Background(), "INSURANCE CHAUKE XG", "8100", 10)
		require.NoError(t, err)

		_, err = helper.Apply(context.Background(), p)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, StateProposed, p.State)
	})

	t.Run("rejected proposal cannot be confirmed", func(t *testing.T) {
		helper, _ := testHelper(t)

		p, err := helper.Propose(context.Background(), "INSURANCE CHAUKE XG", "8100", 10)
		require.NoError(t, err)
		require.NoError(t, p.Reject())

		assert.ErrorIs(t, p.Confirm(), ErrInvalidTransition)
	})

	t.Run("replayed batch identifier does not double-count", func(t *testing.T) {
		helper, store := testHelper(t)
		ctx := context.Background()

		p, err := helper.Propose(ctx, "INSURANCE CHAUKE XG", "8100", 10)
		require.NoError(t, err)
		require.NoError(t, p.Confirm())

		updated, err := helper.Apply(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated)

		// Simulate a retry after a lost acknowledgement: same batch ID
		// straight at the store.
		replayed, err := store.ApplyBulkClassification(ctx, p.ID, "8100", "", p.TransactionIDs)
		require.NoError(t, err)
		assert.Zero(t, replayed)
	})

	t.Run("empty proposal cannot be applied", func(t *testing.T) {
		helper, _ := testHelper(t)

		p, err := helper.Propose(context.Background(), "NO SUCH VENDOR ANYWHERE", "8100", 10)
		require.NoError(t, err)
		require.NoError(t, p.Confirm())

		_, err = helper.Apply(context.Background(), p)
		assert.ErrorIs(t, err, ErrNoCandidates)
	})
}
