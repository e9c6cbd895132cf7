package batches_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocklot/internal/core/types"
	"stocklot/internal/domain/batches"
	"stocklot/internal/domain/catalogs/item"
)

func TestReconcileExcludesSoldBatches(t *testing.T) {
	f := newFixture(t, "1000")
	ctx := context.Background()
	sold := batches.StatusSold

	f.create(t, batches.CreateInput{ItemID: f.item.ID, Quantity: 10, CostPerUnitUSD: types.MustMoney("5")})
	f.create(t, batches.CreateInput{ItemID: f.item.ID, Quantity: 99, Status: &sold, CostPerUnitUSD: types.MustMoney("5")})

	require.NoError(t, f.svc.Reconciler().Reconcile(ctx, f.item.ID))
	assert.Equal(t, int64(10), f.itemState(t).QuantityInStock)
}

func TestReconcileIgnoresNonBatchItems(t *testing.T) {
	f := newFixture(t, "1000")
	legacy := item.NewItem("I-LEG", "Legacy", f.company.ID)
	legacy.QuantityInStock = 42
	f.items.Seed(legacy)

	require.NoError(t, f.svc.Reconciler().Reconcile(context.Background(), legacy.ID))

	it, err := f.items.GetByID(context.Background(), legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), it.QuantityInStock)
}

func TestReconcileIsIdempotent(t *testing.T) {
	f := newFixture(t, "1000")
	ctx := context.Background()

	f.create(t, batches.CreateInput{ItemID: f.item.ID, Quantity: 10, CostPerUnitUSD: types.MustMoney("5")})

	before := f.itemState(t)
	require.NoError(t, f.svc.Reconciler().Reconcile(ctx, f.item.ID))
	require.NoError(t, f.svc.Reconciler().Reconcile(ctx, f.item.ID))
	after := f.itemState(t)

	assert.Equal(t, before.QuantityInStock, after.QuantityInStock)
	// No writes happen when the cache already matches.
	assert.Equal(t, before.Version, after.Version)
}

func TestReconcileRepairsDrift(t *testing.T) {
	f := newFixture(t, "1000")
	ctx := context.Background()

	f.create(t, batches.CreateInput{ItemID: f.item.ID, Quantity: 10, CostPerUnitUSD: types.MustMoney("5")})

	// Simulate an out-of-band counter corruption.
	it := f.itemState(t)
	it.QuantityInStock = 999
	require.NoError(t, f.items.Update(ctx, it))

	require.NoError(t, f.svc.Reconciler().Reconcile(ctx, f.item.ID))
	assert.Equal(t, int64(10), f.itemState(t).QuantityInStock)
}

func TestInspectReportsConsistency(t *testing.T) {
	f := newFixture(t, "1000")
	ctx := context.Background()
	sold := batches.StatusSold

	f.create(t, batches.CreateInput{ItemID: f.item.ID, Quantity: 10, CostPerUnitUSD: types.MustMoney("5")})
	f.create(t, batches.CreateInput{ItemID: f.item.ID, Quantity: 3, Status: &sold, CostPerUnitUSD: types.MustMoney("7")})

	report, err := f.svc.Reconciler().Inspect(ctx, f.item.ID)
	require.NoError(t, err)

	assert.True(t, report.Consistent)
	assert.Equal(t, int64(10), report.CachedQuantity)
	assert.Equal(t, int64(10), report.LiveQuantity)
	assert.Equal(t, int64(13), report.TotalQuantity)

	// Drift flips the flag without repairing anything.
	it := f.itemState(t)
	it.QuantityInStock = 4
	require.NoError(t, f.items.Update(ctx, it))

	report, err = f.svc.Reconciler().Inspect(ctx, f.item.ID)
	require.NoError(t, err)
	assert.False(t, report.Consistent)
	assert.Equal(t, int64(4), report.CachedQuantity)
	assert.Equal(t, int64(10), report.LiveQuantity)
}
