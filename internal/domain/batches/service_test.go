package batches_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocklot/internal/core/apperror"
	"stocklot/internal/core/id"
	"stocklot/internal/core/numerator"
	"stocklot/internal/core/types"
	"stocklot/internal/domain/batches"
	"stocklot/internal/domain/cashflow"
	"stocklot/internal/domain/catalogs/company"
	"stocklot/internal/domain/catalogs/item"
	"stocklot/internal/domain/catalogs/location"
	"stocklot/internal/domain/domaintest"
)

type fixture struct {
	companies *domaintest.CompanyRepo
	locations *domaintest.LocationRepo
	items     *domaintest.ItemRepo
	batchRepo *domaintest.BatchRepo
	audit     *domaintest.AuditRecorder
	svc       *batches.Service

	company *company.Company
	loc     *location.Location
	loc2    *location.Location
	item    *item.Item
}

func newFixture(t *testing.T, balanceUSD string) *fixture {
	t.Helper()

	f := &fixture{
		companies: domaintest.NewCompanyRepo(),
		locations: domaintest.NewLocationRepo(),
		items:     domaintest.NewItemRepo(),
		batchRepo: domaintest.NewBatchRepo(),
		audit:     domaintest.NewAuditRecorder(),
	}

	f.company = company.NewCompany("C-001", "Main Trading")
	f.company.CashBalanceUSD = types.MustMoney(balanceUSD)
	f.companies.Seed(f.company)

	f.loc = location.NewLocation("L-001", "Central Warehouse", f.company.ID)
	f.locations.Seed(f.loc)
	f.loc2 = location.NewLocation("L-002", "Shop Floor", f.company.ID)
	f.locations.Seed(f.loc2)

	f.item = item.NewItem("I-001", "Widget", f.company.ID)
	f.item.UseBatchSystem = true
	f.items.Seed(f.item)

	f.svc = batches.NewService(
		f.batchRepo,
		f.items,
		f.locations,
		cashflow.NewCoordinator(f.companies),
		numerator.NewMock(),
		f.audit,
		domaintest.TxManager{},
	)
	return f
}

func (f *fixture) balanceUSD(t *testing.T) types.Money {
	t.Helper()
	c, err := f.companies.GetByID(context.Background(), f.company.ID)
	require.NoError(t, err)
	return c.CashBalanceUSD
}

func (f *fixture) itemState(t *testing.T) *item.Item {
	t.Helper()
	it, err := f.items.GetByID(context.Background(), f.item.ID)
	require.NoError(t, err)
	return it
}

func (f *fixture) create(t *testing.T, in batches.CreateInput) *batches.StockBatch {
	t.Helper()
	res, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	return res.Batch
}

func TestCreateDefaultsToOrder(t *testing.T) {
	f := newFixture(t, "1000")
	ctx := context.Background()

	res, err := f.svc.Create(ctx, batches.CreateInput{
		ItemID:         f.item.ID,
		Quantity:       10,
		CostPerUnitUSD: types.MustMoney("5"),
	})
	require.NoError(t, err)

	assert.Equal(t, batches.StatusToOrder, res.Batch.Status)
	assert.False(t, res.Consolidated)
	assert.Equal(t, int64(10), res.Batch.Quantity)
	assert.Equal(t, int64(10), res.Batch.OriginalQuantity)

	// No cash moves for a planned purchase.
	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("1000")))

	// Reconciliation updated the cached counter.
	assert.Equal(t, int64(10), f.itemState(t).QuantityInStock)
}

func TestCreateGeneratesOrderNumber(t *testing.T) {
	f := newFixture(t, "1000")

	b := f.create(t, batches.CreateInput{ItemID: f.item.ID, Quantity: 1, CostPerUnitUSD: types.MustMoney("1")})
	assert.Regexp(t, `^PO-\d{4}-\d{5}$`, b.OrderNumber)

	b2 := f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		Quantity:       1,
		CostPerUnitUSD: types.MustMoney("2"),
		OrderNumber:    "PO-CUSTOM",
	})
	assert.Equal(t, "PO-CUSTOM", b2.OrderNumber)
}

func TestCreateOrderedCommitsCash(t *testing.T) {
	f := newFixture(t, "1000")
	st := batches.StatusOrdered

	f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		Quantity:       10,
		Status:         &st,
		CostPerUnitUSD: types.MustMoney("5"),
		FreightCostUSD: types.MustMoney("25"),
	})

	// 10*5 + 25 = 75
	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("925")))
}

func TestCreateOrderedInsufficientFundsIsAtomic(t *testing.T) {
	f := newFixture(t, "50")
	st := batches.StatusOrdered

	_, err := f.svc.Create(context.Background(), batches.CreateInput{
		ItemID:         f.item.ID,
		Quantity:       10,
		Status:         &st,
		CostPerUnitUSD: types.MustMoney("5"),
		FreightCostUSD: types.MustMoney("25"),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientFunds(err))

	// Nothing happened: no batch, no partial deduction, counter untouched.
	assert.Equal(t, 0, f.batchRepo.Len())
	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("50")))
	assert.Equal(t, int64(0), f.itemState(t).QuantityInStock)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t, "1000")
	ctx := context.Background()

	t.Run("negative quantity", func(t *testing.T) {
		_, err := f.svc.Create(ctx, batches.CreateInput{ItemID: f.item.ID, Quantity: -1})
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := f.svc.Create(ctx, batches.CreateInput{ItemID: id.New(), Quantity: 1})
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("item without batch tracking", func(t *testing.T) {
		legacy := item.NewItem("I-LEG", "Legacy", f.company.ID)
		f.items.Seed(legacy)
		_, err := f.svc.Create(ctx, batches.CreateInput{ItemID: legacy.ID, Quantity: 1})
		require.Error(t, err)
		appErr, _ := apperror.AsAppError(err)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})

	t.Run("location of another company", func(t *testing.T) {
		other := company.NewCompany("C-002", "Other")
		f.companies.Seed(other)
		foreign := location.NewLocation("L-X", "Foreign", other.ID)
		f.locations.Seed(foreign)

		_, err := f.svc.Create(ctx, batches.CreateInput{
			ItemID:     f.item.ID,
			Quantity:   1,
			LocationID: &foreign.ID,
		})
		require.Error(t, err)
		appErr, _ := apperror.AsAppError(err)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})
}

func TestCreateConsolidatesEquivalentPurchases(t *testing.T) {
	f := newFixture(t, "1000")
	ctx := context.Background()

	first := f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		LocationID:     &f.loc.ID,
		Quantity:       10,
		CostPerUnitUSD: types.MustMoney("5"),
		FreightCostUSD: types.MustMoney("20"),
	})

	res, err := f.svc.Create(ctx, batches.CreateInput{
		ItemID:         f.item.ID,
		LocationID:     &f.loc.ID,
		Quantity:       7,
		CostPerUnitUSD: types.MustMoney("5.00"), // same value, different scale
		FreightCostUSD: types.MustMoney("20"),
	})
	require.NoError(t, err)

	assert.True(t, res.Consolidated)
	assert.Equal(t, first.ID, res.Batch.ID)
	assert.Equal(t, int64(17), res.Batch.Quantity)
	assert.Equal(t, int64(17), res.Batch.OriginalQuantity)
	assert.Equal(t, 1, f.batchRepo.Len())
	assert.Equal(t, int64(17), f.itemState(t).QuantityInStock)
}

func TestCreateDoesNotConsolidateDifferentKey(t *testing.T) {
	f := newFixture(t, "1000")

	f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		LocationID:     &f.loc.ID,
		Quantity:       10,
		CostPerUnitUSD: types.MustMoney("5"),
	})

	cases := []batches.CreateInput{
		{ItemID: f.item.ID, LocationID: &f.loc.ID, Quantity: 1, CostPerUnitUSD: types.MustMoney("6")},
		{ItemID: f.item.ID, LocationID: &f.loc2.ID, Quantity: 1, CostPerUnitUSD: types.MustMoney("5")},
		{ItemID: f.item.ID, LocationID: &f.loc.ID, Quantity: 1, CostPerUnitUSD: types.MustMoney("5"), FreightCostUSD: types.MustMoney("1")},
		{ItemID: f.item.ID, Quantity: 1, CostPerUnitUSD: types.MustMoney("5")}, // no location
	}
	for _, in := range cases {
		res, err := f.svc.Create(context.Background(), in)
		require.NoError(t, err)
		assert.False(t, res.Consolidated)
	}
	assert.Equal(t, 5, f.batchRepo.Len())
}

func TestCreateSoldNeverConsolidates(t *testing.T) {
	f := newFixture(t, "1000")
	sold := batches.StatusSold

	in := batches.CreateInput{
		ItemID:         f.item.ID,
		LocationID:     &f.loc.ID,
		Quantity:       5,
		Status:         &sold,
		CostPerUnitUSD: types.MustMoney("5"),
	}
	res1, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	res2, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.False(t, res1.Consolidated)
	assert.False(t, res2.Consolidated)
	assert.Equal(t, 2, f.batchRepo.Len())
	// Sold batches don't count toward stock.
	assert.Equal(t, int64(0), f.itemState(t).QuantityInStock)
}

func TestUpdateOrderCommitsCash(t *testing.T) {
	f := newFixture(t, "1000")
	b := f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		Quantity:       10,
		CostPerUnitUSD: types.MustMoney("5"),
		FreightCostUSD: types.MustMoney("25"),
	})

	updated, err := f.svc.Update(context.Background(), b.ID, batches.Patch{
		Status: types.NewOptional(batches.StatusOrdered),
	})
	require.NoError(t, err)

	assert.Equal(t, batches.StatusOrdered, updated.Status)
	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("925")))
}

func TestUpdateRollbackRefundsCash(t *testing.T) {
	f := newFixture(t, "1000")
	b := f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		Quantity:       10,
		CostPerUnitUSD: types.MustMoney("5"),
		FreightCostUSD: types.MustMoney("25"),
	})
	ctx := context.Background()

	_, err := f.svc.Update(ctx, b.ID, batches.Patch{Status: types.NewOptional(batches.StatusOrdered)})
	require.NoError(t, err)
	require.True(t, f.balanceUSD(t).Equal(types.MustMoney("925")))

	_, err = f.svc.Update(ctx, b.ID, batches.Patch{Status: types.NewOptional(batches.StatusToOrder)})
	require.NoError(t, err)

	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("1000")))
}

func TestUpdateUnchangedStatusMovesNoCash(t *testing.T) {
	f := newFixture(t, "1000")
	st := batches.StatusOrdered
	b := f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		Quantity:       10,
		Status:         &st,
		CostPerUnitUSD: types.MustMoney("5"),
	})
	require.True(t, f.balanceUSD(t).Equal(types.MustMoney("950")))

	// Status present in the patch but unchanged: no second debit.
	_, err := f.svc.Update(context.Background(), b.ID, batches.Patch{
		Status:   types.NewOptional(batches.StatusOrdered),
		Quantity: types.NewOptional(int64(12)),
	})
	require.NoError(t, err)

	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("950")))
	assert.Equal(t, int64(12), f.itemState(t).QuantityInStock)
}

func TestUpdateArrivalStampsDate(t *testing.T) {
	f := newFixture(t, "1000")
	st := batches.StatusOrdered
	b := f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		Quantity:       10,
		Status:         &st,
		CostPerUnitUSD: types.MustMoney("5"),
	})
	balanceAfterOrder := f.balanceUSD(t)

	explicit := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	updated, err := f.svc.Update(context.Background(), b.ID, batches.Patch{
		Status:      types.NewOptional(batches.StatusArrived),
		ArrivedDate: types.NewOptional(explicit),
	})
	require.NoError(t, err)

	// The automatic stamp wins over the explicit date in the same request.
	require.NotNil(t, updated.ArrivedDate)
	assert.WithinDuration(t, time.Now().UTC(), *updated.ArrivedDate, time.Minute)

	// Arrival keeps the cash committed.
	assert.True(t, f.balanceUSD(t).Equal(balanceAfterOrder))
}

func TestUpdateArrivedDateEditableOutsideTransition(t *testing.T) {
	f := newFixture(t, "1000")
	st := batches.StatusArrived
	b := f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		Quantity:       10,
		Status:         &st,
		CostPerUnitUSD: types.MustMoney("5"),
	})

	corrected := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	updated, err := f.svc.Update(context.Background(), b.ID, batches.Patch{
		ArrivedDate: types.NewOptional(corrected),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ArrivedDate)
	assert.True(t, corrected.Equal(*updated.ArrivedDate))
}

func TestUpdateInsufficientFundsLeavesBatchUntouched(t *testing.T) {
	f := newFixture(t, "10")
	b := f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		Quantity:       10,
		CostPerUnitUSD: types.MustMoney("5"),
	})

	_, err := f.svc.Update(context.Background(), b.ID, batches.Patch{
		Status: types.NewOptional(batches.StatusOrdered),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientFunds(err))

	stored, getErr := f.svc.GetByID(context.Background(), b.ID)
	require.NoError(t, getErr)
	assert.Equal(t, batches.StatusToOrder, stored.Status)
	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("10")))
}

func TestSellBatchReconcilesItemToSold(t *testing.T) {
	f := newFixture(t, "1000")
	st := batches.StatusArrived
	b := f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		Quantity:       10,
		Status:         &st,
		CostPerUnitUSD: types.MustMoney("5"),
	})
	balanceBefore := f.balanceUSD(t)

	_, err := f.svc.Update(context.Background(), b.ID, batches.Patch{
		Status: types.NewOptional(batches.StatusSold),
	})
	require.NoError(t, err)

	// Selling keeps the purchase cost spent.
	assert.True(t, f.balanceUSD(t).Equal(balanceBefore))

	it := f.itemState(t)
	assert.Equal(t, int64(0), it.QuantityInStock)
	assert.Equal(t, item.StatusSold, it.Status)
}

func TestDeleteCommittedBatchRefunds(t *testing.T) {
	f := newFixture(t, "1000")
	st := batches.StatusOrdered
	b := f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		Quantity:       10,
		Status:         &st,
		CostPerUnitUSD: types.MustMoney("5"),
		FreightCostUSD: types.MustMoney("25"),
	})
	require.True(t, f.balanceUSD(t).Equal(types.MustMoney("925")))

	res, err := f.svc.Delete(context.Background(), b.ID)
	require.NoError(t, err)

	assert.True(t, res.RefundedUSD.Equal(types.MustMoney("75")))
	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("1000")))
	assert.Equal(t, 0, f.batchRepo.Len())
	assert.Equal(t, int64(0), f.itemState(t).QuantityInStock)
}

func TestDeletePlannedBatchRefundsNothing(t *testing.T) {
	f := newFixture(t, "1000")
	b := f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		Quantity:       10,
		CostPerUnitUSD: types.MustMoney("5"),
	})

	res, err := f.svc.Delete(context.Background(), b.ID)
	require.NoError(t, err)

	assert.True(t, res.RefundedUSD.IsZero())
	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("1000")))
}

func TestTransferFullMovesBatch(t *testing.T) {
	f := newFixture(t, "1000")
	b := f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		LocationID:     &f.loc.ID,
		Quantity:       10,
		CostPerUnitUSD: types.MustMoney("5"),
	})

	res, err := f.svc.Transfer(context.Background(), batches.TransferInput{
		BatchID:      b.ID,
		ToLocationID: f.loc2.ID,
	})
	require.NoError(t, err)

	assert.Nil(t, res.NewBatch)
	assert.Equal(t, int64(10), res.Transferred)
	require.NotNil(t, res.Batch.LocationID)
	assert.Equal(t, f.loc2.ID, *res.Batch.LocationID)
	assert.Equal(t, 1, f.batchRepo.Len())
}

func TestTransferPartialSplitsBatch(t *testing.T) {
	f := newFixture(t, "1000")
	st := batches.StatusArrived
	notes := "fragile"
	b := f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		LocationID:     &f.loc.ID,
		Quantity:       10,
		Status:         &st,
		CostPerUnitUSD: types.MustMoney("5"),
		FreightCostUSD: types.MustMoney("20"),
		Notes:          &notes,
	})

	qty := int64(4)
	res, err := f.svc.Transfer(context.Background(), batches.TransferInput{
		BatchID:      b.ID,
		ToLocationID: f.loc2.ID,
		Quantity:     &qty,
	})
	require.NoError(t, err)

	require.NotNil(t, res.NewBatch)
	assert.Equal(t, int64(6), res.Batch.Quantity)
	assert.Equal(t, int64(4), res.NewBatch.Quantity)
	assert.NotEqual(t, res.Batch.ID, res.NewBatch.ID)
	assert.Equal(t, f.loc2.ID, *res.NewBatch.LocationID)

	// Everything except id, quantity and location is cloned.
	assert.Equal(t, b.Status, res.NewBatch.Status)
	assert.True(t, res.NewBatch.CostPerUnitUSD.Equal(b.CostPerUnitUSD))
	assert.True(t, res.NewBatch.FreightCostUSD.Equal(b.FreightCostUSD))
	assert.Equal(t, b.OrderNumber, res.NewBatch.OrderNumber)
	require.NotNil(t, res.NewBatch.Notes)
	assert.Equal(t, "fragile", *res.NewBatch.Notes)

	// Totals conserved, stock counter unchanged.
	assert.Equal(t, int64(10), f.itemState(t).QuantityInStock)
	// No cash moves on transfer.
	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("1000")))
}

func TestTransferValidation(t *testing.T) {
	f := newFixture(t, "1000")
	b := f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		LocationID:     &f.loc.ID,
		Quantity:       10,
		CostPerUnitUSD: types.MustMoney("5"),
	})
	ctx := context.Background()

	t.Run("exceeds available", func(t *testing.T) {
		qty := int64(11)
		_, err := f.svc.Transfer(ctx, batches.TransferInput{BatchID: b.ID, ToLocationID: f.loc2.ID, Quantity: &qty})
		require.Error(t, err)
		appErr, _ := apperror.AsAppError(err)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		qty := int64(0)
		_, err := f.svc.Transfer(ctx, batches.TransferInput{BatchID: b.ID, ToLocationID: f.loc2.ID, Quantity: &qty})
		require.Error(t, err)
	})

	t.Run("unknown target location", func(t *testing.T) {
		_, err := f.svc.Transfer(ctx, batches.TransferInput{BatchID: b.ID, ToLocationID: id.New()})
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("target of another company", func(t *testing.T) {
		other := company.NewCompany("C-002", "Other")
		f.companies.Seed(other)
		foreign := location.NewLocation("L-X", "Foreign", other.ID)
		f.locations.Seed(foreign)

		_, err := f.svc.Transfer(ctx, batches.TransferInput{BatchID: b.ID, ToLocationID: foreign.ID})
		require.Error(t, err)
		appErr, _ := apperror.AsAppError(err)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})
}

// flakyRepo fails Update a fixed number of times with a concurrent
// modification error before delegating.
type flakyRepo struct {
	batches.Repository
	failures int
}

func (r *flakyRepo) Update(ctx context.Context, b *batches.StockBatch) error {
	if r.failures > 0 {
		r.failures--
		return apperror.NewConcurrentModification("stock batch", b.ID.String())
	}
	return r.Repository.Update(ctx, b)
}

func TestUpdateRetriesOnConflict(t *testing.T) {
	f := newFixture(t, "1000")
	b := f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		Quantity:       10,
		CostPerUnitUSD: types.MustMoney("5"),
	})

	flaky := &flakyRepo{Repository: f.batchRepo, failures: 2}
	svc := batches.NewService(
		flaky, f.items, f.locations,
		cashflow.NewCoordinator(f.companies),
		numerator.NewMock(), f.audit, domaintest.TxManager{},
	)

	updated, err := svc.Update(context.Background(), b.ID, batches.Patch{
		Quantity: types.NewOptional(int64(15)),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), updated.Quantity)
}

func TestUpdateRetriesExhausted(t *testing.T) {
	f := newFixture(t, "1000")
	b := f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		Quantity:       10,
		CostPerUnitUSD: types.MustMoney("5"),
	})

	flaky := &flakyRepo{Repository: f.batchRepo, failures: 100}
	svc := batches.NewService(
		flaky, f.items, f.locations,
		cashflow.NewCoordinator(f.companies),
		numerator.NewMock(), f.audit, domaintest.TxManager{},
	)

	_, err := svc.Update(context.Background(), b.ID, batches.Patch{
		Quantity: types.NewOptional(int64(15)),
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInternal, appErr.Code)
}

func TestAuditTrailRecorded(t *testing.T) {
	f := newFixture(t, "1000")
	b := f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		Quantity:       10,
		CostPerUnitUSD: types.MustMoney("5"),
	})

	_, err := f.svc.Update(context.Background(), b.ID, batches.Patch{
		Quantity: types.NewOptional(int64(5)),
	})
	require.NoError(t, err)
	_, err = f.svc.Delete(context.Background(), b.ID)
	require.NoError(t, err)

	require.Len(t, f.audit.Events, 3)
	assert.Equal(t, "batch.create", f.audit.Events[0].Action)
	assert.Equal(t, "batch.update", f.audit.Events[1].Action)
	assert.Equal(t, "batch.delete", f.audit.Events[2].Action)
	assert.Equal(t, b.ID, f.audit.Events[2].BatchID)
}

// Lifecycle walk: plan, order, arrive, sell.
func TestFullLifecycle(t *testing.T) {
	f := newFixture(t, "500")
	ctx := context.Background()

	b := f.create(t, batches.CreateInput{
		ItemID:         f.item.ID,
		LocationID:     &f.loc.ID,
		Quantity:       20,
		CostPerUnitUSD: types.MustMoney("10"),
		FreightCostUSD: types.MustMoney("50"),
	})
	assert.Equal(t, int64(20), f.itemState(t).QuantityInStock)

	// Order: 20*10 + 50 = 250 committed.
	_, err := f.svc.Update(ctx, b.ID, batches.Patch{Status: types.NewOptional(batches.StatusOrdered)})
	require.NoError(t, err)
	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("250")))

	// Arrive: date stamped, cash stays committed.
	arrived, err := f.svc.Update(ctx, b.ID, batches.Patch{Status: types.NewOptional(batches.StatusArrived)})
	require.NoError(t, err)
	require.NotNil(t, arrived.ArrivedDate)
	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("250")))

	// Sell: no refund, item drops to zero and flips to sold.
	_, err = f.svc.Update(ctx, b.ID, batches.Patch{Status: types.NewOptional(batches.StatusSold)})
	require.NoError(t, err)
	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("250")))

	it := f.itemState(t)
	assert.Equal(t, int64(0), it.QuantityInStock)
	assert.Equal(t, item.StatusSold, it.Status)
}
