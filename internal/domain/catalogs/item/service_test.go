package item_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocklot/internal/core/apperror"
	"stocklot/internal/core/id"
	"stocklot/internal/core/types"
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
	svc       *item.Service

	company *company.Company
}

func newFixture(t *testing.T, balanceUSD string) *fixture {
	t.Helper()

	f := &fixture{
		companies: domaintest.NewCompanyRepo(),
		locations: domaintest.NewLocationRepo(),
		items:     domaintest.NewItemRepo(),
	}

	f.company = company.NewCompany("C-001", "Main Trading")
	f.company.CashBalanceUSD = types.MustMoney(balanceUSD)
	f.companies.Seed(f.company)

	f.svc = item.NewService(
		f.items,
		f.companies,
		f.locations,
		cashflow.NewCoordinator(f.companies),
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

func TestCreateLegacyToOrderCommitsCash(t *testing.T) {
	f := newFixture(t, "1000")

	it := item.NewItem("I-001", "Widget", f.company.ID)
	it.QuantityInStock = 10
	it.CostPerUnitUSD = types.MustMoney("5")
	it.FreightCostUSD = types.MustMoney("25")

	require.NoError(t, f.svc.Create(context.Background(), it))

	// 10*5 + 25 = 75
	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("925")))
}

func TestCreateBatchItemCommitsNothing(t *testing.T) {
	f := newFixture(t, "1000")

	it := item.NewItem("I-001", "Widget", f.company.ID)
	it.UseBatchSystem = true
	it.QuantityInStock = 10
	it.CostPerUnitUSD = types.MustMoney("5")

	require.NoError(t, f.svc.Create(context.Background(), it))
	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("1000")))
}

func TestCreateLegacyInsufficientFunds(t *testing.T) {
	f := newFixture(t, "10")

	it := item.NewItem("I-001", "Widget", f.company.ID)
	it.QuantityInStock = 10
	it.CostPerUnitUSD = types.MustMoney("5")

	err := f.svc.Create(context.Background(), it)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientFunds(err))

	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("10")))
	ok, _ := f.items.Exists(context.Background(), it.ID)
	assert.False(t, ok)
}

func TestUpdateLegacyLeavingToOrderRefundsStoredValues(t *testing.T) {
	f := newFixture(t, "1000")
	ctx := context.Background()

	it := item.NewItem("I-001", "Widget", f.company.ID)
	it.QuantityInStock = 10
	it.CostPerUnitUSD = types.MustMoney("5")
	it.FreightCostUSD = types.MustMoney("25")
	require.NoError(t, f.svc.Create(ctx, it))
	require.True(t, f.balanceUSD(t).Equal(types.MustMoney("925")))

	// Refund is computed from the values stored before the update, even
	// when the same request changes cost and quantity.
	_, err := f.svc.Update(ctx, it.ID, item.Patch{
		Status:         types.NewOptional(item.StatusOrdered),
		Quantity:       types.NewOptional(int64(99)),
		CostPerUnitUSD: types.NewOptional(types.MustMoney("100")),
	})
	require.NoError(t, err)

	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("1000")))
}

func TestUpdateLegacyEnteringToOrderDebitsIncomingValues(t *testing.T) {
	f := newFixture(t, "1000")
	ctx := context.Background()

	it := item.NewItem("I-001", "Widget", f.company.ID)
	it.Status = item.StatusArrived
	require.NoError(t, f.svc.Create(ctx, it))
	require.True(t, f.balanceUSD(t).Equal(types.MustMoney("1000")))

	// Debit uses the incoming payload values.
	_, err := f.svc.Update(ctx, it.ID, item.Patch{
		Status:         types.NewOptional(item.StatusToOrder),
		Quantity:       types.NewOptional(int64(4)),
		CostPerUnitUSD: types.NewOptional(types.MustMoney("10")),
		FreightCostUSD: types.NewOptional(types.MustMoney("6")),
	})
	require.NoError(t, err)

	// 4*10 + 6 = 46
	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("954")))
}

func TestUpdateLegacyUnchangedStatusMovesNoCash(t *testing.T) {
	f := newFixture(t, "1000")
	ctx := context.Background()

	it := item.NewItem("I-001", "Widget", f.company.ID)
	it.QuantityInStock = 10
	it.CostPerUnitUSD = types.MustMoney("5")
	require.NoError(t, f.svc.Create(ctx, it))
	require.True(t, f.balanceUSD(t).Equal(types.MustMoney("950")))

	_, err := f.svc.Update(ctx, it.ID, item.Patch{
		Quantity: types.NewOptional(int64(20)),
	})
	require.NoError(t, err)

	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("950")))
}

func TestUpdateBatchItemNeverTriggersLegacyPath(t *testing.T) {
	f := newFixture(t, "1000")
	ctx := context.Background()

	it := item.NewItem("I-001", "Widget", f.company.ID)
	it.UseBatchSystem = true
	it.Status = item.StatusArrived
	require.NoError(t, f.svc.Create(ctx, it))

	_, err := f.svc.Update(ctx, it.ID, item.Patch{
		Status:         types.NewOptional(item.StatusToOrder),
		Quantity:       types.NewOptional(int64(100)),
		CostPerUnitUSD: types.NewOptional(types.MustMoney("10")),
	})
	require.NoError(t, err)

	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("1000")))
}

func TestUpdateTogglingToBatchReleasesCommitment(t *testing.T) {
	f := newFixture(t, "1000")
	ctx := context.Background()

	it := item.NewItem("I-001", "Widget", f.company.ID)
	it.QuantityInStock = 10
	it.CostPerUnitUSD = types.MustMoney("5")
	require.NoError(t, f.svc.Create(ctx, it))
	require.True(t, f.balanceUSD(t).Equal(types.MustMoney("950")))

	_, err := f.svc.Update(ctx, it.ID, item.Patch{
		UseBatchSystem: types.NewOptional(true),
	})
	require.NoError(t, err)

	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("1000")))
}

func TestDeleteLegacyRefundsOpenCommitment(t *testing.T) {
	f := newFixture(t, "1000")
	ctx := context.Background()

	it := item.NewItem("I-001", "Widget", f.company.ID)
	it.QuantityInStock = 10
	it.CostPerUnitUSD = types.MustMoney("5")
	require.NoError(t, f.svc.Create(ctx, it))
	require.True(t, f.balanceUSD(t).Equal(types.MustMoney("950")))

	require.NoError(t, f.svc.Delete(ctx, it.ID))
	assert.True(t, f.balanceUSD(t).Equal(types.MustMoney("1000")))
}

func TestUpdateRejectsForeignLocation(t *testing.T) {
	f := newFixture(t, "1000")
	ctx := context.Background()

	other := company.NewCompany("C-002", "Other")
	f.companies.Seed(other)
	foreign := location.NewLocation("L-X", "Foreign", other.ID)
	f.locations.Seed(foreign)

	it := item.NewItem("I-001", "Widget", f.company.ID)
	it.UseBatchSystem = true
	require.NoError(t, f.svc.Create(ctx, it))

	_, err := f.svc.Update(ctx, it.ID, item.Patch{
		LocationID: types.NewOptional(foreign.ID),
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestPatchClearsOptionalFields(t *testing.T) {
	f := newFixture(t, "1000")
	ctx := context.Background()

	loc := location.NewLocation("L-001", "Warehouse", f.company.ID)
	f.locations.Seed(loc)

	it := item.NewItem("I-001", "Widget", f.company.ID)
	it.UseBatchSystem = true
	it.LocationID = &loc.ID
	require.NoError(t, f.svc.Create(ctx, it))

	// Explicit null clears the location; an absent field would keep it.
	updated, err := f.svc.Update(ctx, it.ID, item.Patch{
		LocationID: types.NullOptional[id.ID](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.LocationID)
}
