package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocklot/internal/core/types"
	"stocklot/internal/domain/batches"
	"stocklot/internal/domain/catalogs/company"
)

func TestExtractDBColumnsFlattensEmbedded(t *testing.T) {
	cols := ExtractDBColumns[company.Company]()

	// Embedded Catalog/BaseEntity columns come through.
	assert.Contains(t, cols, "id")
	assert.Contains(t, cols, "code")
	assert.Contains(t, cols, "name")
	assert.Contains(t, cols, "version")
	assert.Contains(t, cols, "deletion_mark")
	// Own columns.
	assert.Contains(t, cols, "cash_balance_srd")
	assert.Contains(t, cols, "cash_balance_usd")
}

func TestExtractDBColumnsStockBatch(t *testing.T) {
	cols := ExtractDBColumns[batches.StockBatch]()

	for _, want := range []string{
		"id", "item_id", "location_id", "quantity", "original_quantity",
		"status", "cost_per_unit_usd", "freight_cost_usd", "order_number",
		"arrived_date", "created_at", "updated_at",
	} {
		assert.Contains(t, cols, want)
	}
}

func TestStructToMap(t *testing.T) {
	c := company.NewCompany("C-001", "Acme")
	c.CashBalanceUSD = types.MustMoney("12.50")

	m := StructToMap(c)
	require.NotNil(t, m)

	assert.Equal(t, c.ID, m["id"])
	assert.Equal(t, "C-001", m["code"])
	assert.Equal(t, "Acme", m["name"])
	assert.Equal(t, c.CashBalanceUSD, m["cash_balance_usd"])

	// Untagged fields never leak into the column map.
	_, hasJSONOnly := m[""]
	assert.False(t, hasJSONOnly)
}

func TestStructToMapCachesPerType(t *testing.T) {
	first := StructToMap(company.NewCompany("A", "A"))
	second := StructToMap(company.NewCompany("B", "B"))

	assert.Equal(t, len(first), len(second))
	assert.Equal(t, "B", second["code"])
}
