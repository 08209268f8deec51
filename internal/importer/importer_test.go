package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProducts(t *testing.T) {
	csvData := strings.Join([]string{
		"sku,style_code,style_name,category,gender,size,cost_price,retail_price",
		"RUN001-9,RUN001,Road Runner,running,unisex,9,45.00,89.95",
		"CAS002-8,CAS002,City Walker,casual,womens,8,,",
		",CAS002,City Walker,casual,womens,8,30,60", // missing sku
		"BOO003-10,BOO003,Trail Boot,outdoor,mens,ten,50,100", // bad size
	}, "\n")

	products, result, err := ParseProducts(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Loaded)
	assert.Equal(t, 2, result.Skipped)
	assert.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "row 4")

	require.Len(t, products, 2)
	assert.Equal(t, "RUN001-9", products[0].SKU)
	assert.Equal(t, "Road Runner", products[0].StyleName)
	assert.Equal(t, 9.0, products[0].Size)
	assert.True(t, products[0].RetailPrice.Equal(decimal.RequireFromString("89.95")))
	assert.True(t, products[1].CostPrice.IsZero())
}

func TestParseProducts_MissingHeaderColumn(t *testing.T) {
	csvData := "sku,style_name\nRUN001-9,Road Runner\n"
	_, _, err := ParseProducts(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "style_code")
}

func TestParseStock(t *testing.T) {
	csvData := strings.Join([]string{
		"store_id,sku,quantity",
		"STORE01,RUN001-9,5",
		"STORE02,RUN001-9,0",
		"STORE03,RUN001-9,-2", // negative stock
		"STORE04,RUN001-9,lots",
		",RUN001-9,3",
	}, "\n")

	positions, result, err := ParseStock(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Loaded)
	assert.Equal(t, 3, result.Skipped)

	require.Len(t, positions, 2)
	assert.Equal(t, "STORE01", positions[0].StoreID)
	assert.Equal(t, 5, positions[0].Quantity)
	assert.Equal(t, 0, positions[1].Quantity)
}

func TestParseStock_HeaderCaseAndExtras(t *testing.T) {
	csvData := "Store_ID, SKU ,Quantity,notes\nSTORE01,RUN001-9,5,ignore me\n"
	positions, result, err := ParseStock(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Loaded)
	require.Len(t, positions, 1)
	assert.Equal(t, "RUN001-9", positions[0].SKU)
}

func TestParseSales(t *testing.T) {
	csvData := strings.Join([]string{
		"store_id,sku,sale_date,quantity,revenue",
		"STORE01,RUN001-9,2024-01-15,2,179.90",
		"STORE02,RUN001-9,2024-01-16,1,",
		"STORE03,RUN001-9,15/01/2024,1,89.95", // wrong date format
		"STORE04,RUN001-9,2024-01-17,-1,",
		"STORE05,RUN001-9,2024-01-18,1,free",
	}, "\n")

	events, result, err := ParseSales(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Loaded)
	assert.Equal(t, 3, result.Skipped)

	require.Len(t, events, 2)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), events[0].SaleDate)
	assert.True(t, events[0].Revenue.Equal(decimal.RequireFromString("179.90")))
	assert.True(t, events[1].Revenue.IsZero())
}

func TestParseSales_EmptyBody(t *testing.T) {
	events, result, err := ParseSales(strings.NewReader("store_id,sku,sale_date,quantity\n"))
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Zero(t, result.Loaded)
	assert.Zero(t, result.Skipped)
}

func TestResult_SkipReference(t *testing.T) {
	result := &Result{Loaded: 3}
	result.SkipReference("store", "STORE99")
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "STORE99")
}

func TestTemplate(t *testing.T) {
	for _, kind := range []string{"products", "stock", "sales"} {
		filename, payload, ok := Template(kind)
		require.True(t, ok, kind)
		assert.Contains(t, filename, kind)
		assert.NotEmpty(t, payload)
	}

	_, _, ok := Template("nope")
	assert.False(t, ok)
}
