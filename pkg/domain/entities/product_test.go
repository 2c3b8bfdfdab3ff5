package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_Validation(t *testing.T) {
	product, err := NewProduct(1, "DRN-01", "Drone", true, decimal.NewFromInt(100), decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, ProductID(1), product.ID)
	assert.Equal(t, "DRN-01 (Drone)", product.Label())

	testCases := []struct {
		name          string
		id            ProductID
		sku           string
		standardCost  decimal.Decimal
		purchasePrice decimal.Decimal
		expectError   string
	}{
		{"zero id", 0, "SKU", decimal.Zero, decimal.Zero, "product id must be positive, got 0"},
		{"empty sku", 1, "", decimal.Zero, decimal.Zero, "sku cannot be empty"},
		{"negative standard cost", 1, "SKU", decimal.NewFromInt(-1), decimal.Zero, "standard cost cannot be negative, got -1"},
		{"negative purchase price", 1, "SKU", decimal.Zero, decimal.NewFromInt(-2), "purchase price cannot be negative, got -2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProduct(tc.id, tc.sku, "", false, tc.standardCost, tc.purchasePrice)
			require.Error(t, err)
			assert.Equal(t, tc.expectError, err.Error())
		})
	}
}

func TestProduct_UnitCost(t *testing.T) {
	tests := []struct {
		name          string
		standardCost  string
		purchasePrice string
		expected      string
	}{
		{"purchase price wins when positive", "5", "7.25", "7.25"},
		{"standard cost when no purchase price", "5", "0", "5"},
		{"zero when neither is set", "0", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{
				StandardCost:  decimal.RequireFromString(tt.standardCost),
				PurchasePrice: decimal.RequireFromString(tt.purchasePrice),
			}
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(p.UnitCost()))
		})
	}
}
