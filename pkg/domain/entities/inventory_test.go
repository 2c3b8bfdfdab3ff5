package entities

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryItem_Validation(t *testing.T) {
	item, err := NewInventoryItem(3, decimal.NewFromInt(12), decimal.Zero, decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12).Equal(item.QuantityOnHand))
	assert.False(t, item.LastUpdated.IsZero())

	testCases := []struct {
		name     string
		onHand   int64
		reserved int64
		safety   int64
	}{
		{"negative on hand", -1, 0, 0},
		{"negative reserved", 1, -1, 0},
		{"negative safety stock", 1, 0, -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewInventoryItem(3,
				decimal.NewFromInt(tc.onHand), decimal.NewFromInt(tc.reserved), decimal.NewFromInt(tc.safety))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidQuantity))
		})
	}
}
