package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkOrder_Validation(t *testing.T) {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)

	order, err := NewWorkOrder(1, "WO-2026-001", 7, decimal.NewFromInt(10), Released, &start, &due)
	require.NoError(t, err)
	assert.True(t, order.IsOpen())

	testCases := []struct {
		name        string
		orderNumber string
		productID   ProductID
		quantity    int64
		start       *time.Time
		due         *time.Time
		expectError string
	}{
		{"empty order number", "", 7, 1, nil, nil, "order number cannot be empty"},
		{"zero product", "WO-1", 0, 1, nil, nil, "product id must be positive, got 0"},
		{"negative quantity", "WO-1", 7, -3, nil, nil, "invalid quantity: work order quantity cannot be negative, got -3"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewWorkOrder(1, tc.orderNumber, tc.productID, decimal.NewFromInt(tc.quantity), Created, tc.start, tc.due)
			require.Error(t, err)
			assert.Equal(t, tc.expectError, err.Error())
		})
	}

	_, err = NewWorkOrder(1, "WO-1", 7, decimal.NewFromInt(1), Created, &due, &start)
	assert.Error(t, err)
}

func TestWorkOrderStatus_IsOpen(t *testing.T) {
	tests := []struct {
		status WorkOrderStatus
		open   bool
	}{
		{Created, true},
		{Released, true},
		{Started, true},
		{Completed, false},
		{Cancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.open, tt.status.IsOpen())

			parsed, err := ParseWorkOrderStatus(tt.status.String())
			require.NoError(t, err)
			assert.Equal(t, tt.status, parsed)
		})
	}

	_, err := ParseWorkOrderStatus("shipped")
	assert.Error(t, err)
}

func TestWorkOrder_RequiredDate(t *testing.T) {
	today := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	withStart := &WorkOrder{StartDate: &start}
	withoutStart := &WorkOrder{}

	assert.Equal(t, start, withStart.RequiredDate(today))
	assert.Equal(t, today, withoutStart.RequiredDate(today))
}
