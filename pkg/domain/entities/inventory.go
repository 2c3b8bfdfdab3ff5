package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is the on-hand snapshot of one product
type InventoryItem struct {
	ProductID        ProductID
	QuantityOnHand   decimal.Decimal
	ReservedQuantity decimal.Decimal
	SafetyStock      decimal.Decimal
	LastUpdated      time.Time
}

// NewInventoryItem creates a validated InventoryItem
func NewInventoryItem(productID ProductID, onHand, reserved, safetyStock decimal.Decimal) (*InventoryItem, error) {
	item := &InventoryItem{
		ProductID:        productID,
		QuantityOnHand:   onHand,
		ReservedQuantity: reserved,
		SafetyStock:      safetyStock,
		LastUpdated:      time.Now(),
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate checks that quantities are not negative
func (i InventoryItem) Validate() error {
	if i.ProductID <= 0 {
		return fmt.Errorf("product id must be positive, got %d", i.ProductID)
	}
	if i.QuantityOnHand.IsNegative() {
		return fmt.Errorf("%w: quantity on hand cannot be negative, got %s (product %d)",
			ErrInvalidQuantity, i.QuantityOnHand, i.ProductID)
	}
	if i.ReservedQuantity.IsNegative() {
		return fmt.Errorf("%w: reserved quantity cannot be negative, got %s (product %d)",
			ErrInvalidQuantity, i.ReservedQuantity, i.ProductID)
	}
	if i.SafetyStock.IsNegative() {
		return fmt.Errorf("%w: safety stock cannot be negative, got %s (product %d)",
			ErrInvalidQuantity, i.SafetyStock, i.ProductID)
	}
	return nil
}
