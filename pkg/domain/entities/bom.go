package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// BOMItem is a directed edge parent -> component in the bill of materials.
// Quantity is the amount of component consumed per one unit of parent.
type BOMItem struct {
	ID                 int64
	ParentProductID    ProductID
	ComponentProductID ProductID
	Quantity           decimal.Decimal
	WastePercentage    decimal.Decimal
}

// NewBOMItem creates a validated BOMItem
func NewBOMItem(id int64, parent, component ProductID, quantity, waste decimal.Decimal) (*BOMItem, error) {
	item := &BOMItem{
		ID:                 id,
		ParentProductID:    parent,
		ComponentProductID: component,
		Quantity:           quantity,
		WastePercentage:    waste,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate checks the edge references and quantities. A parent equal to its
// component is not rejected here; that is a cycle and surfaces as CyclicBOMError.
func (b BOMItem) Validate() error {
	if b.ParentProductID <= 0 {
		return fmt.Errorf("parent product id must be positive, got %d", b.ParentProductID)
	}
	if b.ComponentProductID <= 0 {
		return fmt.Errorf("component product id must be positive, got %d", b.ComponentProductID)
	}
	if b.Quantity.IsNegative() {
		return fmt.Errorf("%w: quantity cannot be negative, got %s (%d -> %d)",
			ErrInvalidQuantity, b.Quantity, b.ParentProductID, b.ComponentProductID)
	}
	if b.WastePercentage.IsNegative() || b.WastePercentage.GreaterThanOrEqual(hundred) {
		return fmt.Errorf("%w: waste percentage must be in [0,100), got %s (%d -> %d)",
			ErrInvalidQuantity, b.WastePercentage, b.ParentProductID, b.ComponentProductID)
	}
	return nil
}

// WasteFactor returns 1 + waste/100
func (b BOMItem) WasteFactor() decimal.Decimal {
	return one.Add(b.WastePercentage.Div(hundred))
}

// EffectiveQuantity returns quantity * (1 + waste/100)
func (b BOMItem) EffectiveQuantity() decimal.Decimal {
	return b.Quantity.Mul(b.WasteFactor())
}

// ComponentQuantity returns the component demand generated by parentQty units of the parent
func (b BOMItem) ComponentQuantity(parentQty decimal.Decimal) decimal.Decimal {
	return parentQty.Mul(b.Quantity).Mul(b.WasteFactor())
}
