package mrp

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
)

// NettingOptions controls how on-hand stock becomes available for netting
type NettingOptions struct {
	// ReserveSafetyStock keeps SafetyStock out of the available quantity
	ReserveSafetyStock bool
}

// InventoryNetter consumes a private copy of on-hand stock during one run.
// The source records are never modified.
type InventoryNetter struct {
	available map[entities.ProductID]decimal.Decimal
}

// NewInventoryNetter snapshots availability from inventory records.
// ReservedQuantity is not consumed.
func NewInventoryNetter(items []*entities.InventoryItem, opts NettingOptions) *InventoryNetter {
	available := make(map[entities.ProductID]decimal.Decimal, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		qty := item.QuantityOnHand
		if opts.ReserveSafetyStock {
			qty = qty.Sub(item.SafetyStock)
		}
		if qty.IsNegative() {
			qty = decimal.Zero
		}
		available[item.ProductID] = qty
	}
	return &InventoryNetter{available: available}
}

// Available returns the stock left for a product; unknown products have none
func (n *InventoryNetter) Available(id entities.ProductID) decimal.Decimal {
	return n.available[id]
}

// Net consumes up to requested from stock and returns what was consumed and
// what remains uncovered.
func (n *InventoryNetter) Net(id entities.ProductID, requested decimal.Decimal) (consumed, net decimal.Decimal) {
	avail := n.available[id]
	consumed = decimal.Min(avail, requested)
	if consumed.IsNegative() {
		consumed = decimal.Zero
	}
	if consumed.IsPositive() {
		n.available[id] = avail.Sub(consumed)
	}
	return consumed, requested.Sub(consumed)
}
