package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
)

// PlanningResult contains the complete output of a planning run
type PlanningResult struct {
	RunID        string
	StartedAt    time.Time
	Requirements []entities.MaterialRequirement
	Stats        PlanningStats
}

// PlanningStats summarises the work done by one explosion pass
type PlanningStats struct {
	OpenWorkOrders  int
	LinesProcessed  int
	LinesCovered    int
	MaxLevel        int
	PurchaseCount   int
	ProductionCount int
	Duration        time.Duration
}

// RequirementsByType splits requirements by classification, preserving order
func (r *PlanningResult) RequirementsByType(t entities.RequirementType) []entities.MaterialRequirement {
	var out []entities.MaterialRequirement
	for _, req := range r.Requirements {
		if req.Type == t {
			out = append(out, req)
		}
	}
	return out
}

// TotalByProduct sums required quantity per product
func (r *PlanningResult) TotalByProduct() map[entities.ProductID]decimal.Decimal {
	totals := make(map[entities.ProductID]decimal.Decimal)
	for _, req := range r.Requirements {
		totals[req.ProductID] = totals[req.ProductID].Add(req.RequiredQuantity)
	}
	return totals
}

// CostLine is one edge of a cost breakdown
type CostLine struct {
	ComponentID       entities.ProductID
	ComponentSKU      string
	Quantity          decimal.Decimal
	WastePercentage   decimal.Decimal
	EffectiveQuantity decimal.Decimal
	UnitCost          decimal.Decimal
	ExtendedCost      decimal.Decimal
	RolledUp          bool
	Unknown           bool
}

// CostBreakdown is the first-level cost structure of a product
type CostBreakdown struct {
	ProductID entities.ProductID
	SKU       string
	Lines     []CostLine
	TotalCost decimal.Decimal
}
