package mrp

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vsinha/smartmrp/pkg/application/dto"
	"github.com/vsinha/smartmrp/pkg/domain/entities"
	"github.com/vsinha/smartmrp/pkg/domain/services"
)

// PlanningInput is the master data snapshot one run explodes
type PlanningInput struct {
	WorkOrders []*entities.WorkOrder
	BOMItems   []*entities.BOMItem
	Inventory  []*entities.InventoryItem
}

// Explode nets open work orders against inventory and explodes the uncovered
// quantity of manufactured products level by level. Requirements are returned
// in breadth-first discovery order. On error no partial result is returned.
//
// The logger is taken from ctx (zerolog.Ctx).
func Explode(ctx context.Context, input PlanningInput, opts PlanningOptions) (*dto.PlanningResult, error) {
	opts = opts.withDefaults()
	logger := zerolog.Ctx(ctx)
	started := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	graph := services.NewBOMGraph(input.BOMItems)
	netter := NewInventoryNetter(input.Inventory, opts.Netting)
	queue := NewDemandQueue(len(input.WorkOrders) * 4)
	today := opts.Today()

	result := &dto.PlanningResult{StartedAt: started}

	for _, wo := range input.WorkOrders {
		if wo == nil || !wo.IsOpen() {
			continue
		}
		orderID := wo.ID
		queue.Push(entities.DemandLine{
			ProductID:     wo.ProductID,
			Quantity:      wo.Quantity,
			RequiredDate:  wo.RequiredDate(today),
			Reference:     "WO: " + wo.OrderNumber,
			SourceOrderID: &orderID,
		})
		result.Stats.OpenWorkOrders++
	}

	for {
		item, ok := queue.pop()
		if !ok {
			break
		}
		line := item.line

		result.Stats.LinesProcessed++
		if result.Stats.LinesProcessed%opts.CancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("planning cancelled after %d lines: %w", result.Stats.LinesProcessed, err)
			}
		}
		if line.Level > result.Stats.MaxLevel {
			result.Stats.MaxLevel = line.Level
		}

		consumed, net := netter.Net(line.ProductID, line.Quantity)
		if !net.IsPositive() {
			result.Stats.LinesCovered++
			logger.Debug().
				Int64("product_id", int64(line.ProductID)).
				Str("consumed", consumed.String()).
				Str("reference", line.Reference).
				Msg("demand covered by stock")
			continue
		}

		reqType := entities.Purchase
		if graph.IsManufactured(line.ProductID) {
			reqType = entities.Production
		}

		result.Requirements = append(result.Requirements, entities.MaterialRequirement{
			ProductID:         line.ProductID,
			RequiredQuantity:  net,
			RequiredDate:      line.RequiredDate,
			Type:              reqType,
			Reference:         "Ref: " + line.Reference,
			IsProcessed:       false,
			SourceWorkOrderID: line.SourceOrderID,
			Level:             line.Level,
		})
		if reqType == entities.Purchase {
			result.Stats.PurchaseCount++
			continue
		}
		result.Stats.ProductionCount++

		for _, edge := range graph.ComponentsOf(line.ProductID) {
			if item.path.contains(edge.ComponentProductID) {
				return nil, entities.NewCyclicBOMError(item.path.chain(edge.ComponentProductID))
			}
			queue.push(entities.DemandLine{
				ProductID:     edge.ComponentProductID,
				Quantity:      edge.ComponentQuantity(net),
				RequiredDate:  opts.DateOffsetter.ComponentDate(line.RequiredDate, edge),
				Reference:     "Componente de " + line.Reference,
				SourceOrderID: line.SourceOrderID,
				Level:         line.Level + 1,
			}, item.path)
		}
	}

	result.Stats.Duration = time.Since(started)
	return result, nil
}
