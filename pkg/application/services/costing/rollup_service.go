package costing

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/vsinha/smartmrp/pkg/application/dto"
	"github.com/vsinha/smartmrp/pkg/domain/entities"
	"github.com/vsinha/smartmrp/pkg/domain/repositories"
	"github.com/vsinha/smartmrp/pkg/domain/services"
)

// RollupService computes the material cost of products from their BOM.
// It only reads, so it can run alongside a planning run.
type RollupService struct {
	products repositories.ProductRepository
	boms     repositories.BOMRepository
	logger   zerolog.Logger
}

// NewRollupService creates a cost roll-up service
func NewRollupService(products repositories.ProductRepository, boms repositories.BOMRepository, logger zerolog.Logger) *RollupService {
	return &RollupService{
		products: products,
		boms:     boms,
		logger:   logger,
	}
}

// RollupCost returns the rolled-up unit cost of a product. Unknown products
// cost zero. A subassembly reachable from itself fails with *CyclicBOMError.
func (s *RollupService) RollupCost(ctx context.Context, id entities.ProductID) (decimal.Decimal, error) {
	calc, err := s.newCalculator(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return calc.cost(id)
}

// RollupCosts rolls up several products over one BOM load
func (s *RollupService) RollupCosts(ctx context.Context, ids []entities.ProductID) (map[entities.ProductID]decimal.Decimal, error) {
	calc, err := s.newCalculator(ctx)
	if err != nil {
		return nil, err
	}

	costs := make(map[entities.ProductID]decimal.Decimal, len(ids))
	for _, id := range ids {
		cost, err := calc.cost(id)
		if err != nil {
			return nil, fmt.Errorf("rollup of product %d failed: %w", id, err)
		}
		costs[id] = cost
	}
	return costs, nil
}

// CostBreakdown lists the first-level components of a product with their
// extended cost. Component subassemblies are rolled up.
func (s *RollupService) CostBreakdown(ctx context.Context, id entities.ProductID) (*dto.CostBreakdown, error) {
	calc, err := s.newCalculator(ctx)
	if err != nil {
		return nil, err
	}

	product, err := calc.product(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("product %d: %w", id, entities.ErrNotFound)
	}

	breakdown := &dto.CostBreakdown{ProductID: id, SKU: product.SKU}
	if !calc.rollsUp(product) {
		breakdown.TotalCost = product.UnitCost()
		return breakdown, nil
	}

	total := decimal.Zero
	for _, edge := range calc.graph.ComponentsOf(id) {
		line := dto.CostLine{
			ComponentID:       edge.ComponentProductID,
			Quantity:          edge.Quantity,
			WastePercentage:   edge.WastePercentage,
			EffectiveQuantity: edge.EffectiveQuantity(),
		}

		component, err := calc.product(edge.ComponentProductID)
		if err != nil {
			return nil, err
		}
		if component == nil {
			line.Unknown = true
		} else {
			line.ComponentSKU = component.SKU
			line.RolledUp = calc.rollsUp(component)
			if line.UnitCost, err = calc.cost(edge.ComponentProductID); err != nil {
				return nil, err
			}
		}

		line.ExtendedCost = line.UnitCost.Mul(line.EffectiveQuantity)
		total = total.Add(line.ExtendedCost)
		breakdown.Lines = append(breakdown.Lines, line)
	}
	breakdown.TotalCost = total

	return breakdown, nil
}

func (s *RollupService) newCalculator(ctx context.Context) (*calculator, error) {
	items, err := s.boms.ListBOMItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load BOM items: %w", err)
	}
	if err := services.NewBOMValidator().ValidateBOM(items).QuantityError(); err != nil {
		return nil, fmt.Errorf("invalid BOM: %w", err)
	}

	return &calculator{
		ctx:      ctx,
		repo:     s.products,
		logger:   s.logger,
		graph:    services.NewBOMGraph(items),
		products: make(map[entities.ProductID]*entities.Product),
		memo:     make(map[entities.ProductID]decimal.Decimal),
	}, nil
}

// calculator holds the state of one roll-up call
type calculator struct {
	ctx      context.Context
	repo     repositories.ProductRepository
	logger   zerolog.Logger
	graph    *services.BOMGraph
	products map[entities.ProductID]*entities.Product // nil value: unknown
	memo     map[entities.ProductID]decimal.Decimal
}

// frame is one subassembly being summed on the explicit stack
type frame struct {
	id    entities.ProductID
	edges []entities.BOMItem
	next  int
	total decimal.Decimal
}

// product returns nil, nil for ids missing from master data
func (c *calculator) product(id entities.ProductID) (*entities.Product, error) {
	if p, ok := c.products[id]; ok {
		return p, nil
	}

	p, err := c.repo.GetProduct(c.ctx, id)
	if err != nil {
		if !errors.Is(err, entities.ErrNotFound) {
			return nil, fmt.Errorf("failed to load product %d: %w", id, err)
		}
		c.logger.Debug().
			Int64("product_id", int64(id)).
			Err(entities.ErrUnknownProduct).
			Msg("unknown product costs zero")
		p = nil
	}
	c.products[id] = p
	return p, nil
}

func (c *calculator) rollsUp(p *entities.Product) bool {
	return p.IsSubassembly && c.graph.IsManufactured(p.ID)
}

func (c *calculator) cost(root entities.ProductID) (decimal.Decimal, error) {
	p, err := c.product(root)
	if err != nil {
		return decimal.Zero, err
	}
	if p == nil {
		return decimal.Zero, nil
	}
	if !c.rollsUp(p) {
		return p.UnitCost(), nil
	}
	if v, ok := c.memo[root]; ok {
		return v, nil
	}

	stack := []*frame{{id: root, edges: c.graph.ComponentsOf(root)}}
	onPath := map[entities.ProductID]bool{root: true}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.next == len(top.edges) {
			c.memo[top.id] = top.total
			delete(onPath, top.id)
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.total = parent.total.Add(top.total.Mul(parent.edges[parent.next].EffectiveQuantity()))
				parent.next++
			}
			continue
		}

		edge := top.edges[top.next]
		componentID := edge.ComponentProductID

		if onPath[componentID] {
			chain := make([]entities.ProductID, 0, len(stack)+1)
			for _, f := range stack {
				chain = append(chain, f.id)
			}
			return decimal.Zero, entities.NewCyclicBOMError(append(chain, componentID))
		}

		component, err := c.product(componentID)
		if err != nil {
			return decimal.Zero, err
		}

		switch {
		case component == nil:
			top.next++
		case c.rollsUp(component):
			if v, ok := c.memo[componentID]; ok {
				top.total = top.total.Add(v.Mul(edge.EffectiveQuantity()))
				top.next++
				continue
			}
			if err := c.ctx.Err(); err != nil {
				return decimal.Zero, err
			}
			stack = append(stack, &frame{id: componentID, edges: c.graph.ComponentsOf(componentID)})
			onPath[componentID] = true
		default:
			top.total = top.total.Add(component.UnitCost().Mul(edge.EffectiveQuantity()))
			top.next++
		}
	}

	return c.memo[root], nil
}
