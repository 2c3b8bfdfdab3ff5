package commands

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/vsinha/smartmrp/pkg/application/dto"
	"github.com/vsinha/smartmrp/pkg/application/services/costing"
	"github.com/vsinha/smartmrp/pkg/domain/entities"
	"github.com/vsinha/smartmrp/pkg/interfaces/cli/output"
)

// RollupConfig holds configuration for the cost roll-up command
type RollupConfig struct {
	Config
	// Product is an id or SKU; empty rolls up every subassembly
	Product string
}

// RollupCommand prints rolled-up BOM costs
type RollupCommand struct {
	config RollupConfig
}

func NewRollupCommand(config RollupConfig) *RollupCommand {
	return &RollupCommand{config: config}
}

func (c *RollupCommand) Execute(ctx context.Context) error {
	out := c.config.out()
	if c.config.Help {
		fmt.Fprint(out, rollupHelp)
		return nil
	}
	if !output.ValidFormat(c.config.Format) {
		return fmt.Errorf("validation error: unsupported output format: %s", c.config.Format)
	}

	log := c.config.Logger
	ctx = log.WithContext(ctx)

	store, closeStore, err := OpenStore(ctx, c.config.App.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	products, err := productIndex(ctx, store)
	if err != nil {
		return err
	}

	ids, err := c.targets(products)
	if err != nil {
		return err
	}

	service := costing.NewRollupService(store, store, log)
	costs := make([]*dto.CostBreakdown, 0, len(ids))
	for _, id := range ids {
		breakdown, err := service.CostBreakdown(ctx, id)
		if err != nil {
			return fmt.Errorf("cost roll-up of product %d: %w", id, err)
		}
		costs = append(costs, breakdown)
	}

	return output.GenerateCosts(out, costs, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Products:  products,
	})
}

// targets resolves the -product flag, defaulting to all subassemblies in id order
func (c *RollupCommand) targets(products map[entities.ProductID]*entities.Product) ([]entities.ProductID, error) {
	want := strings.TrimSpace(c.config.Product)
	if want != "" {
		if n, err := strconv.ParseInt(want, 10, 64); err == nil {
			if _, ok := products[entities.ProductID(n)]; ok {
				return []entities.ProductID{entities.ProductID(n)}, nil
			}
		}
		for id, p := range products {
			if strings.EqualFold(p.SKU, want) {
				return []entities.ProductID{id}, nil
			}
		}
		return nil, fmt.Errorf("product %q: %w", want, entities.ErrNotFound)
	}

	var ids []entities.ProductID
	for id, p := range products {
		if p.IsSubassembly {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

const rollupHelp = `SmartMRP cost roll-up

USAGE:
    mrp rollup [OPTIONS]

OPTIONS:
    -product <id|sku>   Product to roll up (default: every subassembly)
    -store, -scenario, -db, -database-url, -config   Store selection, as for run
    -format <fmt>       Output format: text, json, csv (default: text)
    -output <dir>       Output directory for results (optional)
    -verbose            Print the per-component breakdown
    -help               Show this help message
`
