package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vsinha/smartmrp/pkg/domain/services"
)

// ErrValidationFailed is returned when the BOM has blocking problems
var ErrValidationFailed = errors.New("BOM validation failed")

// ValidateCommand reports BOM structure problems before a planning run
type ValidateCommand struct {
	config Config
}

func NewValidateCommand(config Config) *ValidateCommand {
	return &ValidateCommand{config: config}
}

func (c *ValidateCommand) Execute(ctx context.Context) error {
	out := c.config.out()
	if c.config.Help {
		fmt.Fprint(out, validateHelp)
		return nil
	}

	store, closeStore, err := OpenStore(ctx, c.config.App.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	bom, err := store.ListBOMItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to load BOM items: %w", err)
	}
	orders, err := store.ListOpenWorkOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to load work orders: %w", err)
	}
	products, err := store.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}

	validator := services.NewBOMValidator()
	structure := validator.ValidateBOM(bom)
	references := validator.ValidateProductReferences(bom, orders, products)

	fmt.Fprintf(out, "🔍 BOM validation: %d edges, %d products, %d open work orders\n",
		len(bom), len(products), len(orders))

	report(out, "Invalid quantities", len(structure.InvalidItems), func() {
		for _, item := range structure.InvalidItems {
			fmt.Fprintf(out, "    edge %d: %d -> %d qty %s waste %s%%\n",
				item.ID, item.ParentProductID, item.ComponentProductID, item.Quantity, item.WastePercentage)
		}
	})
	report(out, "Cycles", len(structure.CyclePaths), func() {
		for _, path := range structure.CyclePaths {
			fmt.Fprintf(out, "    %v\n", path)
		}
	})
	report(out, "Duplicate edges", len(structure.DuplicateItems), func() {
		for _, item := range structure.DuplicateItems {
			fmt.Fprintf(out, "    %d -> %d\n", item.ParentProductID, item.ComponentProductID)
		}
	})
	report(out, "Unknown product references (planned at zero stock and cost)", len(references.UnknownReferences), func() {
		fmt.Fprintf(out, "    %v\n", references.UnknownReferences)
	})

	if !structure.IsValid() {
		return fmt.Errorf("%w: %d problem(s)", ErrValidationFailed, len(structure.Errors))
	}
	fmt.Fprintln(out, "✅ BOM is valid")
	return nil
}

func report(out io.Writer, title string, n int, details func()) {
	if n == 0 {
		fmt.Fprintf(out, "  %s: none\n", title)
		return
	}
	fmt.Fprintf(out, "  %s: %d\n", title, n)
	details()
}

const validateHelp = `SmartMRP BOM validation

USAGE:
    mrp validate [OPTIONS]

Reports invalid quantities, cycles, duplicate edges and references to
unknown products. Exits non-zero when quantities, cycles or duplicates
are found.

OPTIONS:
    -store, -scenario, -db, -database-url, -config   Store selection, as for run
    -help               Show this help message
`
