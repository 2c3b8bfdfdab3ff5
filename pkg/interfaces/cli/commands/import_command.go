package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/smartmrp/pkg/config"
	"github.com/vsinha/smartmrp/pkg/domain/repositories"
	csvrepo "github.com/vsinha/smartmrp/pkg/infrastructure/repositories/csv"
)

// ImportConfig holds configuration for the import command
type ImportConfig struct {
	Config
	// Source is the scenario directory to read
	Source string
}

// ImportCommand copies a CSV scenario into the SQLite or PostgreSQL store
type ImportCommand struct {
	config ImportConfig
}

func NewImportCommand(config ImportConfig) *ImportCommand {
	return &ImportCommand{config: config}
}

func (c *ImportCommand) Execute(ctx context.Context) error {
	out := c.config.out()
	if c.config.Help {
		fmt.Fprint(out, importHelp)
		return nil
	}
	if c.config.Source == "" {
		return fmt.Errorf("validation error: -from is required")
	}
	if c.config.App.Store.Driver == config.DriverCSV {
		return fmt.Errorf("validation error: import needs a database store (-store sqlite or postgres)")
	}

	data, err := csvrepo.LoadMasterData(c.config.Source)
	if err != nil {
		return fmt.Errorf("failed to load scenario %s: %w", c.config.Source, err)
	}

	store, closeStore, err := OpenStore(ctx, c.config.App.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	importer, ok := store.(repositories.MasterDataImporter)
	if !ok {
		return fmt.Errorf("store driver %q does not support import", c.config.App.Store.Driver)
	}
	if err := importer.ImportMasterData(ctx, data); err != nil {
		return fmt.Errorf("failed to import master data: %w", err)
	}

	c.config.Logger.Info().
		Str("source", c.config.Source).
		Str("driver", c.config.App.Store.Driver).
		Int("products", len(data.Products)).
		Int("bom_items", len(data.BOMItems)).
		Int("work_orders", len(data.WorkOrders)).
		Msg("master data imported")

	fmt.Fprintf(out, "✅ Imported %d products, %d BOM edges, %d inventory records, %d work orders\n",
		len(data.Products), len(data.BOMItems), len(data.Inventory), len(data.WorkOrders))
	return nil
}

const importHelp = `SmartMRP master data import

USAGE:
    mrp import -from <scenario dir> -store sqlite|postgres [OPTIONS]

Replaces products, BOM, inventory and work orders in the target store.
Stored requirements are kept until the next run.

OPTIONS:
    -from <dir>         Scenario directory to import (required)
    -store, -db, -database-url, -config   Target store
    -help               Show this help message
`
