package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/vsinha/smartmrp/pkg/application/services/mrp"
	"github.com/vsinha/smartmrp/pkg/config"
	"github.com/vsinha/smartmrp/pkg/infrastructure/events"
	"github.com/vsinha/smartmrp/pkg/interfaces/cli/output"
)

// Config holds configuration for the planning run command
type Config struct {
	App       *config.Config
	Logger    zerolog.Logger
	OutputDir string
	Format    string
	Verbose   bool
	Help      bool
	Out       io.Writer
}

func (c Config) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// MRPCommand runs one planning run against the configured store
type MRPCommand struct {
	config Config
}

// NewMRPCommand creates a new MRP command with the given configuration
func NewMRPCommand(config Config) *MRPCommand {
	return &MRPCommand{
		config: config,
	}
}

// Execute runs the MRP command
func (c *MRPCommand) Execute(ctx context.Context) error {
	out := c.config.out()
	if c.config.Help {
		c.showHelp(out)
		return nil
	}

	if !output.ValidFormat(c.config.Format) {
		return fmt.Errorf("validation error: unsupported output format: %s", c.config.Format)
	}

	app := c.config.App
	log := c.config.Logger
	ctx = log.WithContext(ctx)

	if c.config.Verbose {
		c.printHeader(out)
	}

	store, closeStore, err := OpenStore(ctx, app.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, closePublisher := c.publisher()
	defer closePublisher()

	options := mrp.DefaultPlanningOptions()
	options.Netting.ReserveSafetyStock = app.Planning.ReserveSafetyStock
	options.CancelCheckEvery = app.Planning.CancelCheckEvery

	service := mrp.NewMRPService(store,
		mrp.WithPublisher(publisher),
		mrp.WithLogger(log),
		mrp.WithPlanningOptions(options),
	)

	if c.config.Verbose {
		fmt.Fprintln(out, "🔄 Running MRP explosion...")
	}

	result, err := service.Run(ctx)
	if err != nil {
		return fmt.Errorf("error running MRP explosion: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(out, "✅ MRP explosion completed in %v\n", result.Stats.Duration)
		if recorded, ok := publisher.(*events.InMemoryEventStore); ok {
			evts, _ := recorded.ReadEvents(events.StreamForRun(result.RunID), 0)
			fmt.Fprintf(out, "📣 Planning events recorded: %d\n", len(evts))
		}
		fmt.Fprintln(out)
	}

	products, err := productIndex(ctx, store)
	if err != nil {
		return err
	}

	err = output.Generate(out, result, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		Products:  products,
	})
	if err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintln(out, "🏁 MRP analysis complete!")
	}
	return nil
}

// publisher returns the Kafka publisher when brokers are configured and an
// in-memory event store otherwise
func (c *MRPCommand) publisher() (events.Publisher, func()) {
	kafka := c.config.App.Kafka
	if !kafka.Enabled() {
		return events.NewInMemoryEventStore(), func() {}
	}

	p := events.NewKafkaPublisher(kafka.Brokers, kafka.Topic)
	return p, func() {
		if err := p.Close(); err != nil {
			c.config.Logger.Warn().Err(err).Msg("failed to close kafka publisher")
		}
	}
}

// printHeader prints the command header information
func (c *MRPCommand) printHeader(out io.Writer) {
	app := c.config.App
	fmt.Fprintf(out, "🚀 SmartMRP planning run\n")
	fmt.Fprintf(out, "Store: %s\n", describeStore(app.Store))
	fmt.Fprintf(out, "Reserve safety stock: %t\n", app.Planning.ReserveSafetyStock)
	if app.Kafka.Enabled() {
		fmt.Fprintf(out, "Events: kafka %v topic %s\n", app.Kafka.Brokers, app.Kafka.Topic)
	}
	fmt.Fprintf(out, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(out, "Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Fprintln(out)
}

func describeStore(s config.StoreConfig) string {
	switch s.Driver {
	case config.DriverCSV:
		return "csv " + s.ScenarioDir
	case config.DriverSQLite:
		return "sqlite " + s.SQLitePath
	default:
		return s.Driver
	}
}

// showHelp displays the help message
func (c *MRPCommand) showHelp(out io.Writer) {
	fmt.Fprint(out, `SmartMRP - net requirements planning over a multi-level BOM

USAGE:
    mrp run [OPTIONS]

OPTIONS:
    -config <file>          Config file (yaml or .env); default ./mrp.yaml when present
    -store <driver>         Store driver: csv, sqlite, postgres (env MRP_STORE_DRIVER)
    -scenario <dir>         Scenario directory for the csv store (env MRP_SCENARIO_DIR)
    -db <path>              SQLite database file (env MRP_SQLITE_PATH)
    -database-url <url>     PostgreSQL URL (env MRP_DATABASE_URL)
    -reserve-safety-stock   Keep safety stock out of netting
    -output <dir>           Output directory for results (optional)
    -format <fmt>           Output format: text, json, csv (default: text)
    -verbose                Enable verbose output
    -help                   Show this help message

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── products.csv       # id,sku,name,is_subassembly,standard_cost,purchase_price
    ├── bom.csv            # id,parent_id,component_id,quantity,waste_percentage
    ├── inventory.csv      # product_id,quantity_on_hand,reserved_quantity,safety_stock
    ├── work_orders.csv    # id,order_number,product_id,quantity,status,start_date,due_date
    └── requirements.csv   # written by each run

EXAMPLES:
    mrp run -scenario examples/drone -verbose
    mrp run -store sqlite -db plant.db -format json -output results/
    MRP_KAFKA_BROKERS=localhost:9092 mrp run -scenario examples/drone
`)
}
