package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/vsinha/smartmrp/pkg/config"
	"github.com/vsinha/smartmrp/pkg/interfaces/cli/commands"
	"github.com/vsinha/smartmrp/pkg/logger"
)

type command interface {
	Execute(ctx context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-help" || args[0] == "--help" || args[0] == "help" {
		printUsage(stdout)
		return nil
	}

	name, rest := args[0], args[1:]
	cmd, err := parse(name, rest, stdout, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	return cmd.Execute(ctx)
}

// storeFlags override config values when set on the command line
type storeFlags struct {
	configFile         string
	driver             string
	scenarioDir        string
	sqlitePath         string
	databaseURL        string
	reserveSafetyStock bool
}

func (f *storeFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configFile, "config", "", "Config file (yaml or .env)")
	fs.StringVar(&f.driver, "store", "", "Store driver: csv, sqlite, postgres")
	fs.StringVar(&f.scenarioDir, "scenario", "", "Scenario directory containing CSV files")
	fs.StringVar(&f.sqlitePath, "db", "", "SQLite database file")
	fs.StringVar(&f.databaseURL, "database-url", "", "PostgreSQL connection URL")
	fs.BoolVar(&f.reserveSafetyStock, "reserve-safety-stock", false, "Keep safety stock out of netting")
}

func (f *storeFlags) load(fs *flag.FlagSet) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configFile != "" {
		cfg, err = config.LoadFile(f.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if set["store"] {
		cfg.Store.Driver = f.driver
	}
	if set["scenario"] {
		cfg.Store.ScenarioDir = f.scenarioDir
		if !set["store"] {
			cfg.Store.Driver = config.DriverCSV
		}
	}
	if set["db"] {
		cfg.Store.SQLitePath = f.sqlitePath
		if !set["store"] {
			cfg.Store.Driver = config.DriverSQLite
		}
	}
	if set["database-url"] {
		cfg.Store.DatabaseURL = f.databaseURL
		if !set["store"] {
			cfg.Store.Driver = config.DriverPostgres
		}
	}
	if set["reserve-safety-stock"] {
		cfg.Planning.ReserveSafetyStock = f.reserveSafetyStock
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func parse(name string, args []string, stdout, stderr io.Writer) (command, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		store     storeFlags
		outputDir = fs.String("output", "", "Output directory for results (optional)")
		format    = fs.String("format", "text", "Output format: text, json, csv")
		verbose   = fs.Bool("verbose", false, "Enable verbose output")
		help      = fs.Bool("help", false, "Show help message")
	)

	switch name {
	case "run", "rollup", "validate", "import":
		store.register(fs)
	case "generate":
	default:
		return nil, fmt.Errorf("unknown command %q (run 'mrp help')", name)
	}

	var (
		product    = new(string)
		source     = new(string)
		items      = new(int)
		maxDepth   = new(int)
		workOrders = new(int)
		inventory  = new(float64)
		seed       = new(int64)
	)
	switch name {
	case "rollup":
		fs.StringVar(product, "product", "", "Product id or SKU (default: every subassembly)")
	case "import":
		fs.StringVar(source, "from", "", "Scenario directory to import")
	case "generate":
		fs.IntVar(items, "items", 0, "Number of products to generate")
		fs.IntVar(maxDepth, "max-depth", 0, "Maximum depth of BOM tree")
		fs.IntVar(workOrders, "work-orders", 10, "Number of open work orders")
		fs.Float64Var(inventory, "inventory", 0.5, "Inventory multiplier")
		fs.Int64Var(seed, "seed", 0, "Random seed for reproducible generation")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if name == "generate" {
		return commands.NewGenerateCommand(commands.GenerateConfig{
			Items:      *items,
			MaxDepth:   *maxDepth,
			WorkOrders: *workOrders,
			Inventory:  *inventory,
			OutputDir:  *outputDir,
			Seed:       *seed,
			Help:       *help,
			Verbose:    *verbose,
			Out:        stdout,
		}), nil
	}

	base := commands.Config{
		OutputDir: *outputDir,
		Format:    *format,
		Verbose:   *verbose,
		Help:      *help,
		Out:       stdout,
	}
	if !*help {
		cfg, err := store.load(fs)
		if err != nil {
			return nil, err
		}
		base.App = cfg
		base.Logger = logger.NewWithWriter(logger.Config{
			Env:   cfg.App.Env,
			Level: cfg.App.LogLevel,
		}, stderr).Zerolog()
	}

	switch name {
	case "run":
		return commands.NewMRPCommand(base), nil
	case "rollup":
		return commands.NewRollupCommand(commands.RollupConfig{Config: base, Product: *product}), nil
	case "validate":
		return commands.NewValidateCommand(base), nil
	default:
		return commands.NewImportCommand(commands.ImportConfig{Config: base, Source: *source}), nil
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `SmartMRP - material requirements planning and BOM cost roll-up

USAGE:
    mrp <command> [OPTIONS]

COMMANDS:
    run        Explode open work orders into purchase and production requirements
    rollup     Roll up BOM costs for one product or every subassembly
    validate   Report BOM cycles, duplicate edges and invalid quantities
    import     Copy a CSV scenario into the SQLite or PostgreSQL store
    generate   Write a synthetic CSV scenario

Run 'mrp <command> -help' for command options. Settings can also come from
mrp.yaml or MRP_* environment variables (see pkg/config).
`)
}
