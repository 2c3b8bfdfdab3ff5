package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/smartmrp/pkg/config"
	"github.com/vsinha/smartmrp/pkg/domain/entities"
	"github.com/vsinha/smartmrp/pkg/domain/repositories"
	csvrepo "github.com/vsinha/smartmrp/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/smartmrp/pkg/infrastructure/repositories/postgres"
	"github.com/vsinha/smartmrp/pkg/infrastructure/repositories/sqlite"
)

// OpenStore opens the planning store selected by cfg.Driver. The returned
// close func is never nil.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (repositories.PlanningStore, func() error, error) {
	switch cfg.Driver {
	case config.DriverCSV:
		store, err := csvrepo.OpenScenario(cfg.ScenarioDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open scenario %s: %w", cfg.ScenarioDir, err)
		}
		return store, func() error { return nil }, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case config.DriverPostgres:
		store, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// productIndex maps ids to products for display
func productIndex(ctx context.Context, products repositories.ProductRepository) (map[entities.ProductID]*entities.Product, error) {
	list, err := products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	index := make(map[entities.ProductID]*entities.Product, len(list))
	for _, p := range list {
		index[p.ID] = p
	}
	return index, nil
}
