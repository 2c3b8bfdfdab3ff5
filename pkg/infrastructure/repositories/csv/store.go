package csv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
	"github.com/vsinha/smartmrp/pkg/domain/repositories"
	"github.com/vsinha/smartmrp/pkg/infrastructure/repositories/memory"
)

// Store serves a scenario directory from memory and persists each run's
// requirements to requirements.csv in the same directory.
type Store struct {
	*memory.Store
	dir string
}

// Verify interface compliance
var _ repositories.PlanningStore = (*Store)(nil)

// LoadMasterData reads the master data files of a scenario directory.
// products.csv and work_orders.csv are required; bom.csv and inventory.csv
// are optional.
func LoadMasterData(dir string) (repositories.MasterData, error) {
	loader := NewLoader()
	var data repositories.MasterData
	var err error

	if data.Products, err = loader.LoadProducts(filepath.Join(dir, ProductsFile)); err != nil {
		return data, err
	}
	if data.WorkOrders, err = loader.LoadWorkOrders(filepath.Join(dir, WorkOrdersFile)); err != nil {
		return data, err
	}
	if path, ok := optionalFile(dir, BOMFile); ok {
		if data.BOMItems, err = loader.LoadBOM(path); err != nil {
			return data, err
		}
	}
	if path, ok := optionalFile(dir, InventoryFile); ok {
		if data.Inventory, err = loader.LoadInventory(path); err != nil {
			return data, err
		}
	}

	return data, nil
}

// OpenScenario loads a scenario directory, including the requirements.csv
// of a previous run when present.
func OpenScenario(dir string) (*Store, error) {
	data, err := LoadMasterData(dir)
	if err != nil {
		return nil, err
	}

	mem := memory.NewStore()
	if err := mem.ImportMasterData(context.Background(), data); err != nil {
		return nil, err
	}

	if path, ok := optionalFile(dir, RequirementsFile); ok {
		reqs, err := NewLoader().LoadRequirements(path)
		if err != nil {
			return nil, err
		}
		if err := mem.SaveRequirements(context.Background(), reqs); err != nil {
			return nil, err
		}
	}

	return &Store{Store: mem, dir: dir}, nil
}

func optionalFile(dir, name string) (string, bool) {
	path := filepath.Join(dir, name)
	_, err := os.Stat(path)
	return path, err == nil
}

// ReplaceRequirements writes the new set to a temporary file and renames it
// over requirements.csv, then swaps the in-memory set. Cancellation is only
// honoured before the file is written, so the file and memory never disagree.
func (s *Store) ReplaceRequirements(ctx context.Context, runID string, reqs []entities.MaterialRequirement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	committed := context.WithoutCancel(ctx)

	staged := memory.NewRequirementRepository()
	if err := staged.ReplaceRequirements(committed, runID, reqs); err != nil {
		return err
	}
	numbered, err := staged.ListRequirements(committed)
	if err != nil {
		return err
	}

	if err := s.writeFile(numbered); err != nil {
		return err
	}
	return s.Store.ReplaceRequirements(committed, runID, reqs)
}

// ClearRequirements removes requirements.csv and the in-memory set
func (s *Store) ClearRequirements(ctx context.Context) error {
	err := os.Remove(filepath.Join(s.dir, RequirementsFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove requirements file: %w", err)
	}
	return s.Store.ClearRequirements(ctx)
}

// SaveRequirements appends to the stored set and rewrites requirements.csv
func (s *Store) SaveRequirements(ctx context.Context, reqs []entities.MaterialRequirement) error {
	if err := s.Store.SaveRequirements(ctx, reqs); err != nil {
		return err
	}
	all, err := s.Store.ListRequirements(ctx)
	if err != nil {
		return err
	}
	return s.writeFile(all)
}

func (s *Store) writeFile(reqs []entities.MaterialRequirement) error {
	tmp, err := os.CreateTemp(s.dir, ".requirements-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create requirements file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteRequirements(tmp, reqs); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write requirements file: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, RequirementsFile)); err != nil {
		return fmt.Errorf("failed to replace requirements file: %w", err)
	}
	return nil
}
