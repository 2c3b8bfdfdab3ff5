package memory

import (
	"context"

	"github.com/vsinha/smartmrp/pkg/domain/repositories"
)

// Store composes the in-memory repositories into one PlanningStore
type Store struct {
	*ProductRepository
	*BOMRepository
	*InventoryRepository
	*WorkOrderRepository
	*RequirementRepository
}

// NewStore creates an empty in-memory planning store
func NewStore() *Store {
	return &Store{
		ProductRepository:     NewProductRepository(64),
		BOMRepository:         NewBOMRepository(128),
		InventoryRepository:   NewInventoryRepository(),
		WorkOrderRepository:   NewWorkOrderRepository(),
		RequirementRepository: NewRequirementRepository(),
	}
}

// Verify interface compliance
var (
	_ repositories.PlanningStore      = (*Store)(nil)
	_ repositories.MasterDataImporter = (*Store)(nil)
)

// ImportMasterData replaces products, BOM, inventory and work orders.
// Stored requirements are kept.
func (s *Store) ImportMasterData(ctx context.Context, data repositories.MasterData) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.ProductRepository = NewProductRepository(len(data.Products))
	s.BOMRepository = NewBOMRepository(len(data.BOMItems))
	s.InventoryRepository = NewInventoryRepository()
	s.WorkOrderRepository = NewWorkOrderRepository()

	if err := s.LoadProducts(data.Products); err != nil {
		return err
	}
	if err := s.LoadBOMItems(data.BOMItems); err != nil {
		return err
	}
	if err := s.LoadInventory(data.Inventory); err != nil {
		return err
	}
	return s.LoadWorkOrders(data.WorkOrders)
}
