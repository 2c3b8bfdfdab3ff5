package repositories

import (
	"context"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
)

// MasterData is a full snapshot of planning inputs, used to seed a store
type MasterData struct {
	Products   []*entities.Product
	BOMItems   []*entities.BOMItem
	Inventory  []*entities.InventoryItem
	WorkOrders []*entities.WorkOrder
}

// MasterDataImporter replaces a store's master data in one step
type MasterDataImporter interface {
	ImportMasterData(ctx context.Context, data MasterData) error
}
