package repositories

import (
	"context"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
)

// InventoryRepository provides the current on-hand snapshot
type InventoryRepository interface {
	ListInventory(ctx context.Context) ([]*entities.InventoryItem, error)
}
