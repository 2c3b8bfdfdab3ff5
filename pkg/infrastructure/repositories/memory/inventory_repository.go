package memory

import (
	"context"
	"sync"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
	"github.com/vsinha/smartmrp/pkg/domain/repositories"
)

// InventoryRepository provides in-memory on-hand snapshots, one per product
type InventoryRepository struct {
	mu    sync.RWMutex
	items []entities.InventoryItem
	index map[entities.ProductID]int
}

// NewInventoryRepository creates a new in-memory inventory repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{
		index: make(map[entities.ProductID]int),
	}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// LoadInventory loads inventory records into the repository
func (r *InventoryRepository) LoadInventory(items []*entities.InventoryItem) error {
	for _, item := range items {
		r.SetInventory(*item)
	}
	return nil
}

// SetInventory adds or replaces the record of one product
func (r *InventoryRepository) SetInventory(item entities.InventoryItem) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i, exists := r.index[item.ProductID]; exists {
		r.items[i] = item
		return
	}
	r.index[item.ProductID] = len(r.items)
	r.items = append(r.items, item)
}

// ListInventory returns all inventory records
func (r *InventoryRepository) ListInventory(_ context.Context) ([]*entities.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*entities.InventoryItem, 0, len(r.items))
	for i := range r.items {
		item := r.items[i]
		items = append(items, &item)
	}
	return items, nil
}
