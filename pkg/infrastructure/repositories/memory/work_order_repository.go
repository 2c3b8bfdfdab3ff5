package memory

import (
	"context"
	"sync"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
	"github.com/vsinha/smartmrp/pkg/domain/repositories"
)

// WorkOrderRepository provides in-memory work order storage
type WorkOrderRepository struct {
	mu     sync.RWMutex
	orders []entities.WorkOrder
}

// NewWorkOrderRepository creates a new in-memory work order repository
func NewWorkOrderRepository() *WorkOrderRepository {
	return &WorkOrderRepository{}
}

// Verify interface compliance
var _ repositories.WorkOrderRepository = (*WorkOrderRepository)(nil)

// LoadWorkOrders loads work orders into the repository
func (r *WorkOrderRepository) LoadWorkOrders(orders []*entities.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, wo := range orders {
		r.orders = append(r.orders, *wo)
	}
	return nil
}

// ListOpenWorkOrders returns orders that are neither completed nor cancelled,
// in insertion order
func (r *WorkOrderRepository) ListOpenWorkOrders(_ context.Context) ([]*entities.WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []*entities.WorkOrder
	for i := range r.orders {
		if !r.orders[i].IsOpen() {
			continue
		}
		wo := r.orders[i]
		orders = append(orders, &wo)
	}
	return orders, nil
}
