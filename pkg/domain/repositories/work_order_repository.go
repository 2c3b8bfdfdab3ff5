package repositories

import (
	"context"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
)

// WorkOrderRepository provides the independent demand sources
type WorkOrderRepository interface {
	// ListOpenWorkOrders returns orders not Completed or Cancelled, in a stable order
	ListOpenWorkOrders(ctx context.Context) ([]*entities.WorkOrder, error)
}
