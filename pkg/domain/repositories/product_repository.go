package repositories

import (
	"context"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
)

// ProductRepository provides access to product master data
type ProductRepository interface {
	// GetProduct returns entities.ErrNotFound (wrapped) when the id is unknown
	GetProduct(ctx context.Context, id entities.ProductID) (*entities.Product, error)
	ListProducts(ctx context.Context) ([]*entities.Product, error)
}
