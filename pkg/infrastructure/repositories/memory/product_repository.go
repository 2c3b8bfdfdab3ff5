package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
	"github.com/vsinha/smartmrp/pkg/domain/repositories"
)

// ProductRepository provides in-memory product master data
type ProductRepository struct {
	mu          sync.RWMutex
	products    []entities.Product
	productsMap map[entities.ProductID]int
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository(expectedProducts int) *ProductRepository {
	return &ProductRepository{
		products:    make([]entities.Product, 0, expectedProducts),
		productsMap: make(map[entities.ProductID]int, expectedProducts),
	}
}

// Verify interface compliance
var _ repositories.ProductRepository = (*ProductRepository)(nil)

// LoadProducts loads products into the repository
func (r *ProductRepository) LoadProducts(products []*entities.Product) error {
	for _, p := range products {
		r.AddProduct(*p)
	}
	return nil
}

// AddProduct adds or replaces a product
func (r *ProductRepository) AddProduct(p entities.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index, exists := r.productsMap[p.ID]; exists {
		r.products[index] = p
		return
	}
	r.productsMap[p.ID] = len(r.products)
	r.products = append(r.products, p)
}

// GetProduct returns product master data for an id
func (r *ProductRepository) GetProduct(_ context.Context, id entities.ProductID) (*entities.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.productsMap[id]
	if !exists {
		return nil, fmt.Errorf("product %d: %w", id, entities.ErrNotFound)
	}
	p := r.products[index]
	return &p, nil
}

// ListProducts returns all products in insertion order
func (r *ProductRepository) ListProducts(_ context.Context) ([]*entities.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*entities.Product, 0, len(r.products))
	for i := range r.products {
		p := r.products[i]
		products = append(products, &p)
	}
	return products, nil
}
