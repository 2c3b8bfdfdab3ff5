package entities

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// ProductID is the stable key of a product in master data
type ProductID int64

func (id ProductID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Product represents the master data the planning core reads for a product
type Product struct {
	ID            ProductID
	SKU           string
	Name          string
	IsSubassembly bool
	StandardCost  decimal.Decimal
	PurchasePrice decimal.Decimal
}

// NewProduct creates a validated Product
func NewProduct(
	id ProductID,
	sku, name string,
	isSubassembly bool,
	standardCost, purchasePrice decimal.Decimal,
) (*Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("product id must be positive, got %d", id)
	}
	if sku == "" {
		return nil, fmt.Errorf("sku cannot be empty")
	}
	if standardCost.IsNegative() {
		return nil, fmt.Errorf("standard cost cannot be negative, got %s", standardCost)
	}
	if purchasePrice.IsNegative() {
		return nil, fmt.Errorf("purchase price cannot be negative, got %s", purchasePrice)
	}

	return &Product{
		ID:            id,
		SKU:           sku,
		Name:          name,
		IsSubassembly: isSubassembly,
		StandardCost:  standardCost,
		PurchasePrice: purchasePrice,
	}, nil
}

// UnitCost returns the purchase price when one is set, otherwise the standard cost
func (p *Product) UnitCost() decimal.Decimal {
	if p.PurchasePrice.IsPositive() {
		return p.PurchasePrice
	}
	return p.StandardCost
}

// Label returns "SKU (Name)" for reports
func (p *Product) Label() string {
	if p.Name == "" {
		return p.SKU
	}
	return fmt.Sprintf("%s (%s)", p.SKU, p.Name)
}
