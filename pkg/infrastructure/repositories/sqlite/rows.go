package sqlite

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
)

type productRow struct {
	ID            int64           `db:"id"`
	SKU           string          `db:"sku"`
	Name          string          `db:"name"`
	IsSubassembly bool            `db:"is_subassembly"`
	StandardCost  decimal.Decimal `db:"standard_cost"`
	PurchasePrice decimal.Decimal `db:"purchase_price"`
}

func (r productRow) toEntity() *entities.Product {
	return &entities.Product{
		ID:            entities.ProductID(r.ID),
		SKU:           r.SKU,
		Name:          r.Name,
		IsSubassembly: r.IsSubassembly,
		StandardCost:  r.StandardCost,
		PurchasePrice: r.PurchasePrice,
	}
}

func newProductRow(p *entities.Product) productRow {
	return productRow{
		ID:            int64(p.ID),
		SKU:           p.SKU,
		Name:          p.Name,
		IsSubassembly: p.IsSubassembly,
		StandardCost:  p.StandardCost,
		PurchasePrice: p.PurchasePrice,
	}
}

type bomItemRow struct {
	ID                 int64           `db:"id"`
	ParentProductID    int64           `db:"parent_product_id"`
	ComponentProductID int64           `db:"component_product_id"`
	Quantity           decimal.Decimal `db:"quantity"`
	WastePercentage    decimal.Decimal `db:"waste_percentage"`
}

func (r bomItemRow) toEntity() *entities.BOMItem {
	return &entities.BOMItem{
		ID:                 r.ID,
		ParentProductID:    entities.ProductID(r.ParentProductID),
		ComponentProductID: entities.ProductID(r.ComponentProductID),
		Quantity:           r.Quantity,
		WastePercentage:    r.WastePercentage,
	}
}

func newBOMItemRow(b *entities.BOMItem) bomItemRow {
	return bomItemRow{
		ID:                 b.ID,
		ParentProductID:    int64(b.ParentProductID),
		ComponentProductID: int64(b.ComponentProductID),
		Quantity:           b.Quantity,
		WastePercentage:    b.WastePercentage,
	}
}

type inventoryRow struct {
	ProductID        int64           `db:"product_id"`
	QuantityOnHand   decimal.Decimal `db:"quantity_on_hand"`
	ReservedQuantity decimal.Decimal `db:"reserved_quantity"`
	SafetyStock      decimal.Decimal `db:"safety_stock"`
	LastUpdated      time.Time       `db:"last_updated"`
}

func (r inventoryRow) toEntity() *entities.InventoryItem {
	return &entities.InventoryItem{
		ProductID:        entities.ProductID(r.ProductID),
		QuantityOnHand:   r.QuantityOnHand,
		ReservedQuantity: r.ReservedQuantity,
		SafetyStock:      r.SafetyStock,
		LastUpdated:      r.LastUpdated,
	}
}

func newInventoryRow(i *entities.InventoryItem) inventoryRow {
	updated := i.LastUpdated
	if updated.IsZero() {
		updated = time.Now()
	}
	return inventoryRow{
		ProductID:        int64(i.ProductID),
		QuantityOnHand:   i.QuantityOnHand,
		ReservedQuantity: i.ReservedQuantity,
		SafetyStock:      i.SafetyStock,
		LastUpdated:      updated.UTC(),
	}
}

type workOrderRow struct {
	ID          int64           `db:"id"`
	OrderNumber string          `db:"order_number"`
	ProductID   int64           `db:"product_id"`
	Quantity    decimal.Decimal `db:"quantity"`
	Status      string          `db:"status"`
	CreatedDate time.Time       `db:"created_date"`
	StartDate   sql.NullTime    `db:"start_date"`
	DueDate     sql.NullTime    `db:"due_date"`
}

func (r workOrderRow) toEntity() (*entities.WorkOrder, error) {
	status, err := entities.ParseWorkOrderStatus(r.Status)
	if err != nil {
		return nil, err
	}
	return &entities.WorkOrder{
		ID:          r.ID,
		OrderNumber: r.OrderNumber,
		ProductID:   entities.ProductID(r.ProductID),
		Quantity:    r.Quantity,
		Status:      status,
		CreatedDate: r.CreatedDate,
		StartDate:   fromNullTime(r.StartDate),
		DueDate:     fromNullTime(r.DueDate),
	}, nil
}

func newWorkOrderRow(w *entities.WorkOrder) workOrderRow {
	created := w.CreatedDate
	if created.IsZero() {
		created = time.Now()
	}
	return workOrderRow{
		ID:          w.ID,
		OrderNumber: w.OrderNumber,
		ProductID:   int64(w.ProductID),
		Quantity:    w.Quantity,
		Status:      w.Status.String(),
		CreatedDate: created.UTC(),
		StartDate:   toNullTime(w.StartDate),
		DueDate:     toNullTime(w.DueDate),
	}
}

type requirementRow struct {
	ID                int64           `db:"id"`
	RunID             string          `db:"run_id"`
	ProductID         int64           `db:"product_id"`
	RequiredQuantity  decimal.Decimal `db:"required_quantity"`
	RequiredDate      time.Time       `db:"required_date"`
	RequirementType   int             `db:"requirement_type"`
	Reference         string          `db:"reference"`
	IsProcessed       bool            `db:"is_processed"`
	SourceWorkOrderID sql.NullInt64   `db:"source_work_order_id"`
	Level             int             `db:"level"`
}

func (r requirementRow) toEntity() entities.MaterialRequirement {
	req := entities.MaterialRequirement{
		ID:               r.ID,
		RunID:            r.RunID,
		ProductID:        entities.ProductID(r.ProductID),
		RequiredQuantity: r.RequiredQuantity,
		RequiredDate:     r.RequiredDate,
		Type:             entities.RequirementType(r.RequirementType),
		Reference:        r.Reference,
		IsProcessed:      r.IsProcessed,
		Level:            r.Level,
	}
	if r.SourceWorkOrderID.Valid {
		id := r.SourceWorkOrderID.Int64
		req.SourceWorkOrderID = &id
	}
	return req
}

func newRequirementRow(runID string, m entities.MaterialRequirement) requirementRow {
	row := requirementRow{
		RunID:            m.RunID,
		ProductID:        int64(m.ProductID),
		RequiredQuantity: m.RequiredQuantity,
		RequiredDate:     m.RequiredDate.UTC(),
		RequirementType:  int(m.Type),
		Reference:        m.Reference,
		IsProcessed:      m.IsProcessed,
		Level:            m.Level,
	}
	if runID != "" {
		row.RunID = runID
	}
	if m.SourceWorkOrderID != nil {
		row.SourceWorkOrderID = sql.NullInt64{Int64: *m.SourceWorkOrderID, Valid: true}
	}
	return row
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func fromNullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
