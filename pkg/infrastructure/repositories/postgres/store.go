package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
	"github.com/vsinha/smartmrp/pkg/domain/repositories"
)

var (
	_ repositories.PlanningStore      = (*Store)(nil)
	_ repositories.MasterDataImporter = (*Store)(nil)
)

var requirementColumns = []string{
	"run_id", "product_id", "required_quantity", "required_date", "requirement_type",
	"reference", "is_processed", "source_work_order_id", "level",
}

// Store is a PlanningStore over PostgreSQL
type Store struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewStore wraps an open pool and makes sure the schema exists
func NewStore(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if err := Migrate(ctx, pool); err != nil {
		return nil, err
	}
	return &Store{pool: pool, tx: NewTxRunner(pool)}, nil
}

// Open connects to databaseURL and returns a ready store
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := NewPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	store, err := NewStore(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id entities.ProductID) (*entities.Product, error) {
	const q = `SELECT id, sku, name, is_subassembly, standard_cost, purchase_price FROM products WHERE id = $1`

	p, err := scanProduct(s.pool.QueryRow(ctx, q, int64(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]*entities.Product, error) {
	const q = `SELECT id, sku, name, is_subassembly, standard_cost, purchase_price FROM products ORDER BY id`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entities.Product, error) {
		return scanProduct(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *Store) ListBOMItems(ctx context.Context) ([]*entities.BOMItem, error) {
	const q = `
		SELECT id, parent_product_id, component_product_id, quantity, waste_percentage
		FROM bom_items ORDER BY id`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list BOM items: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entities.BOMItem, error) {
		var (
			b                 entities.BOMItem
			parent, component int64
		)
		if err := row.Scan(&b.ID, &parent, &component, &b.Quantity, &b.WastePercentage); err != nil {
			return nil, err
		}
		b.ParentProductID = entities.ProductID(parent)
		b.ComponentProductID = entities.ProductID(component)
		return &b, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list BOM items: %w", err)
	}
	return items, nil
}

func (s *Store) ListInventory(ctx context.Context) ([]*entities.InventoryItem, error) {
	const q = `
		SELECT product_id, quantity_on_hand, reserved_quantity, safety_stock, last_updated
		FROM inventory_items ORDER BY product_id`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entities.InventoryItem, error) {
		var (
			i         entities.InventoryItem
			productID int64
		)
		if err := row.Scan(&productID, &i.QuantityOnHand, &i.ReservedQuantity, &i.SafetyStock, &i.LastUpdated); err != nil {
			return nil, err
		}
		i.ProductID = entities.ProductID(productID)
		return &i, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return items, nil
}

func (s *Store) ListOpenWorkOrders(ctx context.Context) ([]*entities.WorkOrder, error) {
	const q = `
		SELECT id, order_number, product_id, quantity, status, created_date, start_date, due_date
		FROM work_orders
		WHERE status <> ALL($1)
		ORDER BY id`

	closed := []string{entities.Completed.String(), entities.Cancelled.String()}
	rows, err := s.pool.Query(ctx, q, closed)
	if err != nil {
		return nil, fmt.Errorf("list open work orders: %w", err)
	}
	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entities.WorkOrder, error) {
		var (
			w         entities.WorkOrder
			productID int64
			status    string
		)
		if err := row.Scan(&w.ID, &w.OrderNumber, &productID, &w.Quantity, &status,
			&w.CreatedDate, &w.StartDate, &w.DueDate); err != nil {
			return nil, err
		}
		parsed, err := entities.ParseWorkOrderStatus(status)
		if err != nil {
			return nil, fmt.Errorf("work order %s: %w", w.OrderNumber, err)
		}
		w.ProductID = entities.ProductID(productID)
		w.Status = parsed
		return &w, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list open work orders: %w", err)
	}
	return orders, nil
}

// ReplaceRequirements deletes and copies the new set inside one transaction
func (s *Store) ReplaceRequirements(ctx context.Context, runID string, reqs []entities.MaterialRequirement) error {
	return s.tx.Run(ctx, func(q Querier) error {
		if _, err := q.Exec(ctx, `DELETE FROM material_requirements`); err != nil {
			return fmt.Errorf("clear requirements: %w", err)
		}
		return copyRequirements(ctx, q, runID, reqs)
	})
}

func (s *Store) ClearRequirements(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM material_requirements`); err != nil {
		return fmt.Errorf("clear requirements: %w", err)
	}
	return nil
}

func (s *Store) SaveRequirements(ctx context.Context, reqs []entities.MaterialRequirement) error {
	return s.tx.Run(ctx, func(q Querier) error {
		return copyRequirements(ctx, q, "", reqs)
	})
}

func (s *Store) ListRequirements(ctx context.Context) ([]entities.MaterialRequirement, error) {
	const q = `
		SELECT id, run_id, product_id, required_quantity, required_date, requirement_type,
		       reference, is_processed, source_work_order_id, level
		FROM material_requirements
		ORDER BY required_date, id`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	reqs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.MaterialRequirement, error) {
		var (
			r         entities.MaterialRequirement
			productID int64
			reqType   int16
		)
		err := row.Scan(&r.ID, &r.RunID, &productID, &r.RequiredQuantity, &r.RequiredDate, &reqType,
			&r.Reference, &r.IsProcessed, &r.SourceWorkOrderID, &r.Level)
		r.ProductID = entities.ProductID(productID)
		r.Type = entities.RequirementType(reqType)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	return reqs, nil
}

// ImportMasterData replaces every master data table in one transaction.
// Stored requirements are kept.
func (s *Store) ImportMasterData(ctx context.Context, data repositories.MasterData) error {
	return s.tx.Run(ctx, func(q Querier) error {
		if _, err := q.Exec(ctx, `TRUNCATE products, bom_items, inventory_items, work_orders`); err != nil {
			return fmt.Errorf("clear master data: %w", err)
		}

		batch := &pgx.Batch{}
		for _, p := range data.Products {
			batch.Queue(`INSERT INTO products (id, sku, name, is_subassembly, standard_cost, purchase_price)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				int64(p.ID), p.SKU, p.Name, p.IsSubassembly, p.StandardCost, p.PurchasePrice)
		}
		for _, b := range data.BOMItems {
			batch.Queue(`INSERT INTO bom_items (id, parent_product_id, component_product_id, quantity, waste_percentage)
				VALUES ($1, $2, $3, $4, $5)`,
				b.ID, int64(b.ParentProductID), int64(b.ComponentProductID), b.Quantity, b.WastePercentage)
		}
		for _, i := range data.Inventory {
			batch.Queue(`INSERT INTO inventory_items (product_id, quantity_on_hand, reserved_quantity, safety_stock, last_updated)
				VALUES ($1, $2, $3, $4, $5)`,
				int64(i.ProductID), i.QuantityOnHand, i.ReservedQuantity, i.SafetyStock, orNow(i.LastUpdated))
		}
		for _, w := range data.WorkOrders {
			batch.Queue(`INSERT INTO work_orders (id, order_number, product_id, quantity, status, created_date, start_date, due_date)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				w.ID, w.OrderNumber, int64(w.ProductID), w.Quantity, w.Status.String(),
				orNow(w.CreatedDate), w.StartDate, w.DueDate)
		}

		if batch.Len() == 0 {
			return nil
		}
		if err := q.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert master data: %w", err)
		}
		return nil
	})
}

func copyRequirements(ctx context.Context, q Querier, runID string, reqs []entities.MaterialRequirement) error {
	if len(reqs) == 0 {
		return nil
	}

	src := pgx.CopyFromSlice(len(reqs), func(i int) ([]any, error) {
		r := reqs[i]
		id := r.RunID
		if runID != "" {
			id = runID
		}
		return []any{
			id, int64(r.ProductID), r.RequiredQuantity, r.RequiredDate.UTC(), int16(r.Type),
			r.Reference, r.IsProcessed, r.SourceWorkOrderID, r.Level,
		}, nil
	})

	n, err := q.CopyFrom(ctx, pgx.Identifier{"material_requirements"}, requirementColumns, src)
	if err != nil {
		return fmt.Errorf("insert requirements: %w", err)
	}
	if int(n) != len(reqs) {
		return fmt.Errorf("insert requirements: copied %d of %d rows", n, len(reqs))
	}
	return nil
}

func scanProduct(row pgx.Row) (*entities.Product, error) {
	var (
		p  entities.Product
		id int64
	)
	if err := row.Scan(&id, &p.SKU, &p.Name, &p.IsSubassembly, &p.StandardCost, &p.PurchasePrice); err != nil {
		return nil, err
	}
	p.ID = entities.ProductID(id)
	return &p, nil
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
