package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
	"github.com/vsinha/smartmrp/pkg/domain/repositories"
)

// insertBatch keeps bulk inserts below SQLite's host parameter limit
const insertBatch = 500

// Store is a PlanningStore backed by an embedded SQLite database
type Store struct {
	db *sqlx.DB
}

// Verify interface compliance
var (
	_ repositories.PlanningStore      = (*Store)(nil)
	_ repositories.MasterDataImporter = (*Store)(nil)
)

// Open opens (creating if needed) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	}

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	if path == ":memory:" {
		// every connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) GetProduct(ctx context.Context, id entities.ProductID) (*entities.Product, error) {
	var row productRow
	err := s.db.GetContext(ctx, &row, `SELECT id, sku, name, is_subassembly, standard_cost, purchase_price FROM products WHERE id = ?`, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return row.toEntity(), nil
}

func (s *Store) ListProducts(ctx context.Context) ([]*entities.Product, error) {
	var rows []productRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, sku, name, is_subassembly, standard_cost, purchase_price FROM products ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*entities.Product, 0, len(rows))
	for _, r := range rows {
		products = append(products, r.toEntity())
	}
	return products, nil
}

func (s *Store) ListBOMItems(ctx context.Context) ([]*entities.BOMItem, error) {
	var rows []bomItemRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, parent_product_id, component_product_id, quantity, waste_percentage FROM bom_items ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list BOM items: %w", err)
	}

	items := make([]*entities.BOMItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toEntity())
	}
	return items, nil
}

func (s *Store) ListInventory(ctx context.Context) ([]*entities.InventoryItem, error) {
	var rows []inventoryRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT product_id, quantity_on_hand, reserved_quantity, safety_stock, last_updated FROM inventory_items ORDER BY product_id`); err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	items := make([]*entities.InventoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toEntity())
	}
	return items, nil
}

func (s *Store) ListOpenWorkOrders(ctx context.Context) ([]*entities.WorkOrder, error) {
	const q = `
		SELECT id, order_number, product_id, quantity, status, created_date, start_date, due_date
		FROM work_orders
		WHERE status NOT IN (?, ?)
		ORDER BY id`

	var rows []workOrderRow
	if err := s.db.SelectContext(ctx, &rows, q, entities.Completed.String(), entities.Cancelled.String()); err != nil {
		return nil, fmt.Errorf("failed to list open work orders: %w", err)
	}

	orders := make([]*entities.WorkOrder, 0, len(rows))
	for _, r := range rows {
		wo, err := r.toEntity()
		if err != nil {
			return nil, fmt.Errorf("work order %s: %w", r.OrderNumber, err)
		}
		orders = append(orders, wo)
	}
	return orders, nil
}

// ReplaceRequirements deletes and re-inserts inside one transaction
func (s *Store) ReplaceRequirements(ctx context.Context, runID string, reqs []entities.MaterialRequirement) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM material_requirements`); err != nil {
		return fmt.Errorf("failed to clear requirements: %w", err)
	}
	if err := insertRequirementsInTx(ctx, tx, runID, reqs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit requirements: %w", err)
	}
	return nil
}

func (s *Store) ClearRequirements(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM material_requirements`); err != nil {
		return fmt.Errorf("failed to clear requirements: %w", err)
	}
	return nil
}

func (s *Store) SaveRequirements(ctx context.Context, reqs []entities.MaterialRequirement) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertRequirementsInTx(ctx, tx, "", reqs); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) ListRequirements(ctx context.Context) ([]entities.MaterialRequirement, error) {
	const q = `
		SELECT id, run_id, product_id, required_quantity, required_date, requirement_type,
		       reference, is_processed, source_work_order_id, level
		FROM material_requirements
		ORDER BY required_date, id`

	var rows []requirementRow
	if err := s.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}

	reqs := make([]entities.MaterialRequirement, 0, len(rows))
	for _, r := range rows {
		reqs = append(reqs, r.toEntity())
	}
	return reqs, nil
}

func insertRequirementsInTx(ctx context.Context, tx *sqlx.Tx, runID string, reqs []entities.MaterialRequirement) error {
	const q = `
		INSERT INTO material_requirements (
			run_id, product_id, required_quantity, required_date, requirement_type,
			reference, is_processed, source_work_order_id, level
		) VALUES (
			:run_id, :product_id, :required_quantity, :required_date, :requirement_type,
			:reference, :is_processed, :source_work_order_id, :level
		)`

	rows := make([]requirementRow, 0, len(reqs))
	for _, req := range reqs {
		rows = append(rows, newRequirementRow(runID, req))
	}
	return namedInsertInBatches(ctx, tx, q, rows, "requirements")
}

// ImportMasterData replaces every master data table in one transaction.
// Stored requirements are kept.
func (s *Store) ImportMasterData(ctx context.Context, data repositories.MasterData) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"products", "bom_items", "inventory_items", "work_orders"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	products := make([]productRow, 0, len(data.Products))
	for _, p := range data.Products {
		products = append(products, newProductRow(p))
	}
	if err := namedInsertInBatches(ctx, tx, `
		INSERT INTO products (id, sku, name, is_subassembly, standard_cost, purchase_price)
		VALUES (:id, :sku, :name, :is_subassembly, :standard_cost, :purchase_price)`, products, "products"); err != nil {
		return err
	}

	bom := make([]bomItemRow, 0, len(data.BOMItems))
	for _, b := range data.BOMItems {
		bom = append(bom, newBOMItemRow(b))
	}
	if err := namedInsertInBatches(ctx, tx, `
		INSERT INTO bom_items (id, parent_product_id, component_product_id, quantity, waste_percentage)
		VALUES (:id, :parent_product_id, :component_product_id, :quantity, :waste_percentage)`, bom, "BOM items"); err != nil {
		return err
	}

	inventory := make([]inventoryRow, 0, len(data.Inventory))
	for _, i := range data.Inventory {
		inventory = append(inventory, newInventoryRow(i))
	}
	if err := namedInsertInBatches(ctx, tx, `
		INSERT INTO inventory_items (product_id, quantity_on_hand, reserved_quantity, safety_stock, last_updated)
		VALUES (:product_id, :quantity_on_hand, :reserved_quantity, :safety_stock, :last_updated)`, inventory, "inventory"); err != nil {
		return err
	}

	orders := make([]workOrderRow, 0, len(data.WorkOrders))
	for _, w := range data.WorkOrders {
		orders = append(orders, newWorkOrderRow(w))
	}
	if err := namedInsertInBatches(ctx, tx, `
		INSERT INTO work_orders (id, order_number, product_id, quantity, status, created_date, start_date, due_date)
		VALUES (:id, :order_number, :product_id, :quantity, :status, :created_date, :start_date, :due_date)`, orders, "work orders"); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit master data: %w", err)
	}
	return nil
}

// namedInsertInBatches bulk inserts rows with sqlx named binding
func namedInsertInBatches[T any](ctx context.Context, tx *sqlx.Tx, query string, rows []T, kind string) error {
	for start := 0; start < len(rows); start += insertBatch {
		end := start + insertBatch
		if end > len(rows) {
			end = len(rows)
		}
		if _, err := tx.NamedExecContext(ctx, strings.TrimSpace(query), rows[start:end]); err != nil {
			return fmt.Errorf("failed to insert %s: %w", kind, err)
		}
	}
	return nil
}
