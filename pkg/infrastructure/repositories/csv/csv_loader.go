package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
)

// Scenario file names inside a scenario directory
const (
	ProductsFile     = "products.csv"
	BOMFile          = "bom.csv"
	InventoryFile    = "inventory.csv"
	WorkOrdersFile   = "work_orders.csv"
	RequirementsFile = "requirements.csv"
)

const dateLayout = "2006-01-02"

var (
	productsHeader     = []string{"id", "sku", "name", "is_subassembly", "standard_cost", "purchase_price"}
	bomHeader          = []string{"id", "parent_id", "component_id", "quantity", "waste_percentage"}
	inventoryHeader    = []string{"product_id", "quantity_on_hand", "reserved_quantity", "safety_stock"}
	workOrdersHeader   = []string{"id", "order_number", "product_id", "quantity", "status", "start_date", "due_date"}
	requirementsHeader = []string{"id", "run_id", "product_id", "required_quantity", "required_date", "type", "reference", "is_processed", "source_work_order_id", "level"}
)

// Loader handles loading planning master data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadProducts loads products from a CSV file
func (l *Loader) LoadProducts(filename string) ([]*entities.Product, error) {
	rows, err := readRecords(filename, "products", productsHeader)
	if err != nil {
		return nil, err
	}

	products := make([]*entities.Product, 0, len(rows))
	for i, record := range rows {
		product, err := parseProduct(record)
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		products = append(products, product)
	}
	return products, nil
}

// LoadBOM loads BOM edges from a CSV file
func (l *Loader) LoadBOM(filename string) ([]*entities.BOMItem, error) {
	rows, err := readRecords(filename, "BOM", bomHeader)
	if err != nil {
		return nil, err
	}

	items := make([]*entities.BOMItem, 0, len(rows))
	for i, record := range rows {
		item, err := parseBOMItem(record)
		if err != nil {
			return nil, fmt.Errorf("BOM CSV row %d: %w", i+2, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// LoadInventory loads on-hand snapshots from a CSV file
func (l *Loader) LoadInventory(filename string) ([]*entities.InventoryItem, error) {
	rows, err := readRecords(filename, "inventory", inventoryHeader)
	if err != nil {
		return nil, err
	}

	items := make([]*entities.InventoryItem, 0, len(rows))
	for i, record := range rows {
		item, err := parseInventoryItem(record)
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: %w", i+2, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// LoadWorkOrders loads work orders from a CSV file
func (l *Loader) LoadWorkOrders(filename string) ([]*entities.WorkOrder, error) {
	rows, err := readRecords(filename, "work orders", workOrdersHeader)
	if err != nil {
		return nil, err
	}

	orders := make([]*entities.WorkOrder, 0, len(rows))
	for i, record := range rows {
		wo, err := parseWorkOrder(record)
		if err != nil {
			return nil, fmt.Errorf("work orders CSV row %d: %w", i+2, err)
		}
		orders = append(orders, wo)
	}
	return orders, nil
}

// LoadRequirements loads a requirement set written by WriteRequirements
func (l *Loader) LoadRequirements(filename string) ([]entities.MaterialRequirement, error) {
	rows, err := readRecords(filename, "requirements", requirementsHeader)
	if err != nil {
		return nil, err
	}

	reqs := make([]entities.MaterialRequirement, 0, len(rows))
	for i, record := range rows {
		req, err := parseRequirement(record)
		if err != nil {
			return nil, fmt.Errorf("requirements CSV row %d: %w", i+2, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// WriteRequirements writes requirements in the requirements.csv format
func WriteRequirements(w io.Writer, reqs []entities.MaterialRequirement) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(requirementsHeader); err != nil {
		return fmt.Errorf("failed to write requirements header: %w", err)
	}

	for _, req := range reqs {
		source := ""
		if req.SourceWorkOrderID != nil {
			source = strconv.FormatInt(*req.SourceWorkOrderID, 10)
		}
		record := []string{
			strconv.FormatInt(req.ID, 10),
			req.RunID,
			req.ProductID.String(),
			req.RequiredQuantity.String(),
			req.RequiredDate.Format(dateLayout),
			req.Type.String(),
			req.Reference,
			strconv.FormatBool(req.IsProcessed),
			source,
			strconv.Itoa(req.Level),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write requirement %d: %w", req.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Helper functions for parsing CSV records

// readRecords returns the data rows of a CSV file after checking its header
func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(expectedHeader)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header row", kind)
	}

	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, records[0])
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseProductID(field, s string) (entities.ProductID, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", field, s)
	}
	return entities.ProductID(id), nil
}

func parseInt64(field, s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", field, s)
	}
	return n, nil
}

// parseDecimal treats an empty field as zero
func parseDecimal(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", field, s)
	}
	return d, nil
}

func parseOptionalDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format: %s (expected YYYY-MM-DD)", field, s)
	}
	return &t, nil
}

func parseProduct(record []string) (*entities.Product, error) {
	id, err := parseProductID("id", record[0])
	if err != nil {
		return nil, err
	}

	isSub, err := strconv.ParseBool(strings.TrimSpace(record[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid is_subassembly: %s", record[3])
	}

	standard, err := parseDecimal("standard_cost", record[4])
	if err != nil {
		return nil, err
	}

	purchase, err := parseDecimal("purchase_price", record[5])
	if err != nil {
		return nil, err
	}

	return entities.NewProduct(id, strings.TrimSpace(record[1]), record[2], isSub, standard, purchase)
}

func parseBOMItem(record []string) (*entities.BOMItem, error) {
	id, err := parseInt64("id", record[0])
	if err != nil {
		return nil, err
	}

	parent, err := parseProductID("parent_id", record[1])
	if err != nil {
		return nil, err
	}

	component, err := parseProductID("component_id", record[2])
	if err != nil {
		return nil, err
	}

	qty, err := parseDecimal("quantity", record[3])
	if err != nil {
		return nil, err
	}

	waste, err := parseDecimal("waste_percentage", record[4])
	if err != nil {
		return nil, err
	}

	return entities.NewBOMItem(id, parent, component, qty, waste)
}

func parseInventoryItem(record []string) (*entities.InventoryItem, error) {
	id, err := parseProductID("product_id", record[0])
	if err != nil {
		return nil, err
	}

	onHand, err := parseDecimal("quantity_on_hand", record[1])
	if err != nil {
		return nil, err
	}

	reserved, err := parseDecimal("reserved_quantity", record[2])
	if err != nil {
		return nil, err
	}

	safety, err := parseDecimal("safety_stock", record[3])
	if err != nil {
		return nil, err
	}

	return entities.NewInventoryItem(id, onHand, reserved, safety)
}

func parseWorkOrder(record []string) (*entities.WorkOrder, error) {
	id, err := parseInt64("id", record[0])
	if err != nil {
		return nil, err
	}

	productID, err := parseProductID("product_id", record[2])
	if err != nil {
		return nil, err
	}

	qty, err := parseDecimal("quantity", record[3])
	if err != nil {
		return nil, err
	}

	status, err := entities.ParseWorkOrderStatus(record[4])
	if err != nil {
		return nil, err
	}

	start, err := parseOptionalDate("start_date", record[5])
	if err != nil {
		return nil, err
	}

	due, err := parseOptionalDate("due_date", record[6])
	if err != nil {
		return nil, err
	}

	return entities.NewWorkOrder(id, strings.TrimSpace(record[1]), productID, qty, status, start, due)
}

func parseRequirement(record []string) (entities.MaterialRequirement, error) {
	var req entities.MaterialRequirement
	var err error

	if req.ID, err = parseInt64("id", record[0]); err != nil {
		return req, err
	}
	req.RunID = record[1]
	if req.ProductID, err = parseProductID("product_id", record[2]); err != nil {
		return req, err
	}
	if req.RequiredQuantity, err = parseDecimal("required_quantity", record[3]); err != nil {
		return req, err
	}

	date, err := parseOptionalDate("required_date", record[4])
	if err != nil {
		return req, err
	}
	if date != nil {
		req.RequiredDate = *date
	}

	if req.Type, err = entities.ParseRequirementType(record[5]); err != nil {
		return req, err
	}
	req.Reference = record[6]
	if req.IsProcessed, err = strconv.ParseBool(record[7]); err != nil {
		return req, fmt.Errorf("invalid is_processed: %s", record[7])
	}

	if s := strings.TrimSpace(record[8]); s != "" {
		source, err := parseInt64("source_work_order_id", s)
		if err != nil {
			return req, err
		}
		req.SourceWorkOrderID = &source
	}

	if req.Level, err = strconv.Atoi(strings.TrimSpace(record[9])); err != nil {
		return req, fmt.Errorf("invalid level: %s", record[9])
	}

	return req, nil
}
