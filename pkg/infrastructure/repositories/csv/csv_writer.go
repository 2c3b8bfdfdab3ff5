package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
	"github.com/vsinha/smartmrp/pkg/domain/repositories"
)

// WriteMasterData writes a scenario directory that LoadMasterData can read back
func WriteMasterData(dir string, data repositories.MasterData) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create scenario directory: %w", err)
	}

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{ProductsFile, func(w io.Writer) error { return WriteProducts(w, data.Products) }},
		{BOMFile, func(w io.Writer) error { return WriteBOM(w, data.BOMItems) }},
		{InventoryFile, func(w io.Writer) error { return WriteInventory(w, data.Inventory) }},
		{WorkOrdersFile, func(w io.Writer) error { return WriteWorkOrders(w, data.WorkOrders) }},
	}

	for _, f := range files {
		if err := writeFileAt(filepath.Join(dir, f.name), f.write); err != nil {
			return err
		}
	}
	return nil
}

// WriteProducts writes products in the products.csv format
func WriteProducts(w io.Writer, products []*entities.Product) error {
	return writeRows(w, "products", productsHeader, len(products), func(i int) []string {
		p := products[i]
		return []string{
			p.ID.String(),
			p.SKU,
			p.Name,
			strconv.FormatBool(p.IsSubassembly),
			p.StandardCost.String(),
			p.PurchasePrice.String(),
		}
	})
}

// WriteBOM writes BOM edges in the bom.csv format
func WriteBOM(w io.Writer, items []*entities.BOMItem) error {
	return writeRows(w, "BOM", bomHeader, len(items), func(i int) []string {
		b := items[i]
		return []string{
			strconv.FormatInt(b.ID, 10),
			b.ParentProductID.String(),
			b.ComponentProductID.String(),
			b.Quantity.String(),
			b.WastePercentage.String(),
		}
	})
}

// WriteInventory writes stock records in the inventory.csv format
func WriteInventory(w io.Writer, items []*entities.InventoryItem) error {
	return writeRows(w, "inventory", inventoryHeader, len(items), func(i int) []string {
		inv := items[i]
		return []string{
			inv.ProductID.String(),
			inv.QuantityOnHand.String(),
			inv.ReservedQuantity.String(),
			inv.SafetyStock.String(),
		}
	})
}

// WriteWorkOrders writes work orders in the work_orders.csv format
func WriteWorkOrders(w io.Writer, orders []*entities.WorkOrder) error {
	return writeRows(w, "work orders", workOrdersHeader, len(orders), func(i int) []string {
		wo := orders[i]
		return []string{
			strconv.FormatInt(wo.ID, 10),
			wo.OrderNumber,
			wo.ProductID.String(),
			wo.Quantity.String(),
			wo.Status.String(),
			formatOptionalDate(wo.StartDate),
			formatOptionalDate(wo.DueDate),
		}
	})
}

func writeRows(w io.Writer, kind string, header []string, n int, record func(i int) []string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", kind, err)
	}
	for i := 0; i < n; i++ {
		if err := writer.Write(record(i)); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", kind, i+2, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeFileAt(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
