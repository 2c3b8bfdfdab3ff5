package csv

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeDroneScenario(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, ProductsFile, `id,sku,name,is_subassembly,standard_cost,purchase_price
1,DRONE,Drone,true,0,0
2,CHASSIS,Chassis,true,0,0
3,PCB,Flight controller,false,15,0
4,MOTOR,Brushless motor,false,0,9.5
5,SHEET,"Aluminium sheet, 1mm",false,4,
`)
	writeFile(t, dir, BOMFile, `id,parent_id,component_id,quantity,waste_percentage
1,1,2,1,0
2,1,3,1,0
3,1,4,4,0
4,2,5,0.5,10
`)
	writeFile(t, dir, InventoryFile, `product_id,quantity_on_hand,reserved_quantity,safety_stock
4,12,0,0
`)
	writeFile(t, dir, WorkOrdersFile, `id,order_number,product_id,quantity,status,start_date,due_date
100,WO-100,1,10,Released,2026-03-02,2026-03-20
101,WO-101,1,3,Completed,,
102,WO-102,3,2,Created,,
`)
	return dir
}

func TestLoader_LoadScenarioFiles(t *testing.T) {
	dir := writeDroneScenario(t)
	loader := NewLoader()

	products, err := loader.LoadProducts(filepath.Join(dir, ProductsFile))
	require.NoError(t, err)
	require.Len(t, products, 5)
	assert.True(t, products[0].IsSubassembly)
	assert.Equal(t, "Aluminium sheet, 1mm", products[4].Name)
	assert.True(t, products[4].PurchasePrice.IsZero())
	assert.True(t, products[4].UnitCost().Equal(decimal.NewFromInt(4)))

	bom, err := loader.LoadBOM(filepath.Join(dir, BOMFile))
	require.NoError(t, err)
	require.Len(t, bom, 4)
	assert.True(t, bom[3].EffectiveQuantity().Equal(decimal.RequireFromString("0.55")))

	inventory, err := loader.LoadInventory(filepath.Join(dir, InventoryFile))
	require.NoError(t, err)
	require.Len(t, inventory, 1)
	assert.Equal(t, entities.ProductID(4), inventory[0].ProductID)

	orders, err := loader.LoadWorkOrders(filepath.Join(dir, WorkOrdersFile))
	require.NoError(t, err)
	require.Len(t, orders, 3)
	require.NotNil(t, orders[0].StartDate)
	assert.True(t, orders[0].StartDate.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, orders[1].StartDate)
	assert.Equal(t, entities.Completed, orders[1].Status)
}

func TestLoader_RejectsBadInput(t *testing.T) {
	loader := NewLoader()

	tests := []struct {
		name    string
		file    string
		content string
		load    func(string) error
		isQty   bool
	}{
		{
			name:    "header mismatch",
			file:    BOMFile,
			content: "parent,child,qty,waste,x\n",
			load:    func(p string) error { _, err := loader.LoadBOM(p); return err },
		},
		{
			name:    "negative BOM quantity",
			file:    BOMFile,
			content: "id,parent_id,component_id,quantity,waste_percentage\n1,1,2,-1,0\n",
			load:    func(p string) error { _, err := loader.LoadBOM(p); return err },
			isQty:   true,
		},
		{
			name:    "waste of one hundred percent",
			file:    BOMFile,
			content: "id,parent_id,component_id,quantity,waste_percentage\n1,1,2,1,100\n",
			load:    func(p string) error { _, err := loader.LoadBOM(p); return err },
			isQty:   true,
		},
		{
			name:    "negative stock",
			file:    InventoryFile,
			content: "product_id,quantity_on_hand,reserved_quantity,safety_stock\n1,-2,0,0\n",
			load:    func(p string) error { _, err := loader.LoadInventory(p); return err },
			isQty:   true,
		},
		{
			name:    "bad status",
			file:    WorkOrdersFile,
			content: "id,order_number,product_id,quantity,status,start_date,due_date\n1,WO-1,1,1,Paused,,\n",
			load:    func(p string) error { _, err := loader.LoadWorkOrders(p); return err },
		},
		{
			name:    "wrong column count",
			file:    ProductsFile,
			content: "id,sku,name,is_subassembly,standard_cost,purchase_price\n1,A,A,false\n",
			load:    func(p string) error { _, err := loader.LoadProducts(p); return err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			err := tt.load(path)
			require.Error(t, err)
			assert.Equal(t, tt.isQty, errors.Is(err, entities.ErrInvalidQuantity), err.Error())
		})
	}
}

func TestWriteRequirements_RoundTrip(t *testing.T) {
	source := int64(100)
	reqs := []entities.MaterialRequirement{
		{
			ID:                1,
			RunID:             "run-1",
			ProductID:         5,
			RequiredQuantity:  decimal.RequireFromString("5.5"),
			RequiredDate:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			Type:              entities.Purchase,
			Reference:         "Ref: Componente de Componente de WO: WO-100",
			SourceWorkOrderID: &source,
			Level:             2,
		},
		{
			ID:               2,
			RunID:            "run-1",
			ProductID:        1,
			RequiredQuantity: decimal.NewFromInt(10),
			RequiredDate:     time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			Type:             entities.Production,
			Reference:        "Ref: WO: WO-100",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRequirements(&buf, reqs))
	path := writeFile(t, t.TempDir(), RequirementsFile, buf.String())

	loaded, err := NewLoader().LoadRequirements(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, reqs[0].Reference, loaded[0].Reference)
	assert.True(t, loaded[0].RequiredQuantity.Equal(reqs[0].RequiredQuantity))
	require.NotNil(t, loaded[0].SourceWorkOrderID)
	assert.Equal(t, source, *loaded[0].SourceWorkOrderID)
	assert.Equal(t, 2, loaded[0].Level)
	assert.Nil(t, loaded[1].SourceWorkOrderID)
	assert.Equal(t, entities.Production, loaded[1].Type)
}

func TestOpenScenario(t *testing.T) {
	ctx := context.Background()
	dir := writeDroneScenario(t)

	store, err := OpenScenario(dir)
	require.NoError(t, err)

	open, err := store.ListOpenWorkOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 2)

	reqs, err := store.ListRequirements(ctx)
	require.NoError(t, err)
	assert.Empty(t, reqs)

	require.NoError(t, store.ReplaceRequirements(ctx, "run-1", []entities.MaterialRequirement{
		{ProductID: 4, RequiredQuantity: decimal.NewFromInt(28), Type: entities.Purchase, RequiredDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
	}))
	assert.FileExists(t, filepath.Join(dir, RequirementsFile))

	reopened, err := OpenScenario(dir)
	require.NoError(t, err)
	reqs, err = reopened.ListRequirements(ctx)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "run-1", reqs[0].RunID)
	assert.Equal(t, int64(1), reqs[0].ID)
	assert.True(t, reqs[0].RequiredQuantity.Equal(decimal.NewFromInt(28)))

	require.NoError(t, reopened.ClearRequirements(ctx))
	assert.NoFileExists(t, filepath.Join(dir, RequirementsFile))
}

func TestOpenScenario_MissingRequiredFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProductsFile, "id,sku,name,is_subassembly,standard_cost,purchase_price\n")

	_, err := OpenScenario(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), WorkOrdersFile)
}

// cancelAfterFirstCheck reports cancellation on every Err call but the first
type cancelAfterFirstCheck struct {
	context.Context
	checks int
}

func (c *cancelAfterFirstCheck) Err() error {
	c.checks++
	if c.checks > 1 {
		return context.Canceled
	}
	return nil
}

func TestStore_ReplaceRequirementsCancellation(t *testing.T) {
	ctx := context.Background()
	planned := []entities.MaterialRequirement{
		{ProductID: 4, RequiredQuantity: decimal.NewFromInt(28), Type: entities.Purchase, RequiredDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
	}

	t.Run("cancelled before the write keeps the previous set", func(t *testing.T) {
		dir := writeDroneScenario(t)
		store, err := OpenScenario(dir)
		require.NoError(t, err)
		require.NoError(t, store.ReplaceRequirements(ctx, "run-1", planned))

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		err = store.ReplaceRequirements(cancelled, "run-2", nil)
		require.ErrorIs(t, err, context.Canceled)

		reqs, err := store.ListRequirements(ctx)
		require.NoError(t, err)
		require.Len(t, reqs, 1)
		assert.Equal(t, "run-1", reqs[0].RunID)

		reopened, err := OpenScenario(dir)
		require.NoError(t, err)
		onDisk, err := reopened.ListRequirements(ctx)
		require.NoError(t, err)
		require.Len(t, onDisk, 1)
		assert.Equal(t, "run-1", onDisk[0].RunID)
	})

	t.Run("cancelled after the check commits both file and memory", func(t *testing.T) {
		dir := writeDroneScenario(t)
		store, err := OpenScenario(dir)
		require.NoError(t, err)

		late := &cancelAfterFirstCheck{Context: ctx}
		require.NoError(t, store.ReplaceRequirements(late, "run-1", planned))

		reqs, err := store.ListRequirements(ctx)
		require.NoError(t, err)
		require.Len(t, reqs, 1)
		assert.Equal(t, "run-1", reqs[0].RunID)

		reopened, err := OpenScenario(dir)
		require.NoError(t, err)
		onDisk, err := reopened.ListRequirements(ctx)
		require.NoError(t, err)
		require.Len(t, onDisk, 1)
		assert.Equal(t, reqs[0].ID, onDisk[0].ID)
		assert.Equal(t, "run-1", onDisk[0].RunID)
		assert.True(t, onDisk[0].RequiredQuantity.Equal(reqs[0].RequiredQuantity))
	})
}
