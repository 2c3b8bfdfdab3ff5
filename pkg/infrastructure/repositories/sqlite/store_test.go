package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testhelpers "github.com/vsinha/smartmrp/pkg/application/services/testing"
	"github.com/vsinha/smartmrp/pkg/domain/entities"
	"github.com/vsinha/smartmrp/pkg/domain/repositories"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func droneMasterData(t *testing.T) repositories.MasterData {
	t.Helper()
	ctx := context.Background()
	src := testhelpers.BuildDroneStore()

	products, err := src.ListProducts(ctx)
	require.NoError(t, err)
	bom, err := src.ListBOMItems(ctx)
	require.NoError(t, err)
	inventory, err := src.ListInventory(ctx)
	require.NoError(t, err)

	start := testhelpers.PlanDate
	due := start.AddDate(0, 0, 14)
	orders := []*entities.WorkOrder{
		{ID: 100, OrderNumber: "WO-100", ProductID: testhelpers.DroneID, Quantity: testhelpers.Dec("10"), Status: entities.Released, StartDate: &start, DueDate: &due},
		{ID: 101, OrderNumber: "WO-101", ProductID: testhelpers.DroneID, Quantity: testhelpers.Dec("3"), Status: entities.Completed},
		{ID: 102, OrderNumber: "WO-102", ProductID: testhelpers.PCBID, Quantity: testhelpers.Dec("1.25"), Status: entities.Started},
	}

	return repositories.MasterData{Products: products, BOMItems: bom, Inventory: inventory, WorkOrders: orders}
}

func TestStore_ImportAndRead(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, store.ImportMasterData(ctx, droneMasterData(t)))

	motor, err := store.GetProduct(ctx, testhelpers.MotorID)
	require.NoError(t, err)
	assert.Equal(t, "MOTOR", motor.SKU)
	assert.True(t, motor.PurchasePrice.Equal(testhelpers.Dec("9.5")))

	_, err = store.GetProduct(ctx, 999)
	assert.ErrorIs(t, err, entities.ErrNotFound)

	products, err := store.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5)

	bom, err := store.ListBOMItems(ctx)
	require.NoError(t, err)
	require.Len(t, bom, 4)
	assert.True(t, bom[3].Quantity.Equal(testhelpers.Dec("0.5")))
	assert.True(t, bom[3].WastePercentage.Equal(testhelpers.Dec("10")))

	inventory, err := store.ListInventory(ctx)
	require.NoError(t, err)
	require.Len(t, inventory, 1)
	assert.True(t, inventory[0].QuantityOnHand.Equal(testhelpers.Dec("12")))

	open, err := store.ListOpenWorkOrders(ctx)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, "WO-100", open[0].OrderNumber)
	require.NotNil(t, open[0].StartDate)
	assert.True(t, open[0].StartDate.Equal(testhelpers.PlanDate))
	assert.Nil(t, open[1].StartDate)
	assert.True(t, open[1].Quantity.Equal(testhelpers.Dec("1.25")))

	// importing again replaces rather than duplicates
	require.NoError(t, store.ImportMasterData(ctx, droneMasterData(t)))
	products, err = store.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5)
}

func TestStore_ReplaceRequirements(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	source := int64(100)

	require.NoError(t, store.SaveRequirements(ctx, []entities.MaterialRequirement{
		{RunID: "old", ProductID: 9, RequiredQuantity: testhelpers.Dec("1"), RequiredDate: day},
	}))

	require.NoError(t, store.ReplaceRequirements(ctx, "run-1", []entities.MaterialRequirement{
		{ProductID: 4, RequiredQuantity: testhelpers.Dec("28"), RequiredDate: day.AddDate(0, 0, 1), Type: entities.Purchase, SourceWorkOrderID: &source, Level: 1},
		{ProductID: 1, RequiredQuantity: testhelpers.Dec("10"), RequiredDate: day, Type: entities.Production, Reference: "Ref: WO: WO-100"},
	}))

	reqs, err := store.ListRequirements(ctx)
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	assert.Equal(t, entities.ProductID(1), reqs[0].ProductID)
	assert.Equal(t, entities.Production, reqs[0].Type)
	assert.Equal(t, "Ref: WO: WO-100", reqs[0].Reference)
	assert.Nil(t, reqs[0].SourceWorkOrderID)

	assert.Equal(t, entities.ProductID(4), reqs[1].ProductID)
	assert.True(t, reqs[1].RequiredQuantity.Equal(testhelpers.Dec("28")))
	require.NotNil(t, reqs[1].SourceWorkOrderID)
	assert.Equal(t, source, *reqs[1].SourceWorkOrderID)
	assert.Equal(t, 1, reqs[1].Level)

	for _, r := range reqs {
		assert.Equal(t, "run-1", r.RunID)
		assert.False(t, r.IsProcessed)
	}

	require.NoError(t, store.ClearRequirements(ctx))
	reqs, err = store.ListRequirements(ctx)
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestStore_ReplaceRequirementsRollsBackOnCancel(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.SaveRequirements(context.Background(), []entities.MaterialRequirement{
		{RunID: "kept", ProductID: 1, RequiredQuantity: testhelpers.Dec("1"), RequiredDate: testhelpers.PlanDate},
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, store.ReplaceRequirements(ctx, "lost", nil))

	reqs, err := store.ListRequirements(context.Background())
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "kept", reqs[0].RunID)
}

func TestStore_ManyRequirementsAreBatched(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	reqs := make([]entities.MaterialRequirement, 1234)
	for i := range reqs {
		reqs[i] = entities.MaterialRequirement{ProductID: entities.ProductID(i + 1), RequiredQuantity: testhelpers.Dec("1"), RequiredDate: testhelpers.PlanDate}
	}
	require.NoError(t, store.ReplaceRequirements(ctx, "bulk", reqs))

	stored, err := store.ListRequirements(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1234)
}

func TestOpen_FileDatabasePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "plan.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.ImportMasterData(ctx, droneMasterData(t)))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	products, err := reopened.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5)
}
