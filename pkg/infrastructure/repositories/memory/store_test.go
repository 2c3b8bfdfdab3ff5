package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
)

func TestProductRepository_GetProduct(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(2)

	p, err := entities.NewProduct(1, "MOTOR", "Motor", false, decimal.NewFromInt(10), decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, repo.LoadProducts([]*entities.Product{p}))

	got, err := repo.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "MOTOR", got.SKU)

	got.SKU = "mutated"
	again, err := repo.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "MOTOR", again.SKU)

	_, err = repo.GetProduct(ctx, 99)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestProductRepository_AddProductReplaces(t *testing.T) {
	repo := NewProductRepository(1)
	repo.AddProduct(entities.Product{ID: 1, SKU: "OLD"})
	repo.AddProduct(entities.Product{ID: 1, SKU: "NEW"})

	all, err := repo.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "NEW", all[0].SKU)
}

func TestBOMRepository_ListBOMItemsKeepsOrder(t *testing.T) {
	repo := NewBOMRepository(2)
	repo.AddBOMItem(entities.BOMItem{ID: 2, ParentProductID: 1, ComponentProductID: 3})
	repo.AddBOMItem(entities.BOMItem{ID: 1, ParentProductID: 1, ComponentProductID: 2})

	items, err := repo.ListBOMItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].ID)
	assert.Equal(t, int64(1), items[1].ID)
}

func TestWorkOrderRepository_ListOpenWorkOrders(t *testing.T) {
	repo := NewWorkOrderRepository()
	require.NoError(t, repo.LoadWorkOrders([]*entities.WorkOrder{
		{ID: 1, OrderNumber: "WO-1", Status: entities.Released},
		{ID: 2, OrderNumber: "WO-2", Status: entities.Completed},
		{ID: 3, OrderNumber: "WO-3", Status: entities.Cancelled},
		{ID: 4, OrderNumber: "WO-4", Status: entities.Created},
	}))

	open, err := repo.ListOpenWorkOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, "WO-1", open[0].OrderNumber)
	assert.Equal(t, "WO-4", open[1].OrderNumber)
}

func TestInventoryRepository_SetInventoryReplaces(t *testing.T) {
	repo := NewInventoryRepository()
	repo.SetInventory(entities.InventoryItem{ProductID: 1, QuantityOnHand: decimal.NewFromInt(5)})
	repo.SetInventory(entities.InventoryItem{ProductID: 1, QuantityOnHand: decimal.NewFromInt(7)})

	items, err := repo.ListInventory(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].QuantityOnHand.Equal(decimal.NewFromInt(7)))
}

func TestRequirementRepository_ReplaceAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewRequirementRepository()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveRequirements(ctx, []entities.MaterialRequirement{
		{ProductID: 9, RequiredDate: day},
	}))

	require.NoError(t, repo.ReplaceRequirements(ctx, "run-2", []entities.MaterialRequirement{
		{ProductID: 1, RequiredDate: day.AddDate(0, 0, 2)},
		{ProductID: 2, RequiredDate: day},
		{ProductID: 3, RequiredDate: day},
	}))

	reqs, err := repo.ListRequirements(ctx)
	require.NoError(t, err)
	require.Len(t, reqs, 3)
	assert.Equal(t, entities.ProductID(2), reqs[0].ProductID)
	assert.Equal(t, entities.ProductID(3), reqs[1].ProductID)
	assert.Equal(t, entities.ProductID(1), reqs[2].ProductID)
	for _, r := range reqs {
		assert.Equal(t, "run-2", r.RunID)
		assert.NotZero(t, r.ID)
	}

	require.NoError(t, repo.ClearRequirements(ctx))
	reqs, err = repo.ListRequirements(ctx)
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestRequirementRepository_ReplaceWithCancelledContextKeepsSet(t *testing.T) {
	repo := NewRequirementRepository()
	require.NoError(t, repo.SaveRequirements(context.Background(), []entities.MaterialRequirement{{ProductID: 1}}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, repo.ReplaceRequirements(ctx, "r", nil), context.Canceled)

	reqs, err := repo.ListRequirements(context.Background())
	require.NoError(t, err)
	assert.Len(t, reqs, 1)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KB", FormatBytes(1536))
	assert.Equal(t, "2.0 MB", FormatBytes(2*1024*1024))
}
