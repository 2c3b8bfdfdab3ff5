package mrp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testhelpers "github.com/vsinha/smartmrp/pkg/application/services/testing"
	"github.com/vsinha/smartmrp/pkg/domain/entities"
	"github.com/vsinha/smartmrp/pkg/infrastructure/repositories/memory"
)

func inputFrom(t *testing.T, store *memory.Store) PlanningInput {
	t.Helper()
	ctx := context.Background()

	orders, err := store.ListOpenWorkOrders(ctx)
	require.NoError(t, err)
	bom, err := store.ListBOMItems(ctx)
	require.NoError(t, err)
	inventory, err := store.ListInventory(ctx)
	require.NoError(t, err)

	return PlanningInput{WorkOrders: orders, BOMItems: bom, Inventory: inventory}
}

type expectedReq struct {
	product entities.ProductID
	qty     string
	reqType entities.RequirementType
	level   int
	ref     string
}

func assertRequirements(t *testing.T, want []expectedReq, got []entities.MaterialRequirement) {
	t.Helper()
	require.Len(t, got, len(want))
	for i, w := range want {
		g := got[i]
		assert.Equal(t, w.product, g.ProductID, "requirement %d product", i)
		assert.True(t, g.RequiredQuantity.Equal(dec(w.qty)), "requirement %d quantity: want %s, got %s", i, w.qty, g.RequiredQuantity)
		assert.Equal(t, w.reqType, g.Type, "requirement %d type", i)
		assert.Equal(t, w.level, g.Level, "requirement %d level", i)
		if w.ref != "" {
			assert.Equal(t, w.ref, g.Reference, "requirement %d reference", i)
		}
		assert.False(t, g.IsProcessed)
	}
}

func TestExplode_DroneScenario(t *testing.T) {
	input := inputFrom(t, testhelpers.BuildDroneStore())

	result, err := Explode(context.Background(), input, DefaultPlanningOptions())
	require.NoError(t, err)

	assertRequirements(t, []expectedReq{
		{testhelpers.DroneID, "10", entities.Production, 0, "Ref: WO: WO-100"},
		{testhelpers.ChassisID, "10", entities.Production, 1, "Ref: Componente de WO: WO-100"},
		{testhelpers.PCBID, "10", entities.Purchase, 1, "Ref: Componente de WO: WO-100"},
		{testhelpers.MotorID, "28", entities.Purchase, 1, "Ref: Componente de WO: WO-100"},
		{testhelpers.SheetID, "5.5", entities.Purchase, 2, "Ref: Componente de Componente de WO: WO-100"},
	}, result.Requirements)

	for _, req := range result.Requirements {
		require.NotNil(t, req.SourceWorkOrderID)
		assert.Equal(t, int64(100), *req.SourceWorkOrderID)
		assert.True(t, req.RequiredDate.Equal(testhelpers.PlanDate))
	}

	assert.Equal(t, 1, result.Stats.OpenWorkOrders)
	assert.Equal(t, 5, result.Stats.LinesProcessed)
	assert.Equal(t, 0, result.Stats.LinesCovered)
	assert.Equal(t, 2, result.Stats.MaxLevel)
	assert.Equal(t, 3, result.Stats.PurchaseCount)
	assert.Equal(t, 2, result.Stats.ProductionCount)
}

func TestExplode_ZeroInventoryConvertsEveryUnit(t *testing.T) {
	input := inputFrom(t, testhelpers.BuildChainStore(4))

	result, err := Explode(context.Background(), input, DefaultPlanningOptions())
	require.NoError(t, err)

	require.Len(t, result.Requirements, 5)
	want := []string{"1", "2", "4", "8", "16"}
	for i, req := range result.Requirements {
		assert.True(t, req.RequiredQuantity.Equal(dec(want[i])), "level %d", i)
		assert.Equal(t, i, req.Level)
	}
	assert.Equal(t, entities.Purchase, result.Requirements[4].Type)
}

func TestExplode_QuantityConservation(t *testing.T) {
	store := testhelpers.BuildDroneStore()
	input := inputFrom(t, store)
	input.Inventory = nil

	result, err := Explode(context.Background(), input, DefaultPlanningOptions())
	require.NoError(t, err)

	totals := result.TotalByProduct()
	assert.True(t, totals[testhelpers.MotorID].Equal(dec("40")))
	// 10 * 0.5 * 1.10
	assert.True(t, totals[testhelpers.SheetID].Equal(dec("5.5")))
	assert.Equal(t, "5.5", totals[testhelpers.SheetID].String())
}

func TestExplode_FullyCoveredDemandEmitsNothing(t *testing.T) {
	store := testhelpers.BuildDroneStore()
	store.SetInventory(entities.InventoryItem{ProductID: testhelpers.DroneID, QuantityOnHand: dec("25")})
	input := inputFrom(t, store)

	result, err := Explode(context.Background(), input, DefaultPlanningOptions())
	require.NoError(t, err)

	assert.Empty(t, result.Requirements)
	assert.Equal(t, 1, result.Stats.LinesCovered)
}

func TestExplode_PartialCoverExplodesOnlyNet(t *testing.T) {
	store := testhelpers.BuildDroneStore()
	store.SetInventory(entities.InventoryItem{ProductID: testhelpers.DroneID, QuantityOnHand: dec("6")})
	input := inputFrom(t, store)

	result, err := Explode(context.Background(), input, DefaultPlanningOptions())
	require.NoError(t, err)

	totals := result.TotalByProduct()
	assert.True(t, totals[testhelpers.DroneID].Equal(dec("4")))
	assert.True(t, totals[testhelpers.ChassisID].Equal(dec("4")))
	assert.True(t, totals[testhelpers.MotorID].Equal(dec("4")), "16 motors needed, 12 on hand")
	assert.True(t, totals[testhelpers.SheetID].Equal(dec("2.2")))
}

func TestExplode_SharedComponentNetsAcrossOrders(t *testing.T) {
	store := testhelpers.BuildDroneStore()
	_ = store.LoadWorkOrders([]*entities.WorkOrder{
		testhelpers.MustCreateWorkOrder(102, "WO-102", testhelpers.MotorID, "5", entities.Created),
	})
	input := inputFrom(t, store)

	result, err := Explode(context.Background(), input, DefaultPlanningOptions())
	require.NoError(t, err)

	// the direct motor order is seeded before the drone's dependent demand
	motors := 0
	for _, req := range result.Requirements {
		if req.ProductID == testhelpers.MotorID {
			motors++
		}
	}
	assert.Equal(t, 1, motors)
	assert.True(t, result.TotalByProduct()[testhelpers.MotorID].Equal(dec("33")))
}

func TestExplode_Idempotent(t *testing.T) {
	store := testhelpers.BuildDroneStore()

	first, err := Explode(context.Background(), inputFrom(t, store), DefaultPlanningOptions())
	require.NoError(t, err)
	second, err := Explode(context.Background(), inputFrom(t, store), DefaultPlanningOptions())
	require.NoError(t, err)

	require.Len(t, second.Requirements, len(first.Requirements))
	for i := range first.Requirements {
		assert.Equal(t, first.Requirements[i].ProductID, second.Requirements[i].ProductID)
		assert.Equal(t, first.Requirements[i].Type, second.Requirements[i].Type)
		assert.True(t, first.Requirements[i].RequiredQuantity.Equal(second.Requirements[i].RequiredQuantity))
	}
}

func TestExplode_CyclicBOM(t *testing.T) {
	tests := []struct {
		name      string
		bom       []*entities.BOMItem
		wantChain []entities.ProductID
	}{
		{
			name: "two products",
			bom: []*entities.BOMItem{
				{ID: 1, ParentProductID: 1, ComponentProductID: 2, Quantity: dec("1")},
				{ID: 2, ParentProductID: 2, ComponentProductID: 1, Quantity: dec("1")},
			},
			wantChain: []entities.ProductID{1, 2, 1},
		},
		{
			name: "self reference",
			bom: []*entities.BOMItem{
				{ID: 1, ParentProductID: 1, ComponentProductID: 1, Quantity: dec("0.5")},
			},
			wantChain: []entities.ProductID{1, 1},
		},
		{
			name: "deep cycle below a leaf sibling",
			bom: []*entities.BOMItem{
				{ID: 1, ParentProductID: 1, ComponentProductID: 5, Quantity: dec("1")},
				{ID: 2, ParentProductID: 1, ComponentProductID: 2, Quantity: dec("1")},
				{ID: 3, ParentProductID: 2, ComponentProductID: 3, Quantity: dec("1")},
				{ID: 4, ParentProductID: 3, ComponentProductID: 2, Quantity: dec("1")},
			},
			wantChain: []entities.ProductID{1, 2, 3, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := PlanningInput{
				WorkOrders: []*entities.WorkOrder{
					testhelpers.MustCreateWorkOrder(1, "WO-1", 1, "5", entities.Released),
				},
				BOMItems: tt.bom,
			}

			result, err := Explode(context.Background(), input, DefaultPlanningOptions())
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, entities.ErrCyclicBOM))

			var cyclic *entities.CyclicBOMError
			require.True(t, errors.As(err, &cyclic))
			assert.Equal(t, tt.wantChain, cyclic.Chain)
		})
	}
}

func TestExplode_DiamondIsNotACycle(t *testing.T) {
	input := PlanningInput{
		WorkOrders: []*entities.WorkOrder{
			testhelpers.MustCreateWorkOrder(1, "WO-1", 1, "1", entities.Released),
		},
		BOMItems: []*entities.BOMItem{
			{ID: 1, ParentProductID: 1, ComponentProductID: 2, Quantity: dec("1")},
			{ID: 2, ParentProductID: 1, ComponentProductID: 3, Quantity: dec("1")},
			{ID: 3, ParentProductID: 2, ComponentProductID: 4, Quantity: dec("1")},
			{ID: 4, ParentProductID: 3, ComponentProductID: 4, Quantity: dec("2")},
		},
	}

	result, err := Explode(context.Background(), input, DefaultPlanningOptions())
	require.NoError(t, err)
	assert.True(t, result.TotalByProduct()[4].Equal(dec("3")))
}

func TestExplode_Cancellation(t *testing.T) {
	t.Run("before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Explode(ctx, inputFrom(t, testhelpers.BuildDroneStore()), DefaultPlanningOptions())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("mid run", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		opts := DefaultPlanningOptions()
		opts.CancelCheckEvery = 1
		opts.DateOffsetter = DateOffsetterFunc(func(d time.Time, _ entities.BOMItem) time.Time {
			cancel()
			return d
		})

		result, err := Explode(ctx, inputFrom(t, testhelpers.BuildDroneStore()), opts)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, result)
	})
}

func TestExplode_DateOffsetter(t *testing.T) {
	opts := DefaultPlanningOptions()
	opts.DateOffsetter = DateOffsetterFunc(func(d time.Time, _ entities.BOMItem) time.Time {
		return d.AddDate(0, 0, -2)
	})

	result, err := Explode(context.Background(), inputFrom(t, testhelpers.BuildDroneStore()), opts)
	require.NoError(t, err)

	for _, req := range result.Requirements {
		want := testhelpers.PlanDate.AddDate(0, 0, -2*req.Level)
		assert.True(t, req.RequiredDate.Equal(want), "level %d date %v", req.Level, req.RequiredDate)
	}
}

func TestExplode_WorkOrderWithoutStartDateUsesToday(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	opts := DefaultPlanningOptions()
	opts.Today = func() time.Time { return fixed }

	wo, err := entities.NewWorkOrder(7, "WO-7", 99, dec("2"), entities.Started, nil, nil)
	require.NoError(t, err)

	result, err := Explode(context.Background(), PlanningInput{WorkOrders: []*entities.WorkOrder{wo, nil}}, opts)
	require.NoError(t, err)

	require.Len(t, result.Requirements, 1)
	req := result.Requirements[0]
	assert.True(t, req.RequiredDate.Equal(fixed))
	assert.Equal(t, entities.Purchase, req.Type, "unknown product plans as a purchased item")
}

func TestExplode_ReserveSafetyStock(t *testing.T) {
	store := testhelpers.BuildDroneStore()
	store.SetInventory(entities.InventoryItem{
		ProductID:      testhelpers.MotorID,
		QuantityOnHand: dec("12"),
		SafetyStock:    dec("2"),
	})

	opts := DefaultPlanningOptions()
	opts.Netting.ReserveSafetyStock = true

	result, err := Explode(context.Background(), inputFrom(t, store), opts)
	require.NoError(t, err)
	assert.True(t, result.TotalByProduct()[testhelpers.MotorID].Equal(dec("30")))

	result, err = Explode(context.Background(), inputFrom(t, store), DefaultPlanningOptions())
	require.NoError(t, err)
	assert.True(t, result.TotalByProduct()[testhelpers.MotorID].Equal(dec("28")))
}
