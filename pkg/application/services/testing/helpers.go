// Package testing holds shared planning fixtures built on the in-memory store.
package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
	"github.com/vsinha/smartmrp/pkg/infrastructure/repositories/memory"
)

// Product ids of the drone scenario
const (
	DroneID   entities.ProductID = 1
	ChassisID entities.ProductID = 2
	PCBID     entities.ProductID = 3
	MotorID   entities.ProductID = 4
	SheetID   entities.ProductID = 5
)

// Product ids of the bike cost scenario
const (
	BikeID  entities.ProductID = 10
	FrameID entities.ProductID = 11
	WheelID entities.ProductID = 12
	TubeID  entities.ProductID = 13
	PaintID entities.ProductID = 14
)

// PlanDate is the start date of every fixture work order
var PlanDate = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

// Dec parses a decimal literal, panicking on bad input
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// mustCreateProduct is a helper for tests - panics on validation error
func mustCreateProduct(id entities.ProductID, sku string, isSub bool, standard, purchase string) *entities.Product {
	p, err := entities.NewProduct(id, sku, sku, isSub, Dec(standard), Dec(purchase))
	if err != nil {
		panic(err)
	}
	return p
}

// mustCreateBOMItem is a helper for tests - panics on validation error
func mustCreateBOMItem(id int64, parent, component entities.ProductID, qty, waste string) *entities.BOMItem {
	item, err := entities.NewBOMItem(id, parent, component, Dec(qty), Dec(waste))
	if err != nil {
		panic(err)
	}
	return item
}

// mustCreateInventory is a helper for tests - panics on validation error
func mustCreateInventory(id entities.ProductID, onHand string) *entities.InventoryItem {
	item, err := entities.NewInventoryItem(id, Dec(onHand), decimal.Zero, decimal.Zero)
	if err != nil {
		panic(err)
	}
	return item
}

// MustCreateWorkOrder is a helper for tests - panics on validation error
func MustCreateWorkOrder(id int64, number string, product entities.ProductID, qty string, status entities.WorkOrderStatus) *entities.WorkOrder {
	start := PlanDate
	wo, err := entities.NewWorkOrder(id, number, product, Dec(qty), status, &start, nil)
	if err != nil {
		panic(err)
	}
	return wo
}

// DroneProducts returns the drone, its chassis, PCB, motor and aluminium sheet
func DroneProducts() []*entities.Product {
	return []*entities.Product{
		mustCreateProduct(DroneID, "DRONE", true, "0", "0"),
		mustCreateProduct(ChassisID, "CHASSIS", true, "0", "0"),
		mustCreateProduct(PCBID, "PCB", false, "15", "0"),
		mustCreateProduct(MotorID, "MOTOR", false, "0", "9.5"),
		mustCreateProduct(SheetID, "SHEET", false, "4", "0"),
	}
}

// DroneBOM is Drone = 1 Chassis + 1 PCB + 4 Motor; Chassis = 0.5 Sheet at 10% waste
func DroneBOM() []*entities.BOMItem {
	return []*entities.BOMItem{
		mustCreateBOMItem(1, DroneID, ChassisID, "1", "0"),
		mustCreateBOMItem(2, DroneID, PCBID, "1", "0"),
		mustCreateBOMItem(3, DroneID, MotorID, "4", "0"),
		mustCreateBOMItem(4, ChassisID, SheetID, "0.5", "10"),
	}
}

// BuildDroneStore creates a store with 12 motors on hand and one open
// work order for 10 drones. Expected: Motor 28 Purchase, Chassis 10
// Production, Sheet 5.5 Purchase.
func BuildDroneStore() *memory.Store {
	store := memory.NewStore()
	_ = store.LoadProducts(DroneProducts())
	_ = store.LoadBOMItems(DroneBOM())
	_ = store.LoadInventory([]*entities.InventoryItem{mustCreateInventory(MotorID, "12")})
	_ = store.LoadWorkOrders([]*entities.WorkOrder{
		MustCreateWorkOrder(100, "WO-100", DroneID, "10", entities.Released),
		MustCreateWorkOrder(101, "WO-101", DroneID, "3", entities.Completed),
	})
	return store
}

// BuildBikeCostStore creates a two-level cost scenario:
//
//	Bike  = 1 Frame + 2 Wheel (5% waste)
//	Frame = 3 Tube (10% waste) + 0.25 Paint
//
// Wheel purchase 20, Tube standard 5, Paint purchase 8 (standard 50 ignored).
// Frame rolls up to 18.5 and Bike to 60.5.
func BuildBikeCostStore() *memory.Store {
	store := memory.NewStore()
	_ = store.LoadProducts([]*entities.Product{
		mustCreateProduct(BikeID, "BIKE", true, "999", "0"),
		mustCreateProduct(FrameID, "FRAME", true, "100", "0"),
		mustCreateProduct(WheelID, "WHEEL", false, "12", "20"),
		mustCreateProduct(TubeID, "TUBE", false, "5", "0"),
		mustCreateProduct(PaintID, "PAINT", false, "50", "8"),
	})
	_ = store.LoadBOMItems([]*entities.BOMItem{
		mustCreateBOMItem(1, BikeID, FrameID, "1", "0"),
		mustCreateBOMItem(2, BikeID, WheelID, "2", "5"),
		mustCreateBOMItem(3, FrameID, TubeID, "3", "10"),
		mustCreateBOMItem(4, FrameID, PaintID, "0.25", "0"),
	})
	return store
}

// BuildCyclicStore creates A -> B -> A with an open order for A and no stock
func BuildCyclicStore() *memory.Store {
	const a, b entities.ProductID = 1, 2

	store := memory.NewStore()
	_ = store.LoadProducts([]*entities.Product{
		mustCreateProduct(a, "A", true, "1", "0"),
		mustCreateProduct(b, "B", true, "1", "0"),
	})
	_ = store.LoadBOMItems([]*entities.BOMItem{
		mustCreateBOMItem(1, a, b, "1", "0"),
		mustCreateBOMItem(2, b, a, "1", "0"),
	})
	_ = store.LoadWorkOrders([]*entities.WorkOrder{
		MustCreateWorkOrder(1, "WO-1", a, "5", entities.Released),
	})
	return store
}

// BuildChainStore creates a linear BOM of depth levels (product 1 on top),
// each edge quantity 2 with no waste, and one order for 1 unit of product 1.
func BuildChainStore(depth int) *memory.Store {
	store := memory.NewStore()
	for i := 1; i <= depth+1; i++ {
		id := entities.ProductID(i)
		store.AddProduct(*mustCreateProduct(id, "P"+id.String(), i <= depth, "0", "1"))
		if i <= depth {
			store.AddBOMItem(*mustCreateBOMItem(int64(i), id, id+1, "2", "0"))
		}
	}
	_ = store.LoadWorkOrders([]*entities.WorkOrder{
		MustCreateWorkOrder(1, "WO-1", 1, "1", entities.Released),
	})
	return store
}
