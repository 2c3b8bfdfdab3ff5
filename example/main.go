package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/smartmrp/pkg/application/services/costing"
	"github.com/vsinha/smartmrp/pkg/application/services/mrp"
	"github.com/vsinha/smartmrp/pkg/domain/entities"
	"github.com/vsinha/smartmrp/pkg/infrastructure/events"
	"github.com/vsinha/smartmrp/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/smartmrp/pkg/logger"
)

const (
	engineID entities.ProductID = iota + 1
	turbopumpID
	bearingID
	chamberID
	valveID
)

// completionRecorder hands completed-run events back to the caller
type completionRecorder struct {
	completed chan events.RunCompleted
}

func (r completionRecorder) CanHandle(eventType string) bool {
	return eventType == events.RunCompletedEvent
}

func (r completionRecorder) Handle(event events.Event) error {
	data, ok := event.Data().(events.RunCompleted)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Data(), event.Type())
	}
	select {
	case r.completed <- data:
	default:
	}
	return nil
}

func main() {
	if err := run(context.Background(), os.Stdout); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer) error {
	log := logger.New(logger.Config{Env: "development", Level: "warn"}).Zerolog()

	store := memory.NewStore()
	if err := setupRocketEngineBOM(store); err != nil {
		return fmt.Errorf("failed to load master data: %w", err)
	}

	eventStore := events.NewInMemoryEventStore()
	recorder := completionRecorder{completed: make(chan events.RunCompleted, 1)}
	if err := eventStore.Subscribe([]string{events.RunCompletedEvent}, recorder); err != nil {
		return fmt.Errorf("subscribe failed: %w", err)
	}

	service := mrp.NewMRPService(store,
		mrp.WithPublisher(eventStore),
		mrp.WithLogger(log),
	)

	fmt.Fprintln(out, "🚀 Running MRP for 9 rocket engines...")
	result, err := service.Run(ctx)
	if err != nil {
		return fmt.Errorf("MRP failed: %w", err)
	}

	fmt.Fprintln(out, "📊 MRP Results:")
	for _, req := range result.Requirements {
		product, err := store.GetProduct(ctx, req.ProductID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  L%d %-10s %6s %-10s %s\n",
			req.Level, product.SKU, req.RequiredQuantity, req.Type, req.Reference)
	}
	fmt.Fprintln(out)

	rollup := costing.NewRollupService(store, store, log)
	cost, err := rollup.RollupCost(ctx, engineID)
	if err != nil {
		return fmt.Errorf("cost roll-up failed: %w", err)
	}
	fmt.Fprintf(out, "💰 Rolled-up engine cost: %s\n", cost.StringFixed(2))

	// subscribers are notified asynchronously
	select {
	case done := <-recorder.completed:
		fmt.Fprintf(out, "📣 Run %s completed: %d requirements\n", done.RunID, done.Requirements)
	case <-time.After(time.Second):
		return errors.New("no completion event received")
	}
	fmt.Fprintln(out, "✅ MRP analysis complete!")
	return nil
}

func setupRocketEngineBOM(store *memory.Store) error {
	if err := store.LoadProducts([]*entities.Product{
		{ID: engineID, SKU: "ENGINE", Name: "Main Rocket Engine Assembly", IsSubassembly: true},
		{ID: turbopumpID, SKU: "TURBOPUMP", Name: "Turbopump Assembly", IsSubassembly: true, StandardCost: decimal.NewFromInt(900)},
		{ID: bearingID, SKU: "BEARING", Name: "Turbopump Bearing", PurchasePrice: decimal.RequireFromString("42.50")},
		{ID: chamberID, SKU: "CHAMBER", Name: "Main Combustion Chamber", StandardCost: decimal.NewFromInt(12000)},
		{ID: valveID, SKU: "VALVE", Name: "Main Valve Assembly", PurchasePrice: decimal.NewFromInt(310)},
	}); err != nil {
		return err
	}

	if err := store.LoadBOMItems([]*entities.BOMItem{
		{ID: 1, ParentProductID: engineID, ComponentProductID: turbopumpID, Quantity: decimal.NewFromInt(2)},
		{ID: 2, ParentProductID: engineID, ComponentProductID: chamberID, Quantity: decimal.NewFromInt(1)},
		{ID: 3, ParentProductID: engineID, ComponentProductID: valveID, Quantity: decimal.NewFromInt(4)},
		{ID: 4, ParentProductID: turbopumpID, ComponentProductID: bearingID, Quantity: decimal.NewFromInt(6), WastePercentage: decimal.NewFromInt(5)},
	}); err != nil {
		return err
	}

	// 2 engines and 15 valves already on hand
	if err := store.LoadInventory([]*entities.InventoryItem{
		{ProductID: engineID, QuantityOnHand: decimal.NewFromInt(2)},
		{ProductID: valveID, QuantityOnHand: decimal.NewFromInt(15)},
	}); err != nil {
		return err
	}

	launch := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	return store.LoadWorkOrders([]*entities.WorkOrder{
		{ID: 1, OrderNumber: "MARS-001", ProductID: engineID, Quantity: decimal.NewFromInt(9), Status: entities.Released, StartDate: &launch},
	})
}
