package mrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/vsinha/smartmrp/pkg/application/dto"
	"github.com/vsinha/smartmrp/pkg/domain/entities"
	"github.com/vsinha/smartmrp/pkg/domain/repositories"
	"github.com/vsinha/smartmrp/pkg/domain/services"
	"github.com/vsinha/smartmrp/pkg/infrastructure/events"
)

const runKey = "planning-run"

// MRPService runs planning against a store and persists the result.
// Concurrent Run calls join the run in flight.
type MRPService struct {
	store     repositories.PlanningStore
	publisher events.Publisher
	validator *services.BOMValidator
	options   PlanningOptions
	logger    zerolog.Logger
	newRunID  func() string

	group singleflight.Group
}

// Option configures an MRPService
type Option func(*MRPService)

// WithPublisher sends planning events to p
func WithPublisher(p events.Publisher) Option {
	return func(s *MRPService) { s.publisher = p }
}

// WithLogger sets the service logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *MRPService) { s.logger = l }
}

// WithPlanningOptions overrides the explosion options
func WithPlanningOptions(o PlanningOptions) Option {
	return func(s *MRPService) { s.options = o }
}

// NewMRPService creates a planning service over store
func NewMRPService(store repositories.PlanningStore, opts ...Option) *MRPService {
	s := &MRPService{
		store:     store,
		validator: services.NewBOMValidator(),
		options:   DefaultPlanningOptions(),
		logger:    zerolog.Nop(),
		newRunID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs one planning run: bulk load, validate, explode, then replace
// the stored requirements in one step. A failed run leaves the previously
// stored requirements untouched. Callers arriving while a run is in flight
// receive that run's result.
func (s *MRPService) Run(ctx context.Context) (*dto.PlanningResult, error) {
	v, err, shared := s.group.Do(runKey, func() (interface{}, error) {
		return s.run(ctx)
	})
	if shared {
		s.logger.Debug().Msg("joined in-flight planning run")
	}
	if err != nil {
		return nil, err
	}
	return v.(*dto.PlanningResult), nil
}

func (s *MRPService) run(ctx context.Context) (*dto.PlanningResult, error) {
	runID := s.newRunID()
	logger := s.logger.With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)
	started := time.Now()

	input, err := s.load(ctx)
	if err != nil {
		return nil, s.fail(ctx, runID, err)
	}

	logger.Info().
		Int("open_work_orders", len(input.WorkOrders)).
		Int("bom_edges", len(input.BOMItems)).
		Int("inventory_items", len(input.Inventory)).
		Msg("planning run started")
	s.publish(ctx, events.NewRunStarted(events.RunStarted{
		RunID:          runID,
		OpenWorkOrders: len(input.WorkOrders),
		BOMEdges:       len(input.BOMItems),
		InventoryItems: len(input.Inventory),
	}))

	result, err := Explode(ctx, input, s.options)
	if err != nil {
		return nil, s.fail(ctx, runID, fmt.Errorf("explosion failed: %w", err))
	}

	result.RunID = runID
	result.StartedAt = started
	for i := range result.Requirements {
		result.Requirements[i].RunID = runID
	}

	if err := s.store.ReplaceRequirements(ctx, runID, result.Requirements); err != nil {
		return nil, s.fail(ctx, runID, fmt.Errorf("failed to store requirements: %w", err))
	}
	result.Stats.Duration = time.Since(started)

	planned := make([]events.Event, 0, len(result.Requirements)+1)
	for _, req := range result.Requirements {
		planned = append(planned, events.NewRequirementPlanned(events.RequirementPlanned{
			RunID:       runID,
			Requirement: req,
		}))
	}
	planned = append(planned, events.NewRunCompleted(events.RunCompleted{
		RunID:           runID,
		Requirements:    len(result.Requirements),
		PurchaseCount:   result.Stats.PurchaseCount,
		ProductionCount: result.Stats.ProductionCount,
		LinesProcessed:  result.Stats.LinesProcessed,
		DurationMillis:  result.Stats.Duration.Milliseconds(),
	}))
	s.publish(ctx, planned...)

	logger.Info().
		Int("requirements", len(result.Requirements)).
		Int("purchase", result.Stats.PurchaseCount).
		Int("production", result.Stats.ProductionCount).
		Int("lines_processed", result.Stats.LinesProcessed).
		Int("lines_covered", result.Stats.LinesCovered).
		Dur("duration", result.Stats.Duration).
		Msg("planning run completed")

	return result, nil
}

// load reads every input of the run up front and rejects invalid quantities
func (s *MRPService) load(ctx context.Context) (PlanningInput, error) {
	orders, err := s.store.ListOpenWorkOrders(ctx)
	if err != nil {
		return PlanningInput{}, fmt.Errorf("failed to load open work orders: %w", err)
	}
	bom, err := s.store.ListBOMItems(ctx)
	if err != nil {
		return PlanningInput{}, fmt.Errorf("failed to load BOM items: %w", err)
	}
	inventory, err := s.store.ListInventory(ctx)
	if err != nil {
		return PlanningInput{}, fmt.Errorf("failed to load inventory: %w", err)
	}

	var quantityErrs []error
	if err := s.validator.ValidateBOM(bom).QuantityError(); err != nil {
		quantityErrs = append(quantityErrs, err)
	}
	for _, item := range inventory {
		if err := item.Validate(); err != nil && errors.Is(err, entities.ErrInvalidQuantity) {
			quantityErrs = append(quantityErrs, err)
		}
	}
	for _, wo := range orders {
		if wo.Quantity.IsNegative() {
			quantityErrs = append(quantityErrs, fmt.Errorf("%w: work order %s quantity cannot be negative, got %s",
				entities.ErrInvalidQuantity, wo.OrderNumber, wo.Quantity))
		}
	}
	if len(quantityErrs) > 0 {
		return PlanningInput{}, fmt.Errorf("master data rejected: %w", errors.Join(quantityErrs...))
	}

	s.warnUnknownProducts(ctx, bom, orders)

	return PlanningInput{WorkOrders: orders, BOMItems: bom, Inventory: inventory}, nil
}

// warnUnknownProducts logs references to products missing from master data.
// They plan as zero stock purchased items, so the run continues.
func (s *MRPService) warnUnknownProducts(ctx context.Context, bom []*entities.BOMItem, orders []*entities.WorkOrder) {
	logger := zerolog.Ctx(ctx)

	products, err := s.store.ListProducts(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("could not list products for reference check")
		return
	}

	for _, id := range s.validator.ValidateProductReferences(bom, orders, products).UnknownReferences {
		logger.Warn().
			Int64("product_id", int64(id)).
			Err(entities.ErrUnknownProduct).
			Msg("planning with unknown product reference")
	}
}

func (s *MRPService) fail(ctx context.Context, runID string, err error) error {
	failed := events.RunFailed{RunID: runID, Error: err.Error()}
	var cyclic *entities.CyclicBOMError
	if errors.As(err, &cyclic) {
		failed.CycleChain = cyclic.Chain
	}

	zerolog.Ctx(ctx).Error().Err(err).Msg("planning run failed")
	s.publish(context.WithoutCancel(ctx), events.NewRunFailed(failed))

	return fmt.Errorf("planning run %s: %w", runID, err)
}

// publish is best effort; a broken event sink never fails a run
func (s *MRPService) publish(ctx context.Context, evts ...events.Event) {
	if s.publisher == nil || len(evts) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, evts...); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int("events", len(evts)).Msg("failed to publish planning events")
	}
}

// Requirements returns the stored requirements of the last successful run,
// ordered by required date.
func (s *MRPService) Requirements(ctx context.Context) ([]entities.MaterialRequirement, error) {
	reqs, err := s.store.ListRequirements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	return reqs, nil
}
