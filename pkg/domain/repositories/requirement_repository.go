package repositories

import (
	"context"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
)

// RequirementRepository stores the output of planning runs
type RequirementRepository interface {
	// ReplaceRequirements clears every stored requirement and saves reqs as one
	// atomic unit: on error the previously stored set is left untouched.
	ReplaceRequirements(ctx context.Context, runID string, reqs []entities.MaterialRequirement) error
	ClearRequirements(ctx context.Context) error
	SaveRequirements(ctx context.Context, reqs []entities.MaterialRequirement) error
	// ListRequirements returns stored requirements ordered by required date
	ListRequirements(ctx context.Context) ([]entities.MaterialRequirement, error)
}

// PlanningStore bundles every collaborator the planning core needs
type PlanningStore interface {
	ProductRepository
	BOMRepository
	InventoryRepository
	WorkOrderRepository
	RequirementRepository
}
