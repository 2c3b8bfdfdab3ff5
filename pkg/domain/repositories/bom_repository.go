package repositories

import (
	"context"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
)

// BOMRepository provides access to Bill of Materials edges.
// The planning core loads the full edge set once per run.
type BOMRepository interface {
	ListBOMItems(ctx context.Context) ([]*entities.BOMItem, error)
}
