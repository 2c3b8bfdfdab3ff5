package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
	"github.com/vsinha/smartmrp/pkg/domain/repositories"
)

// RequirementRepository holds the requirement set of the latest run
type RequirementRepository struct {
	mu     sync.RWMutex
	reqs   []entities.MaterialRequirement
	nextID int64
}

// NewRequirementRepository creates an empty requirement repository
func NewRequirementRepository() *RequirementRepository {
	return &RequirementRepository{nextID: 1}
}

// Verify interface compliance
var _ repositories.RequirementRepository = (*RequirementRepository)(nil)

// ReplaceRequirements swaps the stored set for reqs under one lock.
// Numbering restarts at 1.
func (r *RequirementRepository) ReplaceRequirements(ctx context.Context, runID string, reqs []entities.MaterialRequirement) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.reqs = make([]entities.MaterialRequirement, 0, len(reqs))
	r.nextID = 1
	r.appendLocked(runID, reqs)
	return nil
}

// ClearRequirements removes every stored requirement
func (r *RequirementRepository) ClearRequirements(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = nil
	return nil
}

// SaveRequirements appends requirements. Requirements without an id get the
// next free one.
func (r *RequirementRepository) SaveRequirements(_ context.Context, reqs []entities.MaterialRequirement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appendLocked("", reqs)
	return nil
}

func (r *RequirementRepository) appendLocked(runID string, reqs []entities.MaterialRequirement) {
	for _, req := range reqs {
		if req.ID == 0 {
			req.ID = r.nextID
		}
		if req.ID >= r.nextID {
			r.nextID = req.ID + 1
		}
		if runID != "" {
			req.RunID = runID
		}
		r.reqs = append(r.reqs, req)
	}
}

// ListRequirements returns stored requirements ordered by required date, then id
func (r *RequirementRepository) ListRequirements(_ context.Context) ([]entities.MaterialRequirement, error) {
	r.mu.RLock()
	out := make([]entities.MaterialRequirement, len(r.reqs))
	copy(out, r.reqs)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].RequiredDate.Equal(out[j].RequiredDate) {
			return out[i].RequiredDate.Before(out[j].RequiredDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
