package memory

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
	"github.com/vsinha/smartmrp/pkg/domain/repositories"
)

// BOMRepository stores BOM edges in insertion order
type BOMRepository struct {
	mu    sync.RWMutex
	items []entities.BOMItem
}

// NewBOMRepository creates a BOM repository sized for the expected edge count
func NewBOMRepository(expectedItems int) *BOMRepository {
	return &BOMRepository{
		items: make([]entities.BOMItem, 0, expectedItems),
	}
}

// Verify interface compliance
var _ repositories.BOMRepository = (*BOMRepository)(nil)

// LoadBOMItems loads BOM edges into the repository
func (r *BOMRepository) LoadBOMItems(items []*entities.BOMItem) error {
	for _, item := range items {
		r.AddBOMItem(*item)
	}
	return nil
}

// AddBOMItem appends a BOM edge
func (r *BOMRepository) AddBOMItem(item entities.BOMItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
}

// ListBOMItems returns every BOM edge
func (r *BOMRepository) ListBOMItems(_ context.Context) ([]*entities.BOMItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*entities.BOMItem, 0, len(r.items))
	for i := range r.items {
		item := r.items[i]
		items = append(items, &item)
	}
	return items, nil
}

// MemoryStats provides memory usage statistics
type MemoryStats struct {
	AllocBytes      uint64
	TotalAllocBytes uint64
	Mallocs         uint64
	Frees           uint64
	HeapObjects     uint64
}

// GetMemoryStats returns current memory usage statistics
func GetMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return MemoryStats{
		AllocBytes:      m.Alloc,
		TotalAllocBytes: m.TotalAlloc,
		Mallocs:         m.Mallocs,
		Frees:           m.Frees,
		HeapObjects:     m.HeapObjects,
	}
}

// FormatBytes formats bytes in human readable format
func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
