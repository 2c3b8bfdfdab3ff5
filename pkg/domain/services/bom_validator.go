package services

import (
	"errors"
	"fmt"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
)

// BOMValidator provides validation for BOM structure integrity
type BOMValidator struct{}

// NewBOMValidator creates a new BOM validator
func NewBOMValidator() *BOMValidator {
	return &BOMValidator{}
}

// ValidationResult contains the results of BOM validation
type ValidationResult struct {
	HasCycles         bool
	CyclePaths        [][]entities.ProductID
	DuplicateItems    []entities.BOMItem
	InvalidItems      []entities.BOMItem
	UnknownReferences []entities.ProductID
	Errors            []string

	quantityErrs []error
}

// QuantityError returns the joined ErrInvalidQuantity errors, or nil
func (r *ValidationResult) QuantityError() error {
	return errors.Join(r.quantityErrs...)
}

// IsValid reports whether no problem was found
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// ValidateBOM performs comprehensive validation on a set of BOM items
func (v *BOMValidator) ValidateBOM(items []*entities.BOMItem) *ValidationResult {
	result := &ValidationResult{
		CyclePaths:     make([][]entities.ProductID, 0),
		DuplicateItems: make([]entities.BOMItem, 0),
		InvalidItems:   make([]entities.BOMItem, 0),
		Errors:         make([]string, 0),
	}

	for _, item := range items {
		if item == nil {
			continue
		}
		if err := item.Validate(); err != nil {
			result.InvalidItems = append(result.InvalidItems, *item)
			result.Errors = append(result.Errors, err.Error())
			if errors.Is(err, entities.ErrInvalidQuantity) {
				result.quantityErrs = append(result.quantityErrs, err)
			}
		}
	}

	graph := NewBOMGraph(items)

	// Detect cycles
	cycles := v.detectCycles(graph)
	result.HasCycles = len(cycles) > 0
	result.CyclePaths = cycles

	// Detect duplicate BOM items
	result.DuplicateItems = v.detectDuplicateItems(items)

	if result.HasCycles {
		for _, cycle := range result.CyclePaths {
			result.Errors = append(result.Errors, fmt.Sprintf("BOM cycle detected: %v", cycle))
		}
	}

	if len(result.DuplicateItems) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Found %d duplicate BOM items", len(result.DuplicateItems)))
	}

	return result
}

// ValidateProductReferences reports BOM edges and work orders pointing at
// products missing from master data. Planning treats them as zero cost and
// zero stock.
func (v *BOMValidator) ValidateProductReferences(
	items []*entities.BOMItem,
	orders []*entities.WorkOrder,
	products []*entities.Product,
) *ValidationResult {
	result := &ValidationResult{
		UnknownReferences: make([]entities.ProductID, 0),
		Errors:            make([]string, 0),
	}

	known := make(map[entities.ProductID]bool, len(products))
	for _, p := range products {
		known[p.ID] = true
	}

	reported := make(map[entities.ProductID]bool)
	report := func(id entities.ProductID) {
		if known[id] || reported[id] {
			return
		}
		reported[id] = true
		result.UnknownReferences = append(result.UnknownReferences, id)
	}

	for _, item := range items {
		if item == nil {
			continue
		}
		report(item.ParentProductID)
		report(item.ComponentProductID)
	}
	for _, wo := range orders {
		if wo == nil {
			continue
		}
		report(wo.ProductID)
	}

	if len(result.UnknownReferences) > 0 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("references to unknown products: %v", result.UnknownReferences))
	}

	return result
}

// detectCycles uses DFS to find cycles in the BOM structure
func (v *BOMValidator) detectCycles(graph *BOMGraph) [][]entities.ProductID {
	visited := make(map[entities.ProductID]bool)
	recursionStack := make(map[entities.ProductID]bool)
	cycles := make([][]entities.ProductID, 0)

	// Parents come back in first-seen order so reports are reproducible
	for _, parent := range graph.Parents() {
		if !visited[parent] {
			path := make([]entities.ProductID, 0)
			v.dfsDetectCycle(parent, graph, visited, recursionStack, path, &cycles)
		}
	}

	return cycles
}

// dfsDetectCycle performs depth-first search to detect cycles
func (v *BOMValidator) dfsDetectCycle(
	current entities.ProductID,
	graph *BOMGraph,
	visited map[entities.ProductID]bool,
	recursionStack map[entities.ProductID]bool,
	path []entities.ProductID,
	cycles *[][]entities.ProductID,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, item := range graph.ComponentsOf(current) {
		child := item.ComponentProductID
		if !visited[child] {
			v.dfsDetectCycle(child, graph, visited, recursionStack, path, cycles)
		} else if recursionStack[child] {
			// Found a cycle - extract the cycle path
			cycleStart := -1
			for i, id := range path {
				if id == child {
					cycleStart = i
					break
				}
			}

			if cycleStart != -1 {
				cycle := make([]entities.ProductID, 0, len(path)-cycleStart+1)
				cycle = append(cycle, path[cycleStart:]...)
				cycle = append(cycle, child) // Close the cycle
				*cycles = append(*cycles, cycle)
			}
		}
	}

	recursionStack[current] = false
}

// detectDuplicateItems finds repeated parent/component pairs
func (v *BOMValidator) detectDuplicateItems(items []*entities.BOMItem) []entities.BOMItem {
	type edgeKey struct {
		parent, component entities.ProductID
	}
	seen := make(map[edgeKey]entities.BOMItem)
	duplicates := make([]entities.BOMItem, 0)

	for _, item := range items {
		if item == nil {
			continue
		}
		key := edgeKey{item.ParentProductID, item.ComponentProductID}

		if existing, exists := seen[key]; exists {
			duplicates = append(duplicates, *item)
			duplicates = append(duplicates, existing)
		} else {
			seen[key] = *item
		}
	}

	return duplicates
}
