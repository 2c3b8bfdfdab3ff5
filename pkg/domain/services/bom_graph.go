package services

import (
	"github.com/vsinha/smartmrp/pkg/domain/entities"
)

// BOMGraph is a read-only adjacency view over a pre-loaded BOM edge set.
// Lookups are O(1); component order follows the input edge order.
type BOMGraph struct {
	components map[entities.ProductID][]entities.BOMItem
	parents    []entities.ProductID
	edges      int
}

// NewBOMGraph indexes the edge set by parent product
func NewBOMGraph(items []*entities.BOMItem) *BOMGraph {
	g := &BOMGraph{
		components: make(map[entities.ProductID][]entities.BOMItem, len(items)),
	}
	for _, item := range items {
		if item == nil {
			continue
		}
		if _, seen := g.components[item.ParentProductID]; !seen {
			g.parents = append(g.parents, item.ParentProductID)
		}
		g.components[item.ParentProductID] = append(g.components[item.ParentProductID], *item)
		g.edges++
	}
	return g
}

// ComponentsOf returns the direct components of a product; empty for leaves.
// The returned slice must not be modified.
func (g *BOMGraph) ComponentsOf(id entities.ProductID) []entities.BOMItem {
	return g.components[id]
}

// IsManufactured reports whether the product has at least one component
func (g *BOMGraph) IsManufactured(id entities.ProductID) bool {
	return len(g.components[id]) > 0
}

// Parents returns every product with outgoing edges, in first-seen order
func (g *BOMGraph) Parents() []entities.ProductID {
	out := make([]entities.ProductID, len(g.parents))
	copy(out, g.parents)
	return out
}

// EdgeCount returns the number of edges indexed
func (g *BOMGraph) EdgeCount() int {
	return g.edges
}
