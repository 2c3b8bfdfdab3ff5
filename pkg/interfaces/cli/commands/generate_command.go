package commands

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
	"github.com/vsinha/smartmrp/pkg/domain/repositories"
	csvrepo "github.com/vsinha/smartmrp/pkg/infrastructure/repositories/csv"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Items      int     // Total number of products to generate
	MaxDepth   int     // Maximum depth of BOM tree
	WorkOrders int     // Number of open work orders for top-level assemblies
	Inventory  float64 // Inventory multiplier (e.g., 0.5 = half coverage, 4.0 = 4x coverage)
	OutputDir  string  // Output directory for generated files
	Seed       int64   // Random seed for reproducible generation
	Help       bool    // Show help
	Verbose    bool    // Verbose output
	Out        io.Writer
}

// GenerateCommand handles scenario generation
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
	out    io.Writer
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	out := config.Out
	if out == nil {
		out = os.Stdout
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
		out:    out,
	}
}

// BOMNode represents a product in the generated BOM tree
type BOMNode struct {
	ID       entities.ProductID
	SKU      string
	Level    int
	Children []BOMEdge
	Parents  []*BOMNode
	IsRoot   bool
	IsShared bool
}

// BOMEdge links a parent node to one component
type BOMEdge struct {
	Child    *BOMNode
	Quantity decimal.Decimal
	Waste    decimal.Decimal
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}
	if err := cmd.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out,
			"🔧 Generating scenario with %d products, max depth %d, %d work orders, %.1fx inventory\n",
			cmd.config.Items,
			cmd.config.MaxDepth,
			cmd.config.WorkOrders,
			cmd.config.Inventory,
		)
		fmt.Fprintf(cmd.out, "📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Fprintf(cmd.out, "🎲 Random seed: %d\n", cmd.config.Seed)
	}

	nodes := cmd.generateBOMTree()

	data := repositories.MasterData{
		Products:   cmd.generateProducts(nodes),
		BOMItems:   cmd.generateBOM(nodes),
		WorkOrders: cmd.generateWorkOrders(nodes),
		Inventory:  cmd.generateInventory(nodes),
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := csvrepo.WriteMasterData(cmd.config.OutputDir, data); err != nil {
		return fmt.Errorf("failed to write scenario: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out, "✅ Scenario generated successfully in %s\n", cmd.config.OutputDir)
		fmt.Fprintf(cmd.out, "  Products: %d\n  BOM edges: %d\n  Inventory records: %d\n  Work orders: %d\n",
			len(data.Products), len(data.BOMItems), len(data.Inventory), len(data.WorkOrders))
	}
	return nil
}

func (cmd *GenerateCommand) validate() error {
	switch {
	case cmd.config.Items <= 0:
		return fmt.Errorf("-items must be positive")
	case cmd.config.MaxDepth <= 0:
		return fmt.Errorf("-max-depth must be positive")
	case cmd.config.WorkOrders < 0:
		return fmt.Errorf("-work-orders cannot be negative")
	case cmd.config.Inventory < 0:
		return fmt.Errorf("-inventory cannot be negative")
	case cmd.config.OutputDir == "":
		return fmt.Errorf("-output is required")
	}
	return nil
}

// generateBOMTree creates a BOM tree with shared components, in creation order
func (cmd *GenerateCommand) generateBOMTree() []*BOMNode {
	var nodes []*BOMNode
	newNode := func(sku string, level int) *BOMNode {
		node := &BOMNode{
			ID:    entities.ProductID(len(nodes) + 1),
			SKU:   sku,
			Level: level,
		}
		nodes = append(nodes, node)
		return node
	}

	// Calculate number of root nodes (about 1-3% of total items)
	numRoots := max(1, min(cmd.config.Items, cmd.config.Items/50+cmd.rand.Intn(3)))

	var roots []*BOMNode
	for i := 0; i < numRoots; i++ {
		node := newNode(fmt.Sprintf("ROOT_ASSEMBLY_%03d", i+1), 0)
		node.IsRoot = true
		roots = append(roots, node)
	}

	// Generate tree level by level
	currentLevel := roots
	level := 0

	for level < cmd.config.MaxDepth && len(nodes) < cmd.config.Items {
		level++
		var nextLevel []*BOMNode

		for _, parent := range currentLevel {
			// Each parent gets 2-8 children
			numChildren := 2 + cmd.rand.Intn(7)

			for child := 0; child < numChildren && len(nodes) < cmd.config.Items; child++ {
				// 20% chance to reuse an existing part from this level or lower
				var childNode *BOMNode
				if level > 1 && cmd.rand.Float64() < 0.2 {
					candidates := cmd.findShareableParts(nodes, level, parent)
					if len(candidates) > 0 {
						childNode = candidates[cmd.rand.Intn(len(candidates))]
						childNode.IsShared = true
					}
				}

				if childNode == nil {
					childNode = newNode(fmt.Sprintf("PART_L%d_%04d", level, len(nodes)), level)
					nextLevel = append(nextLevel, childNode)
				}

				cmd.link(parent, childNode, level)
			}
		}

		if len(nextLevel) == 0 {
			break
		}
		currentLevel = nextLevel
	}

	// Fill remaining items as leaf components
	for len(nodes) < cmd.config.Items {
		node := newNode(fmt.Sprintf("COMPONENT_%04d", len(nodes)), level+1)
		parent := currentLevel[cmd.rand.Intn(len(currentLevel))]
		cmd.link(parent, node, level+1)
	}

	return nodes
}

// link adds an edge, with higher quantities and some waste deeper in the tree
func (cmd *GenerateCommand) link(parent, child *BOMNode, level int) {
	baseQty := 1 + cmd.rand.Intn(5)
	if level > 2 {
		baseQty += cmd.rand.Intn(5)
	}

	waste := decimal.Zero
	if level > 2 && cmd.rand.Float64() < 0.3 {
		waste = decimal.NewFromInt(int64(1 + cmd.rand.Intn(10)))
	}

	parent.Children = append(parent.Children, BOMEdge{
		Child:    child,
		Quantity: decimal.NewFromInt(int64(baseQty)),
		Waste:    waste,
	})
	child.Parents = append(child.Parents, parent)
}

// findShareableParts finds existing parts that can be shared without creating a cycle
func (cmd *GenerateCommand) findShareableParts(nodes []*BOMNode, maxLevel int, parent *BOMNode) []*BOMNode {
	var candidates []*BOMNode
	for _, node := range nodes {
		if node.Level >= maxLevel-1 && len(node.Parents) < 3 && node != parent && !node.IsRoot {
			if !cmd.isAncestor(node, parent) && !cmd.hasChild(parent, node) {
				candidates = append(candidates, node)
			}
		}
	}
	return candidates
}

// isAncestor checks if candidate is an ancestor of node
func (cmd *GenerateCommand) isAncestor(candidate, node *BOMNode) bool {
	visited := make(map[entities.ProductID]bool)
	stack := []*BOMNode{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[n.ID] {
			continue
		}
		visited[n.ID] = true
		for _, parent := range n.Parents {
			if parent == candidate {
				return true
			}
			stack = append(stack, parent)
		}
	}
	return false
}

func (cmd *GenerateCommand) hasChild(parent, child *BOMNode) bool {
	for _, edge := range parent.Children {
		if edge.Child == child {
			return true
		}
	}
	return false
}

// generateProducts prices purchased leaves and gives assemblies a standard cost
func (cmd *GenerateCommand) generateProducts(nodes []*BOMNode) []*entities.Product {
	products := make([]*entities.Product, 0, len(nodes))
	for _, node := range nodes {
		p := &entities.Product{
			ID:            node.ID,
			SKU:           node.SKU,
			Name:          cmd.generateDescription(node),
			IsSubassembly: len(node.Children) > 0,
			StandardCost:  decimal.Zero,
			PurchasePrice: decimal.Zero,
		}
		if p.IsSubassembly {
			p.StandardCost = cmd.generatePrice(node)
		} else {
			p.PurchasePrice = cmd.generatePrice(node)
		}
		products = append(products, p)
	}
	return products
}

// generateDescription creates a product name by level
func (cmd *GenerateCommand) generateDescription(node *BOMNode) string {
	if node.IsRoot {
		return fmt.Sprintf("%s Complete Assembly", node.SKU)
	}

	if node.Level <= 2 && len(node.Children) > 0 {
		return fmt.Sprintf("%s Subassembly", node.SKU)
	}

	componentTypes := []string{"Component", "Module", "Unit", "Bracket", "Block", "Element"}
	return fmt.Sprintf("%s %s", node.SKU, componentTypes[cmd.rand.Intn(len(componentTypes))])
}

// generatePrice returns a two-decimal price, cheaper deeper in the tree
func (cmd *GenerateCommand) generatePrice(node *BOMNode) decimal.Decimal {
	var cents int
	switch {
	case node.Level <= 1:
		cents = 5000 + cmd.rand.Intn(45000)
	case node.Level <= 3:
		cents = 500 + cmd.rand.Intn(9500)
	default:
		cents = 10 + cmd.rand.Intn(990)
	}
	return decimal.New(int64(cents), -2)
}

// generateBOM flattens the tree into edges, parents in id order
func (cmd *GenerateCommand) generateBOM(nodes []*BOMNode) []*entities.BOMItem {
	var items []*entities.BOMItem
	for _, parent := range nodes {
		for _, edge := range parent.Children {
			items = append(items, &entities.BOMItem{
				ID:                 int64(len(items) + 1),
				ParentProductID:    parent.ID,
				ComponentProductID: edge.Child.ID,
				Quantity:           edge.Quantity,
				WastePercentage:    edge.Waste,
			})
		}
	}
	return items
}

// generateWorkOrders creates open orders for top-level assemblies
func (cmd *GenerateCommand) generateWorkOrders(nodes []*BOMNode) []*entities.WorkOrder {
	var roots []*BOMNode
	for _, node := range nodes {
		if node.IsRoot {
			roots = append(roots, node)
		}
	}

	statuses := []entities.WorkOrderStatus{entities.Created, entities.Released, entities.Started}
	baseDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	orders := make([]*entities.WorkOrder, 0, cmd.config.WorkOrders)

	for i := 0; i < cmd.config.WorkOrders; i++ {
		root := roots[cmd.rand.Intn(len(roots))]
		qty := 1 + cmd.rand.Intn(5)

		start := baseDate.AddDate(0, 0, cmd.rand.Intn(365))
		due := start.AddDate(0, 0, 14+cmd.rand.Intn(30))

		orders = append(orders, &entities.WorkOrder{
			ID:          int64(i + 1),
			OrderNumber: fmt.Sprintf("WO-%05d", i+1),
			ProductID:   root.ID,
			Quantity:    decimal.NewFromInt(int64(qty)),
			Status:      statuses[cmd.rand.Intn(len(statuses))],
			StartDate:   &start,
			DueDate:     &due,
		})
	}
	return orders
}

// generateInventory stocks each part relative to one unit of the first root
func (cmd *GenerateCommand) generateInventory(nodes []*BOMNode) []*entities.InventoryItem {
	counts := cmd.calculatePartCounts(nodes)
	multiplier := decimal.NewFromFloat(cmd.config.Inventory)

	var items []*entities.InventoryItem
	for _, node := range nodes {
		needed, ok := counts[node.ID]
		if !ok {
			continue
		}
		onHand := needed.Mul(multiplier).Floor()
		if !onHand.IsPositive() {
			continue
		}

		safety := decimal.Zero
		if len(node.Children) == 0 {
			safety = decimal.NewFromInt(int64(cmd.rand.Intn(5)))
		}

		items = append(items, &entities.InventoryItem{
			ProductID:        node.ID,
			QuantityOnHand:   onHand,
			ReservedQuantity: decimal.Zero,
			SafetyStock:      safety,
		})
	}
	return items
}

// calculatePartCounts explodes one unit of the first root assembly, visiting
// each reachable part once in topological order
func (cmd *GenerateCommand) calculatePartCounts(nodes []*BOMNode) map[entities.ProductID]decimal.Decimal {
	counts := make(map[entities.ProductID]decimal.Decimal)
	if len(nodes) == 0 {
		return counts
	}
	root := nodes[0]

	indegree := make(map[entities.ProductID]int)
	reached := map[entities.ProductID]bool{root.ID: true}
	stack := []*BOMNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, edge := range n.Children {
			indegree[edge.Child.ID]++
			if !reached[edge.Child.ID] {
				reached[edge.Child.ID] = true
				stack = append(stack, edge.Child)
			}
		}
	}

	counts[root.ID] = decimal.NewFromInt(1)
	queue := []*BOMNode{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, edge := range n.Children {
			child := edge.Child
			counts[child.ID] = counts[child.ID].Add(counts[n.ID].Mul(edge.Quantity))
			indegree[child.ID]--
			if indegree[child.ID] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return counts
}

// printHelp shows usage information
func (cmd *GenerateCommand) printHelp() {
	fmt.Fprintln(cmd.out, `SmartMRP Scenario Generator

USAGE:
    mrp generate [OPTIONS]

OPTIONS:
    -items <N>          Number of products to generate (required)
    -max-depth <N>      Maximum depth of BOM tree (required)
    -work-orders <N>    Number of open work orders to generate (default: 10)
    -inventory <F>      Inventory multiplier (e.g., 0.5 = half coverage, 4.0 = 4x coverage)
    -output <DIR>       Output directory for generated files (required)
    -seed <N>           Random seed for reproducible generation (optional)
    -verbose            Enable verbose output
    -help               Show this help message

EXAMPLES:
    # Generate small test scenario
    mrp generate -items 100 -max-depth 5 -work-orders 10 -inventory 0.5 -output ./test_scenario

    # Generate large performance test scenario
    mrp generate -items 30000 -max-depth 8 -work-orders 50 -inventory 1.2 -output ./large_scenario -verbose

    # Generate reproducible scenario
    mrp generate -items 1000 -max-depth 6 -work-orders 20 -inventory 0.8 -output ./repro_scenario -seed 12345`)
}
