package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/smartmrp/pkg/application/dto"
	"github.com/vsinha/smartmrp/pkg/domain/entities"
	csvrepo "github.com/vsinha/smartmrp/pkg/infrastructure/repositories/csv"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	// Products resolves SKUs for display; ids without an entry print as "#<id>"
	Products map[entities.ProductID]*entities.Product
}

// ValidFormat reports whether format is one Generate understands
func ValidFormat(format string) bool {
	switch format {
	case FormatText, FormatJSON, FormatCSV:
		return true
	}
	return false
}

// Generate writes a planning result in the configured format. With an output
// directory set the result goes to a file there and w only gets a notice.
func Generate(w io.Writer, result *dto.PlanningResult, config Config) error {
	switch config.Format {
	case FormatText:
		return emit(w, config, "mrp_results.txt", func(out io.Writer) error {
			return writeText(out, result, config)
		})
	case FormatJSON:
		return emit(w, config, "mrp_results.json", func(out io.Writer) error {
			return writeJSON(out, planningDocument(result, config))
		})
	case FormatCSV:
		return emit(w, config, csvrepo.RequirementsFile, func(out io.Writer) error {
			return csvrepo.WriteRequirements(out, result.Requirements)
		})
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// GenerateCosts writes cost roll-up results, one breakdown per product
func GenerateCosts(w io.Writer, costs []*dto.CostBreakdown, config Config) error {
	switch config.Format {
	case FormatText:
		return emit(w, config, "rollup_results.txt", func(out io.Writer) error {
			return writeCostText(out, costs, config)
		})
	case FormatJSON:
		return emit(w, config, "rollup_results.json", func(out io.Writer) error {
			return writeJSON(out, costDocuments(costs))
		})
	case FormatCSV:
		return emit(w, config, "rollup_results.csv", func(out io.Writer) error {
			return writeCostCSV(out, costs)
		})
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func emit(w io.Writer, config Config, filename string, write func(io.Writer) error) error {
	if config.OutputDir == "" {
		return write(w)
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(config.OutputDir, filename)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(w, "💾 Results saved to: %s\n", path)
	}
	return nil
}

func writeText(w io.Writer, result *dto.PlanningResult, config Config) error {
	stats := result.Stats

	fmt.Fprintf(w, "📊 MRP Results Summary\n")
	fmt.Fprintf(w, "======================\n\n")
	fmt.Fprintf(w, "Run ID: %s\n", result.RunID)
	fmt.Fprintf(w, "Open Work Orders: %d\n", stats.OpenWorkOrders)
	fmt.Fprintf(w, "Requirements: %d (purchase %d, production %d)\n",
		len(result.Requirements), stats.PurchaseCount, stats.ProductionCount)
	fmt.Fprintf(w, "Demand Lines: %d processed, %d covered by stock\n", stats.LinesProcessed, stats.LinesCovered)
	fmt.Fprintf(w, "Max BOM Level: %d\n", stats.MaxLevel)
	fmt.Fprintf(w, "Explosion Time: %v\n\n", stats.Duration)

	if len(result.Requirements) == 0 {
		fmt.Fprintln(w, "✅ All demand covered by stock")
		return nil
	}

	fmt.Fprintf(w, "📋 Material Requirements:\n")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Level\tProduct\tQty\tRequired\tType\tReference")
	fmt.Fprintln(tw, "-----\t-------\t---\t--------\t----\t---------")
	for _, req := range result.Requirements {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			req.Level,
			config.sku(req.ProductID),
			req.RequiredQuantity.String(),
			req.RequiredDate.Format("2006-01-02"),
			req.Type.String(),
			req.Reference)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if config.Verbose {
		fmt.Fprintf(w, "\n📦 Totals by Product:\n")
		totals := result.TotalByProduct()
		seen := make(map[entities.ProductID]bool, len(totals))
		for _, req := range result.Requirements {
			if seen[req.ProductID] {
				continue
			}
			seen[req.ProductID] = true
			fmt.Fprintf(w, "  %-20s %s\n", config.sku(req.ProductID), totals[req.ProductID].String())
		}
	}
	return nil
}

type requirementJSON struct {
	ID                int64           `json:"id"`
	ProductID         int64           `json:"product_id"`
	SKU               string          `json:"sku,omitempty"`
	RequiredQuantity  decimal.Decimal `json:"required_quantity"`
	RequiredDate      string          `json:"required_date"`
	Type              string          `json:"type"`
	Reference         string          `json:"reference"`
	IsProcessed       bool            `json:"is_processed"`
	SourceWorkOrderID *int64          `json:"source_work_order_id,omitempty"`
	Level             int             `json:"level"`
}

type planningJSON struct {
	Metadata struct {
		RunID       string `json:"run_id"`
		StartedAt   string `json:"started_at"`
		GeneratedAt string `json:"generated_at"`
		Duration    string `json:"duration"`
	} `json:"metadata"`
	Summary struct {
		OpenWorkOrders  int `json:"open_work_orders"`
		LinesProcessed  int `json:"lines_processed"`
		LinesCovered    int `json:"lines_covered"`
		MaxLevel        int `json:"max_level"`
		PurchaseCount   int `json:"purchase_count"`
		ProductionCount int `json:"production_count"`
	} `json:"summary"`
	Requirements []requirementJSON `json:"requirements"`
}

func planningDocument(result *dto.PlanningResult, config Config) planningJSON {
	var doc planningJSON
	doc.Metadata.RunID = result.RunID
	doc.Metadata.StartedAt = result.StartedAt.Format(time.RFC3339)
	doc.Metadata.GeneratedAt = time.Now().Format(time.RFC3339)
	doc.Metadata.Duration = result.Stats.Duration.String()

	doc.Summary.OpenWorkOrders = result.Stats.OpenWorkOrders
	doc.Summary.LinesProcessed = result.Stats.LinesProcessed
	doc.Summary.LinesCovered = result.Stats.LinesCovered
	doc.Summary.MaxLevel = result.Stats.MaxLevel
	doc.Summary.PurchaseCount = result.Stats.PurchaseCount
	doc.Summary.ProductionCount = result.Stats.ProductionCount

	doc.Requirements = make([]requirementJSON, 0, len(result.Requirements))
	for _, req := range result.Requirements {
		var sku string
		if p, ok := config.Products[req.ProductID]; ok {
			sku = p.SKU
		}
		doc.Requirements = append(doc.Requirements, requirementJSON{
			ID:                req.ID,
			ProductID:         int64(req.ProductID),
			SKU:               sku,
			RequiredQuantity:  req.RequiredQuantity,
			RequiredDate:      req.RequiredDate.Format("2006-01-02"),
			Type:              req.Type.String(),
			Reference:         req.Reference,
			IsProcessed:       req.IsProcessed,
			SourceWorkOrderID: req.SourceWorkOrderID,
			Level:             req.Level,
		})
	}
	return doc
}

func writeJSON(w io.Writer, v any) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func (c Config) sku(id entities.ProductID) string {
	if p, ok := c.Products[id]; ok {
		return p.SKU
	}
	return "#" + id.String()
}
