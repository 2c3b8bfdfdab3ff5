package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/vsinha/smartmrp/pkg/application/dto"
)

func writeCostText(w io.Writer, costs []*dto.CostBreakdown, config Config) error {
	fmt.Fprintf(w, "💰 Cost Roll-Up\n")
	fmt.Fprintf(w, "===============\n\n")

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Product\tTotal Cost")
	fmt.Fprintln(tw, "-------\t----------")
	for _, c := range costs {
		fmt.Fprintf(tw, "%s\t%s\n", c.SKU, c.TotalCost.StringFixed(4))
		if !config.Verbose {
			continue
		}
		for _, line := range c.Lines {
			marker := ""
			switch {
			case line.Unknown:
				marker = " (unknown)"
			case line.RolledUp:
				marker = " (rolled up)"
			}
			fmt.Fprintf(tw, "  %s x %s @ %s%s\t%s\n",
				line.ComponentSKU,
				line.EffectiveQuantity.String(),
				line.UnitCost.StringFixed(4),
				marker,
				line.ExtendedCost.StringFixed(4))
		}
	}
	return tw.Flush()
}

type costLineJSON struct {
	ComponentID       int64           `json:"component_id"`
	ComponentSKU      string          `json:"component_sku,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	WastePercentage   decimal.Decimal `json:"waste_percentage"`
	EffectiveQuantity decimal.Decimal `json:"effective_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	ExtendedCost      decimal.Decimal `json:"extended_cost"`
	RolledUp          bool            `json:"rolled_up"`
	Unknown           bool            `json:"unknown,omitempty"`
}

type costJSON struct {
	ProductID int64           `json:"product_id"`
	SKU       string          `json:"sku"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Lines     []costLineJSON  `json:"lines"`
}

func costDocuments(costs []*dto.CostBreakdown) []costJSON {
	docs := make([]costJSON, 0, len(costs))
	for _, c := range costs {
		doc := costJSON{
			ProductID: int64(c.ProductID),
			SKU:       c.SKU,
			TotalCost: c.TotalCost,
			Lines:     make([]costLineJSON, 0, len(c.Lines)),
		}
		for _, l := range c.Lines {
			doc.Lines = append(doc.Lines, costLineJSON{
				ComponentID:       int64(l.ComponentID),
				ComponentSKU:      l.ComponentSKU,
				Quantity:          l.Quantity,
				WastePercentage:   l.WastePercentage,
				EffectiveQuantity: l.EffectiveQuantity,
				UnitCost:          l.UnitCost,
				ExtendedCost:      l.ExtendedCost,
				RolledUp:          l.RolledUp,
				Unknown:           l.Unknown,
			})
		}
		docs = append(docs, doc)
	}
	return docs
}

func writeCostCSV(w io.Writer, costs []*dto.CostBreakdown) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"product_id", "sku", "total_cost"}); err != nil {
		return err
	}
	for _, c := range costs {
		if err := writer.Write([]string{
			strconv.FormatInt(int64(c.ProductID), 10),
			c.SKU,
			c.TotalCost.String(),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
