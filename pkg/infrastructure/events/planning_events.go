package events

import (
	"github.com/vsinha/smartmrp/pkg/domain/entities"
)

const (
	RunStartedEvent         = "planning.run.started"
	RequirementPlannedEvent = "planning.requirement.planned"
	RunCompletedEvent       = "planning.run.completed"
	RunFailedEvent          = "planning.run.failed"
)

type RunStarted struct {
	RunID          string `json:"run_id"`
	OpenWorkOrders int    `json:"open_work_orders"`
	BOMEdges       int    `json:"bom_edges"`
	InventoryItems int    `json:"inventory_items"`
}

type RequirementPlanned struct {
	RunID       string                       `json:"run_id"`
	Requirement entities.MaterialRequirement `json:"requirement"`
}

type RunCompleted struct {
	RunID           string `json:"run_id"`
	Requirements    int    `json:"requirements"`
	PurchaseCount   int    `json:"purchase_count"`
	ProductionCount int    `json:"production_count"`
	LinesProcessed  int    `json:"lines_processed"`
	DurationMillis  int64  `json:"duration_ms"`
}

type RunFailed struct {
	RunID      string               `json:"run_id"`
	Error      string               `json:"error"`
	CycleChain []entities.ProductID `json:"cycle_chain,omitempty"`
}

// StreamForRun returns the event stream that carries one planning run
func StreamForRun(runID string) string {
	return "planning-run-" + runID
}

func NewRunStarted(data RunStarted) Event {
	return NewEvent(RunStartedEvent, StreamForRun(data.RunID), data)
}

func NewRequirementPlanned(data RequirementPlanned) Event {
	return NewEvent(RequirementPlannedEvent, StreamForRun(data.RunID), data)
}

func NewRunCompleted(data RunCompleted) Event {
	return NewEvent(RunCompletedEvent, StreamForRun(data.RunID), data)
}

func NewRunFailed(data RunFailed) Event {
	return NewEvent(RunFailedEvent, StreamForRun(data.RunID), data)
}
