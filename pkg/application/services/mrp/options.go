package mrp

import (
	"time"

	"github.com/vsinha/smartmrp/pkg/domain/entities"
)

// DefaultCancelCheckEvery is how many lines are processed between context checks
const DefaultCancelCheckEvery = 256

// DateOffsetter derives the required date of a component line from its parent
// line. It is the hook for lead-time offsetting.
type DateOffsetter interface {
	ComponentDate(parentDate time.Time, edge entities.BOMItem) time.Time
}

// NoOffset schedules components on the parent's date
type NoOffset struct{}

func (NoOffset) ComponentDate(parentDate time.Time, _ entities.BOMItem) time.Time {
	return parentDate
}

// DateOffsetterFunc adapts a function to DateOffsetter
type DateOffsetterFunc func(parentDate time.Time, edge entities.BOMItem) time.Time

func (f DateOffsetterFunc) ComponentDate(parentDate time.Time, edge entities.BOMItem) time.Time {
	return f(parentDate, edge)
}

// PlanningOptions configures one explosion pass
type PlanningOptions struct {
	Netting          NettingOptions
	Today            func() time.Time
	DateOffsetter    DateOffsetter
	CancelCheckEvery int
}

// DefaultPlanningOptions returns the source-compatible defaults
func DefaultPlanningOptions() PlanningOptions {
	return PlanningOptions{
		Today:            today,
		DateOffsetter:    NoOffset{},
		CancelCheckEvery: DefaultCancelCheckEvery,
	}
}

func (o PlanningOptions) withDefaults() PlanningOptions {
	if o.Today == nil {
		o.Today = today
	}
	if o.DateOffsetter == nil {
		o.DateOffsetter = NoOffset{}
	}
	if o.CancelCheckEvery <= 0 {
		o.CancelCheckEvery = DefaultCancelCheckEvery
	}
	return o
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
