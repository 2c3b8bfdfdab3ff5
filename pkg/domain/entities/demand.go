package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// DemandLine is one unit of work for the explosion: independent demand from a
// work order (Level 0) or dependent demand derived from a parent's net requirement.
type DemandLine struct {
	ProductID     ProductID
	Quantity      decimal.Decimal
	RequiredDate  time.Time
	Reference     string
	SourceOrderID *int64
	Level         int
}
