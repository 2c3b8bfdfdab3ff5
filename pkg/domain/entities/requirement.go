package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RequirementType classifies a net requirement
type RequirementType int

const (
	Purchase RequirementType = iota
	Production
)

// String method for RequirementType enum
func (r RequirementType) String() string {
	switch r {
	case Purchase:
		return "Purchase"
	case Production:
		return "Production"
	default:
		return "Unknown"
	}
}

// ParseRequirementType parses a requirement type name, case-insensitively
func ParseRequirementType(s string) (RequirementType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "purchase":
		return Purchase, nil
	case "production":
		return Production, nil
	default:
		return Purchase, fmt.Errorf("invalid requirement type: %s (expected: Purchase or Production)", s)
	}
}

// MaterialRequirement is a planning suggestion produced by one run. The set of
// requirements of a run replaces the previous run's set entirely.
type MaterialRequirement struct {
	ID                int64
	RunID             string
	ProductID         ProductID
	RequiredQuantity  decimal.Decimal
	RequiredDate      time.Time
	Type              RequirementType
	Reference         string
	IsProcessed       bool
	SourceWorkOrderID *int64
	Level             int
}
