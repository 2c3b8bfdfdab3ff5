package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// WorkOrderStatus represents the lifecycle state of a work order
type WorkOrderStatus int

const (
	Created WorkOrderStatus = iota
	Released
	Started
	Completed
	Cancelled
)

// String method for WorkOrderStatus enum
func (s WorkOrderStatus) String() string {
	switch s {
	case Created:
		return "Created"
	case Released:
		return "Released"
	case Started:
		return "Started"
	case Completed:
		return "Completed"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// ParseWorkOrderStatus parses a status name, case-insensitively
func ParseWorkOrderStatus(s string) (WorkOrderStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "created":
		return Created, nil
	case "released":
		return Released, nil
	case "started":
		return Started, nil
	case "completed":
		return Completed, nil
	case "cancelled", "canceled":
		return Cancelled, nil
	default:
		return Created, fmt.Errorf(
			"invalid work order status: %s (expected: Created, Released, Started, Completed, or Cancelled)", s)
	}
}

// IsOpen reports whether orders in this status still carry demand
func (s WorkOrderStatus) IsOpen() bool {
	return s != Completed && s != Cancelled
}

// WorkOrder is a production order and the source of independent demand.
// The full quantity is treated as outstanding.
type WorkOrder struct {
	ID          int64
	OrderNumber string
	ProductID   ProductID
	Quantity    decimal.Decimal
	Status      WorkOrderStatus
	CreatedDate time.Time
	StartDate   *time.Time
	DueDate     *time.Time
}

// NewWorkOrder creates a validated WorkOrder
func NewWorkOrder(
	id int64,
	orderNumber string,
	productID ProductID,
	quantity decimal.Decimal,
	status WorkOrderStatus,
	startDate, dueDate *time.Time,
) (*WorkOrder, error) {
	if orderNumber == "" {
		return nil, fmt.Errorf("order number cannot be empty")
	}
	if productID <= 0 {
		return nil, fmt.Errorf("product id must be positive, got %d", productID)
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("%w: work order quantity cannot be negative, got %s",
			ErrInvalidQuantity, quantity)
	}
	if startDate != nil && dueDate != nil && startDate.After(*dueDate) {
		return nil, fmt.Errorf("start date %v cannot be after due date %v", *startDate, *dueDate)
	}

	return &WorkOrder{
		ID:          id,
		OrderNumber: orderNumber,
		ProductID:   productID,
		Quantity:    quantity,
		Status:      status,
		CreatedDate: time.Now(),
		StartDate:   startDate,
		DueDate:     dueDate,
	}, nil
}

// IsOpen reports whether the order still contributes demand
func (w *WorkOrder) IsOpen() bool {
	return w.Status.IsOpen()
}

// RequiredDate returns the planned start date, or today when none is set
func (w *WorkOrder) RequiredDate(today time.Time) time.Time {
	if w.StartDate != nil {
		return *w.StartDate
	}
	return today
}
