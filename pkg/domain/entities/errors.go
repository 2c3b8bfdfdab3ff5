package entities

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned by repositories when a record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrInvalidQuantity marks master data rejected at load time
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrUnknownProduct marks a reference to a product missing from master data.
	// The planning core treats it as zero cost / zero stock and only logs it.
	ErrUnknownProduct = errors.New("unknown product reference")
	// ErrCyclicBOM is matched by every *CyclicBOMError
	ErrCyclicBOM = errors.New("cyclic bill of materials")
)

// CyclicBOMError reports a product that is, directly or transitively, its own component.
// Chain lists the path from the first product to the repeated one, inclusive.
type CyclicBOMError struct {
	Chain []ProductID
}

// NewCyclicBOMError copies the chain so later changes to the caller's slice do not leak in
func NewCyclicBOMError(chain []ProductID) *CyclicBOMError {
	c := make([]ProductID, len(chain))
	copy(c, chain)
	return &CyclicBOMError{Chain: c}
}

// Repeated returns the product id that closes the cycle
func (e *CyclicBOMError) Repeated() ProductID {
	if len(e.Chain) == 0 {
		return 0
	}
	return e.Chain[len(e.Chain)-1]
}

func (e *CyclicBOMError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, id := range e.Chain {
		parts[i] = id.String()
	}
	return "cyclic bill of materials: product " + e.Repeated().String() +
		" is its own component (" + strings.Join(parts, " -> ") + ")"
}

// Is lets errors.Is(err, ErrCyclicBOM) match
func (e *CyclicBOMError) Is(target error) bool {
	return target == ErrCyclicBOM
}
