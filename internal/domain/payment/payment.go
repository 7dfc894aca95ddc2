// Package payment implements the synchronous payment simulation. There is no
// gateway integration: an amount at or below the configured limit is accepted
// unconditionally, anything above it is rejected.
package payment

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrAmountExceedsLimit is returned when a payment amount is above the
// simulator's limit.
var ErrAmountExceedsLimit = errors.New("amount exceeds the limit for payments")

// DefaultLimit is the maximum amount the simulator accepts.
var DefaultLimit = decimal.NewFromInt(10000)

// Receipt records the outcome of a simulated payment. It is returned to the
// caller and never persisted.
type Receipt struct {
	CustomerID int
	Amount     decimal.Decimal
	Status     string
	Method     string
	Date       time.Time
}

// Simulator decides synchronously whether a payment amount is acceptable.
type Simulator struct {
	limit decimal.Decimal
}

// NewSimulator returns a Simulator with DefaultLimit.
func NewSimulator() *Simulator {
	return &Simulator{limit: DefaultLimit}
}

// NewSimulatorWithLimit returns a Simulator with a custom limit.
func NewSimulatorWithLimit(limit decimal.Decimal) *Simulator {
	return &Simulator{limit: limit}
}

// Evaluate accepts any amount up to and including the limit. It returns
// ErrAmountExceedsLimit otherwise.
func (s *Simulator) Evaluate(amount decimal.Decimal) error {
	if amount.GreaterThan(s.limit) {
		return ErrAmountExceedsLimit
	}
	return nil
}
