package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is the order lifecycle state. Pending is the initial state, Completed
// is reached through payment, Cancelled is defined but only reachable through
// administrative paths outside this service.
type Status string

// Order lifecycle states.
const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// InvalidStatusError indicates a status string outside the fixed enum.
// Matching is exact and case-sensitive.
type InvalidStatusError struct {
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("status must be Pending, Completed or Cancelled, got %q", e.Value)
}

// ParseStatus validates a raw status string against the enum.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", &InvalidStatusError{Value: s}
	}
}

// Sentinel errors for the order workflow.
var (
	// ErrNoPendingOrder indicates no Pending order exists for the customer.
	ErrNoPendingOrder = errors.New("no pending order for customer")

	// ErrEmptyOrder indicates a Pending order with no products.
	ErrEmptyOrder = errors.New("order has no products")

	// ErrNoLineItems indicates an order creation request without line items.
	ErrNoLineItems = errors.New("line items required")

	// ErrPendingExists indicates the customer already has a Pending order.
	// The store enforces this with a partial unique index.
	ErrPendingExists = errors.New("customer already has a pending order")
)

// Address is the customer's postal address, embedded in Customer.
type Address struct {
	Street  string
	City    string
	ZipCode string
}

// Customer identifies the ordering customer. It is embedded in the order as a
// value and never mutated after creation.
type Customer struct {
	ID        int
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   Address
}

// LineItem is a client-submitted product reference with a price. Line items
// only contribute to the order total and summary; they are not persisted as
// catalog entities.
type LineItem struct {
	ProductID int
	Title     string
	Price     decimal.Decimal
}

// Order is the persisted order record. The store assigns ID on first insert.
type Order struct {
	ID             int64
	Customer       Customer
	ProductCount   int
	ProductSummary string
	Total          decimal.Decimal
	Status         Status
	PaymentMethod  string
	CreatedAt      time.Time
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Save inserts the order (assigning Order.ID) or updates it when the ID
	// is already set. Inserting a second Pending order for the same customer
	// returns ErrPendingExists.
	Save(ctx context.Context, o *Order) error

	// FindPendingByCustomer returns the customer's Pending order, or
	// ErrNoPendingOrder. If historical data contains several Pending orders
	// for one customer, the first by id is returned.
	FindPendingByCustomer(ctx context.Context, customerID int) (*Order, error)

	// FindByStatus returns all orders with the exact status.
	FindByStatus(ctx context.Context, status Status) ([]Order, error)
}
