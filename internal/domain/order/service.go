package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xenking/shopcart-api/internal/domain/payment"
	"github.com/xenking/shopcart-api/internal/txid"
)

// CreateRequest holds the input for creating an order.
type CreateRequest struct {
	Customer Customer
	Items    []LineItem
}

// CreateResult is the outcome of a successful order creation.
type CreateResult struct {
	Order         *Order
	TransactionID string
}

// ListResult is the outcome of a status listing.
type ListResult struct {
	Orders        []Order
	TransactionID string
}

// PayResult is the outcome of a successful payment.
type PayResult struct {
	Order         *Order
	Receipt       *payment.Receipt
	TransactionID string
}

// Service implements the order workflow: creating Pending orders and
// transitioning them to Completed through simulated payment.
type Service struct {
	orders   Repository
	payments *payment.Simulator
	txids    *txid.Generator

	ordersCreated metric.Int64Counter
	paymentsDone  metric.Int64Counter
}

// NewService creates the order Service. The meter is used for workflow
// counters; pass a noop meter in tests.
func NewService(orders Repository, payments *payment.Simulator, txids *txid.Generator, meter metric.Meter) (*Service, error) {
	ordersCreated, err := meter.Int64Counter("orders_created_total",
		metric.WithDescription("Orders created in Pending state"))
	if err != nil {
		return nil, errors.Wrap(err, "orders counter")
	}
	paymentsDone, err := meter.Int64Counter("payments_processed_total",
		metric.WithDescription("Simulated payments processed"))
	if err != nil {
		return nil, errors.Wrap(err, "payments counter")
	}

	return &Service{
		orders:        orders,
		payments:      payments,
		txids:         txids,
		ordersCreated: ordersCreated,
		paymentsDone:  paymentsDone,
	}, nil
}

// Create computes the order total from the submitted line-item prices,
// persists the order in Pending state, and returns it with a fresh ORD
// transaction id.
//
// Prices are trusted as submitted; there is no re-pricing against the catalog.
// Order creation therefore never depends on catalog availability, at the cost
// of trusting the client on amounts.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrNoLineItems
	}

	transactionID := s.txids.Generate(txid.PrefixORD)

	total := decimal.Zero
	for _, item := range req.Items {
		total = total.Add(item.Price)
	}

	o := &Order{
		Customer:       req.Customer,
		ProductCount:   len(req.Items),
		ProductSummary: fmt.Sprintf("Order with %d products", len(req.Items)),
		Total:          total.Round(2),
		Status:         StatusPending,
	}

	if err := s.orders.Save(ctx, o); err != nil {
		if errors.Is(err, ErrPendingExists) {
			return nil, err
		}
		return nil, errors.Wrap(err, "save order")
	}

	s.ordersCreated.Add(ctx, 1)

	return &CreateResult{Order: o, TransactionID: transactionID}, nil
}

// ListByStatus validates the raw status against the enum and returns all
// matching orders with a QRY transaction id. An empty result is returned
// as-is; the API layer surfaces it as a not-found condition.
func (s *Service) ListByStatus(ctx context.Context, rawStatus string) (*ListResult, error) {
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	transactionID := s.txids.Generate(txid.PrefixQRY)

	orders, err := s.orders.FindByStatus(ctx, status)
	if err != nil {
		return nil, errors.Wrap(err, "find by status")
	}

	return &ListResult{Orders: orders, TransactionID: transactionID}, nil
}

// Pay looks up the customer's Pending order, evaluates its stored total
// against the payment simulator, and on success transitions the order to
// Completed. The amount comes from the persisted order, never from the
// request body.
func (s *Service) Pay(ctx context.Context, customerID int) (*PayResult, error) {
	transactionID := s.txids.Generate(txid.PrefixPAY)

	o, err := s.orders.FindPendingByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNoPendingOrder) {
			return nil, err
		}
		return nil, errors.Wrap(err, "find pending order")
	}

	if o.ProductCount <= 0 {
		return nil, ErrEmptyOrder
	}

	if err := s.payments.Evaluate(o.Total); err != nil {
		s.paymentsDone.Add(ctx, 1, metric.WithAttributes(attribute.Bool("accepted", false)))
		return nil, err
	}

	o.Status = StatusCompleted
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update order")
	}

	s.paymentsDone.Add(ctx, 1, metric.WithAttributes(attribute.Bool("accepted", true)))

	receipt := &payment.Receipt{
		CustomerID: customerID,
		Amount:     o.Total,
		Status:     string(StatusCompleted),
		Method:     o.PaymentMethod,
		Date:       time.Now(),
	}

	return &PayResult{Order: o, Receipt: receipt, TransactionID: transactionID}, nil
}
