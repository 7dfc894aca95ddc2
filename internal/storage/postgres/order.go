package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/shopcart-api/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (
		customer_id, first_name, last_name, email, phone,
		street, city, zip_code,
		product_count, product_summary, total, status, payment_method)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING id, created_at`

	updateOrderSQL = `UPDATE orders
	SET status = $2, payment_method = $3
	WHERE id = $1`

	selectOrderColumns = `id, customer_id, first_name, last_name, email, phone,
		street, city, zip_code,
		product_count, product_summary, total, status, payment_method, created_at`

	findPendingByCustomerSQL = `SELECT ` + selectOrderColumns + `
	FROM orders WHERE customer_id = $1 AND status = 'Pending'
	ORDER BY id LIMIT 1`

	findByStatusSQL = `SELECT ` + selectOrderColumns + `
	FROM orders WHERE status = $1 ORDER BY id`
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations, raised here by the one-Pending-per-customer partial index.
const uniqueViolation = "23505"

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Save inserts the order when o.ID is zero, assigning the generated id and
// creation time, and updates the mutable columns otherwise. A second Pending
// insert for the same customer trips the partial unique index and surfaces as
// order.ErrPendingExists.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	if o.ID == 0 {
		err := r.pool.QueryRow(ctx, insertOrderSQL,
			o.Customer.ID, o.Customer.FirstName, o.Customer.LastName,
			o.Customer.Email, o.Customer.Phone,
			o.Customer.Address.Street, o.Customer.Address.City, o.Customer.Address.ZipCode,
			o.ProductCount, o.ProductSummary, o.Total, o.Status, o.PaymentMethod,
		).Scan(&o.ID, &o.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return order.ErrPendingExists
			}
			return errors.Wrapf(err, "insert order for customer %d", o.Customer.ID)
		}
		return nil
	}

	tag, err := r.pool.Exec(ctx, updateOrderSQL, o.ID, o.Status, o.PaymentMethod)
	if err != nil {
		return errors.Wrapf(err, "update order %d", o.ID)
	}
	if tag.RowsAffected() == 0 {
		return errors.Errorf("update order %d: no such order", o.ID)
	}
	return nil
}

// FindPendingByCustomer returns the customer's Pending order. With historical
// data predating the unique index, the first order by id wins.
func (r *OrderRepository) FindPendingByCustomer(ctx context.Context, customerID int) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, findPendingByCustomerSQL, customerID)
	if err != nil {
		return nil, errors.Wrapf(err, "find pending order for customer %d", customerID)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNoPendingOrder
		}
		return nil, errors.Wrapf(err, "find pending order for customer %d", customerID)
	}
	return &o, nil
}

// FindByStatus returns all orders with the exact status, oldest first.
func (r *OrderRepository) FindByStatus(ctx context.Context, status order.Status) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, findByStatusSQL, status)
	if err != nil {
		return nil, errors.Wrapf(err, "find orders with status %s", status)
	}
	return pgx.CollectRows(rows, scanOrder)
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.Customer.ID, &o.Customer.FirstName, &o.Customer.LastName,
		&o.Customer.Email, &o.Customer.Phone,
		&o.Customer.Address.Street, &o.Customer.Address.City, &o.Customer.Address.ZipCode,
		&o.ProductCount, &o.ProductSummary, &o.Total, &o.Status, &o.PaymentMethod, &o.CreatedAt,
	)
	return o, err
}
