// Package product defines the catalog product value types. Products are owned
// by the external catalog API; this service never persists them, it only reads
// them through the catalog proxy and denormalizes prices into orders.
package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors returned by catalog sources.
var (
	// ErrNotFound indicates the catalog has no product with the requested ID.
	ErrNotFound = errors.New("product not found")

	// ErrUnavailable indicates the external catalog call failed or returned
	// an empty body.
	ErrUnavailable = errors.New("catalog unavailable")
)

// Rating holds the aggregate customer rating of a product as reported by the
// external catalog. Rate is in [0,5]; Count is non-negative.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is the external catalog's product representation.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      *Rating         `json:"rating,omitempty"`
}

// Source fetches product data from the external catalog.
type Source interface {
	// FetchAll returns every product in the catalog.
	FetchAll(ctx context.Context) ([]Product, error)

	// FetchByID returns a single product. It returns ErrNotFound when the
	// catalog has no product with the given ID.
	FetchByID(ctx context.Context, id int) (*Product, error)
}
