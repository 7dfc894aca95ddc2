// Package api exposes the REST surface: order creation, payment processing,
// catalog browsing, and fixed-response diagnostics. Handlers translate
// between HTTP and the domain services and map domain errors to the error
// envelope.
package api

import (
	"net/http"

	"github.com/xenking/shopcart-api/internal/catalog"
	"github.com/xenking/shopcart-api/internal/domain/order"
	"github.com/xenking/shopcart-api/internal/txid"
)

// Handler holds the domain dependencies of the REST handlers.
type Handler struct {
	catalog *catalog.Service
	orders  *order.Service
	txids   *txid.Generator
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(catalogSvc *catalog.Service, orders *order.Service, txids *txid.Generator) *Handler {
	return &Handler{
		catalog: catalogSvc,
		orders:  orders,
		txids:   txids,
	}
}

// Register mounts all API routes on the mux. Literal segments take precedence
// over wildcards, so /api/products/categories wins over /api/products/{id}.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/orders", h.CreateOrder)
	mux.HandleFunc("GET /api/orders/status/{status}", h.ListOrdersByStatus)

	mux.HandleFunc("POST /api/payments", h.ProcessPayment)

	mux.HandleFunc("GET /api/products", h.GetProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProductByID)
	mux.HandleFunc("GET /api/products/categories", h.GetCategories)
	mux.HandleFunc("GET /api/products/category/{category}", h.GetProductsByCategory)
	mux.HandleFunc("POST /api/products/cache/clear", h.ClearProductCache)

	mux.HandleFunc("GET /api/test/success", h.TestSuccess)
	mux.HandleFunc("GET /api/test/bad-request", h.TestBadRequest)
	mux.HandleFunc("GET /api/test/not-found", h.TestNotFound)
	mux.HandleFunc("GET /api/test/server-error", h.TestServerError)
}
