package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/shopcart-api/internal/domain/product"
	"github.com/xenking/shopcart-api/internal/txid"
)

// GetProducts handles GET /api/products?id=. Without an id (or with id=0) it
// returns the full catalog; with an id it returns a single-element list.
// Upstream failures and not-found both map to 404.
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	var id *int
	if raw := r.URL.Query().Get("id"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "id must be an integer")
			return
		}
		id = &v
	}

	transactionID := h.txids.Generate(txid.PrefixPRD)
	w.Header().Set("X-Transaction-Id", transactionID)

	products, err := h.catalog.Products(r.Context(), id)
	if err != nil {
		h.writeCatalogError(w, r, transactionID, "PRODUCTS_NOT_FOUND", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toProductPayloads(products))
}

// GetProductByID handles GET /api/products/{id}.
func (h *Handler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "id must be an integer")
		return
	}

	transactionID := h.txids.Generate(txid.PrefixPRD)
	w.Header().Set("X-Transaction-Id", transactionID)

	products, err := h.catalog.Products(r.Context(), &id)
	if err != nil {
		h.writeCatalogError(w, r, transactionID, "PRODUCT_NOT_FOUND", err)
		return
	}
	if len(products) == 0 {
		writeError(w, r, http.StatusNotFound, "PRODUCT_NOT_FOUND",
			fmt.Sprintf("no product found with id %d", id))
		return
	}

	writeJSON(w, r, http.StatusOK, toProductPayload(products[0]))
}

// GetCategories handles GET /api/products/categories.
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	transactionID := h.txids.Generate(txid.PrefixQRY)
	w.Header().Set("X-Transaction-Id", transactionID)

	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		h.writeCatalogError(w, r, transactionID, "CATEGORIES_NOT_FOUND", err)
		return
	}
	if len(categories) == 0 {
		writeError(w, r, http.StatusNotFound, "CATEGORIES_NOT_FOUND", "no categories available")
		return
	}

	writeJSON(w, r, http.StatusOK, categories)
}

// GetProductsByCategory handles GET /api/products/category/{category}.
func (h *Handler) GetProductsByCategory(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")

	transactionID := h.txids.Generate(txid.PrefixQRY)
	w.Header().Set("X-Transaction-Id", transactionID)

	products, err := h.catalog.ByCategory(r.Context(), category)
	if err != nil {
		h.writeCatalogError(w, r, transactionID, "PRODUCTS_NOT_FOUND", err)
		return
	}
	if len(products) == 0 {
		writeError(w, r, http.StatusNotFound, "PRODUCTS_NOT_FOUND",
			fmt.Sprintf("no products found in category %s", category))
		return
	}

	writeJSON(w, r, http.StatusOK, toProductPayloads(products))
}

// ClearProductCache handles POST /api/products/cache/clear. Responds with
// plain text, not the JSON envelope.
func (h *Handler) ClearProductCache(w http.ResponseWriter, r *http.Request) {
	h.catalog.ClearAll()

	zctx.From(r.Context()).Info("Catalog cache cleared")

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Cache cleared successfully"))
}

// writeCatalogError maps catalog errors to 404. Upstream failures and misses
// share the status code; the message distinguishes them.
func (h *Handler) writeCatalogError(w http.ResponseWriter, r *http.Request, transactionID, code string, err error) {
	zctx.From(r.Context()).Warn("Catalog lookup failed",
		zap.String("transaction_id", transactionID),
		zap.Error(err),
	)

	if errors.Is(err, product.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, code, err.Error())
		return
	}
	writeError(w, r, http.StatusNotFound, "API_ERROR", fmt.Sprintf("error fetching products: %s", err))
}
