package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/shopcart-api/internal/domain/order"
)

// CreateOrder handles POST /api/orders: validates the request, creates a
// Pending order from the submitted line items, and returns the order
// envelope.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "MALFORMED_BODY", "request body must be valid JSON")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.orders.Create(r.Context(), order.CreateRequest{
		Customer: req.toCustomer(),
		Items:    req.toLineItems(),
	})
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNoLineItems):
			writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, order.ErrPendingExists):
			writeError(w, r, http.StatusBadRequest, "PENDING_ORDER_EXISTS",
				fmt.Sprintf("customer %d already has a pending order", req.Customer.CustomerID))
		default:
			writeSystemError(w, r, err)
		}
		return
	}

	zctx.From(r.Context()).Info("Order created",
		zap.String("transaction_id", result.TransactionID),
		zap.Int64("order_id", result.Order.ID),
		zap.Int("customer_id", result.Order.Customer.ID),
		zap.Int("product_count", result.Order.ProductCount),
	)

	writeJSON(w, r, http.StatusOK, OrderResponse{
		TransactionResponse: newTransactionResponse(result.TransactionID, "Order created successfully"),
		Order:               toOrderPayload(result.Order),
		OrderNumber:         fmt.Sprintf("ORD-%08d", result.Order.ID),
	})
}

// ListOrdersByStatus handles GET /api/orders/status/{status}: returns the
// first matching order as a sample plus the total count. An empty result is a
// 404, an unknown status a 400.
func (h *Handler) ListOrdersByStatus(w http.ResponseWriter, r *http.Request) {
	status := r.PathValue("status")

	result, err := h.orders.ListByStatus(r.Context(), status)
	if err != nil {
		var invalid *order.InvalidStatusError
		if errors.As(err, &invalid) {
			writeError(w, r, http.StatusBadRequest, "INVALID_STATUS", invalid.Error())
			return
		}
		writeSystemError(w, r, err)
		return
	}

	if len(result.Orders) == 0 {
		writeError(w, r, http.StatusNotFound, "ORDERS_NOT_FOUND",
			fmt.Sprintf("no orders found with status %s", status))
		return
	}

	sample := result.Orders[0]
	writeJSON(w, r, http.StatusOK, OrderResponse{
		TransactionResponse: newTransactionResponse(result.TransactionID,
			fmt.Sprintf("Orders retrieved successfully. Total: %d", len(result.Orders))),
		Order: toOrderPayload(&sample),
		Count: len(result.Orders),
	})
}
