package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/shopcart-api/internal/domain/order"
	"github.com/xenking/shopcart-api/internal/domain/payment"
)

// ProcessPayment handles POST /api/payments: finds the customer's Pending
// order, simulates payment of its stored total, and on success returns the
// Completed order with a payment receipt. The submitted products are only
// validated, never re-priced; the charged amount is the persisted total.
func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req OrderPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "MALFORMED_BODY", "request body must be valid JSON")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.orders.Pay(r.Context(), req.Customer.CustomerID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNoPendingOrder):
			writeError(w, r, http.StatusNotFound, "PENDING_ORDER_NOT_FOUND",
				fmt.Sprintf("no pending order found for customer %d", req.Customer.CustomerID))
		case errors.Is(err, order.ErrEmptyOrder):
			writeError(w, r, http.StatusBadRequest, "ORDER_WITHOUT_PRODUCTS",
				"the order has no products to pay for")
		case errors.Is(err, payment.ErrAmountExceedsLimit):
			writeError(w, r, http.StatusBadRequest, "PAYMENT_LIMIT_EXCEEDED", err.Error())
		default:
			writeSystemError(w, r, err)
		}
		return
	}

	zctx.From(r.Context()).Info("Payment processed",
		zap.String("transaction_id", result.TransactionID),
		zap.Int64("order_id", result.Order.ID),
		zap.Int("customer_id", result.Receipt.CustomerID),
		zap.Float64("amount", result.Receipt.Amount.InexactFloat64()),
	)

	writeJSON(w, r, http.StatusOK, PaymentResponse{
		TransactionResponse: newTransactionResponse(result.TransactionID, "Payment processed successfully"),
		Payment:             toPaymentPayload(result.Receipt),
		Order:               toOrderPayload(result.Order),
		PaymentReference:    result.TransactionID,
	})
}
