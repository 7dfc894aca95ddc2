package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/shopcart-api/internal/domain/order"
	"github.com/xenking/shopcart-api/internal/domain/payment"
	"github.com/xenking/shopcart-api/internal/domain/product"
)

// TransactionResponse is the envelope shared by every successful response.
// Concrete responses embed it and add their payload fields.
type TransactionResponse struct {
	TransactionID string    `json:"transactionId"`
	Timestamp     time.Time `json:"timestamp"`
	Status        string    `json:"status"`
	Message       string    `json:"message"`
}

func newTransactionResponse(transactionID, message string) TransactionResponse {
	return TransactionResponse{
		TransactionID: transactionID,
		Timestamp:     time.Now(),
		Status:        "SUCCESS",
		Message:       message,
	}
}

// OrderResponse is returned by order creation and status listing.
type OrderResponse struct {
	TransactionResponse
	Order       *orderPayload `json:"order"`
	OrderNumber string        `json:"orderNumber,omitempty"`
	Count       int           `json:"count,omitempty"`
}

// PaymentResponse is returned by payment processing.
type PaymentResponse struct {
	TransactionResponse
	Payment          *paymentPayload `json:"payment"`
	Order            *orderPayload   `json:"order"`
	PaymentReference string          `json:"paymentReference,omitempty"`
}

// ErrorResponse is the envelope for every error body.
type ErrorResponse struct {
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}

type addressPayload struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
}

type customerPayload struct {
	CustomerID int            `json:"customerId"`
	FirstName  string         `json:"firstName"`
	LastName   string         `json:"lastName"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone,omitempty"`
	Address    addressPayload `json:"address"`
}

type orderPayload struct {
	OrderID        int64           `json:"orderId"`
	Customer       customerPayload `json:"customer"`
	ProductCount   int             `json:"productCount"`
	ProductSummary string          `json:"productSummary"`
	Total          float64         `json:"total"`
	Status         string          `json:"status"`
	PaymentMethod  string          `json:"paymentMethod,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type paymentPayload struct {
	CustomerID    int       `json:"customerId"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	Date          time.Time `json:"date"`
}

type ratingPayload struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

type productPayload struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	Price       float64        `json:"price"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Image       string         `json:"image"`
	Rating      *ratingPayload `json:"rating,omitempty"`
}

func toOrderPayload(o *order.Order) *orderPayload {
	return &orderPayload{
		OrderID: o.ID,
		Customer: customerPayload{
			CustomerID: o.Customer.ID,
			FirstName:  o.Customer.FirstName,
			LastName:   o.Customer.LastName,
			Email:      o.Customer.Email,
			Phone:      o.Customer.Phone,
			Address: addressPayload{
				Street:  o.Customer.Address.Street,
				City:    o.Customer.Address.City,
				ZipCode: o.Customer.Address.ZipCode,
			},
		},
		ProductCount:   o.ProductCount,
		ProductSummary: o.ProductSummary,
		Total:          o.Total.InexactFloat64(),
		Status:         string(o.Status),
		PaymentMethod:  o.PaymentMethod,
		CreatedAt:      o.CreatedAt,
	}
}

func toPaymentPayload(r *payment.Receipt) *paymentPayload {
	return &paymentPayload{
		CustomerID:    r.CustomerID,
		Amount:        r.Amount.InexactFloat64(),
		Status:        r.Status,
		PaymentMethod: r.Method,
		Date:          r.Date,
	}
}

func toProductPayload(p product.Product) productPayload {
	out := productPayload{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price.InexactFloat64(),
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
	}
	if p.Rating != nil {
		out.Rating = &ratingPayload{Rate: p.Rating.Rate, Count: p.Rating.Count}
	}
	return out
}

func toProductPayloads(products []product.Product) []productPayload {
	out := make([]productPayload, len(products))
	for i, p := range products {
		out[i] = toProductPayload(p)
	}
	return out
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zctx.From(r.Context()).Error("Encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, r, status, ErrorResponse{
		Status:    status,
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
		Path:      r.URL.Path,
	})
}

// writeSystemError maps an unexpected error to 500. The error message is
// exposed in the body.
func writeSystemError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("Unhandled error", zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, "SYSTEM_ERROR", err.Error())
}
