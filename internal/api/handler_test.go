package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/xenking/shopcart-api/internal/catalog"
	"github.com/xenking/shopcart-api/internal/domain/order"
	"github.com/xenking/shopcart-api/internal/domain/payment"
	"github.com/xenking/shopcart-api/internal/domain/product"
	"github.com/xenking/shopcart-api/internal/txid"
)

// --- Mock implementations ---

type memOrderRepo struct {
	nextID int64
	byID   map[int64]*order.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{byID: make(map[int64]*order.Order)}
}

func (m *memOrderRepo) Save(_ context.Context, o *order.Order) error {
	if o.ID == 0 {
		for _, existing := range m.byID {
			if existing.Customer.ID == o.Customer.ID && existing.Status == order.StatusPending {
				return order.ErrPendingExists
			}
		}
		m.nextID++
		o.ID = m.nextID
	}
	cp := *o
	m.byID[o.ID] = &cp
	return nil
}

func (m *memOrderRepo) FindPendingByCustomer(_ context.Context, customerID int) (*order.Order, error) {
	var found *order.Order
	for _, o := range m.byID {
		if o.Customer.ID == customerID && o.Status == order.StatusPending {
			if found == nil || o.ID < found.ID {
				found = o
			}
		}
	}
	if found == nil {
		return nil, order.ErrNoPendingOrder
	}
	cp := *found
	return &cp, nil
}

func (m *memOrderRepo) FindByStatus(_ context.Context, status order.Status) ([]order.Order, error) {
	var out []order.Order
	for _, o := range m.byID {
		if o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

type stubSource struct {
	products  []product.Product
	fetchAlls atomic.Int64
}

func (s *stubSource) FetchAll(_ context.Context) ([]product.Product, error) {
	s.fetchAlls.Add(1)
	return s.products, nil
}

func (s *stubSource) FetchByID(_ context.Context, id int) (*product.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, product.ErrNotFound
}

// --- Helpers ---

type env struct {
	mux    *http.ServeMux
	repo   *memOrderRepo
	source *stubSource
}

func newTestEnv(t *testing.T) *env {
	t.Helper()

	repo := newMemOrderRepo()
	orderSvc, err := order.NewService(repo, payment.NewSimulator(), txid.New(), noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	source := &stubSource{products: []product.Product{
		{ID: 1, Title: "Backpack", Price: decimal.RequireFromString("109.95"), Category: "men's clothing"},
		{ID: 2, Title: "Bracelet", Price: decimal.NewFromInt(695), Category: "jewelery"},
	}}

	h := NewHandler(catalog.NewService(source), orderSvc, txid.New())
	mux := http.NewServeMux()
	h.Register(mux)

	return &env{mux: mux, repo: repo, source: source}
}

func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func validRequest(customerID int, prices ...float64) OrderPaymentRequest {
	products := make([]ProductRequest, len(prices))
	for i, p := range prices {
		products[i] = ProductRequest{ID: i + 1, Title: "item", Price: p}
	}
	return OrderPaymentRequest{
		Customer: CustomerRequest{
			CustomerID: customerID,
			FirstName:  "Ada",
			LastName:   "Lovelace",
			Email:      "ada@example.com",
			Phone:      "+1 555 0100",
			Address: AddressRequest{
				Street:  "12 Analytical Way",
				City:    "London",
				ZipCode: "E1 6AN",
			},
		},
		Products: products,
	}
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// --- Tests ---

func TestCreateOrder(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/orders", validRequest(7, 10.50, 5.25))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[OrderResponse](t, rec)
	assert.Equal(t, "SUCCESS", resp.Status)
	assert.True(t, strings.HasPrefix(resp.TransactionID, "ORD-"), "got %s", resp.TransactionID)
	require.NotNil(t, resp.Order)
	assert.InDelta(t, 15.75, resp.Order.Total, 1e-9)
	assert.Equal(t, "Pending", resp.Order.Status)
	assert.Equal(t, 2, resp.Order.ProductCount)
	assert.Equal(t, "ORD-00000001", resp.OrderNumber)
}

func TestCreateOrder_MalformedBody(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "MALFORMED_BODY", resp.Error)
	assert.Equal(t, "/api/orders", resp.Path)
}

func TestCreateOrder_ValidationError(t *testing.T) {
	e := newTestEnv(t)

	bad := validRequest(7, 10.0)
	bad.Customer.Email = "not-an-email"
	rec := e.do(t, http.MethodPost, "/api/orders", bad)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error)
	assert.Contains(t, resp.Message, "customer.email")
}

func TestCreateOrder_SecondPendingRejected(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/orders", validRequest(7, 10.0))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/orders", validRequest(7, 20.0))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "PENDING_ORDER_EXISTS", resp.Error)
}

func TestListOrdersByStatus(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/orders/status/Shipped", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_STATUS", decodeBody[ErrorResponse](t, rec).Error)

	rec = e.do(t, http.MethodGet, "/api/orders/status/Pending", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ORDERS_NOT_FOUND", decodeBody[ErrorResponse](t, rec).Error)

	rec = e.do(t, http.MethodPost, "/api/orders", validRequest(7, 10.0))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/orders/status/Pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[OrderResponse](t, rec)
	assert.Equal(t, 1, resp.Count)
	assert.True(t, strings.HasPrefix(resp.TransactionID, "QRY-"))
	require.NotNil(t, resp.Order)
	assert.Equal(t, "Pending", resp.Order.Status)
}

func TestProcessPayment_NoPendingOrder(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/payments", validRequest(42, 10.0))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PENDING_ORDER_NOT_FOUND", decodeBody[ErrorResponse](t, rec).Error)
}

func TestProcessPayment_EmptyOrder(t *testing.T) {
	e := newTestEnv(t)
	e.repo.byID[1] = &order.Order{
		ID:       1,
		Customer: order.Customer{ID: 5},
		Status:   order.StatusPending,
	}
	e.repo.nextID = 1

	rec := e.do(t, http.MethodPost, "/api/payments", validRequest(5, 10.0))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ORDER_WITHOUT_PRODUCTS", decodeBody[ErrorResponse](t, rec).Error)
}

func TestProcessPayment_OverLimit(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/orders", validRequest(7, 10000.01))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/payments", validRequest(7, 10000.01))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "PAYMENT_LIMIT_EXCEEDED", decodeBody[ErrorResponse](t, rec).Error)
}

func TestOrderPaymentFlow(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/orders", validRequest(7, 10.50, 5.25))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/payments", validRequest(7, 10.50, 5.25))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[PaymentResponse](t, rec)
	assert.True(t, strings.HasPrefix(resp.TransactionID, "PAY-"))
	require.NotNil(t, resp.Payment)
	assert.InDelta(t, 15.75, resp.Payment.Amount, 1e-9)
	assert.Equal(t, "Completed", resp.Payment.Status)
	require.NotNil(t, resp.Order)
	assert.Equal(t, "Completed", resp.Order.Status)
	assert.Equal(t, resp.TransactionID, resp.PaymentReference)

	// No Pending order remains for the customer.
	rec = e.do(t, http.MethodPost, "/api/payments", validRequest(7, 10.50, 5.25))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PENDING_ORDER_NOT_FOUND", decodeBody[ErrorResponse](t, rec).Error)
}

func TestGetProducts(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	products := decodeBody[[]productPayload](t, rec)
	require.Len(t, products, 2)
	assert.Equal(t, "Backpack", products[0].Title)
	assert.NotEmpty(t, rec.Header().Get("X-Transaction-Id"))

	// id=0 and no id share the "all" cache entry.
	rec = e.do(t, http.MethodGet, "/api/products?id=0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), e.source.fetchAlls.Load())

	rec = e.do(t, http.MethodGet, "/api/products?id=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProductByID(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/products/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeBody[productPayload](t, rec)
	assert.Equal(t, 2, p.ID)
	assert.Equal(t, "Bracelet", p.Title)

	rec = e.do(t, http.MethodGet, "/api/products/99", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, http.StatusNotFound, resp.Status)
}

func TestGetCategories(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/products/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	categories := decodeBody[[]string](t, rec)
	assert.Equal(t, []string{"jewelery", "men's clothing"}, categories)
}

func TestGetProductsByCategory(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/products/category/JEWELERY", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	products := decodeBody[[]productPayload](t, rec)
	require.Len(t, products, 1)
	assert.Equal(t, "Bracelet", products[0].Title)

	rec = e.do(t, http.MethodGet, "/api/products/category/toys", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearProductCache(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(1), e.source.fetchAlls.Load())

	rec = e.do(t, http.MethodPost, "/api/products/cache/clear", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cache cleared successfully", rec.Body.String())

	rec = e.do(t, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), e.source.fetchAlls.Load())
}

func TestDiagnosticsEndpoints(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/test/success", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[TransactionResponse](t, rec)
	assert.Equal(t, "SUCCESS", resp.Status)
	assert.True(t, strings.HasPrefix(resp.TransactionID, "TXN-"))

	for path, want := range map[string]int{
		"/api/test/bad-request":  http.StatusBadRequest,
		"/api/test/not-found":    http.StatusNotFound,
		"/api/test/server-error": http.StatusInternalServerError,
	} {
		rec := e.do(t, http.MethodGet, path, nil)
		assert.Equal(t, want, rec.Code, path)
		errResp := decodeBody[ErrorResponse](t, rec)
		assert.Equal(t, want, errResp.Status, path)
	}
}
