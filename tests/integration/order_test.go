//go:build integration

package integration

import (
	"net/http"
	"regexp"
	"strings"
	"testing"
)

var txidPattern = regexp.MustCompile(`^(TXN|PRD|ORD|PAY|QRY)-\d{14}-\d{5,}$`)

func TestCreateOrder_EmptyProducts(t *testing.T) {
	req := validRequest(101)
	resp := doPost(t, "/api/orders", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Error != "VALIDATION_ERROR" {
		t.Errorf("error code: got %q, want VALIDATION_ERROR", body.Error)
	}
	if body.Path != "/api/orders" {
		t.Errorf("path: got %q, want /api/orders", body.Path)
	}
}

func TestCreateOrder_InvalidEmail(t *testing.T) {
	req := validRequest(102, 10.0)
	req.Customer.Email = "not-an-email"
	resp := doPost(t, "/api/orders", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateOrder_MalformedBody(t *testing.T) {
	resp := doPost(t, "/api/orders", "{not json")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateOrder_Success(t *testing.T) {
	req := validRequest(103, 10.50, 5.25)
	resp := doPost(t, "/api/orders", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[orderResponse](t, resp)
	if !txidPattern.MatchString(body.TransactionID) {
		t.Errorf("transaction id %q does not match expected format", body.TransactionID)
	}
	if !strings.HasPrefix(body.TransactionID, "ORD-") {
		t.Errorf("transaction id %q should start with ORD-", body.TransactionID)
	}
	if body.Order == nil {
		t.Fatal("order payload missing")
	}
	if body.Order.Total != 15.75 {
		t.Errorf("total: got %v, want 15.75", body.Order.Total)
	}
	if body.Order.Status != "Pending" {
		t.Errorf("status: got %q, want Pending", body.Order.Status)
	}
	if body.OrderNumber == "" {
		t.Error("orderNumber missing")
	}
}

func TestCreateOrder_SecondPendingRejected(t *testing.T) {
	req := validRequest(104, 20.0)

	resp := doPost(t, "/api/orders", req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first order: expected 200, got %d", resp.StatusCode)
	}

	resp = doPost(t, "/api/orders", req)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("second order: expected 400, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Error != "PENDING_ORDER_EXISTS" {
		t.Errorf("error code: got %q, want PENDING_ORDER_EXISTS", body.Error)
	}
}

func TestListOrders_InvalidStatus(t *testing.T) {
	for _, status := range []string{"pending", "PENDING", "Shipped"} {
		resp := doGet(t, "/api/orders/status/"+status)
		body := decodeJSON[errorResponse](t, resp)
		resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", status, resp.StatusCode)
		}
		if body.Error != "INVALID_STATUS" {
			t.Errorf("%s: error code: got %q, want INVALID_STATUS", status, body.Error)
		}
	}
}

func TestListOrders_NoneFound(t *testing.T) {
	resp := doGet(t, "/api/orders/status/Cancelled")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Error != "ORDERS_NOT_FOUND" {
		t.Errorf("error code: got %q, want ORDERS_NOT_FOUND", body.Error)
	}
}

func TestListOrders_Pending(t *testing.T) {
	resp := doPost(t, "/api/orders", validRequest(105, 42.0))
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create order: expected 200, got %d", resp.StatusCode)
	}

	resp = doGet(t, "/api/orders/status/Pending")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[orderResponse](t, resp)
	if !strings.HasPrefix(body.TransactionID, "QRY-") {
		t.Errorf("transaction id %q should start with QRY-", body.TransactionID)
	}
	if body.Count < 1 {
		t.Errorf("count: got %d, want >= 1", body.Count)
	}
	if body.Order == nil || body.Order.Status != "Pending" {
		t.Error("sample order missing or not Pending")
	}
}
