//go:build integration

package integration

import (
	"net/http"
	"strings"
	"testing"
)

func TestDiag_Success(t *testing.T) {
	resp := doGet(t, "/api/test/success")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[transactionResponse](t, resp)
	if body.Status != "SUCCESS" {
		t.Errorf("status: got %q, want SUCCESS", body.Status)
	}
	if !strings.HasPrefix(body.TransactionID, "TXN-") {
		t.Errorf("transaction id %q should start with TXN-", body.TransactionID)
	}
}

func TestDiag_ErrorEndpoints(t *testing.T) {
	cases := map[string]int{
		"/api/test/bad-request":  http.StatusBadRequest,
		"/api/test/not-found":    http.StatusNotFound,
		"/api/test/server-error": http.StatusInternalServerError,
	}

	for path, want := range cases {
		resp := doGet(t, path)
		body := decodeJSON[errorResponse](t, resp)
		resp.Body.Close()

		if resp.StatusCode != want {
			t.Errorf("%s: expected %d, got %d", path, want, resp.StatusCode)
		}
		if body.Status != want {
			t.Errorf("%s: body status: got %d, want %d", path, body.Status, want)
		}
		if body.Path != path {
			t.Errorf("%s: body path: got %q", path, body.Path)
		}
	}
}
