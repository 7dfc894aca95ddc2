package api

import (
	"net/http"
	"time"

	"github.com/xenking/shopcart-api/internal/txid"
)

// Diagnostics endpoints returning fixed responses per HTTP status, used to
// verify client and gateway behavior.

// TestSuccess handles GET /api/test/success with a fixed 200 envelope.
func (h *Handler) TestSuccess(w http.ResponseWriter, r *http.Request) {
	transactionID := h.txids.Generate(txid.PrefixTXN)
	writeJSON(w, r, http.StatusOK,
		newTransactionResponse(transactionID, "Operation successful - HTTP 200"))
}

// TestBadRequest handles GET /api/test/bad-request with a fixed 400 error.
func (h *Handler) TestBadRequest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusBadRequest, ErrorResponse{
		Status:    http.StatusBadRequest,
		Error:     "Bad Request",
		Message:   "Bad request - HTTP 400",
		Timestamp: time.Now(),
		Path:      r.URL.Path,
	})
}

// TestNotFound handles GET /api/test/not-found with a fixed 404 error.
func (h *Handler) TestNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusNotFound, ErrorResponse{
		Status:    http.StatusNotFound,
		Error:     "Not Found",
		Message:   "Resource not found - HTTP 404",
		Timestamp: time.Now(),
		Path:      r.URL.Path,
	})
}

// TestServerError handles GET /api/test/server-error with a fixed 500 error.
func (h *Handler) TestServerError(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusInternalServerError, ErrorResponse{
		Status:    http.StatusInternalServerError,
		Error:     "Internal Server Error",
		Message:   "Internal server error - HTTP 500",
		Timestamp: time.Now(),
		Path:      r.URL.Path,
	})
}
