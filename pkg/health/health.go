// Package health provides Kubernetes-style liveness and readiness probes.
//
// Checks run on demand when a probe endpoint is hit, each bounded by its own
// timeout. Readiness additionally honors a manual ready flag so the service
// can drain during graceful shutdown.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc reports whether the checked component is healthy.
type CheckFunc func(ctx context.Context) error

type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc
}

func (c check) run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.fn(ctx)
}

// Health manages liveness and readiness checks for a service.
type Health struct {
	ready atomic.Bool

	// mu protects the check slices; registration happens before serving.
	mu        sync.RWMutex
	liveness  []check
	readiness []check
}

// New creates a Health instance. The service starts not ready; call
// SetReady(true) once initialization completes.
func New() *Health {
	return &Health{}
}

// AddLivenessCheck registers a liveness check. Liveness checks determine
// whether the process is alive: goroutine count, GC pauses, deadlocks.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.liveness = append(h.liveness, check{name: name, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a readiness check. Readiness checks determine
// whether the service can accept traffic: database connectivity, upstream
// availability.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readiness = append(h.readiness, check{name: name, timeout: timeout, fn: fn})
}

// SetReady sets the manual readiness flag. Called with true after startup and
// with false during graceful shutdown to stop receiving new traffic.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the service is ready: the manual flag is set and
// every readiness check passes.
func (h *Health) IsReady() bool {
	if !h.ready.Load() {
		return false
	}
	return len(h.runChecks(context.Background(), h.snapshot(&h.readiness))) == 0
}

// statusResponse is the JSON body of the probe endpoints.
type statusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves /livez: 200 {"status":"ok"} when every liveness check
// passes, 503 with the failing checks otherwise.
func (h *Health) LiveEndpoint(w http.ResponseWriter, r *http.Request) {
	failures := h.runChecks(r.Context(), h.snapshot(&h.liveness))
	writeResponse(w, failures)
}

// ReadyEndpoint serves /readyz: 200 only when the service is marked ready and
// every readiness check passes.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	failures := h.runChecks(r.Context(), h.snapshot(&h.readiness))
	if !h.ready.Load() {
		failures["_readiness"] = "service is not ready"
	}
	writeResponse(w, failures)
}

func (h *Health) snapshot(checks *[]check) []check {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]check, len(*checks))
	copy(out, *checks)
	return out
}

func (h *Health) runChecks(ctx context.Context, checks []check) map[string]string {
	failures := make(map[string]string)
	for _, c := range checks {
		if err := c.run(ctx); err != nil {
			failures[c.name] = err.Error()
		}
	}
	return failures
}

func writeResponse(w http.ResponseWriter, failures map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	resp := statusResponse{Status: "ok"}
	status := http.StatusOK
	if len(failures) > 0 {
		resp.Status = "unhealthy"
		resp.Checks = failures
		status = http.StatusServiceUnavailable
	}

	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
