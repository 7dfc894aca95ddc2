// Package httpmiddleware provides composable net/http middleware: request
// IDs, logger injection, request logging, CORS, rate limiting, and panic
// recovery.
package httpmiddleware

import "net/http"

// Middleware wraps an http.Handler with additional behaviour.
type Middleware = func(next http.Handler) http.Handler

// Wrap applies middlewares to h. The first middleware in the list becomes the
// outermost wrapper, so requests pass through the list in order.
func Wrap(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
