package middleware

import (
	"net/http"
	"time"
)

const timeoutBody = `{"error":"Request timed out","code":"SERVICE_UNAVAILABLE"}`

// RequestTimeout caps how long a handler may run. The wrapped handler's
// request context is cancelled at the deadline and a 503 is sent if
// nothing was written yet; http.TimeoutHandler arbitrates the race
// between the handler goroutine and the deadline.
func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		guarded := http.TimeoutHandler(next, timeout, timeoutBody)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			guarded.ServeHTTP(w, r)
		})
	}
}
