package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "salonhub/pkg/errors"
	httputil "salonhub/pkg/http"
	"salonhub/pkg/logger"
)

// Recovery turns a handler panic into a 500 response instead of tearing
// down the connection, logging the stack for the postmortem.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				log.Error("Panic recovered",
					"request_id", RequestID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)

				err := apperrors.Internal("Internal server error", fmt.Errorf("panic: %v", rec))
				if writeErr := httputil.WriteError(w, err); writeErr != nil {
					log.Error("Failed to write panic response", "error", writeErr)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
