package httpapi

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// NewRecoverer converts a handler panic into the standard 500 envelope.
//
// The panic value and stack are logged but never reach the client; the
// response carries only the generic message.
func NewRecoverer(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				if log != nil {
					log.Error("panic while handling request",
						zap.Any("panic", rvr),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", debug.Stack()),
					)
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"status":"error","message":"Internal Server Error"}` + "\n"))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
