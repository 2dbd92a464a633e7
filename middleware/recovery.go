package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/sebastien-chopin-dev/rne-dashboard/config"
)

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				config.Log.Error("panic recovered",
					zap.String("request_id", RequestID(r.Context())),
					zap.Any("panic", err),
					zap.ByteString("stack", debug.Stack()),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error": "Internal server error", "code": 500}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
