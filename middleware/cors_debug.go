package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sebastien-chopin-dev/rne-dashboard/config"
)

// CORSDebugMiddleware logs the CORS-relevant parts of each exchange at Info
// level, so CORS_DEBUG works without lowering LOG_LEVEL. It is only
// installed when CORS_DEBUG is set.
func CORSDebugMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		config.Log.Info("cors request",
			zap.String("origin", r.Header.Get("Origin")),
			zap.String("method", r.Method),
			zap.String("request_method", r.Header.Get("Access-Control-Request-Method")),
			zap.String("request_headers", r.Header.Get("Access-Control-Request-Headers")),
		)

		next.ServeHTTP(w, r)

		config.Log.Info("cors response",
			zap.String("allow_origin", w.Header().Get("Access-Control-Allow-Origin")),
			zap.String("vary", w.Header().Get("Vary")),
		)
	})
}
