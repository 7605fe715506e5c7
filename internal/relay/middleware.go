package relay

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/njchilds90/chatsanitizer/internal/logger"
)

// requestLogger logs one structured line per request and makes the chi
// request ID available to handler loggers through logger.RequestIDKey.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := context.WithValue(r.Context(), logger.RequestIDKey, middleware.GetReqID(r.Context()))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			latency := float64(time.Since(start).Microseconds()) / 1000
			log.WithContext(ctx).HTTPRequest(r.Method, r.URL.Path, status, latency, r.RemoteAddr)
		})
	}
}
