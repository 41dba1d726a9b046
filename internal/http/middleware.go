package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/go_storefront/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	CartIDHeader = "X-Cart-ID"

	maxCartIDLength = 64
)

type cartIDKey struct{}

// CartScope puts the cart id from the X-Cart-ID header into the request
// context, falling back to defaultID.
func CartScope(defaultID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cartID := strings.TrimSpace(r.Header.Get(CartIDHeader))
			if cartID == "" {
				cartID = defaultID
			}
			if len(cartID) > maxCartIDLength {
				respondError(w, http.StatusBadRequest, "invalid_cart_id", "X-Cart-ID is too long")
				return
			}

			ctx := context.WithValue(r.Context(), cartIDKey{}, cartID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func cartIDFromContext(ctx context.Context) string {
	if cartID, ok := ctx.Value(cartIDKey{}).(string); ok {
		return cartID
	}
	return ""
}

// RequestIDHeader echoes the chi request id back to the client.
func RequestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			w.Header().Set(middleware.RequestIDHeader, reqID)
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger writes one structured line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if status >= http.StatusInternalServerError {
			logger.Error(r.Context(), "http request", args...)
			return
		}
		logger.Info(r.Context(), "http request", args...)
	})
}
