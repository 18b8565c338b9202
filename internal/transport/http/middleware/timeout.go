package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout ограничивает общее время обработки запроса.
//
// Уже установленный deadline (например, от вышестоящего прокси) не
// укорачивается. При d <= 0 ограничение выключено: роутер регистрирует
// мидлвар только при положительном значении, но и напрямую вызванный
// Timeout(0) обязан вести себя как no-op.
func Timeout(d time.Duration) Middleware {
	if d <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Deadline(); ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
