package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hse-digital/platform/pkg/composables"
	"github.com/hse-digital/platform/pkg/configuration"
	"github.com/hse-digital/platform/pkg/constants"
)

// Provide stores a fixed value under the given context key for every request.
func Provide(key constants.ContextKey, value interface{}) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), key, value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestParams collects per-request metadata into composables.Params.
func RequestParams() mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, authenticated := composables.UseUserSafe(r.Context())
			params := &composables.Params{
				IP:            getRealIP(r, conf),
				UserAgent:     r.UserAgent(),
				Authenticated: authenticated,
				Request:       r,
				Writer:        w,
			}
			next.ServeHTTP(w, r.WithContext(composables.WithParams(r.Context(), params)))
		})
	}
}
