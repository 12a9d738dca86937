package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/hse-digital/platform/modules/core/domain/aggregates/user"
	"github.com/hse-digital/platform/pkg/composables"
)

// Headers set by the authentication gateway in front of this service.
// Credential verification is the gateway's job; by the time a request reaches
// this process the identity headers are trusted.
const (
	HeaderAuthUserID    = "X-Auth-User-Id"
	HeaderAuthUserEmail = "X-Auth-User-Email"
	HeaderAuthUserRole  = "X-Auth-User-Role"
	HeaderAuthOrgID     = "X-Auth-Organization-Id"
)

// ProvidePrincipal reconstructs the authenticated principal from the gateway
// identity headers. Requests without them continue unauthenticated; it is the
// tenant resolver's job to reject those.
func ProvidePrincipal() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawID := r.Header.Get(HeaderAuthUserID)
			if rawID == "" {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := uuid.Parse(rawID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			opts := []user.Option{
				user.WithID(userID),
				user.WithRole(user.Role(r.Header.Get(HeaderAuthUserRole))),
			}
			if rawOrg := r.Header.Get(HeaderAuthOrgID); rawOrg != "" {
				if orgID, err := uuid.Parse(rawOrg); err == nil {
					opts = append(opts, user.WithTenantID(&orgID))
				}
			}

			principal := user.New(r.Header.Get(HeaderAuthUserEmail), opts...)
			next.ServeHTTP(w, r.WithContext(composables.WithUser(r.Context(), principal)))
		})
	}
}
