package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/hse-digital/platform/modules/core/domain/entities/tenant"
	"github.com/hse-digital/platform/pkg/composables"
	"github.com/hse-digital/platform/pkg/configuration"
	"github.com/hse-digital/platform/pkg/httpapi"
)

// TenantRegistry is the live registry the resolver validates tenant ids
// against. Implemented by the core tenant service.
type TenantRegistry interface {
	GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
}

// RequireTenant resolves the tenant for the request and binds it to the
// context.
//
//   - A principal with an organization affiliation is bound to that
//     organization. Any override header is ignored, so a client cannot
//     escalate into another tenant by spoofing headers.
//   - An admin-global principal may select a tenant via the override header,
//     or proceed with no tenant selected.
//   - A standard principal that resolves to no tenant is rejected before any
//     data access happens.
//   - Unknown or suspended tenants are rejected.
func RequireTenant(registry TenantRegistry) mux.MiddlewareFunc {
	conf := configuration.Use()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := composables.UseUser(r.Context())
			if err != nil {
				_ = httpapi.WriteError(w, http.StatusUnauthorized, "AUTHENTICATION_REQUIRED", "authentication required", nil)
				return
			}

			var tenantID uuid.UUID
			switch {
			case principal.TenantID() != nil:
				// Affiliation is authoritative; the override header is ignored.
				tenantID = *principal.TenantID()
			case principal.IsAdminGlobal():
				raw := r.Header.Get(conf.TenantOverrideHeader)
				if raw == "" {
					// No tenant selected: proceed unbound. Guarded reads
					// yield empty results and guarded writes fail.
					next.ServeHTTP(w, r)
					return
				}
				parsed, err := uuid.Parse(raw)
				if err != nil {
					_ = httpapi.WriteError(w, http.StatusBadRequest, "INVALID_TENANT_ID", "invalid tenant id", nil)
					return
				}
				tenantID = parsed
			default:
				_ = httpapi.WriteError(w, http.StatusForbidden, "NO_ORGANIZATION_CONTEXT", "no organization context", nil)
				return
			}

			t, err := registry.GetByID(r.Context(), tenantID)
			if err != nil {
				logger := composables.UseLogger(r.Context())
				logger.WithField("tenant-id", tenantID.String()).WithError(err).Warn("tenant resolution failed")
				_ = httpapi.WriteError(w, http.StatusForbidden, "TENANT_UNAVAILABLE", "organization is unavailable", nil)
				return
			}
			if !t.IsActive() {
				_ = httpapi.WriteError(w, http.StatusForbidden, "TENANT_UNAVAILABLE", "organization is unavailable", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(composables.WithTenantID(r.Context(), t.ID())))
		})
	}
}
