package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hse-digital/platform/modules/core/domain/aggregates/user"
	"github.com/hse-digital/platform/modules/core/domain/entities/tenant"
	"github.com/hse-digital/platform/pkg/composables"
	"github.com/hse-digital/platform/pkg/constants"
)

var errUnknownTenant = errors.New("tenant not found")

type stubRegistry struct {
	tenants map[uuid.UUID]*tenant.Tenant
}

func (s *stubRegistry) GetByID(_ context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	t, ok := s.tenants[id]
	if !ok {
		return nil, errUnknownTenant
	}
	return t, nil
}

func newStubRegistry(tenants ...*tenant.Tenant) *stubRegistry {
	s := &stubRegistry{tenants: map[uuid.UUID]*tenant.Tenant{}}
	for _, t := range tenants {
		s.tenants[t.ID()] = t
	}
	return s
}

type resolution struct {
	called   bool
	tenantID uuid.UUID
	bound    bool
}

func runResolver(t *testing.T, registry TenantRegistry, principal user.User, header string) (*resolution, *httptest.ResponseRecorder) {
	t.Helper()

	res := &resolution{}
	handler := RequireTenant(registry)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res.called = true
		res.tenantID, res.bound = composables.TryUseTenantID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/audits", nil)
	if header != "" {
		req.Header.Set("X-Tenant-ID", header)
	}

	ctx := req.Context()
	ctx = context.WithValue(ctx, constants.LoggerKey, logrus.NewEntry(logrus.New()))
	if principal != nil {
		ctx = composables.WithUser(ctx, principal)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	return res, rec
}

func TestRequireTenant_NoPrincipal(t *testing.T) {
	res, rec := runResolver(t, newStubRegistry(), nil, "")
	assert.False(t, res.called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireTenant_StandardPrincipalUsesAffiliation(t *testing.T) {
	org := tenant.New("Acme Fuel")
	orgID := org.ID()
	principal := user.New("inspector@acme-fuel.example", user.WithTenantID(&orgID))

	res, rec := runResolver(t, newStubRegistry(org), principal, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, res.called)
	assert.True(t, res.bound)
	assert.Equal(t, orgID, res.tenantID)
}

func TestRequireTenant_StandardPrincipalIgnoresOverrideHeader(t *testing.T) {
	own := tenant.New("Acme Fuel")
	other := tenant.New("Rival Petrol")
	ownID := own.ID()
	principal := user.New("inspector@acme-fuel.example", user.WithTenantID(&ownID))

	// Spoofing the header towards another tenant must not escalate.
	res, rec := runResolver(t, newStubRegistry(own, other), principal, other.ID().String())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ownID, res.tenantID)
}

func TestRequireTenant_StandardPrincipalWithoutOrgRejected(t *testing.T) {
	principal := user.New("orphan@example.com")

	res, rec := runResolver(t, newStubRegistry(), principal, "")
	assert.False(t, res.called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "NO_ORGANIZATION_CONTEXT")
}

func TestRequireTenant_AdminGlobalWithoutSelectionProceedsUnbound(t *testing.T) {
	principal := user.New("ops@hse-digital.example", user.WithRole(user.RoleAdminGlobal))

	res, rec := runResolver(t, newStubRegistry(), principal, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, res.called)
	assert.False(t, res.bound)
}

func TestRequireTenant_AdminGlobalHonorsOverrideHeader(t *testing.T) {
	org := tenant.New("Acme Fuel")
	principal := user.New("ops@hse-digital.example", user.WithRole(user.RoleAdminGlobal))

	res, rec := runResolver(t, newStubRegistry(org), principal, org.ID().String())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, res.bound)
	assert.Equal(t, org.ID(), res.tenantID)
}

func TestRequireTenant_AdminGlobalInvalidOverride(t *testing.T) {
	principal := user.New("ops@hse-digital.example", user.WithRole(user.RoleAdminGlobal))

	res, rec := runResolver(t, newStubRegistry(), principal, "not-a-uuid")
	assert.False(t, res.called)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequireTenant_UnknownTenantRejected(t *testing.T) {
	principal := user.New("ops@hse-digital.example", user.WithRole(user.RoleAdminGlobal))

	res, rec := runResolver(t, newStubRegistry(), principal, uuid.New().String())
	assert.False(t, res.called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "TENANT_UNAVAILABLE")
}

func TestRequireTenant_SuspendedTenantRejected(t *testing.T) {
	org := tenant.New("Acme Fuel")
	org.Suspend()
	orgID := org.ID()
	principal := user.New("inspector@acme-fuel.example", user.WithTenantID(&orgID))

	res, rec := runResolver(t, newStubRegistry(org), principal, "")
	assert.False(t, res.called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
