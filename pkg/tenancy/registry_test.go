package tenancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_DefaultsAndLookup(t *testing.T) {
	e := Register(Entity{Table: "registry_test_rows"})
	assert.Equal(t, "organization_id", e.TenantColumn)

	got, ok := Lookup("registry_test_rows")
	require.True(t, ok)
	assert.Equal(t, e, got)

	_, ok = Lookup("unregistered_rows")
	assert.False(t, ok)
}

func TestRegister_IdempotentForSameDeclaration(t *testing.T) {
	decl := Entity{Table: "registry_test_dupes", TenantColumn: "organization_id"}
	Register(decl)
	assert.NotPanics(t, func() { Register(decl) })
}

func TestRegister_PanicsOnConflict(t *testing.T) {
	Register(Entity{Table: "registry_test_conflict", TenantColumn: "organization_id"})
	assert.Panics(t, func() {
		Register(Entity{Table: "registry_test_conflict", TenantColumn: "org_id"})
	})
}

func TestRegister_PanicsOnEmptyTable(t *testing.T) {
	assert.Panics(t, func() { Register(Entity{}) })
}
