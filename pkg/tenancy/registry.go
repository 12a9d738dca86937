package tenancy

import (
	"fmt"
	"sort"
	"sync"
)

// Entity describes one tenant-scoped table. The guard applies only to tables
// registered here; scoping is never inferred from schema or naming.
type Entity struct {
	// Table is the relation the guard scopes.
	Table string
	// TenantColumn holds the owning organization. It is written once at
	// creation and never reassigned.
	TenantColumn string
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Entity{}
)

// Register adds a table to the allow-list of tenant-scoped entities. It is
// meant to be called from package-level declarations in persistence packages,
// so the allow-list is fixed at build time.
func Register(e Entity) Entity {
	if e.Table == "" {
		panic("tenancy: entity table must not be empty")
	}
	if e.TenantColumn == "" {
		e.TenantColumn = "organization_id"
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if existing, ok := registry[e.Table]; ok && existing != e {
		panic(fmt.Sprintf("tenancy: conflicting registration for table %q", e.Table))
	}
	registry[e.Table] = e
	return e
}

// Lookup reports whether a table is on the allow-list.
func Lookup(table string) (Entity, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := registry[table]
	return e, ok
}

// Entities returns the registered entities in table order.
func Entities() []Entity {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Entity, 0, len(registry))
	for _, e := range registry {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Table < out[j].Table })
	return out
}
