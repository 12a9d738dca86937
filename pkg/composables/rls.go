package composables

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hse-digital/platform/pkg/configuration"
)

// ApplyTenantRLS binds the resolved tenant id to the transaction via a
// transaction-local GUC. The third set_config argument (is_local=true) scopes
// the setting to the current transaction only: commit or rollback discards it,
// so a pooled connection can never carry one request's tenant into the next.
//
// A context with no tenant bound leaves the transaction unbound, which makes
// every row-level policy evaluate to false.
func ApplyTenantRLS(ctx context.Context, tx pgx.Tx) error {
	if configuration.Use().RLSEnforce != "enforce" {
		return nil
	}
	tenantID, ok := TryUseTenantID(ctx)
	if !ok {
		return nil
	}
	_, err := tx.Exec(ctx, "SELECT set_config('app.current_tenant', $1, true)", tenantID.String())
	if err != nil {
		return fmt.Errorf("failed to set rls tenant context: %w", err)
	}
	return nil
}
