package tenancy

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/hse-digital/platform/pkg/composables"
	"github.com/hse-digital/platform/pkg/configuration"
)

// Bypass is the admin channel for legitimate cross-tenant operations
// (migrations, support access, platform-wide reporting). It holds its own
// pool on the privileged database role, which is exempt from row-level
// policies. The pool is allocated separately from the constrained one so it
// can never be handed out to ordinary request handling.
type Bypass struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

func NewBypass(ctx context.Context, conf *configuration.Configuration, logger *logrus.Logger) (*Bypass, error) {
	pool, err := pgxpool.New(ctx, conf.AdminDatabase.Opts)
	if err != nil {
		return nil, err
	}
	return &Bypass{pool: pool, logger: logger}, nil
}

// NewBypassWithPool wires an existing privileged pool, used by tests.
func NewBypassWithPool(pool *pgxpool.Pool, logger *logrus.Logger) *Bypass {
	return &Bypass{pool: pool, logger: logger}
}

// Pool exposes the privileged pool for administrative tooling such as the
// migration runner.
func (b *Bypass) Pool() *pgxpool.Pool {
	return b.pool
}

// InTx runs fn in a transaction on the privileged pool. No tenant binding is
// applied: queries see and mutate rows across all tenants. Every invocation
// is logged so cross-tenant access stays auditable.
func (b *Bypass) InTx(ctx context.Context, operation string, fn func(context.Context) error) error {
	b.logger.WithField("operation", operation).Info("admin bypass transaction started")

	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return err
	}

	txCtx := composables.WithTx(ctx, tx)
	if err := fn(txCtx); err != nil {
		if rErr := tx.Rollback(ctx); rErr != nil {
			return errors.Join(err, rErr)
		}
		b.logger.WithField("operation", operation).WithError(err).Warn("admin bypass transaction rolled back")
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	b.logger.WithField("operation", operation).Info("admin bypass transaction committed")
	return nil
}

func (b *Bypass) Close() {
	b.pool.Close()
}
