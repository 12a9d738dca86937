package tenancy

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNoTenantContext is returned when an operation that needs a bound
	// tenant runs in a context without one.
	ErrNoTenantContext = errors.New("no tenant context bound")

	// ErrAmbiguousWrite is returned for mutations attempted without a bound
	// tenant. Writes are never attempted ambiguously.
	ErrAmbiguousWrite = errors.New("write attempted without tenant context")

	// ErrNotFound is what callers see when a target row does not exist in the
	// bound tenant's partition. A row owned by another tenant produces the
	// same outcome, so existence under other tenants is never revealed.
	ErrNotFound = errors.New("record not found")

	// ErrPolicyRejection means the database's row-level policy denied an
	// operation the guard had allowed. The two layers must agree for any
	// well-formed request, so this signals a guard defect and is logged at
	// high severity.
	ErrPolicyRejection = errors.New("row-level policy rejected operation")
)

// mapPgError translates a row-level security denial (SQLSTATE 42501) into
// ErrPolicyRejection. Other errors pass through unchanged.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InsufficientPrivilege {
		return errors.Join(ErrPolicyRejection, err)
	}
	return err
}

// IsPolicyRejection reports whether err stems from the database policy layer
// denying an operation.
func IsPolicyRejection(err error) bool {
	return errors.Is(err, ErrPolicyRejection)
}
