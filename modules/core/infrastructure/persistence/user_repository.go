package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/hse-digital/platform/modules/core/domain/aggregates/user"
	"github.com/hse-digital/platform/modules/core/infrastructure/persistence/models"
	"github.com/hse-digital/platform/pkg/composables"
)

var (
	ErrUserNotFound = fmt.Errorf("user not found")
)

// Users are shared-with-affiliation: the select policy shows rows with no
// organization plus rows of the bound one. Writes are an administrative
// concern and run through the privileged channel.
const (
	userFindQuery = `SELECT id, organization_id, email, name, role, created_at, updated_at FROM users`
)

type UserRepository struct{}

func NewUserRepository() user.Repository {
	return &UserRepository{}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	query := userFindQuery + " WHERE id = $1"
	users, err := r.queryUsers(ctx, query, id.String())
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return users[0], nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	query := userFindQuery + " WHERE lower(email) = $1"
	users, err := r.queryUsers(ctx, query, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return users[0], nil
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	query := `
		INSERT INTO users (id, organization_id, email, name, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var orgID sql.NullString
	if u.TenantID() != nil {
		orgID = sql.NullString{String: u.TenantID().String(), Valid: true}
	}

	var idStr string
	if err := tx.QueryRow(
		ctx,
		query,
		u.ID().String(),
		orgID,
		strings.ToLower(strings.TrimSpace(u.Email())),
		u.Name(),
		string(u.Role()),
		u.CreatedAt(),
		u.UpdatedAt(),
	).Scan(&idStr); err != nil {
		return nil, errors.Wrap(err, "failed to insert user")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	return r.queryUsers(ctx, userFindQuery+" ORDER BY created_at")
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var m models.User
		if err := rows.Scan(
			&m.ID,
			&m.OrganizationID,
			&m.Email,
			&m.Name,
			&m.Role,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan user row")
		}
		users = append(users, toDomainUser(&m))
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}
	return users, nil
}

func toDomainUser(m *models.User) user.User {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		id = uuid.Nil
	}

	opts := []user.Option{
		user.WithID(id),
		user.WithName(m.Name),
		user.WithRole(user.Role(m.Role)),
		user.WithCreatedAt(m.CreatedAt),
		user.WithUpdatedAt(m.UpdatedAt),
	}
	if m.OrganizationID.Valid {
		if orgID, err := uuid.Parse(m.OrganizationID.String); err == nil {
			opts = append(opts, user.WithTenantID(&orgID))
		}
	}
	return user.New(m.Email, opts...)
}
