package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// Repository loads credential rows for authentication.
type Repository interface {
	// FindByLogin matches the identifier against username or email.
	FindByLogin(ctx context.Context, login string) (*Account, error)
	GetByID(ctx context.Context, id int64) (*Account, error)
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const accountColumns = `id, username, COALESCE(email, ''), hashed_password, is_active, is_superuser`

func (r *pgRepository) FindByLogin(ctx context.Context, login string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users
WHERE (username = $1 OR email = $1) AND is_deleted = FALSE`, login)
	return scanAccount(row)
}

func (r *pgRepository) GetByID(ctx context.Context, id int64) (*Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users
WHERE id = $1 AND is_deleted = FALSE`, id)
	return scanAccount(row)
}

func scanAccount(row pgx.Row) (*Account, error) {
	var acc Account
	err := row.Scan(&acc.ID, &acc.Username, &acc.Email, &acc.HashedPassword, &acc.IsActive, &acc.IsSuperuser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}
