package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-admin/meridian-admin/internal/platform/db"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

const userColumns = `id, username, email, COALESCE(phone, ''), hashed_password,
COALESCE(real_name, ''), COALESCE(avatar, ''), is_active, is_superuser, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for users.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Phone, &u.HashedPassword,
		&u.RealName, &u.Avatar, &u.IsActive, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a new user row.
func (r *Repository) Create(ctx context.Context, u User) (User, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO users
(username, email, phone, hashed_password, real_name, avatar, is_active, is_superuser, is_deleted, created_at, updated_at)
VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, FALSE, NOW(), NOW())
RETURNING `+userColumns,
		u.Username, u.Email, u.Phone, u.HashedPassword, u.RealName, u.Avatar, u.IsActive, u.IsSuperuser)
	created, err := scanUser(row)
	if err != nil {
		return User{}, mapConstraint(err)
	}
	return created, nil
}

// GetByID fetches a user by id, excluding logically deleted rows.
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND is_deleted = FALSE`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByUsername fetches a non-deleted user by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1 AND is_deleted = FALSE`, username)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail fetches a non-deleted user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 AND is_deleted = FALSE`, email)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Update persists the full user row.
func (r *Repository) Update(ctx context.Context, u User) (User, error) {
	row := r.pool.QueryRow(ctx, `UPDATE users SET
username = $2, email = $3, phone = NULLIF($4, ''), hashed_password = $5,
real_name = NULLIF($6, ''), avatar = NULLIF($7, ''), is_active = $8, is_superuser = $9, updated_at = NOW()
WHERE id = $1 AND is_deleted = FALSE
RETURNING `+userColumns,
		u.ID, u.Username, u.Email, u.Phone, u.HashedPassword, u.RealName, u.Avatar, u.IsActive, u.IsSuperuser)
	updated, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, mapConstraint(err)
	}
	return updated, nil
}

// SoftDelete flags the user as deleted.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_deleted = TRUE, updated_at = NOW()
WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// List returns a page of users with an optional ILIKE search across username,
// email, and real_name.
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]User, int, error) {
	where := `is_deleted = FALSE`
	args := []any{}
	if search != "" {
		where += ` AND (username ILIKE $1 OR email ILIKE $1 OR real_name ILIKE $1)`
		args = append(args, "%"+strings.TrimSpace(search)+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY id LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// ListRoles returns the non-deleted roles assigned to a user.
func (r *Repository) ListRoles(ctx context.Context, userID int64) ([]RoleRef, error) {
	rows, err := r.pool.Query(ctx, `SELECT r.id, r.name, r.code, r.is_active
FROM roles r JOIN user_roles ur ON ur.role_id = r.id
WHERE ur.user_id = $1 AND r.is_deleted = FALSE ORDER BY r.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []RoleRef
	for rows.Next() {
		var ref RoleRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Code, &ref.IsActive); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// ReplaceRoles rewrites the full user-role association set in one
// transaction. Unknown or deleted role ids are dropped silently.
func (r *Repository) ReplaceRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
			return err
		}
		if len(roleIDs) == 0 {
			return nil
		}
		_, err := tx.Exec(ctx, `INSERT INTO user_roles (user_id, role_id)
SELECT $1, id FROM roles WHERE id = ANY($2) AND is_deleted = FALSE
ON CONFLICT DO NOTHING`, userID, roleIDs)
		return err
	})
}

func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrConflict
	}
	return err
}
