package roles

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

const roleColumns = `id, name, code, COALESCE(description, ''), is_active, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for roles.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanRole(row pgx.Row) (Role, error) {
	var role Role
	err := row.Scan(&role.ID, &role.Name, &role.Code, &role.Description, &role.IsActive, &role.CreatedAt, &role.UpdatedAt)
	return role, err
}

// Create inserts a new role row.
func (r *Repository) Create(ctx context.Context, role Role) (Role, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO roles
(name, code, description, is_active, is_deleted, created_at, updated_at)
VALUES ($1, $2, NULLIF($3, ''), $4, FALSE, NOW(), NOW())
RETURNING `+roleColumns,
		role.Name, role.Code, role.Description, role.IsActive)
	created, err := scanRole(row)
	if err != nil {
		return Role{}, mapConstraint(err)
	}
	return created, nil
}

// GetByID fetches a role by id, excluding logically deleted rows.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Role, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1 AND is_deleted = FALSE`, id)
	role, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// FindByName returns the non-deleted role with the name, ignoring excludeID.
func (r *Repository) FindByName(ctx context.Context, name string, excludeID int64) (*Role, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles
WHERE name = $1 AND is_deleted = FALSE AND id <> $2 LIMIT 1`, name, excludeID)
	role, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// FindByCode mirrors FindByName for the code column.
func (r *Repository) FindByCode(ctx context.Context, code string, excludeID int64) (*Role, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles
WHERE code = $1 AND is_deleted = FALSE AND id <> $2 LIMIT 1`, code, excludeID)
	role, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// Update persists the full role row.
func (r *Repository) Update(ctx context.Context, role Role) (Role, error) {
	row := r.pool.QueryRow(ctx, `UPDATE roles SET
name = $2, code = $3, description = NULLIF($4, ''), is_active = $5, updated_at = NOW()
WHERE id = $1 AND is_deleted = FALSE
RETURNING `+roleColumns,
		role.ID, role.Name, role.Code, role.Description, role.IsActive)
	updated, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		return Role{}, mapConstraint(err)
	}
	return updated, nil
}

// SoftDelete flags the role as deleted.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE roles SET is_deleted = TRUE, updated_at = NOW()
WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// List returns a page of roles with an optional ILIKE search.
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]Role, int, error) {
	where := `is_deleted = FALSE`
	args := []any{}
	if search != "" {
		where += ` AND (name ILIKE $1 OR code ILIKE $1 OR description ILIKE $1)`
		args = append(args, "%"+strings.TrimSpace(search)+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM roles WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM roles WHERE %s ORDER BY id LIMIT $%d OFFSET $%d`,
		roleColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, role)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// ListMenuIDs returns the ids of non-deleted menus attached to a role.
func (r *Repository) ListMenuIDs(ctx context.Context, roleID int64) ([]int64, error) {
	return r.collectIDs(ctx, `SELECT m.id FROM menus m
JOIN role_menus rm ON rm.menu_id = m.id
WHERE rm.role_id = $1 AND m.is_deleted = FALSE ORDER BY m.id`, roleID)
}

// ListUserIDs returns the ids of non-deleted users attached to a role.
func (r *Repository) ListUserIDs(ctx context.Context, roleID int64) ([]int64, error) {
	return r.collectIDs(ctx, `SELECT u.id FROM users u
JOIN user_roles ur ON ur.user_id = u.id
WHERE ur.role_id = $1 AND u.is_deleted = FALSE ORDER BY u.id`, roleID)
}

// ReplaceMenus rewrites the full role-menu association set in one transaction.
func (r *Repository) ReplaceMenus(ctx context.Context, roleID int64, menuIDs []int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM role_menus WHERE role_id = $1`, roleID); err != nil {
			return err
		}
		if len(menuIDs) == 0 {
			return nil
		}
		_, err := tx.Exec(ctx, `INSERT INTO role_menus (role_id, menu_id)
SELECT $1, id FROM menus WHERE id = ANY($2) AND is_deleted = FALSE
ON CONFLICT DO NOTHING`, roleID, menuIDs)
		return err
	})
}

// ReplaceUsers rewrites the full role-user association set in one transaction.
func (r *Repository) ReplaceUsers(ctx context.Context, roleID int64, userIDs []int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE role_id = $1`, roleID); err != nil {
			return err
		}
		if len(userIDs) == 0 {
			return nil
		}
		_, err := tx.Exec(ctx, `INSERT INTO user_roles (user_id, role_id)
SELECT id, $1 FROM users WHERE id = ANY($2) AND is_deleted = FALSE
ON CONFLICT DO NOTHING`, roleID, userIDs)
		return err
	})
}

func (r *Repository) collectIDs(ctx context.Context, query string, arg any) ([]int64, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrConflict
	}
	return err
}
