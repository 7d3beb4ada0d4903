package menus

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-admin/meridian-admin/internal/shared"
)

const menuColumns = `id, name, COALESCE(path, ''), COALESCE(component, ''), COALESCE(icon, ''),
order_num, COALESCE(parent_id, 0), menu_type, COALESCE(permission, ''), is_visible, is_active, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for menus.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanMenu(row pgx.Row) (Menu, error) {
	var m Menu
	err := row.Scan(&m.ID, &m.Name, &m.Path, &m.Component, &m.Icon, &m.OrderNum,
		&m.ParentID, &m.MenuType, &m.Permission, &m.IsVisible, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func collectMenus(rows pgx.Rows) ([]Menu, error) {
	defer rows.Close()
	var result []Menu
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts a new menu row.
func (r *Repository) Create(ctx context.Context, m Menu) (Menu, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO menus
(name, path, component, icon, order_num, parent_id, menu_type, permission, is_visible, is_active, is_deleted, created_at, updated_at)
VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, 0), $7, NULLIF($8, ''), $9, $10, FALSE, NOW(), NOW())
RETURNING `+menuColumns,
		m.Name, m.Path, m.Component, m.Icon, m.OrderNum, m.ParentID, m.MenuType, m.Permission, m.IsVisible, m.IsActive)
	created, err := scanMenu(row)
	if err != nil {
		return Menu{}, mapConstraint(err)
	}
	return created, nil
}

// GetByID fetches a menu by id, excluding logically deleted rows.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Menu, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+menuColumns+` FROM menus WHERE id = $1 AND is_deleted = FALSE`, id)
	m, err := scanMenu(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindByName returns the non-deleted menu carrying the name, ignoring the row
// with excludeID. Used for duplicate checks.
func (r *Repository) FindByName(ctx context.Context, name string, excludeID int64) (*Menu, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+menuColumns+` FROM menus
WHERE name = $1 AND is_deleted = FALSE AND id <> $2 LIMIT 1`, name, excludeID)
	m, err := scanMenu(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindByPath mirrors FindByName for the path column.
func (r *Repository) FindByPath(ctx context.Context, path string, excludeID int64) (*Menu, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+menuColumns+` FROM menus
WHERE path = $1 AND is_deleted = FALSE AND id <> $2 LIMIT 1`, path, excludeID)
	m, err := scanMenu(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Update persists the full menu row.
func (r *Repository) Update(ctx context.Context, m Menu) (Menu, error) {
	row := r.pool.QueryRow(ctx, `UPDATE menus SET
name = $2, path = NULLIF($3, ''), component = NULLIF($4, ''), icon = NULLIF($5, ''),
order_num = $6, parent_id = NULLIF($7, 0), menu_type = $8, permission = NULLIF($9, ''),
is_visible = $10, is_active = $11, updated_at = NOW()
WHERE id = $1 AND is_deleted = FALSE
RETURNING `+menuColumns,
		m.ID, m.Name, m.Path, m.Component, m.Icon, m.OrderNum, m.ParentID, m.MenuType, m.Permission, m.IsVisible, m.IsActive)
	updated, err := scanMenu(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Menu{}, shared.ErrNotFound
		}
		return Menu{}, mapConstraint(err)
	}
	return updated, nil
}

// SoftDelete flags the menu as deleted.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE menus SET is_deleted = TRUE, updated_at = NOW()
WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountChildren returns the number of non-deleted children of a menu.
func (r *Repository) CountChildren(ctx context.Context, parentID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM menus WHERE parent_id = $1 AND is_deleted = FALSE`, parentID).Scan(&count)
	return count, err
}

// List returns a page of menus with an optional ILIKE search across name,
// path, component, and permission.
func (r *Repository) List(ctx context.Context, search string, limit, offset int) ([]Menu, int, error) {
	where := `is_deleted = FALSE`
	args := []any{}
	if search != "" {
		where += ` AND (name ILIKE $1 OR path ILIKE $1 OR component ILIKE $1 OR permission ILIKE $1)`
		args = append(args, "%"+strings.TrimSpace(search)+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM menus WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM menus WHERE %s ORDER BY order_num, id LIMIT $%d OFFSET $%d`,
		menuColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	result, err := collectMenus(rows)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// ListActive returns every active, non-deleted menu ordered by order_num.
func (r *Repository) ListActive(ctx context.Context) ([]Menu, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+menuColumns+` FROM menus
WHERE is_deleted = FALSE AND is_active = TRUE ORDER BY order_num, id`)
	if err != nil {
		return nil, err
	}
	return collectMenus(rows)
}

// ListByIDs fetches active, non-deleted menus for the id set. When
// onlyVisible is true, hidden nodes (button permissions) are excluded.
func (r *Repository) ListByIDs(ctx context.Context, ids []int64, onlyVisible bool) ([]Menu, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + menuColumns + ` FROM menus
WHERE id = ANY($1) AND is_deleted = FALSE AND is_active = TRUE`
	if onlyVisible {
		query += ` AND is_visible = TRUE`
	}
	query += ` ORDER BY order_num, id`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	return collectMenus(rows)
}

// mapConstraint converts unique violations into the domain conflict error.
// Partial unique indexes on (name), (path) WHERE NOT is_deleted back this.
func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrConflict
	}
	return err
}
