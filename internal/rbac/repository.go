package rbac

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-admin/meridian-admin/internal/menus"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// Repository implements Store against PostgreSQL. Every call re-reads current
// state; there is deliberately no cache in front of it.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetUserWithRoles loads the user's flags, roles, and each role's menus.
func (r *Repository) GetUserWithRoles(ctx context.Context, userID int64) (*UserGrants, error) {
	user := UserGrants{ID: userID}
	err := r.pool.QueryRow(ctx, `SELECT is_active, is_superuser FROM users
WHERE id = $1 AND is_deleted = FALSE`, userID).Scan(&user.IsActive, &user.IsSuperuser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	roleRows, err := r.pool.Query(ctx, `SELECT r.id, r.is_active
FROM roles r JOIN user_roles ur ON ur.role_id = r.id
WHERE ur.user_id = $1 AND r.is_deleted = FALSE ORDER BY r.id`, userID)
	if err != nil {
		return nil, err
	}
	defer roleRows.Close()

	for roleRows.Next() {
		var grant RoleGrant
		if err := roleRows.Scan(&grant.ID, &grant.IsActive); err != nil {
			return nil, err
		}
		user.Roles = append(user.Roles, grant)
	}
	if err := roleRows.Err(); err != nil {
		return nil, err
	}
	if len(user.Roles) == 0 {
		return &user, nil
	}

	roleIDs := make([]int64, 0, len(user.Roles))
	for _, grant := range user.Roles {
		roleIDs = append(roleIDs, grant.ID)
	}

	menuRows, err := r.pool.Query(ctx, `SELECT rm.role_id,
m.id, m.name, COALESCE(m.path, ''), COALESCE(m.component, ''), COALESCE(m.icon, ''),
m.order_num, COALESCE(m.parent_id, 0), m.menu_type, COALESCE(m.permission, ''),
m.is_visible, m.is_active, m.created_at, m.updated_at
FROM role_menus rm JOIN menus m ON m.id = rm.menu_id
WHERE rm.role_id = ANY($1) AND m.is_deleted = FALSE ORDER BY m.order_num, m.id`, roleIDs)
	if err != nil {
		return nil, err
	}
	defer menuRows.Close()

	var rows []roleMenuRow
	for menuRows.Next() {
		var row roleMenuRow
		m := &row.Menu
		if err := menuRows.Scan(&row.RoleID, &m.ID, &m.Name, &m.Path, &m.Component, &m.Icon,
			&m.OrderNum, &m.ParentID, &m.MenuType, &m.Permission,
			&m.IsVisible, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := menuRows.Err(); err != nil {
		return nil, err
	}

	attachRoleMenus(user.Roles, rows)
	return &user, nil
}

// roleMenuRow is one scanned row of the role-menu join.
type roleMenuRow struct {
	RoleID int64
	Menu   menus.Menu
}

// attachRoleMenus distributes joined menu rows onto the grants they belong to.
// Grants are addressed by position, never by pointers taken while the slice is
// still growing, so every role keeps its menus regardless of how the slice was
// built. Rows for role ids not present in grants are dropped.
func attachRoleMenus(grants []RoleGrant, rows []roleMenuRow) {
	index := make(map[int64]int, len(grants))
	for i := range grants {
		index[grants[i].ID] = i
	}
	for _, row := range rows {
		if i, ok := index[row.RoleID]; ok {
			grants[i].Menus = append(grants[i].Menus, row.Menu)
		}
	}
}

// GetMenusByIDs delegates to the menus repository query shape.
func (r *Repository) GetMenusByIDs(ctx context.Context, ids []int64, onlyVisible bool) ([]menus.Menu, error) {
	return menus.NewRepository(r.pool).ListByIDs(ctx, ids, onlyVisible)
}

// GetAllActiveMenus returns every active, non-deleted menu.
func (r *Repository) GetAllActiveMenus(ctx context.Context) ([]menus.Menu, error) {
	return menus.NewRepository(r.pool).ListActive(ctx)
}
