package rbac

import (
	"context"

	"github.com/meridian-admin/meridian-admin/internal/menus"
)

// RoleGrant is a role as seen by the resolver: its activation flag and the
// menus attached to it. Deleted menus never reach a grant.
type RoleGrant struct {
	ID       int64
	IsActive bool
	Menus    []menus.Menu
}

// UserGrants is the resolver's read model of a user: flags plus the full role
// set with menus eagerly attached.
type UserGrants struct {
	ID          int64
	IsActive    bool
	IsSuperuser bool
	Roles       []RoleGrant
}

// Store is the entity store surface the resolver consumes. Implementations
// must exclude logically deleted rows from every result and must not cache
// between calls: assignment changes have to be visible on the next check.
type Store interface {
	// GetUserWithRoles returns the user's grants, or shared.ErrNotFound when
	// the user does not exist or is logically deleted.
	GetUserWithRoles(ctx context.Context, userID int64) (*UserGrants, error)
	// GetMenusByIDs returns active menus for the id set, ordered for display.
	// When onlyVisible is set, hidden permission nodes are excluded.
	GetMenusByIDs(ctx context.Context, ids []int64, onlyVisible bool) ([]menus.Menu, error)
	// GetAllActiveMenus returns every active menu regardless of role links.
	GetAllActiveMenus(ctx context.Context) ([]menus.Menu, error)
}
