package rbac

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/meridian-admin/meridian-admin/internal/menus"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// Service resolves which menus and permissions a user can reach through its
// roles. It holds no state beyond the store handle: every resolution re-reads
// the store so assignment changes are visible on the very next check.
type Service struct {
	store Store
}

// NewService constructs a Service backed by the provided store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ResolveUserMenus computes the display forest for a user.
//
// An unknown or deleted user yields an empty forest, not an error. A superuser
// receives the full active-menu forest regardless of role assignments. For
// everyone else the menu id sets of all active roles are unioned (duplicates
// across roles count once), then the display set is refetched with the
// visibility filter applied: active-but-hidden nodes stay usable for
// HasPermission but never appear in the tree.
func (s *Service) ResolveUserMenus(ctx context.Context, userID int64) ([]*menus.Node, error) {
	user, err := s.store.GetUserWithRoles(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return []*menus.Node{}, nil
		}
		return nil, err
	}

	if user.IsSuperuser {
		all, err := s.store.GetAllActiveMenus(ctx)
		if err != nil {
			return nil, err
		}
		return menus.BuildTree(all), nil
	}

	ids := grantedMenuIDs(user)
	if len(ids) == 0 {
		return []*menus.Node{}, nil
	}

	visible, err := s.store.GetMenusByIDs(ctx, ids, true)
	if err != nil {
		return nil, err
	}
	return menus.BuildTree(visible), nil
}

// HasPermission reports whether the user can act on the menu. Unlike the
// display tree this does not filter on visibility, so hidden button nodes
// still authorize. The user must be active; superusers always pass.
func (s *Service) HasPermission(ctx context.Context, userID, menuID int64) (bool, error) {
	user, err := s.store.GetUserWithRoles(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if !user.IsActive {
		return false, nil
	}
	if user.IsSuperuser {
		return true, nil
	}

	for _, role := range user.Roles {
		if !role.IsActive {
			continue
		}
		for _, m := range role.Menus {
			if m.ID == menuID && m.IsActive {
				return true, nil
			}
		}
	}
	return false, nil
}

// EffectivePermissions returns the deduplicated permission keys reachable by
// the user, sorted for determinism. Superusers receive every active key.
func (s *Service) EffectivePermissions(ctx context.Context, userID int64) ([]string, error) {
	user, err := s.store.GetUserWithRoles(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, nil
	}

	seen := make(map[string]struct{})
	collect := func(m menus.Menu) {
		perm := strings.TrimSpace(m.Permission)
		if perm == "" || !m.IsActive {
			return
		}
		seen[strings.ToLower(perm)] = struct{}{}
	}

	if user.IsSuperuser {
		all, err := s.store.GetAllActiveMenus(ctx)
		if err != nil {
			return nil, err
		}
		for _, m := range all {
			collect(m)
		}
	} else {
		for _, role := range user.Roles {
			if !role.IsActive {
				continue
			}
			for _, m := range role.Menus {
				collect(m)
			}
		}
	}

	perms := make([]string, 0, len(seen))
	for p := range seen {
		perms = append(perms, p)
	}
	slices.Sort(perms)
	return perms, nil
}

// grantedMenuIDs unions menu ids across the user's active roles. The union is
// idempotent: a menu granted by several roles counts once.
func grantedMenuIDs(user *UserGrants) []int64 {
	seen := make(map[int64]struct{})
	for _, role := range user.Roles {
		if !role.IsActive {
			continue
		}
		for _, m := range role.Menus {
			if m.IsActive {
				seen[m.ID] = struct{}{}
			}
		}
	}
	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
