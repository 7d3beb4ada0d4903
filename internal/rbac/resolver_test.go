package rbac

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-admin/meridian-admin/internal/menus"
	"github.com/meridian-admin/meridian-admin/internal/shared"
)

type mockStore struct {
	users map[int64]*UserGrants
	all   []menus.Menu
}

func (m *mockStore) GetUserWithRoles(_ context.Context, userID int64) (*UserGrants, error) {
	user, ok := m.users[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (m *mockStore) GetMenusByIDs(_ context.Context, ids []int64, onlyVisible bool) ([]menus.Menu, error) {
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := []menus.Menu{}
	for _, menu := range m.all {
		if _, ok := want[menu.ID]; !ok {
			continue
		}
		if !menu.IsActive {
			continue
		}
		if onlyVisible && !menu.IsVisible {
			continue
		}
		out = append(out, menu)
	}
	return out, nil
}

func (m *mockStore) GetAllActiveMenus(_ context.Context) ([]menus.Menu, error) {
	out := []menus.Menu{}
	for _, menu := range m.all {
		if menu.IsActive {
			out = append(out, menu)
		}
	}
	return out, nil
}

func activeMenu(id int64, perm string) menus.Menu {
	return menus.Menu{ID: id, IsActive: true, IsVisible: true, Permission: perm}
}

func TestResolveUserMenusUnknownUserYieldsEmptyForest(t *testing.T) {
	svc := NewService(&mockStore{users: map[int64]*UserGrants{}})

	forest, err := svc.ResolveUserMenus(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, forest)
	assert.Empty(t, forest)
}

func TestResolveUserMenusUnionsAcrossRoles(t *testing.T) {
	m1 := activeMenu(1, "a")
	m2 := activeMenu(2, "b")
	store := &mockStore{
		users: map[int64]*UserGrants{
			1: {ID: 1, IsActive: true, Roles: []RoleGrant{
				{ID: 10, IsActive: true, Menus: []menus.Menu{m1, m2}},
				{ID: 11, IsActive: true, Menus: []menus.Menu{m2}},
			}},
		},
		all: []menus.Menu{m1, m2},
	}
	svc := NewService(store)

	forest, err := svc.ResolveUserMenus(context.Background(), 1)
	require.NoError(t, err)
	// Menu 2 granted twice still appears once.
	require.Len(t, forest, 2)
}

func TestResolveUserMenusSkipsInactiveRoles(t *testing.T) {
	m1 := activeMenu(1, "a")
	store := &mockStore{
		users: map[int64]*UserGrants{
			1: {ID: 1, IsActive: true, Roles: []RoleGrant{
				{ID: 10, IsActive: false, Menus: []menus.Menu{m1}},
			}},
		},
		all: []menus.Menu{m1},
	}
	svc := NewService(store)

	forest, err := svc.ResolveUserMenus(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, forest)
}

func TestResolveUserMenusFiltersHiddenFromDisplay(t *testing.T) {
	visible := activeMenu(1, "a")
	hidden := activeMenu(2, "b")
	hidden.IsVisible = false
	store := &mockStore{
		users: map[int64]*UserGrants{
			1: {ID: 1, IsActive: true, Roles: []RoleGrant{
				{ID: 10, IsActive: true, Menus: []menus.Menu{visible, hidden}},
			}},
		},
		all: []menus.Menu{visible, hidden},
	}
	svc := NewService(store)

	forest, err := svc.ResolveUserMenus(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, int64(1), forest[0].ID)
}

func TestResolveUserMenusSuperuserGetsAllActive(t *testing.T) {
	hidden := activeMenu(2, "b")
	hidden.IsVisible = false
	disabled := activeMenu(3, "c")
	disabled.IsActive = false
	store := &mockStore{
		users: map[int64]*UserGrants{
			1: {ID: 1, IsActive: true, IsSuperuser: true},
		},
		all: []menus.Menu{activeMenu(1, "a"), hidden, disabled},
	}
	svc := NewService(store)

	forest, err := svc.ResolveUserMenus(context.Background(), 1)
	require.NoError(t, err)
	// Superusers see hidden nodes but never disabled ones.
	require.Len(t, forest, 2)
}

func TestHasPermissionIgnoresVisibility(t *testing.T) {
	hidden := activeMenu(2, "b")
	hidden.IsVisible = false
	store := &mockStore{
		users: map[int64]*UserGrants{
			1: {ID: 1, IsActive: true, Roles: []RoleGrant{
				{ID: 10, IsActive: true, Menus: []menus.Menu{hidden}},
			}},
		},
		all: []menus.Menu{hidden},
	}
	svc := NewService(store)

	ok, err := svc.HasPermission(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasPermissionInactiveUserDenied(t *testing.T) {
	m1 := activeMenu(1, "a")
	store := &mockStore{
		users: map[int64]*UserGrants{
			1: {ID: 1, IsActive: false, Roles: []RoleGrant{
				{ID: 10, IsActive: true, Menus: []menus.Menu{m1}},
			}},
		},
		all: []menus.Menu{m1},
	}
	svc := NewService(store)

	ok, err := svc.HasPermission(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasPermissionSuperuserBypass(t *testing.T) {
	store := &mockStore{
		users: map[int64]*UserGrants{
			1: {ID: 1, IsActive: true, IsSuperuser: true},
		},
	}
	svc := NewService(store)

	ok, err := svc.HasPermission(context.Background(), 1, 999)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasPermissionUnknownUser(t *testing.T) {
	svc := NewService(&mockStore{users: map[int64]*UserGrants{}})

	ok, err := svc.HasPermission(context.Background(), 5, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEffectivePermissionsDedupedAndSorted(t *testing.T) {
	mA := activeMenu(1, "System:User:List")
	mB := activeMenu(2, "system:user:list")
	mC := activeMenu(3, "system:role:list")
	store := &mockStore{
		users: map[int64]*UserGrants{
			1: {ID: 1, IsActive: true, Roles: []RoleGrant{
				{ID: 10, IsActive: true, Menus: []menus.Menu{mA, mC}},
				{ID: 11, IsActive: true, Menus: []menus.Menu{mB}},
			}},
		},
		all: []menus.Menu{mA, mB, mC},
	}
	svc := NewService(store)

	perms, err := svc.EffectivePermissions(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"system:role:list", "system:user:list"}, perms)
}

func TestEffectivePermissionsInactiveUserEmpty(t *testing.T) {
	store := &mockStore{
		users: map[int64]*UserGrants{
			1: {ID: 1, IsActive: false, IsSuperuser: true},
		},
		all: []menus.Menu{activeMenu(1, "a")},
	}
	svc := NewService(store)

	perms, err := svc.EffectivePermissions(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, perms)
}
