package menus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-admin/meridian-admin/internal/shared"
)

type mockRepository struct {
	menus  map[int64]Menu
	nextID int64
	err    error
}

func newMockRepository() *mockRepository {
	return &mockRepository{menus: make(map[int64]Menu), nextID: 1}
}

func (m *mockRepository) Create(_ context.Context, menu Menu) (Menu, error) {
	if m.err != nil {
		return Menu{}, m.err
	}
	menu.ID = m.nextID
	m.nextID++
	m.menus[menu.ID] = menu
	return menu, nil
}

func (m *mockRepository) GetByID(_ context.Context, id int64) (*Menu, error) {
	if m.err != nil {
		return nil, m.err
	}
	menu, ok := m.menus[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &menu, nil
}

func (m *mockRepository) FindByName(_ context.Context, name string, excludeID int64) (*Menu, error) {
	for _, menu := range m.menus {
		if menu.Name == name && menu.ID != excludeID {
			return &menu, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockRepository) FindByPath(_ context.Context, path string, excludeID int64) (*Menu, error) {
	for _, menu := range m.menus {
		if menu.Path == path && menu.Path != "" && menu.ID != excludeID {
			return &menu, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockRepository) Update(_ context.Context, menu Menu) (Menu, error) {
	if m.err != nil {
		return Menu{}, m.err
	}
	m.menus[menu.ID] = menu
	return menu, nil
}

func (m *mockRepository) SoftDelete(_ context.Context, id int64) error {
	delete(m.menus, id)
	return nil
}

func (m *mockRepository) CountChildren(_ context.Context, parentID int64) (int, error) {
	count := 0
	for _, menu := range m.menus {
		if menu.ParentID == parentID {
			count++
		}
	}
	return count, nil
}

func (m *mockRepository) List(_ context.Context, _ string, limit, offset int) ([]Menu, int, error) {
	items := make([]Menu, 0, len(m.menus))
	for _, menu := range m.menus {
		items = append(items, menu)
	}
	return items, len(items), nil
}

func (m *mockRepository) ListActive(_ context.Context) ([]Menu, error) {
	items := make([]Menu, 0, len(m.menus))
	for _, menu := range m.menus {
		if menu.IsActive {
			items = append(items, menu)
		}
	}
	return items, nil
}

func (m *mockRepository) ListByIDs(_ context.Context, ids []int64, onlyVisible bool) ([]Menu, error) {
	items := make([]Menu, 0, len(ids))
	for _, id := range ids {
		menu, ok := m.menus[id]
		if !ok || !menu.IsActive {
			continue
		}
		if onlyVisible && !menu.IsVisible {
			continue
		}
		items = append(items, menu)
	}
	return items, nil
}

func TestCreateMenuDefaults(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	menu, err := svc.CreateMenu(context.Background(), CreateMenuInput{Name: "Dashboard"})
	require.NoError(t, err)
	assert.Equal(t, TypeMenu, menu.MenuType)
	assert.True(t, menu.IsVisible)
	assert.True(t, menu.IsActive)
}

func TestCreateMenuRejectsMissingParent(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.CreateMenu(context.Background(), CreateMenuInput{Name: "Child", ParentID: 42})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateMenuRejectsDuplicateName(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.CreateMenu(context.Background(), CreateMenuInput{Name: "System"})
	require.NoError(t, err)
	_, err = svc.CreateMenu(context.Background(), CreateMenuInput{Name: "System"})
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestUpdateMenuRejectsSelfParent(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	menu, err := svc.CreateMenu(context.Background(), CreateMenuInput{Name: "System"})
	require.NoError(t, err)

	self := menu.ID
	_, err = svc.UpdateMenu(context.Background(), menu.ID, UpdateMenuInput{ParentID: &self})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateMenuAppliesPatchOnly(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	menu, err := svc.CreateMenu(context.Background(), CreateMenuInput{Name: "System", Icon: "gear"})
	require.NoError(t, err)

	name := "Platform"
	updated, err := svc.UpdateMenu(context.Background(), menu.ID, UpdateMenuInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Platform", updated.Name)
	assert.Equal(t, "gear", updated.Icon)
}

func TestDeleteMenuRefusesWhenChildrenExist(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	parent, err := svc.CreateMenu(context.Background(), CreateMenuInput{Name: "System"})
	require.NoError(t, err)
	_, err = svc.CreateMenu(context.Background(), CreateMenuInput{Name: "Users", ParentID: parent.ID})
	require.NoError(t, err)

	err = svc.DeleteMenu(context.Background(), parent.ID)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDeleteMenuUnknownID(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	err := svc.DeleteMenu(context.Background(), 99)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMenuTreeBuildsForest(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	parent, err := svc.CreateMenu(context.Background(), CreateMenuInput{Name: "System"})
	require.NoError(t, err)
	_, err = svc.CreateMenu(context.Background(), CreateMenuInput{Name: "Users", ParentID: parent.ID})
	require.NoError(t, err)

	forest, err := svc.MenuTree(context.Background())
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Len(t, forest[0].Children, 1)
}
