package menus

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// RepositoryPort defines data access methods for menus.
type RepositoryPort interface {
	Create(ctx context.Context, m Menu) (Menu, error)
	GetByID(ctx context.Context, id int64) (*Menu, error)
	FindByName(ctx context.Context, name string, excludeID int64) (*Menu, error)
	FindByPath(ctx context.Context, path string, excludeID int64) (*Menu, error)
	Update(ctx context.Context, m Menu) (Menu, error)
	SoftDelete(ctx context.Context, id int64) error
	CountChildren(ctx context.Context, parentID int64) (int, error)
	List(ctx context.Context, search string, limit, offset int) ([]Menu, int, error)
	ListActive(ctx context.Context) ([]Menu, error)
	ListByIDs(ctx context.Context, ids []int64, onlyVisible bool) ([]Menu, error)
}

// Service handles menu business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateMenu validates and inserts a new menu.
func (s *Service) CreateMenu(ctx context.Context, in CreateMenuInput) (Menu, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return Menu{}, fmt.Errorf("%w: menu name required", shared.ErrValidation)
	}
	if in.ParentID != 0 {
		if _, err := s.repo.GetByID(ctx, in.ParentID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return Menu{}, fmt.Errorf("%w: parent menu does not exist", shared.ErrValidation)
			}
			return Menu{}, err
		}
	}
	if err := s.checkDuplicates(ctx, in.Name, in.Path, 0); err != nil {
		return Menu{}, err
	}

	menu := Menu{
		Name:       in.Name,
		Path:       strings.TrimSpace(in.Path),
		Component:  strings.TrimSpace(in.Component),
		Icon:       strings.TrimSpace(in.Icon),
		OrderNum:   in.OrderNum,
		ParentID:   in.ParentID,
		MenuType:   in.MenuType,
		Permission: strings.TrimSpace(in.Permission),
		IsVisible:  true,
		IsActive:   true,
	}
	if menu.MenuType == "" {
		menu.MenuType = TypeMenu
	}
	if in.IsVisible != nil {
		menu.IsVisible = *in.IsVisible
	}
	if in.IsActive != nil {
		menu.IsActive = *in.IsActive
	}
	return s.repo.Create(ctx, menu)
}

// GetMenu fetches a menu by id.
func (s *Service) GetMenu(ctx context.Context, id int64) (*Menu, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateMenu applies a partial update. Only fields present in the patch are
// written; everything else keeps its stored value.
func (s *Service) UpdateMenu(ctx context.Context, id int64, in UpdateMenuInput) (Menu, error) {
	menu, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Menu{}, err
	}

	if in.ParentID != nil {
		if *in.ParentID == id {
			return Menu{}, fmt.Errorf("%w: menu cannot be its own parent", shared.ErrValidation)
		}
		if *in.ParentID != 0 {
			if _, err := s.repo.GetByID(ctx, *in.ParentID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return Menu{}, fmt.Errorf("%w: parent menu does not exist", shared.ErrValidation)
				}
				return Menu{}, err
			}
		}
		menu.ParentID = *in.ParentID
	}

	name := menu.Name
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	path := menu.Path
	if in.Path != nil {
		path = strings.TrimSpace(*in.Path)
	}
	if err := s.checkDuplicates(ctx, name, path, id); err != nil {
		return Menu{}, err
	}
	menu.Name = name
	menu.Path = path

	if in.Component != nil {
		menu.Component = strings.TrimSpace(*in.Component)
	}
	if in.Icon != nil {
		menu.Icon = strings.TrimSpace(*in.Icon)
	}
	if in.OrderNum != nil {
		menu.OrderNum = *in.OrderNum
	}
	if in.MenuType != nil {
		menu.MenuType = *in.MenuType
	}
	if in.Permission != nil {
		menu.Permission = strings.TrimSpace(*in.Permission)
	}
	if in.IsVisible != nil {
		menu.IsVisible = *in.IsVisible
	}
	if in.IsActive != nil {
		menu.IsActive = *in.IsActive
	}

	return s.repo.Update(ctx, *menu)
}

// DeleteMenu soft-deletes a menu. Menus with live children are refused.
func (s *Service) DeleteMenu(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	children, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("%w: menu has children", shared.ErrValidation)
	}
	return s.repo.SoftDelete(ctx, id)
}

// ListMenus returns a page of menus plus pagination metadata.
func (s *Service) ListMenus(ctx context.Context, page, perPage int, search string) ([]Menu, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	items, total, err := s.repo.List(ctx, search, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(p.Page, p.PerPage, total), nil
}

// MenuTree returns the forest of all active menus.
func (s *Service) MenuTree(ctx context.Context) ([]*Node, error) {
	items, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(items), nil
}

func (s *Service) checkDuplicates(ctx context.Context, name, path string, excludeID int64) error {
	if name != "" {
		if _, err := s.repo.FindByName(ctx, name, excludeID); err == nil {
			return fmt.Errorf("%w: menu name already exists", shared.ErrConflict)
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
	}
	if path != "" {
		if _, err := s.repo.FindByPath(ctx, path, excludeID); err == nil {
			return fmt.Errorf("%w: menu path already exists", shared.ErrConflict)
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
	}
	return nil
}
