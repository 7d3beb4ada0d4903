package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	Create(ctx context.Context, role Role) (Role, error)
	GetByID(ctx context.Context, id int64) (*Role, error)
	FindByName(ctx context.Context, name string, excludeID int64) (*Role, error)
	FindByCode(ctx context.Context, code string, excludeID int64) (*Role, error)
	Update(ctx context.Context, role Role) (Role, error)
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, search string, limit, offset int) ([]Role, int, error)
	ListMenuIDs(ctx context.Context, roleID int64) ([]int64, error)
	ListUserIDs(ctx context.Context, roleID int64) ([]int64, error)
	ReplaceMenus(ctx context.Context, roleID int64, menuIDs []int64) error
	ReplaceUsers(ctx context.Context, roleID int64, userIDs []int64) error
}

// Service handles role business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateRole validates uniqueness and inserts the role.
func (s *Service) CreateRole(ctx context.Context, in CreateRoleInput) (Role, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.TrimSpace(in.Code)

	if err := s.checkDuplicates(ctx, in.Name, in.Code, 0); err != nil {
		return Role{}, err
	}

	role := Role{
		Name:        in.Name,
		Code:        in.Code,
		Description: strings.TrimSpace(in.Description),
		IsActive:    true,
	}
	if in.IsActive != nil {
		role.IsActive = *in.IsActive
	}
	return s.repo.Create(ctx, role)
}

// GetRole fetches a role and attaches its menu and user id sets.
func (s *Service) GetRole(ctx context.Context, id int64) (*Role, error) {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role.MenuIDs, err = s.repo.ListMenuIDs(ctx, id); err != nil {
		return nil, err
	}
	if role.UserIDs, err = s.repo.ListUserIDs(ctx, id); err != nil {
		return nil, err
	}
	return role, nil
}

// UpdateRole applies a partial update.
func (s *Service) UpdateRole(ctx context.Context, id int64, in UpdateRoleInput) (Role, error) {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Role{}, err
	}

	name := role.Name
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	code := role.Code
	if in.Code != nil {
		code = strings.TrimSpace(*in.Code)
	}
	if err := s.checkDuplicates(ctx, name, code, id); err != nil {
		return Role{}, err
	}
	role.Name = name
	role.Code = code

	if in.Description != nil {
		role.Description = strings.TrimSpace(*in.Description)
	}
	if in.IsActive != nil {
		role.IsActive = *in.IsActive
	}

	return s.repo.Update(ctx, *role)
}

// DeleteRole soft-deletes a role.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	return s.repo.SoftDelete(ctx, id)
}

// ListRoles returns a page of roles plus pagination metadata.
func (s *Service) ListRoles(ctx context.Context, page, perPage int, search string) ([]Role, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	items, total, err := s.repo.List(ctx, search, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(p.Page, p.PerPage, total), nil
}

// AssignMenus replaces the role's menu set in full.
func (s *Service) AssignMenus(ctx context.Context, roleID int64, menuIDs []int64) error {
	if _, err := s.repo.GetByID(ctx, roleID); err != nil {
		return err
	}
	return s.repo.ReplaceMenus(ctx, roleID, menuIDs)
}

// AssignUsers replaces the role's user set in full.
func (s *Service) AssignUsers(ctx context.Context, roleID int64, userIDs []int64) error {
	if _, err := s.repo.GetByID(ctx, roleID); err != nil {
		return err
	}
	return s.repo.ReplaceUsers(ctx, roleID, userIDs)
}

func (s *Service) checkDuplicates(ctx context.Context, name, code string, excludeID int64) error {
	if name != "" {
		if _, err := s.repo.FindByName(ctx, name, excludeID); err == nil {
			return fmt.Errorf("%w: role name already exists", shared.ErrConflict)
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
	}
	if code != "" {
		if _, err := s.repo.FindByCode(ctx, code, excludeID); err == nil {
			return fmt.Errorf("%w: role code already exists", shared.ErrConflict)
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
	}
	return nil
}
