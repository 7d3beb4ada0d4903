package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-admin/meridian-admin/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u User) (User, error)
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, search string, limit, offset int) ([]User, int, error)
	ListRoles(ctx context.Context, userID int64) ([]RoleRef, error)
	ReplaceRoles(ctx context.Context, userID int64, roleIDs []int64) error
}

// Service handles user business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateUser validates uniqueness, hashes the password, and inserts the user.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if _, err := s.repo.GetByUsername(ctx, in.Username); err == nil {
		return User{}, fmt.Errorf("%w: username already exists", shared.ErrConflict)
	} else if !errors.Is(err, shared.ErrNotFound) {
		return User{}, err
	}
	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return User{}, fmt.Errorf("%w: email already exists", shared.ErrConflict)
	} else if !errors.Is(err, shared.ErrNotFound) {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		Username:       in.Username,
		Email:          in.Email,
		Phone:          strings.TrimSpace(in.Phone),
		HashedPassword: string(hashed),
		RealName:       strings.TrimSpace(in.RealName),
		Avatar:         strings.TrimSpace(in.Avatar),
		IsActive:       true,
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	return s.repo.Create(ctx, user)
}

// GetUser fetches a user and attaches its roles.
func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	roles, err := s.repo.ListRoles(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return user, nil
}

// UpdateUser applies a partial update.
func (s *Service) UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username != user.Username {
			if existing, err := s.repo.GetByUsername(ctx, username); err == nil && existing.ID != id {
				return User{}, fmt.Errorf("%w: username already exists", shared.ErrConflict)
			} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return User{}, err
			}
		}
		user.Username = username
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != user.Email {
			if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing.ID != id {
				return User{}, fmt.Errorf("%w: email already exists", shared.ErrConflict)
			} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return User{}, err
			}
		}
		user.Email = email
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.RealName != nil {
		user.RealName = strings.TrimSpace(*in.RealName)
	}
	if in.Avatar != nil {
		user.Avatar = strings.TrimSpace(*in.Avatar)
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.IsSuperuser != nil {
		user.IsSuperuser = *in.IsSuperuser
	}

	return s.repo.Update(ctx, *user)
}

// DeleteUser soft-deletes a user.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.SoftDelete(ctx, id)
}

// ChangePassword rotates the password after verifying the old one.
func (s *Service) ChangePassword(ctx context.Context, id int64, in ChangePasswordInput) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(in.OldPassword)); err != nil {
		return fmt.Errorf("%w: old password incorrect", shared.ErrValidation)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.HashedPassword = string(hashed)
	_, err = s.repo.Update(ctx, *user)
	return err
}

// ListUsers returns a page of users plus pagination metadata.
func (s *Service) ListUsers(ctx context.Context, page, perPage int, search string) ([]User, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	items, total, err := s.repo.List(ctx, search, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(p.Page, p.PerPage, total), nil
}

// AssignRoles replaces the user's role set in full.
func (s *Service) AssignRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.repo.ReplaceRoles(ctx, userID, roleIDs)
}
