package users

import "time"

// User represents an administrable account.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	HashedPassword string    `json:"-"`
	RealName       string    `json:"real_name"`
	Avatar         string    `json:"avatar"`
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"is_superuser"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Roles          []RoleRef `json:"roles,omitempty"`
}

// RoleRef is a compact view of a role assigned to a user.
type RoleRef struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	IsActive bool   `json:"is_active"`
}

// CreateUserInput carries fields for user creation.
type CreateUserInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Phone    string `json:"phone" validate:"max=20"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	RealName string `json:"real_name" validate:"max=50"`
	Avatar   string `json:"avatar" validate:"max=255"`
	IsActive *bool  `json:"is_active"`
}

// UpdateUserInput is a patch: only non-nil fields are applied.
type UpdateUserInput struct {
	Username    *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email       *string `json:"email" validate:"omitempty,email,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,max=20"`
	RealName    *string `json:"real_name" validate:"omitempty,max=50"`
	Avatar      *string `json:"avatar" validate:"omitempty,max=255"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
}

// ChangePasswordInput carries a password rotation request.
type ChangePasswordInput struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}
