package roles

import "time"

// Role represents a permission grouping linking users to menus.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	MenuIDs     []int64   `json:"menu_ids,omitempty"`
	UserIDs     []int64   `json:"user_ids,omitempty"`
}

// CreateRoleInput carries fields for role creation.
type CreateRoleInput struct {
	Name        string `json:"name" validate:"required,max=50"`
	Code        string `json:"code" validate:"required,max=50"`
	Description string `json:"description" validate:"max=255"`
	IsActive    *bool  `json:"is_active"`
}

// UpdateRoleInput is a patch: only non-nil fields are applied.
type UpdateRoleInput struct {
	Name        *string `json:"name" validate:"omitempty,max=50"`
	Code        *string `json:"code" validate:"omitempty,max=50"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	IsActive    *bool   `json:"is_active"`
}
