package menus

import "time"

// MenuType distinguishes navigable menus from permission-only button nodes.
type MenuType string

const (
	// TypeMenu marks a navigable menu entry.
	TypeMenu MenuType = "menu"
	// TypeButton marks a button-level permission node, usually hidden.
	TypeButton MenuType = "button"
)

// Menu represents a single node of the permission menu forest.
// ParentID 0 marks a root.
type Menu struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Component  string    `json:"component"`
	Icon       string    `json:"icon"`
	OrderNum   int32     `json:"order_num"`
	ParentID   int64     `json:"parent_id"`
	MenuType   MenuType  `json:"menu_type"`
	Permission string    `json:"permission"`
	IsVisible  bool      `json:"is_visible"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Node is a menu with its resolved children.
type Node struct {
	Menu
	Children []*Node `json:"children"`
}

// CreateMenuInput carries fields for menu creation.
type CreateMenuInput struct {
	Name       string   `json:"name" validate:"required,max=50"`
	Path       string   `json:"path" validate:"max=255"`
	Component  string   `json:"component" validate:"max=255"`
	Icon       string   `json:"icon" validate:"max=100"`
	OrderNum   int32    `json:"order_num"`
	ParentID   int64    `json:"parent_id"`
	MenuType   MenuType `json:"menu_type" validate:"omitempty,oneof=menu button"`
	Permission string   `json:"permission" validate:"max=100"`
	IsVisible  *bool    `json:"is_visible"`
	IsActive   *bool    `json:"is_active"`
}

// UpdateMenuInput is a patch: only non-nil fields are applied.
type UpdateMenuInput struct {
	Name       *string   `json:"name" validate:"omitempty,max=50"`
	Path       *string   `json:"path" validate:"omitempty,max=255"`
	Component  *string   `json:"component" validate:"omitempty,max=255"`
	Icon       *string   `json:"icon" validate:"omitempty,max=100"`
	OrderNum   *int32    `json:"order_num"`
	ParentID   *int64    `json:"parent_id"`
	MenuType   *MenuType `json:"menu_type" validate:"omitempty,oneof=menu button"`
	Permission *string   `json:"permission" validate:"omitempty,max=100"`
	IsVisible  *bool     `json:"is_visible"`
	IsActive   *bool     `json:"is_active"`
}
