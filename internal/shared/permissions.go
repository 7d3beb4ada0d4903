package shared

// Core platform permissions. Menu records carry these keys in their
// permission column; the resolver unions them per user.
const (
	PermUsersView = "system:user:list"
	PermUsersEdit = "system:user:edit"

	PermRolesView = "system:role:list"
	PermRolesEdit = "system:role:edit"

	PermMenusView = "system:menu:list"
	PermMenusEdit = "system:menu:edit"
)

// CoreScopes lists all permissions related to the core platform.
func CoreScopes() []string {
	return []string{
		PermUsersView,
		PermUsersEdit,
		PermRolesView,
		PermRolesEdit,
		PermMenusView,
		PermMenusEdit,
	}
}
