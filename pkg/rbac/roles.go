package rbac

// Role is the name of a role stored on a user record.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleSuperRoot Role = "super-root"
)

// Permission scopes checked by HTTP modules.
const (
	PermAccount      = "account.manage"
	PermButtonsRead  = "buttons.read"
	PermButtonsWrite = "buttons.write"
	PermToolsRead    = "tools.read"
	PermToolsHidden  = "tools.hidden"
	PermToolsWrite   = "tools.write"
	PermItemsRead    = "items.read"
	PermItemsWrite   = "items.write"
	PermUsersRead    = "users.read"
	PermUsersWrite   = "users.write"
	PermAuditRead    = "audit.read"
)

// Definition lists the permissions granted to a role directly and the roles it inherits.
type Definition struct {
	Permissions []string
	Inherits    []Role
}

// DefaultRoles returns the role hierarchy used by the application.
func DefaultRoles() map[Role]Definition {
	return map[Role]Definition{
		RoleUser: {
			Permissions: []string{PermAccount, PermButtonsRead, PermToolsRead, PermItemsRead},
		},
		RoleAdmin: {
			Permissions: []string{"buttons.*", "tools.*", "items.*", "users.*"},
			Inherits:    []Role{RoleUser},
		},
		RoleSuperRoot: {
			Permissions: []string{"*"},
			Inherits:    []Role{RoleAdmin},
		},
	}
}

// ParseRole converts s into a known role of the default hierarchy.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleAdmin, RoleSuperRoot:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) String() string { return string(r) }
