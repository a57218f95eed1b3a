package rbac

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// MaxInheritanceDepth limits how deep role inheritance chains may go.
const MaxInheritanceDepth = 10

// Authorizer answers permission questions for a fixed set of roles.
// It is immutable after construction and safe for concurrent use.
type Authorizer struct {
	permissions map[Role][]string
	ancestors   map[Role][]Role
}

// New precomputes the effective permissions of every role.
func New(roles map[Role]Definition) (*Authorizer, error) {
	a := &Authorizer{
		permissions: make(map[Role][]string, len(roles)),
		ancestors:   make(map[Role][]Role, len(roles)),
	}

	for name := range roles {
		var perms []string
		var inherited []Role
		if err := collect(name, roles, nil, &perms, &inherited); err != nil {
			return nil, err
		}
		slices.Sort(perms)
		a.permissions[name] = slices.Compact(perms)
		a.ancestors[name] = inherited
	}

	return a, nil
}

var (
	defaultOnce       sync.Once
	defaultAuthorizer *Authorizer
)

// Default returns the authorizer for DefaultRoles.
func Default() *Authorizer {
	defaultOnce.Do(func() {
		a, err := New(DefaultRoles())
		if err != nil {
			panic(fmt.Sprintf("rbac: default roles: %v", err))
		}
		defaultAuthorizer = a
	})
	return defaultAuthorizer
}

func collect(name Role, roles map[Role]Definition, path []Role, perms *[]string, inherited *[]Role) error {
	if slices.Contains(path, name) {
		return fmt.Errorf("%w: %s -> %s", ErrCircularInheritance, path[len(path)-1], name)
	}
	if len(path) > MaxInheritanceDepth {
		return fmt.Errorf("%w: depth exceeds %d", ErrCircularInheritance, MaxInheritanceDepth)
	}

	def, ok := roles[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidRole, name)
	}

	*perms = append(*perms, def.Permissions...)
	for _, parent := range def.Inherits {
		if !slices.Contains(*inherited, parent) {
			*inherited = append(*inherited, parent)
		}
		if err := collect(parent, roles, append(slices.Clone(path), name), perms, inherited); err != nil {
			return err
		}
	}
	return nil
}

// Can returns nil if role holds permission directly or through inheritance.
func (a *Authorizer) Can(role Role, permission string) error {
	perms, ok := a.permissions[role]
	if !ok {
		return ErrInvalidRole
	}
	if !slices.ContainsFunc(perms, func(p string) bool { return matches(permission, p) }) {
		return ErrInsufficientPermissions
	}
	return nil
}

// CanAny returns nil if role holds at least one of permissions.
func (a *Authorizer) CanAny(role Role, permissions ...string) error {
	if len(permissions) == 0 {
		return nil
	}
	for _, p := range permissions {
		err := a.Can(role, p)
		if err == nil || errors.Is(err, ErrInvalidRole) {
			return err
		}
	}
	return ErrInsufficientPermissions
}

// AtLeast reports whether role is min or inherits from it.
func (a *Authorizer) AtLeast(role, min Role) bool {
	if _, ok := a.permissions[role]; !ok {
		return false
	}
	return role == min || slices.Contains(a.ancestors[role], min)
}

// Verify returns ErrInvalidRole for roles the authorizer does not know.
func (a *Authorizer) Verify(role Role) error {
	if _, ok := a.permissions[role]; !ok {
		return ErrInvalidRole
	}
	return nil
}

// matches reports whether scope is granted by pattern.
// "*" matches anything, "admin.*" matches any scope under "admin.".
func matches(scope, pattern string) bool {
	if scope == pattern || pattern == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, ".*"); ok {
		return strings.HasPrefix(scope, prefix+".")
	}
	return false
}
