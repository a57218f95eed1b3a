// Package rbac maps roles to permission scopes.
//
// Three roles exist: user, admin and super-root. Each role inherits every
// permission of the role below it, so a check for "buttons.write" passes for
// both admin and super-root. Permissions are dot-separated scopes and a
// trailing "*" grants a whole namespace ("tools.*") or everything ("*").
//
//	auth := rbac.Default()
//	if err := auth.Can(rbac.RoleAdmin, rbac.PermButtonsWrite); err != nil {
//		// rbac.ErrInsufficientPermissions
//	}
//
// Custom role sets can be built with New; inheritance cycles are rejected.
package rbac
