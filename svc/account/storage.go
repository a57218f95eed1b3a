package account

import (
	"context"

	"github.com/dmitrymomot/opsdesk/pkg/password"
	"github.com/dmitrymomot/opsdesk/pkg/rbac"
)

// Storage persists users. Lookups return ErrUserNotFound when nothing matches.
type Storage interface {
	// CreateUser returns ErrUsernameTaken or ErrSuperRootExists on unique violations.
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByUsernameHash(ctx context.Context, hash string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	CountByRole(ctx context.Context, role rbac.Role) (int64, error)

	UpdatePassword(ctx context.Context, id string, cred password.Credential) error
	// SetPasswordIfUnset writes cred only when the user has no password and
	// returns ErrPasswordAlreadySet otherwise.
	SetPasswordIfUnset(ctx context.Context, id string, cred password.Credential) error
	UpdateTOTP(ctx context.Context, id string, totp TOTP) error
	// UpdateRole returns ErrSuperRootExists when promoting a second super-root.
	UpdateRole(ctx context.Context, id string, role rbac.Role) error
	DeleteUser(ctx context.Context, id string) error
}
