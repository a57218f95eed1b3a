package account

import (
	"context"

	"github.com/dmitrymomot/opsdesk/svc/account"
)

// Accounts is the part of *account.Service used by the HTTP layer.
type Accounts interface {
	Signup(ctx context.Context, username, password string) (*account.Profile, error)
	Login(ctx context.Context, username, password, code string) (*account.LoginResult, error)
	SetPassword(ctx context.Context, username, password string) error
	ChangePassword(ctx context.Context, userID, current, next string) error

	SetupTOTP(ctx context.Context, userID string) (*account.TOTPSetup, error)
	EnableTOTP(ctx context.Context, userID, code string) error
	DisableTOTP(ctx context.Context, userID string) error

	Status(ctx context.Context, userID string) (*account.Profile, error)
	RoleOf(ctx context.Context, username string) (*account.Profile, error)
	ListUsers(ctx context.Context) ([]*account.Profile, error)
	GetUser(ctx context.Context, id string) (*account.Profile, error)
	CreateUser(ctx context.Context, username, role, password string) (*account.Profile, error)
	UpdateRole(ctx context.Context, id, role string) (*account.Profile, error)
	DeleteUser(ctx context.Context, id string) error
}
