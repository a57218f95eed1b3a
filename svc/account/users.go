package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/opsdesk/pkg/logger"
	"github.com/dmitrymomot/opsdesk/pkg/password"
	"github.com/dmitrymomot/opsdesk/pkg/rbac"
	"github.com/dmitrymomot/opsdesk/pkg/session"
	"github.com/dmitrymomot/opsdesk/pkg/validator"
)

// Status returns the profile of the signed-in user.
func (s *Service) Status(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, user), nil
}

// RoleOf looks a user up by username.
func (s *Service) RoleOf(ctx context.Context, username string) (*Profile, error) {
	username = normalizeUsername(username)
	if err := validator.Apply(validator.RequiredString("username", username)); err != nil {
		return nil, err
	}

	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, user), nil
}

func (s *Service) ListUsers(ctx context.Context) ([]*Profile, error) {
	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]*Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, s.profile(ctx, u))
	}
	return profiles, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*Profile, error) {
	return s.Status(ctx, id)
}

// CreateUser adds a user with the given role. An empty password leaves the
// account waiting for SetPassword.
func (s *Service) CreateUser(ctx context.Context, username, role, pass string) (*Profile, error) {
	username = normalizeUsername(username)
	rules := validateUsername(username)
	if pass != "" {
		rules = append(rules, validatePassword("password", pass)...)
	}
	if err := validator.Apply(rules...); err != nil {
		return nil, err
	}

	r, err := parseRole(role)
	if err != nil {
		return nil, err
	}
	if r == rbac.RoleSuperRoot {
		if err := s.ensureNoSuperRoot(ctx); err != nil {
			return nil, err
		}
	}

	user, err := s.newUser(username, pass, r)
	if err != nil {
		return nil, err
	}
	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user created",
		logger.UserID(user.ID.Hex()),
		logger.Role(r),
		logger.Event("user_created"),
	)
	return s.profile(ctx, user), nil
}

// UpdateRole changes a user's role. The super-root keeps its role.
func (s *Service) UpdateRole(ctx context.Context, id, role string) (*Profile, error) {
	r, err := parseRole(role)
	if err != nil {
		return nil, err
	}

	user, err := s.storage.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == r {
		return s.profile(ctx, user), nil
	}
	if user.Role == rbac.RoleSuperRoot {
		return nil, ErrSuperRootProtected
	}
	if r == rbac.RoleSuperRoot {
		if err := s.ensureNoSuperRoot(ctx); err != nil {
			return nil, err
		}
	}

	if err := s.storage.UpdateRole(ctx, id, r); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user role changed",
		logger.UserID(id),
		logger.Role(r),
		logger.Event("role_changed"),
	)
	user.Role = r
	return s.profile(ctx, user), nil
}

// DeleteUser removes a user. The super-root cannot be deleted.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	user, err := s.storage.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == rbac.RoleSuperRoot {
		return ErrSuperRootProtected
	}

	if err := s.storage.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "user deleted", logger.UserID(id), logger.Event("user_deleted"))
	return nil
}

// EnsureSuperRoot makes sure a super-root exists. When none does, the named
// user is promoted, or created with the given password. It does nothing once
// a super-root exists.
func (s *Service) EnsureSuperRoot(ctx context.Context, username, pass string) error {
	n, err := s.storage.CountByRole(ctx, rbac.RoleSuperRoot)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	username = normalizeUsername(username)
	rules := append(validateUsername(username), validatePassword("password", pass)...)
	if err := validator.Apply(rules...); err != nil {
		return err
	}

	existing, err := s.findByUsername(ctx, username)
	switch {
	case errors.Is(err, ErrUserNotFound):
		user, err := s.newUser(username, pass, rbac.RoleSuperRoot)
		if err != nil {
			return err
		}
		if err := s.storage.CreateUser(ctx, user); err != nil {
			return err
		}
		s.log.InfoContext(ctx, "super-root created", logger.UserID(user.ID.Hex()), logger.Event("super_root_bootstrap"))
		return nil
	case err != nil:
		return err
	}

	id := existing.ID.Hex()
	if err := s.storage.UpdateRole(ctx, id, rbac.RoleSuperRoot); err != nil {
		return err
	}
	if !existing.HasPassword() {
		cred, err := password.New(pass)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		if err := s.storage.SetPasswordIfUnset(ctx, id, cred); err != nil && !errors.Is(err, ErrPasswordAlreadySet) {
			return err
		}
	}

	s.log.InfoContext(ctx, "user promoted to super-root", logger.UserID(id), logger.Event("super_root_bootstrap"))
	return nil
}

// ResolveIdentity implements session.UserResolver.
func (s *Service) ResolveIdentity(ctx context.Context, userID string) (session.Identity, error) {
	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return session.Identity{}, errors.Join(session.ErrUserNotFound, err)
		}
		return session.Identity{}, err
	}

	p := s.profile(ctx, user)
	return session.Identity{UserID: p.ID, Username: p.Username, Role: p.Role}, nil
}

func (s *Service) ensureNoSuperRoot(ctx context.Context) error {
	n, err := s.storage.CountByRole(ctx, rbac.RoleSuperRoot)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrSuperRootExists
	}
	return nil
}

func parseRole(role string) (rbac.Role, error) {
	if err := validator.Apply(validator.RequiredString("role", role)); err != nil {
		return "", err
	}
	r, err := rbac.ParseRole(role)
	if err != nil {
		return "", errors.Join(ErrInvalidRole, validator.Fail("role", "must be one of: user, admin, super-root"))
	}
	return r, nil
}
