package account

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/opsdesk/pkg/logger"
	"github.com/dmitrymomot/opsdesk/pkg/password"
	"github.com/dmitrymomot/opsdesk/pkg/rbac"
	"github.com/dmitrymomot/opsdesk/pkg/validator"
)

// Signup creates a user with the user role.
func (s *Service) Signup(ctx context.Context, username, pass string) (*Profile, error) {
	username = normalizeUsername(username)
	rules := append(validateUsername(username), validatePassword("password", pass)...)
	if err := validator.Apply(rules...); err != nil {
		return nil, err
	}

	user, err := s.newUser(username, pass, rbac.RoleUser)
	if err != nil {
		return nil, err
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user signed up", logger.UserID(user.ID.Hex()), logger.Event("signup"))
	return s.profile(ctx, user), nil
}

// newUser builds a user document. An empty password leaves it unset.
func (s *Service) newUser(username, pass string, role rbac.Role) (*User, error) {
	field, err := s.cipher.Seal(username)
	if err != nil {
		return nil, fmt.Errorf("seal username: %w", err)
	}

	now := s.now().UTC()
	user := &User{
		ID:        bson.NewObjectID(),
		Username:  field,
		Role:      role,
		TOTP:      TOTP{Status: TOTPUnset},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if pass != "" {
		cred, err := password.New(pass)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = &cred
	}
	return user, nil
}

// Login checks the password and, when enabled, the TOTP code. Accounts without
// a password yield RequiresPassword instead of an error.
func (s *Service) Login(ctx context.Context, username, pass, code string) (*LoginResult, error) {
	username = normalizeUsername(username)
	if err := validator.Apply(validator.RequiredString("username", username)); err != nil {
		return nil, err
	}

	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if !user.HasPassword() {
		return &LoginResult{RequiresPassword: true}, nil
	}

	if !user.Password.Matches(pass) {
		s.log.WarnContext(ctx, "login failed", logger.UserID(user.ID.Hex()), logger.Event("login_failed"))
		return nil, ErrInvalidCredentials
	}

	if user.TOTPEnabled() {
		if strings.TrimSpace(code) == "" {
			return nil, ErrTOTPRequired
		}
		if err := s.checkCode(ctx, user, code); err != nil {
			s.log.WarnContext(ctx, "login totp rejected", logger.UserID(user.ID.Hex()), logger.Event("login_failed"))
			return nil, err
		}
	}

	s.log.InfoContext(ctx, "user logged in", logger.UserID(user.ID.Hex()), logger.Event("login"))
	return &LoginResult{User: s.profile(ctx, user)}, nil
}

// SetPassword sets the first password of an account created without one.
func (s *Service) SetPassword(ctx context.Context, username, pass string) error {
	username = normalizeUsername(username)
	rules := append([]validator.Rule{validator.RequiredString("username", username)}, validatePassword("password", pass)...)
	if err := validator.Apply(rules...); err != nil {
		return err
	}

	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user.HasPassword() {
		return ErrPasswordAlreadySet
	}

	cred, err := password.New(pass)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.storage.SetPasswordIfUnset(ctx, user.ID.Hex(), cred); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "password set", logger.UserID(user.ID.Hex()), logger.Event("password_set"))
	return nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	if err := validator.Apply(validatePassword("newPassword", next)...); err != nil {
		return err
	}

	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasPassword() {
		return ErrPasswordNotSet
	}
	if !user.Password.Matches(current) {
		return ErrInvalidCredentials
	}

	cred, err := password.New(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.storage.UpdatePassword(ctx, userID, cred); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "password changed", logger.UserID(userID), logger.Event("password_changed"))
	return nil
}
