package account_test

import (
	"context"
	"sync"

	"github.com/dmitrymomot/opsdesk/pkg/password"
	"github.com/dmitrymomot/opsdesk/pkg/rbac"
	"github.com/dmitrymomot/opsdesk/svc/account"
)

// memoryStorage mirrors the unique indexes of the Mongo storage.
type memoryStorage struct {
	mu    sync.Mutex
	users map[string]*account.User
	order []string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{users: make(map[string]*account.User)}
}

func clone(u *account.User) *account.User {
	c := *u
	if u.Password != nil {
		cred := *u.Password
		c.Password = &cred
	}
	return &c
}

func (m *memoryStorage) CreateUser(_ context.Context, user *account.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username.SearchHash == user.Username.SearchHash {
			return account.ErrUsernameTaken
		}
		if user.Role == rbac.RoleSuperRoot && u.Role == rbac.RoleSuperRoot {
			return account.ErrSuperRootExists
		}
	}

	id := user.ID.Hex()
	m.users[id] = clone(user)
	m.order = append(m.order, id)
	return nil
}

func (m *memoryStorage) GetUserByID(_ context.Context, id string) (*account.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, account.ErrUserNotFound
	}
	return clone(u), nil
}

func (m *memoryStorage) GetUserByUsernameHash(_ context.Context, hash string) (*account.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username.SearchHash == hash {
			return clone(u), nil
		}
	}
	return nil, account.ErrUserNotFound
}

func (m *memoryStorage) ListUsers(_ context.Context) ([]*account.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]*account.User, 0, len(m.users))
	for _, id := range m.order {
		if u, ok := m.users[id]; ok {
			users = append(users, clone(u))
		}
	}
	return users, nil
}

func (m *memoryStorage) CountByRole(_ context.Context, role rbac.Role) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (m *memoryStorage) UpdatePassword(_ context.Context, id string, cred password.Credential) error {
	return m.mutate(id, func(u *account.User) error {
		u.Password = &cred
		return nil
	})
}

func (m *memoryStorage) SetPasswordIfUnset(_ context.Context, id string, cred password.Credential) error {
	return m.mutate(id, func(u *account.User) error {
		if u.HasPassword() {
			return account.ErrPasswordAlreadySet
		}
		u.Password = &cred
		return nil
	})
}

func (m *memoryStorage) UpdateTOTP(_ context.Context, id string, totp account.TOTP) error {
	return m.mutate(id, func(u *account.User) error {
		u.TOTP = totp
		return nil
	})
}

func (m *memoryStorage) UpdateRole(_ context.Context, id string, role rbac.Role) error {
	m.mu.Lock()
	if role == rbac.RoleSuperRoot {
		for otherID, u := range m.users {
			if otherID != id && u.Role == rbac.RoleSuperRoot {
				m.mu.Unlock()
				return account.ErrSuperRootExists
			}
		}
	}
	m.mu.Unlock()

	return m.mutate(id, func(u *account.User) error {
		u.Role = role
		return nil
	})
}

func (m *memoryStorage) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return account.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memoryStorage) mutate(id string, fn func(u *account.User) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return account.ErrUserNotFound
	}
	return fn(u)
}
