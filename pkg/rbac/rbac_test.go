package rbac_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/opsdesk/pkg/rbac"
)

func TestDefaultHierarchy(t *testing.T) {
	t.Parallel()
	auth := rbac.Default()

	tests := []struct {
		role       rbac.Role
		permission string
		allowed    bool
	}{
		{rbac.RoleUser, rbac.PermButtonsRead, true},
		{rbac.RoleUser, rbac.PermButtonsWrite, false},
		{rbac.RoleUser, rbac.PermToolsRead, true},
		{rbac.RoleUser, rbac.PermToolsHidden, false},
		{rbac.RoleUser, rbac.PermUsersRead, false},
		{rbac.RoleUser, rbac.PermAccount, true},
		{rbac.RoleAdmin, rbac.PermButtonsWrite, true},
		{rbac.RoleAdmin, rbac.PermToolsHidden, true},
		{rbac.RoleAdmin, rbac.PermUsersWrite, true},
		{rbac.RoleAdmin, rbac.PermAccount, true},
		{rbac.RoleAdmin, "system.shutdown", false},
		{rbac.RoleAdmin, rbac.PermAuditRead, false},
		{rbac.RoleSuperRoot, rbac.PermAuditRead, true},
		{rbac.RoleSuperRoot, rbac.PermUsersWrite, true},
		{rbac.RoleSuperRoot, "system.shutdown", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+tt.permission, func(t *testing.T) {
			t.Parallel()
			err := auth.Can(tt.role, tt.permission)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, rbac.ErrInsufficientPermissions)
			}
		})
	}
}

func TestUnknownRole(t *testing.T) {
	t.Parallel()
	auth := rbac.Default()

	assert.ErrorIs(t, auth.Can("guest", rbac.PermButtonsRead), rbac.ErrInvalidRole)
	assert.ErrorIs(t, auth.CanAny("guest", rbac.PermButtonsRead), rbac.ErrInvalidRole)
	assert.ErrorIs(t, auth.Verify("guest"), rbac.ErrInvalidRole)
	assert.False(t, auth.AtLeast("guest", rbac.RoleUser))
}

func TestCanAny(t *testing.T) {
	t.Parallel()
	auth := rbac.Default()

	assert.NoError(t, auth.CanAny(rbac.RoleUser, rbac.PermUsersRead, rbac.PermButtonsRead))
	assert.ErrorIs(t, auth.CanAny(rbac.RoleUser, rbac.PermUsersRead, rbac.PermUsersWrite), rbac.ErrInsufficientPermissions)
	assert.NoError(t, auth.CanAny(rbac.RoleUser))
}

func TestAtLeast(t *testing.T) {
	t.Parallel()
	auth := rbac.Default()

	assert.True(t, auth.AtLeast(rbac.RoleSuperRoot, rbac.RoleAdmin))
	assert.True(t, auth.AtLeast(rbac.RoleSuperRoot, rbac.RoleUser))
	assert.True(t, auth.AtLeast(rbac.RoleAdmin, rbac.RoleAdmin))
	assert.False(t, auth.AtLeast(rbac.RoleUser, rbac.RoleAdmin))
	assert.False(t, auth.AtLeast(rbac.RoleAdmin, rbac.RoleSuperRoot))
}

func TestParseRole(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"user", "admin", "super-root"} {
		r, err := rbac.ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, s, r.String())
	}

	_, err := rbac.ParseRole("Admin")
	assert.ErrorIs(t, err, rbac.ErrInvalidRole)
	_, err = rbac.ParseRole("")
	assert.ErrorIs(t, err, rbac.ErrInvalidRole)
}

func TestNewRejectsBadHierarchies(t *testing.T) {
	t.Parallel()

	t.Run("cycle", func(t *testing.T) {
		t.Parallel()
		_, err := rbac.New(map[rbac.Role]rbac.Definition{
			"a": {Inherits: []rbac.Role{"b"}},
			"b": {Inherits: []rbac.Role{"a"}},
		})
		assert.ErrorIs(t, err, rbac.ErrCircularInheritance)
	})

	t.Run("unknown parent", func(t *testing.T) {
		t.Parallel()
		_, err := rbac.New(map[rbac.Role]rbac.Definition{
			"a": {Inherits: []rbac.Role{"missing"}},
		})
		assert.ErrorIs(t, err, rbac.ErrInvalidRole)
	})

	t.Run("diamond is fine", func(t *testing.T) {
		t.Parallel()
		auth, err := rbac.New(map[rbac.Role]rbac.Definition{
			"base":  {Permissions: []string{"read"}},
			"left":  {Inherits: []rbac.Role{"base"}},
			"right": {Inherits: []rbac.Role{"base"}},
			"top":   {Inherits: []rbac.Role{"left", "right"}},
		})
		require.NoError(t, err)
		assert.NoError(t, auth.Can("top", "read"))
		assert.True(t, auth.AtLeast("top", "base"))
	})
}

func TestContext(t *testing.T) {
	t.Parallel()
	auth := rbac.Default()

	_, ok := rbac.RoleFromContext(context.Background())
	assert.False(t, ok)
	assert.ErrorIs(t, auth.CanFromContext(context.Background(), rbac.PermButtonsRead), rbac.ErrRoleNotInContext)

	ctx := rbac.WithRole(context.Background(), rbac.RoleAdmin)
	role, ok := rbac.RoleFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, rbac.RoleAdmin, role)
	assert.NoError(t, auth.CanFromContext(ctx, rbac.PermButtonsWrite))
}

func TestConcurrentChecks(t *testing.T) {
	t.Parallel()
	auth := rbac.Default()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := range 200 {
				if (id+j)%2 == 0 {
					assert.NoError(t, auth.Can(rbac.RoleAdmin, rbac.PermToolsWrite))
				} else {
					assert.Error(t, auth.Can(rbac.RoleUser, rbac.PermToolsWrite))
				}
			}
		}(i)
	}
	wg.Wait()
}
