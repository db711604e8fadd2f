package service_test

import (
	"testing"

	"pos-service/internal/models"
	"pos-service/internal/permissions"
	"pos-service/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreate_WithExplicitPermissions(t *testing.T) {
	f := newFixture(t, service.AuthOptions{})

	u, err := f.users.Create(f.adminCtx(), service.CreateUserInput{
		Username:    "stock",
		Password:    "secret123",
		Role:        models.RoleUser,
		Permissions: []string{permissions.ProductsEdit, permissions.ProductsEdit, "made.up"},
	})
	require.NoError(t, err)

	got, err := f.users.GetPermissions(asUser(u), service.UserIDInput{UserID: u.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{permissions.ProductsEdit}, got.Permissions)

	_, err = f.users.Create(f.adminCtx(), service.CreateUserInput{Username: "stock", Password: "secret123"})
	assert.ErrorIs(t, err, service.ErrUsernameTaken)

	list, err := f.users.GetAll(f.adminCtx())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUserUpdatePermissions_ReplacesSet(t *testing.T) {
	f := newFixture(t, service.AuthOptions{})
	u := f.newUser(t, "clerk")

	_, err := f.users.UpdatePermissions(f.adminCtx(), service.UpdateUserPermissionsInput{
		UserID:      u.ID,
		Permissions: []string{permissions.OrdersView, permissions.OrdersCreate},
	})
	require.NoError(t, err)

	// прогреваем кэш прав: после замены он должен сброситься
	has, err := f.perms.HasPermission(f.adminCtx(), u.ID, permissions.OrdersCreate)
	require.NoError(t, err)
	require.True(t, has)

	res, err := f.users.UpdatePermissions(f.adminCtx(), service.UpdateUserPermissionsInput{
		UserID:      u.ID,
		Permissions: []string{permissions.SpentsCreate},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{permissions.SpentsCreate}, res.Permissions)

	has, err = f.perms.HasPermission(f.adminCtx(), u.ID, permissions.OrdersCreate)
	require.NoError(t, err)
	assert.False(t, has)

	res, err = f.users.UpdatePermissions(f.adminCtx(), service.UpdateUserPermissionsInput{UserID: u.ID})
	require.NoError(t, err)
	assert.Empty(t, res.Permissions)

	_, err = f.users.UpdatePermissions(f.adminCtx(), service.UpdateUserPermissionsInput{UserID: 9999})
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUserGetPermissions_SelfOrAdmin(t *testing.T) {
	f := newFixture(t, service.AuthOptions{})
	alice := f.newUser(t, "alice")
	bob := f.newUser(t, "bob")

	_, err := f.users.GetPermissions(asUser(alice), service.UserIDInput{UserID: alice.ID})
	assert.NoError(t, err)

	_, err = f.users.GetPermissions(asUser(alice), service.UserIDInput{UserID: bob.ID})
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = f.users.GetPermissions(f.adminCtx(), service.UserIDInput{UserID: bob.ID})
	assert.NoError(t, err)
}

func TestPermissionService_GetAll(t *testing.T) {
	f := newFixture(t, service.AuthOptions{})

	all, err := f.perms.GetAll(f.adminCtx())
	require.NoError(t, err)
	assert.Len(t, all, len(permissions.Catalog()))

	// роль admin не подменяет выданные права
	has, err := f.perms.HasPermission(f.adminCtx(), f.admin.ID, permissions.UsersDelete)
	require.NoError(t, err)
	assert.False(t, has)
}
