package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caffeinepub/sajavathub-com-sub000/pkg/clock"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/db/dbtest"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/enums"
	pkgerrors "github.com/caffeinepub/sajavathub-com-sub000/pkg/errors"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/logger"
	"github.com/caffeinepub/sajavathub-com-sub000/pkg/types"
)

func newTestService(t *testing.T) (Service, *clock.Fixed) {
	t.Helper()
	client := dbtest.Open(t)
	clk := clock.NewFixed(1_000)
	svc, err := NewService(NewRepository(client.DB()), clk, logger.Nop())
	require.NoError(t, err)
	return svc, clk
}

func TestInitializeAccessControlBootstrapsFirstAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	role, err := svc.InitializeAccessControl(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, role)

	role, err = svc.InitializeAccessControl(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleUser, role)

	role, err = svc.InitializeAccessControl(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, role, "repeat calls keep the assigned role")

	isAdmin, err := svc.IsAdmin(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestInitializeAccessControlRequiresPrincipal(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.InitializeAccessControl(context.Background(), "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestGetCallerUserRoleDefaultsToGuest(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	role, err := svc.GetCallerUserRole(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleGuest, role)

	role, err = svc.GetCallerUserRole(ctx, "stranger")
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleGuest, role)
}

func TestAssignUserRoleRequiresAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.InitializeAccessControl(ctx, "admin")
	require.NoError(t, err)
	_, err = svc.InitializeAccessControl(ctx, "carol")
	require.NoError(t, err)

	err = svc.AssignUserRole(ctx, "carol", "dave", enums.UserRoleAdmin)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	err = svc.AssignUserRole(ctx, "admin", "carol", enums.UserRole("root"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	require.NoError(t, svc.AssignUserRole(ctx, "admin", "carol", enums.UserRoleAdmin))
	role, err := svc.GetCallerUserRole(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleAdmin, role)
}

func TestSaveCallerUserProfilePreservesCreatedAt(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.SaveCallerUserProfile(ctx, "erin", SaveProfileInput{
		Name:             " Erin ",
		Email:            "erin@example.com",
		Phone:            "9876543210",
		StylePreferences: []types.StylePreference{types.StyleBoho},
	})
	require.NoError(t, err)
	assert.Equal(t, "Erin", first.Name)

	addr := "12 MG Road, Pune"
	second, err := svc.SaveCallerUserProfile(ctx, "erin", SaveProfileInput{
		Name:    "Erin K",
		Email:   "erin.k@example.com",
		Address: &addr,
	})
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Greater(t, second.UpdatedAt, first.UpdatedAt)

	stored, err := svc.GetCallerUserProfile(ctx, "erin")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Erin K", stored.Name)
	assert.Equal(t, first.CreatedAt, stored.CreatedAt)
	require.NotNil(t, stored.Address)
	assert.Equal(t, addr, *stored.Address)
	assert.Empty(t, stored.StylePreferences)
}

func TestSaveCallerUserProfileValidates(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.SaveCallerUserProfile(context.Background(), "frank", SaveProfileInput{Email: "not-an-email"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "email")
}

func TestGetUserProfileAccess(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.InitializeAccessControl(ctx, "admin")
	require.NoError(t, err)
	_, err = svc.SaveCallerUserProfile(ctx, "gina", SaveProfileInput{Name: "Gina", Email: "gina@example.com"})
	require.NoError(t, err)

	_, err = svc.GetUserProfile(ctx, "harry", "gina")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	own, err := svc.GetUserProfile(ctx, "gina", "gina")
	require.NoError(t, err)
	require.NotNil(t, own)

	viaAdmin, err := svc.GetUserProfile(ctx, "admin", "gina")
	require.NoError(t, err)
	require.NotNil(t, viaAdmin)

	missing, err := svc.GetUserProfile(ctx, "admin", "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
