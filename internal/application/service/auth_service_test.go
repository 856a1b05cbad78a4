package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/canteen-api/internal/application/service"
	"github.com/sangkips/canteen-api/internal/domain/entity"
	"github.com/sangkips/canteen-api/internal/domain/enum"
	"github.com/sangkips/canteen-api/internal/infrastructure/repository"
	"github.com/sangkips/canteen-api/pkg/apperror"
	"github.com/sangkips/canteen-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T, env *testEnv) (*service.AuthService, *utils.JWTManager) {
	t.Helper()
	jwtManager := utils.NewJWTManager("test-secret", "canteen-api", time.Hour, 24*time.Hour)
	return service.NewAuthService(repository.NewUserRepository(env.db), jwtManager), jwtManager
}

func seedStaff(t *testing.T, env *testEnv, username, password string, role enum.Role, active bool) *entity.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	u := &entity.User{Username: username, FullName: username, Password: hash, Role: role, IsActive: true}
	require.NoError(t, env.db.Create(u).Error)
	if !active {
		require.NoError(t, env.db.Model(u).Update("is_active", false).Error)
	}
	return u
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	auth, jwtManager := newAuthService(t, env)
	ctx := context.Background()

	staff := seedStaff(t, env, "maya", "s3cret-pass", enum.RoleManager, true)
	seedStaff(t, env, "former", "s3cret-pass", enum.RoleCashier, false)

	out, err := auth.Login(ctx, &service.LoginInput{Username: "maya", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, staff.ID, out.User.ID)

	claims, err := jwtManager.ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, claims.UserID)
	assert.Equal(t, string(enum.RoleManager), claims.Role)

	_, err = auth.Login(ctx, &service.LoginInput{Username: "maya", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = auth.Login(ctx, &service.LoginInput{Username: "nobody", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = auth.Login(ctx, &service.LoginInput{Username: "former", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, apperror.ErrInactiveAccount)
}

func TestRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	auth, _ := newAuthService(t, env)
	ctx := context.Background()

	staff := seedStaff(t, env, "maya", "s3cret-pass", enum.RoleCashier, true)
	out, err := auth.Login(ctx, &service.LoginInput{Username: "maya", Password: "s3cret-pass"})
	require.NoError(t, err)

	refreshed, err := auth.RefreshToken(ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = auth.RefreshToken(ctx, "garbage")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)

	other := utils.NewJWTManager("other-secret", "canteen-api", time.Hour, time.Hour)
	forged, err := other.GenerateRefreshToken(staff.ID)
	require.NoError(t, err)
	_, err = auth.RefreshToken(ctx, forged)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)

	me, err := auth.GetCurrentUser(ctx, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, "maya", me.Username)
}
