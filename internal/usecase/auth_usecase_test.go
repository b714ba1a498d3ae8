package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecofinds/pkg/errors"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.auth.Register(ctx, RegisterInput{
		Email:    " Ana@Example.com ",
		Username: "ana",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", result.User.Email)
	assert.NotEqual(t, "secret123", result.User.PasswordHash)

	claims, err := env.tokens.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)

	login, err := env.auth.Login(ctx, "ana@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, login.User.ID)

	_, err = env.auth.Login(ctx, "ana@example.com", "wrong-password")
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))

	_, err = env.auth.Login(ctx, "nobody@example.com", "secret123")
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.user(t, "ana")

	t.Run("email", func(t *testing.T) {
		_, err := env.auth.Register(ctx, RegisterInput{Email: "ana@example.com", Username: "other", Password: "secret123"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, "CONFLICT"))
		assert.Contains(t, err.Error(), "Email already exists")
	})

	t.Run("username", func(t *testing.T) {
		_, err := env.auth.Register(ctx, RegisterInput{Email: "new@example.com", Username: "ana", Password: "secret123"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, "CONFLICT"))
		assert.Contains(t, err.Error(), "Username already exists")
	})
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.user(t, "ana")
	env.user(t, "bob")

	fullName := "Ana Lima"
	updated, err := env.auth.UpdateProfile(ctx, ana.ID, UpdateProfileInput{FullName: &fullName})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", updated.FullName)
	assert.Equal(t, "ana", updated.Username)

	taken := "bob"
	_, err = env.auth.UpdateProfile(ctx, ana.ID, UpdateProfileInput{Username: &taken})
	assert.True(t, errors.Is(err, "CONFLICT"))

	profile, err := env.auth.GetProfile(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", profile.FullName)
}
